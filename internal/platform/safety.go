package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveBaseDir determines the directory a store actually uses.
// With forceTemp set, paths outside the system temp directory are re-rooted
// into <tmp>/tablet-dev/<base name>.
func ResolveBaseDir(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	cleanUserPath := filepath.Clean(userPath)
	rel, err := filepath.Rel(os.TempDir(), cleanUserPath)
	if err == nil && filepath.IsAbs(cleanUserPath) && !strings.HasPrefix(rel, "..") {
		return cleanUserPath
	}

	subName := filepath.Base(cleanUserPath)
	if userPath == "" || subName == "." || subName == string(os.PathSeparator) {
		subName = "default"
	}
	return filepath.Join(os.TempDir(), "tablet-dev", subName)
}
