package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindConfig(t *testing.T) {
	// /tmp/
	//   project/ (tablet.yaml)
	//     subdir/
	//       nested/
	//   empty/

	baseDir := t.TempDir()
	projectDir := filepath.Join(baseDir, "project")
	subDir := filepath.Join(projectDir, "subdir")
	nestedDir := filepath.Join(subDir, "nested")
	emptyDir := filepath.Join(baseDir, "empty")

	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(emptyDir, 0755); err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(projectDir, ConfigFileName)
	if err := os.WriteFile(want, []byte("table: quotes\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		startPath string
		wantPath  string
		wantErr   bool
	}{
		{name: "Start at Project", startPath: projectDir, wantPath: want},
		{name: "Start in Subdir", startPath: subDir, wantPath: want},
		{name: "Start Nested Deeply", startPath: nestedDir, wantPath: want},
		{name: "No Config Found", startPath: emptyDir, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindConfig(tt.startPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("FindConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != "" && filepath.Clean(got) != filepath.Clean(tt.wantPath) {
				t.Errorf("FindConfig() = %v, want %v", got, tt.wantPath)
			}
		})
	}
}
