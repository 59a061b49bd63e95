package platform

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tablet/pkg/core"
)

func TestOpen(t *testing.T) {
	t.Run("Writes Under Table Directory", func(t *testing.T) {
		base := t.TempDir()
		svc, err := Open(base, WithTable("sayings"))
		require.NoError(t, err)

		q, err := svc.Write(context.Background(), "Stay hungry", "Steve Jobs")
		require.NoError(t, err)
		assert.Equal(t, int64(1), q.ID)

		_, err = os.Stat(filepath.Join(base, "sayings", "1.json"))
		assert.NoError(t, err)
	})

	t.Run("Injected Repository Wins", func(t *testing.T) {
		table, err := NewTable(t.TempDir())
		require.NoError(t, err)
		repo, err := Init("/does/not/matter", WithRepository(table))
		require.NoError(t, err)
		assert.Same(t, table, repo)
	})

	t.Run("Metrics Registered", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		svc, err := Open(t.TempDir(), WithMetrics(reg))
		require.NoError(t, err)

		_, err = svc.Write(context.Background(), "counted", "me")
		require.NoError(t, err)

		families, err := reg.Gather()
		require.NoError(t, err)
		names := make([]string, 0, len(families))
		for _, f := range families {
			names = append(names, f.GetName())
		}
		assert.Contains(t, names, "tablet_operations_total")
		assert.Contains(t, names, "tablet_records_written_total")
	})

	t.Run("Config Options Applied", func(t *testing.T) {
		cfg := &Config{Table: "cfg", ProcessLock: true, SkipMalformed: true}
		table, err := NewTable(t.TempDir(), cfg.Options()...)
		require.NoError(t, err)

		_, err = table.Insert(context.Background(), core.NewQuote("x", "y"))
		require.NoError(t, err)
		assert.Equal(t, "cfg", filepath.Base(table.Dir))
	})
}

func TestTableNameValidation(t *testing.T) {
	tests := []struct {
		name  string
		table string
		ok    bool
	}{
		{name: "Plain", table: "sayings", ok: true},
		{name: "Hidden", table: ".archive", ok: true},
		{name: "Parent", table: "..", ok: false},
		{name: "Escapes Base", table: "../x", ok: false},
		{name: "Nested", table: "a/b", ok: false},
		{name: "Backslash", table: `a\b`, ok: false},
		{name: "Absolute", table: "/etc", ok: false},
		{name: "Dot", table: ".", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()

			table, err := NewTable(base, WithTable(tt.table))
			_, openErr := Open(base, WithTable(tt.table))
			if tt.ok {
				require.NoError(t, err)
				require.NoError(t, openErr)
				assert.Equal(t, filepath.Join(base, tt.table), table.Dir)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidTableName)
			assert.ErrorIs(t, openErr, ErrInvalidTableName)
			assert.Nil(t, table)
		})
	}

	t.Run("From Config File", func(t *testing.T) {
		cfg := &Config{Table: "../outside"}
		_, err := NewTable(t.TempDir(), cfg.Options()...)
		assert.ErrorIs(t, err, ErrInvalidTableName)
	})
}

func TestResolveBaseDir(t *testing.T) {
	inTemp := filepath.Join(os.TempDir(), "already-safe")

	tests := []struct {
		name      string
		path      string
		forceTemp bool
		want      string
	}{
		{name: "Unchanged", path: "./db", want: "./db"},
		{name: "Empty Means Cwd", path: "", want: "."},
		{name: "Temp Path Trusted", path: inTemp, forceTemp: true, want: inTemp},
		{name: "Re-rooted", path: "./data/db", forceTemp: true, want: filepath.Join(os.TempDir(), "tablet-dev", "db")},
		{name: "Default Name", path: "", forceTemp: true, want: filepath.Join(os.TempDir(), "tablet-dev", "default")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveBaseDir(tt.path, tt.forceTemp))
		})
	}
}
