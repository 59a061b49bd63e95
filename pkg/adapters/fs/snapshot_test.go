package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tablet/internal/atomicfs"
	"github.com/aretw0/tablet/pkg/core"
)

func TestRebuildSnapshot(t *testing.T) {
	t.Run("Stale Until Rebuilt", func(t *testing.T) {
		table, _ := setupTable(t)
		ctx := context.Background()

		_, err := table.Insert(ctx, core.NewQuote("first", "Mark Twain"))
		require.NoError(t, err)
		require.NoError(t, table.RebuildSnapshot(ctx))

		_, err = table.Insert(ctx, core.NewQuote("second", "Lao Tzu"))
		require.NoError(t, err)

		snap, err := table.Snapshot(ctx)
		require.NoError(t, err)
		assert.Contains(t, snap, `"author": "Mark Twain"`)
		assert.NotContains(t, snap, `"author": "Lao Tzu"`)

		require.NoError(t, table.RebuildSnapshot(ctx))

		snap, err = table.Snapshot(ctx)
		require.NoError(t, err)
		assert.Contains(t, snap, `"author": "Lao Tzu"`)
	})

	t.Run("Layout", func(t *testing.T) {
		table, _ := setupTable(t)
		ctx := context.Background()

		_, err := table.Insert(ctx, core.NewQuote("one", "a"))
		require.NoError(t, err)
		require.NoError(t, table.RebuildSnapshot(ctx))

		snap, err := table.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, "[\n"+
			"    {\n"+
			"        \"id\": 1,\n"+
			"        \"content\": \"one\",\n"+
			"        \"author\": \"a\"\n"+
			"    }\n"+
			"]", snap)
	})

	t.Run("Empty Table", func(t *testing.T) {
		table, _ := setupTable(t)
		ctx := context.Background()

		require.NoError(t, table.RebuildSnapshot(ctx))

		snap, err := table.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, "[\n\n]", snap)
	})

	t.Run("No Snapshot Yet", func(t *testing.T) {
		table, _ := setupTable(t)

		snap, err := table.Snapshot(context.Background())
		require.NoError(t, err)
		assert.Empty(t, snap)
	})
}

func TestRebuildSnapshotSweepsTempFiles(t *testing.T) {
	table, dir := setupTable(t)
	ctx := context.Background()

	_, err := table.Insert(ctx, core.NewQuote("kept", "me"))
	require.NoError(t, err)

	stale := filepath.Join(dir, atomicfs.TempFilePrefix+"crashed")
	require.NoError(t, os.WriteFile(stale, []byte("{"), 0644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	require.NoError(t, table.RebuildSnapshot(ctx))

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "stale temp file should be swept")

	all, err := table.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
