package stock

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissing(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "stock_data.json"))

	ledger, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, ledger.Len())
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stock_data.json")
	s := NewFileStore(path)

	ledger := newTestLedger(t, 1000, map[string]Quantity{"Widget": 42, "Gadget": 7})
	require.NoError(t, s.Save(ctx, ledger))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"Gadget\": 7,\n    \"Widget\": 42\n}\n", string(data))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), fi.Mode().Perm())

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshotOf(ledger), snapshotOf(loaded))
}

func TestFileStore_SaveKeepsPermissions(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stock_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Widget": 1}`), 0600))

	s := NewFileStore(path)
	ledger, err := s.Load(ctx)
	require.NoError(t, err)
	_, err = ledger.Add("Widget", 2)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, ledger))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fi.Mode().Perm())
	assert.Equal(t, map[string]Quantity{"Widget": 3}, snapshotOf(ledger))
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "stock_data.json")
	s := NewFileStore(path)

	require.NoError(t, s.Save(ctx, newTestLedger(t, 0, map[string]Quantity{"Widget": 42})))
	require.NoError(t, s.Save(ctx, newTestLedger(t, 0, map[string]Quantity{"Bolt": 1})))

	loaded, err := LoadLedger(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]Quantity{"Bolt": 1}, snapshotOf(loaded))

	// no temporary file is left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "stock_data.json", entries[0].Name())
}

func TestFileStore_Corrupt(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stock_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{garbage"), 0644))
	s := NewFileStore(path)

	ledger, err := s.Load(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
	require.NotNil(t, ledger)
	assert.Equal(t, 0, ledger.Len())

	_, err = ledger.Add("Widget", 3)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, ledger))

	backup, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{garbage", string(backup))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]Quantity{"Widget": 3}, snapshotOf(loaded))

	// a healthy file is not backed up again.
	require.NoError(t, os.Remove(path+".corrupt"))
	require.NoError(t, s.Save(ctx, loaded))
	assert.NoFileExists(t, path+".corrupt")
}

func TestFileStore_SaveFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "stock_data.json")
	ledger := newTestLedger(t, 0, map[string]Quantity{"Widget": 1})

	err := SaveLedger(path, ledger)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "create", perr.Op)
	assert.Equal(t, path, perr.Path)
	assert.Equal(t, map[string]Quantity{"Widget": 1}, snapshotOf(ledger))
}
