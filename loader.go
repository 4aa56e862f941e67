package stock

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Store loads and saves ledger snapshots.
type Store interface {
	// Load returns the persisted ledger. A store with nothing persisted yet
	// returns an empty ledger. When the snapshot is unreadable Load returns an
	// empty ledger together with an error matching ErrCorruptSnapshot, so the
	// caller can report it and carry on.
	Load(ctx context.Context) (*Ledger, error)
	// Save persists the ledger. It fails with an error matching ErrPersistence.
	Save(ctx context.Context, ledger *Ledger) error
}

// FileStore keeps the snapshot in a single JSON file.
type FileStore struct {
	Path string

	corrupt bool // the file on disk could not be loaded
}

// NewFileStore returns a store for the snapshot file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the snapshot file. A missing file is an empty ledger.
func (s *FileStore) Load(_ context.Context) (*Ledger, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", s.Path).Msg("snapshot does not exist, starting with an empty ledger")
		s.corrupt = false
		return NewLedger(), nil
	}
	if err != nil {
		s.corrupt = true
		return NewLedger(), corrupt("could not open snapshot %q: %w", s.Path, err)
	}
	defer f.Close()

	ledger, err := DecodeLedger(f)
	if err != nil {
		s.corrupt = true
		return NewLedger(), fmt.Errorf("could not load snapshot %q: %w", s.Path, err)
	}
	s.corrupt = false
	return ledger, nil
}

// Save writes the snapshot atomically: to a temporary file in the same
// directory, then renamed over Path.
//
// If the last Load found the file corrupt, that file is first kept aside as
// Path + ".corrupt". The permissions of an existing file are kept, a new file
// is created 0644.
func (s *FileStore) Save(_ context.Context, ledger *Ledger) error {
	data, err := MarshalLedger(ledger)
	if err != nil {
		return &PersistenceError{Op: "encode", Path: s.Path, Err: err}
	}

	mode := fs.FileMode(0644)
	if fi, err := os.Stat(s.Path); err == nil && fi.Mode().IsRegular() {
		mode = fi.Mode().Perm()
	}

	if fi, err := os.Lstat(s.Path); s.corrupt && err == nil && fi.Mode().IsRegular() {
		backup := s.Path + ".corrupt"
		if err := os.Rename(s.Path, backup); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &PersistenceError{Op: "backup", Path: s.Path, Err: err}
		}
		log.Warn().Str("path", s.Path).Str("backup", backup).Msg("kept the corrupt snapshot aside")
		s.corrupt = false
	}

	dir, base := filepath.Split(s.Path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, base+".*.tmp")
	if err != nil {
		return &PersistenceError{Op: "create", Path: s.Path, Err: err}
	}
	// no-op once renamed
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &PersistenceError{Op: "write", Path: s.Path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &PersistenceError{Op: "sync", Path: s.Path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &PersistenceError{Op: "close", Path: s.Path, Err: err}
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return &PersistenceError{Op: "chmod", Path: s.Path, Err: err}
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return &PersistenceError{Op: "rename", Path: s.Path, Err: err}
	}
	return nil
}

// LoadLedger loads the snapshot file at path, see FileStore.Load.
func LoadLedger(path string) (*Ledger, error) {
	return NewFileStore(path).Load(context.Background())
}

// SaveLedger saves ledger to the snapshot file at path, see FileStore.Save.
func SaveLedger(path string, ledger *Ledger) error {
	return NewFileStore(path).Save(context.Background(), ledger)
}
