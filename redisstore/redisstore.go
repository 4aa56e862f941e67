// Package redisstore keeps stock snapshots in Redis.
//
// The snapshot document is the same JSON object as the file store writes,
// stored as a single string value, so a snapshot can move between a file and
// Redis unchanged.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/etnz/stock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultKey is the key holding the snapshot when none is given.
const DefaultKey = "stk:snapshot"

// Store implements stock.Store on a Redis key.
type Store struct {
	client  *redis.Client
	key     string
	corrupt bool // the last Load could not read the key
}

// New returns a store saving under key, DefaultKey if empty.
func New(client *redis.Client, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{client: client, key: key}
}

// Open connects to the Redis server at rawURL, a redis:// or rediss:// URL
// as understood by redis.ParseURL. An extra "key" query parameter selects
// the snapshot key.
func Open(rawURL string) (*Store, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url %q: %w", rawURL, err)
	}
	q := u.Query()
	key := q.Get("key")
	q.Del("key")
	u.RawQuery = q.Encode()

	opts, err := redis.ParseURL(u.String())
	if err != nil {
		return nil, fmt.Errorf("invalid redis url %q: %w", rawURL, err)
	}
	return New(redis.NewClient(opts), key), nil
}

// Key returns the key holding the snapshot.
func (s *Store) Key() string { return s.key }

// BackupKey returns the key a corrupt snapshot is moved to.
func (s *Store) BackupKey() string { return s.key + ":corrupt" }

// Load reads the snapshot, an absent key is an empty ledger.
func (s *Store) Load(ctx context.Context) (*stock.Ledger, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.corrupt = false
		return stock.NewLedger(), nil
	}
	if err != nil {
		s.corrupt = true
		return stock.NewLedger(), fmt.Errorf("%w: could not read %q: %w", stock.ErrCorruptSnapshot, s.key, err)
	}
	ledger, err := stock.UnmarshalLedger(data)
	if err != nil {
		s.corrupt = true
		return stock.NewLedger(), fmt.Errorf("could not load snapshot %q: %w", s.key, err)
	}
	s.corrupt = false
	return ledger, nil
}

// Save writes the snapshot under the store key, without expiration.
//
// If the last Load could not read the key, its value is first moved to
// BackupKey.
func (s *Store) Save(ctx context.Context, ledger *stock.Ledger) error {
	data, err := stock.MarshalLedger(ledger)
	if err != nil {
		return &stock.PersistenceError{Op: "encode", Path: s.key, Err: err}
	}
	if s.corrupt {
		// renaming a missing key fails with "no such key", nothing to keep then.
		if err := s.client.Rename(ctx, s.key, s.BackupKey()).Err(); err != nil && !isNoSuchKey(err) {
			return &stock.PersistenceError{Op: "backup", Path: s.key, Err: err}
		}
		log.Warn().Str("key", s.key).Str("backup", s.BackupKey()).Msg("kept the corrupt snapshot aside")
		s.corrupt = false
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return &stock.PersistenceError{Op: "set", Path: s.key, Err: err}
	}
	return nil
}

func isNoSuchKey(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "no such key")
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
