package stock

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// snapshotIndent is the indentation of persisted snapshots.
const snapshotIndent = "    "

// DecodeLedger reads a snapshot: a JSON object mapping item names to quantities.
//
// Decoding is lenient about entries: names are trimmed, and each value is
// coerced to a non-negative integer, a value that cannot be coerced counts as
// zero. Entries that end up empty-named or at zero are dropped with a
// warning, names equal after trimming are summed.
//
// It fails with ErrCorruptSnapshot only if the input is not a single JSON
// object. Capacity is not part of a snapshot, the returned ledger is unlimited.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, corrupt("empty snapshot")
		}
		return nil, corrupt("could not decode snapshot: %w", err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, corrupt("snapshot is not a JSON object but %T", raw)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, corrupt("unexpected data after the snapshot object")
	}

	ledger := NewLedger()
	for _, key := range slices.Sorted(maps.Keys(obj)) {
		name := strings.TrimSpace(key)
		if name == "" {
			log.Warn().Str("item", key).Msg("dropping snapshot entry with an empty name")
			continue
		}
		q := coerceQuantity(obj[key])
		if q == 0 {
			log.Warn().Str("item", name).Interface("value", obj[key]).Msg("dropping snapshot entry without a positive integer quantity")
			continue
		}
		if ledger.Has(name) {
			log.Warn().Str("item", name).Msg("merging snapshot entries with the same trimmed name")
		}
		ledger.put(name, q)
	}
	return ledger, nil
}

// EncodeLedger writes the ledger as a snapshot.
//
// Output is deterministic: keys sorted by name, indented with four spaces,
// followed by a newline.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	var obj jsonObjectWriter
	for name, q := range ledger.Items() {
		obj.Append(name, int64(q))
	}
	data, err := obj.MarshalIndent(snapshotIndent)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// MarshalLedger returns the snapshot of ledger.
func MarshalLedger(ledger *Ledger) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalLedger parses a snapshot, see DecodeLedger.
func UnmarshalLedger(data []byte) (*Ledger, error) {
	return DecodeLedger(bytes.NewReader(data))
}
