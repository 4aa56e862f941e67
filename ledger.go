package stock

import (
	"fmt"
	"iter"
	"maps"
	"math"
	"slices"
	"strings"
)

// Ledger is the stock currently held: a quantity per item name.
//
// Names are trimmed, non-empty and case-sensitive. An item whose quantity
// reaches zero is removed, so every entry holds a positive quantity.
// When a capacity is set, the total never exceeds it after an accepted Add.
//
// A Ledger is not safe for concurrent use, it is owned by a single caller.
type Ledger struct {
	items    map[string]Quantity
	capacity Quantity // 0 means unlimited
}

// NewLedger creates an empty ledger with no capacity limit.
func NewLedger() *Ledger {
	return &Ledger{items: make(map[string]Quantity)}
}

// SetCapacity sets the maximum total the ledger accepts on Add. Zero removes the limit.
//
// The current total is not checked: a ledger loaded above its capacity
// stays as is, and reports LevelOver in its Status.
func (l *Ledger) SetCapacity(c Quantity) error {
	if c < 0 {
		return fmt.Errorf("%w: capacity %d", ErrInvalidQuantity, c)
	}
	l.capacity = c
	return nil
}

// Capacity returns the ledger capacity, zero when unlimited.
func (l *Ledger) Capacity() Quantity { return l.capacity }

// Add adds q units of the named item and returns the item's new quantity.
func (l *Ledger) Add(name string, q Quantity) (Quantity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrInvalidName
	}
	if q <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidQuantity, q)
	}

	total := l.Total()
	limit := l.capacity
	if limit == 0 {
		limit = math.MaxInt64
	}
	if q > limit-total {
		return 0, &CapacityError{
			Requested:  q,
			Capacity:   l.capacity,
			Total:      total,
			MaxAddable: max(limit-total, 0),
		}
	}

	l.items[name] += q
	return l.items[name], nil
}

// Removal describes the outcome of a successful Remove.
type Removal struct {
	Name      string
	Removed   Quantity // units actually taken out
	Remaining Quantity // units left, zero when All
	All       bool     // the entry was deleted
}

// Remove takes q units of the named item out of the ledger.
//
// Removing as much or more than the item holds deletes the entry: the
// removal is clamped, it never fails for being too large.
func (l *Ledger) Remove(name string, q Quantity) (Removal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Removal{}, ErrInvalidName
	}
	if q <= 0 {
		return Removal{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, q)
	}
	current, ok := l.items[name]
	if !ok {
		return Removal{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	if q >= current {
		delete(l.items, name)
		return Removal{Name: name, Removed: current, All: true}, nil
	}
	l.items[name] = current - q
	return Removal{Name: name, Removed: q, Remaining: current - q}, nil
}

// RemoveAll deletes the named item whatever its quantity.
func (l *Ledger) RemoveAll(name string) (Removal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Removal{}, ErrInvalidName
	}
	if !l.Has(name) {
		return Removal{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return l.Remove(name, l.items[name])
}

// Quantity returns the quantity held for name, zero if the item is unknown.
func (l *Ledger) Quantity(name string) Quantity {
	return l.items[strings.TrimSpace(name)]
}

// Has reports whether the ledger holds the named item.
func (l *Ledger) Has(name string) bool {
	_, ok := l.items[strings.TrimSpace(name)]
	return ok
}

// Len returns the number of distinct items.
func (l *Ledger) Len() int { return len(l.items) }

// Total returns the sum of all quantities, saturating at the largest Quantity.
func (l *Ledger) Total() (total Quantity) {
	for _, q := range l.items {
		if q > math.MaxInt64-total {
			return math.MaxInt64
		}
		total += q
	}
	return total
}

// Items iterates over the items sorted by name.
//
// The sequence is computed lazily when ranged over, and can be ranged over
// again: each run reflects the ledger at that time.
func (l *Ledger) Items() iter.Seq2[string, Quantity] {
	return func(yield func(string, Quantity) bool) {
		for _, name := range slices.Sorted(maps.Keys(l.items)) {
			if !yield(name, l.items[name]) {
				return
			}
		}
	}
}

// Names iterates over the item names in the same order as Items.
func (l *Ledger) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		for name := range l.Items() {
			if !yield(name) {
				return
			}
		}
	}
}

// put merges a decoded entry, bypassing capacity. Zero is ignored.
func (l *Ledger) put(name string, q Quantity) {
	if q <= 0 {
		return
	}
	if sum := l.items[name] + q; sum > l.items[name] {
		l.items[name] = sum
	} else {
		l.items[name] = math.MaxInt64
	}
}
