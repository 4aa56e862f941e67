package stock

// DefaultLowThreshold is the remaining capacity below which stock is reported low.
const DefaultLowThreshold Quantity = 100

// Level grades how much room is left in a ledger.
type Level int

const (
	LevelUnlimited Level = iota // no capacity set
	LevelOK                     // at least the low threshold remains
	LevelLow                    // less than the low threshold remains
	LevelOver                   // the total exceeds the capacity
)

func (lv Level) String() string {
	switch lv {
	case LevelUnlimited:
		return "unlimited"
	case LevelOK:
		return "ok"
	case LevelLow:
		return "low"
	case LevelOver:
		return "over"
	default:
		return "unknown"
	}
}

// Status is the state of a ledger against its capacity.
type Status struct {
	Total     Quantity
	Capacity  Quantity // zero when unlimited
	Remaining Quantity // never negative
	Level     Level
}

// Status computes the ledger status. Stock is low when less than low units remain.
func (l *Ledger) Status(low Quantity) Status {
	s := Status{Total: l.Total(), Capacity: l.capacity}
	if s.Capacity == 0 {
		s.Level = LevelUnlimited
		return s
	}
	remaining := s.Capacity - s.Total
	switch {
	case remaining < 0:
		s.Level = LevelOver
	case remaining < low:
		s.Remaining = remaining
		s.Level = LevelLow
	default:
		s.Remaining = remaining
		s.Level = LevelOK
	}
	return s
}
