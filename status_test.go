package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedger_Status(t *testing.T) {
	testCases := []struct {
		name     string
		capacity Quantity
		items    map[string]Quantity
		want     Status
	}{
		{
			name:  "unlimited",
			items: map[string]Quantity{"A": 5000},
			want:  Status{Total: 5000, Level: LevelUnlimited},
		},
		{
			name:     "empty",
			capacity: 1000,
			want:     Status{Capacity: 1000, Remaining: 1000, Level: LevelOK},
		},
		{
			name:     "exactly the threshold left is ok",
			capacity: 1000,
			items:    map[string]Quantity{"A": 900},
			want:     Status{Total: 900, Capacity: 1000, Remaining: 100, Level: LevelOK},
		},
		{
			name:     "low",
			capacity: 1000,
			items:    map[string]Quantity{"A": 901, "B": 49},
			want:     Status{Total: 950, Capacity: 1000, Remaining: 50, Level: LevelLow},
		},
		{
			name:     "full is low",
			capacity: 1000,
			items:    map[string]Quantity{"A": 1000},
			want:     Status{Total: 1000, Capacity: 1000, Remaining: 0, Level: LevelLow},
		},
		{
			name:     "over capacity clamps remaining",
			capacity: 1000,
			items:    map[string]Quantity{"A": 1200},
			want:     Status{Total: 1200, Capacity: 1000, Remaining: 0, Level: LevelOver},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := newTestLedger(t, tc.capacity, tc.items)
			assert.Equal(t, tc.want, l.Status(DefaultLowThreshold))
		})
	}
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "unlimited", LevelUnlimited.String())
	assert.Equal(t, "ok", LevelOK.String())
	assert.Equal(t, "low", LevelLow.String())
	assert.Equal(t, "over", LevelOver.String())
	assert.Equal(t, "unknown", Level(42).String())
}
