package renderer

import (
	"strings"
	"testing"

	"github.com/etnz/stock"
)

func TestStatusLine(t *testing.T) {
	testCases := []struct {
		status stock.Status
		want   string
	}{
		{
			status: stock.Status{Total: 950, Capacity: 1000, Remaining: 50, Level: stock.LevelLow},
			want:   "Total Stock: 950/1000 (Remaining: 50)",
		},
		{
			status: stock.Status{Total: 10, Capacity: 1000, Remaining: 990, Level: stock.LevelOK},
			want:   "Total Stock: 10/1000 (Remaining: 990)",
		},
		{
			status: stock.Status{Total: 1200, Capacity: 1000, Remaining: 0, Level: stock.LevelOver},
			want:   "Total Stock: 1200/1000 (Remaining: 0, over capacity)",
		},
		{
			status: stock.Status{Total: 42, Level: stock.LevelUnlimited},
			want:   "Total Stock: 42",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			if got := StatusLine(tc.status); got != tc.want {
				t.Errorf("StatusLine() = %q, want %q", got, tc.want)
			}
			// whatever the terminal supports, the text is kept.
			if got := ColorStatusLine(tc.status); !strings.Contains(got, tc.want) {
				t.Errorf("ColorStatusLine() = %q, want it to contain %q", got, tc.want)
			}
		})
	}
}

func TestStockMarkdown(t *testing.T) {
	l := stock.NewLedger()
	if err := l.SetCapacity(1000); err != nil {
		t.Fatal(err)
	}
	for name, q := range map[string]stock.Quantity{"Widget": 900, "Gadget": 50, "A|B": 1} {
		if _, err := l.Add(name, q); err != nil {
			t.Fatal(err)
		}
	}

	got := StockMarkdown(l, stock.DefaultLowThreshold)

	for _, want := range []string{"# Stock", "Item", "Quantity", "Gadget", "Widget", `A\|B`, "900", "Total Stock: 951/1000 (Remaining: 49)"} {
		if !strings.Contains(got, want) {
			t.Errorf("StockMarkdown() = \n%s\nwant it to contain %q", got, want)
		}
	}
	if strings.Contains(got, EmptyStock) {
		t.Errorf("StockMarkdown() = \n%s\nwant no %q", got, EmptyStock)
	}
	// items are listed by name.
	if a, g, w := strings.Index(got, `A\|B`), strings.Index(got, "Gadget"), strings.Index(got, "Widget"); !(a < g && g < w) {
		t.Errorf("StockMarkdown() = \n%s\nwant items sorted by name", got)
	}
}

func TestStockMarkdown_Empty(t *testing.T) {
	got := StockMarkdown(stock.NewLedger(), stock.DefaultLowThreshold)
	for _, want := range []string{EmptyStock, "Total Stock: 0"} {
		if !strings.Contains(got, want) {
			t.Errorf("StockMarkdown() = \n%s\nwant it to contain %q", got, want)
		}
	}
	if strings.Contains(got, "Quantity") {
		t.Errorf("StockMarkdown() = \n%s\nwant no table", got)
	}
}
