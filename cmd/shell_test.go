package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/stock"
	"github.com/etnz/stock/config"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestShell returns a shell on a ledger with capacity 100, saved in a
// temporary file, reading input.
func newTestShell(t *testing.T, path string, items map[string]stock.Quantity, input io.Reader) (*shell, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	ledger := stock.NewLedger()
	for name, q := range items {
		_, err := ledger.Add(name, q)
		require.NoError(t, err)
	}
	require.NoError(t, ledger.SetCapacity(100))
	s := &session{
		cfg:    &config.Config{Capacity: 100, LowThreshold: stock.DefaultLowThreshold},
		store:  stock.NewFileStore(path),
		ledger: ledger,
	}
	var out, errOut bytes.Buffer
	return newShell(s, input, &out, &errOut), &out, &errOut
}

func TestShell(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		wantOut   string
		wantErr   string
		wantStock map[string]stock.Quantity
	}{
		{
			name:      "arguments",
			input:     "add Widget 10\nadd Widget 5\nremove Widget 3\nquit\n",
			wantOut:   "Added 10 of 'Widget'.\nAdded 5 of 'Widget'.\nRemoved 3 of 'Widget'. Remaining: 12\n",
			wantStock: map[string]stock.Quantity{"Gadget": 7, "Widget": 12},
		},
		{
			name:      "prompts",
			input:     "add\nBlue paint\n3\nremove\nGadget\n7\n",
			wantOut:   "Added 3 of 'Blue paint'.\nRemoved all of 'Gadget'.\n",
			wantStock: map[string]stock.Quantity{"Blue paint": 3},
		},
		{
			name:      "name with spaces and a quantity",
			input:     "add Blue paint 3\n",
			wantOut:   "Added 3 of 'Blue paint'.\n",
			wantStock: map[string]stock.Quantity{"Gadget": 7, "Blue paint": 3},
		},
		{
			name:      "empty answers cancel",
			input:     "add\n\nadd Widget\n\nremove\n   \nremove Gadget\n\nstatus\n",
			wantOut:   "Total Stock: 7/100 (Remaining: 93)\n",
			wantStock: map[string]stock.Quantity{"Gadget": 7},
		},
		{
			name:      "end of input cancels",
			input:     "add Widget",
			wantStock: map[string]stock.Quantity{"Gadget": 7},
		},
		{
			name:      "errors",
			input:     "remove Ghost 1\nadd Widget 1.5\nadd Widget 0\nadd Crane 95\nfly\n",
			wantErr:   "Item 'Ghost' not found in stock.\nQuantity must be a positive integer.\nQuantity must be a positive integer.\nAdding 95 would exceed capacity (100). Max add: 93.\nUnknown command \"fly\", type \"help\" for the list of commands.\n",
			wantStock: map[string]stock.Quantity{"Gadget": 7},
		},
		{
			name:      "commands after quit are ignored",
			input:     "quit\nadd Widget 1\n",
			wantStock: map[string]stock.Quantity{"Gadget": 7},
		},
		{
			name:      "save",
			input:     "save\n",
			wantOut:   "Stock data saved successfully.\n",
			wantStock: map[string]stock.Quantity{"Gadget": 7},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "stock_data.json")
			sh, out, errOut := newTestShell(t, path, map[string]stock.Quantity{"Gadget": 7}, strings.NewReader(tc.input))

			status := sh.run(context.Background())

			assert.Equal(t, subcommands.ExitSuccess, status)
			assert.Equal(t, tc.wantOut, out.String())
			assert.Equal(t, tc.wantErr, errOut.String())
			assert.Equal(t, tc.wantStock, readStock(t, path))
		})
	}
}

func TestShell_Help(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock_data.json")
	sh, out, _ := newTestShell(t, path, nil, strings.NewReader("help\nlist\n"))

	sh.run(context.Background())
	assert.Contains(t, out.String(), "add [<name> [<quantity>]]")
	assert.Contains(t, out.String(), "No stock items available.")
}

func TestShell_Interactive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock_data.json")
	sh, out, _ := newTestShell(t, path, map[string]stock.Quantity{"Gadget": 7}, strings.NewReader("remove\nGadget\n2\n"))
	sh.interactive = true

	sh.run(context.Background())
	assert.Contains(t, out.String(), "stk> Item name to remove: Quantity to remove (current: 7, 7 to remove all): Removed 2 of 'Gadget'. Remaining: 5")
}

func TestShell_RemoveFromEmptyStock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock_data.json")
	sh, out, errOut := newTestShell(t, path, nil, strings.NewReader("remove\nadd Widget 2\n"))
	sh.interactive = true

	sh.run(context.Background())
	// no prompt for a name: the next line is read as a command.
	assert.Contains(t, out.String(), "stk> No items to remove.\nstk> Added 2 of 'Widget'.")
	assert.NotContains(t, out.String(), "Item name to remove:")
	assert.Empty(t, errOut.String())
	assert.Equal(t, map[string]stock.Quantity{"Widget": 2}, readStock(t, path))
}

func TestShell_Cancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock_data.json")
	in, w := io.Pipe()
	t.Cleanup(func() { w.Close() })
	sh, _, _ := newTestShell(t, path, map[string]stock.Quantity{"Gadget": 7}, in)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// the session ends, and still saves.
	assert.Equal(t, subcommands.ExitSuccess, sh.run(ctx))
	assert.Equal(t, map[string]stock.Quantity{"Gadget": 7}, readStock(t, path))
}

func TestShell_SaveFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "stock_data.json")
	sh, out, errOut := newTestShell(t, path, nil, strings.NewReader("add Widget 1\n"))

	assert.Equal(t, subcommands.ExitFailure, sh.run(context.Background()))
	assert.Equal(t, "Added 1 of 'Widget'.\n", out.String())
	assert.Contains(t, errOut.String(), "Error saving:")
	assert.Contains(t, errOut.String(), "Could not save stock data on exit:")
	assert.Equal(t, stock.Quantity(1), sh.session.ledger.Quantity("Widget"), "the change is kept in memory")
}

func TestSplitArgs(t *testing.T) {
	testCases := []struct {
		args     []string
		name     string
		quantity string
	}{
		{},
		{args: []string{"Widget"}, name: "Widget"},
		{args: []string{"Widget", "3"}, name: "Widget", quantity: "3"},
		{args: []string{"Blue", "paint", "3"}, name: "Blue paint", quantity: "3"},
	}
	for _, tc := range testCases {
		name, quantity := splitArgs(tc.args)
		assert.Equal(t, tc.name, name)
		assert.Equal(t, tc.quantity, quantity)
	}
}
