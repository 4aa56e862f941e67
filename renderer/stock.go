// Package renderer renders stock reports as markdown.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/etnz/stock"
	md "github.com/nao1215/markdown"
)

// EmptyStock is displayed in place of the item table when there is no stock.
const EmptyStock = "No stock items available."

// StockMarkdown renders the items of the ledger as a table, followed by the
// status line.
func StockMarkdown(l *stock.Ledger, low stock.Quantity) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Stock")
	if l.Len() == 0 {
		doc.PlainText(EmptyStock)
	} else {
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignRight,
			},
			Header: []string{"Item", "Quantity"},
			Rows:   [][]string{},
		}
		for name, q := range l.Items() {
			table.Rows = append(table.Rows, []string{escapeCell(name), q.String()})
		}
		doc.Table(table)
	}
	doc.LF()
	doc.PlainText(StatusLine(l.Status(low)))

	return doc.String()
}

// StatusLine renders the stock status, for instance
// "Total Stock: 950/1000 (Remaining: 50)".
func StatusLine(s stock.Status) string {
	switch s.Level {
	case stock.LevelUnlimited:
		return fmt.Sprintf("Total Stock: %d", s.Total)
	case stock.LevelOver:
		return fmt.Sprintf("Total Stock: %d/%d (Remaining: %d, over capacity)", s.Total, s.Capacity, s.Remaining)
	default:
		return fmt.Sprintf("Total Stock: %d/%d (Remaining: %d)", s.Total, s.Capacity, s.Remaining)
	}
}

var levelColors = map[stock.Level]lipgloss.Color{
	stock.LevelOver: lipgloss.Color("#FF0000"),
	stock.LevelLow:  lipgloss.Color("#FFA500"),
	stock.LevelOK:   lipgloss.Color("#008000"),
}

// ColorStatusLine is StatusLine colored by level: red over capacity, orange
// when low, green otherwise. Colors are dropped when the output does not
// support them.
func ColorStatusLine(s stock.Status) string {
	line := StatusLine(s)
	color, ok := levelColors[s.Level]
	if !ok {
		return line
	}
	return lipgloss.NewStyle().Foreground(color).Bold(s.Level == stock.LevelOver).Render(line)
}

// escapeCell keeps item names from breaking the table layout.
func escapeCell(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '|':
			buf.WriteString(`\|`)
		case '\n', '\r', '\t':
			buf.WriteByte(' ')
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
