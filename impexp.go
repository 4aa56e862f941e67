package stock

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx/v3"
)

// this file contains functions to exchange stock with other tools.

// ImportJSON reads stock entries from any JSON document.
//
// path is a JSONPath expression selecting the object that maps item names to
// quantities, "$" or "" being the whole document (i.e. a snapshot). Values
// are coerced the same way as when loading a snapshot. Entries with an empty
// name or no positive quantity are skipped.
func ImportJSON(r io.Reader, path string) (map[string]Quantity, error) {
	if path == "" {
		path = "$"
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot parse import document: %w", err)
	}

	selected, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q: %w", path, err)
	}
	// jsonpath returns a list for wildcard and slice expressions, keep the single answer.
	if list, ok := selected.([]any); ok && len(list) == 1 {
		selected = list[0]
	}
	obj, ok := selected.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%q does not select a JSON object but %T", path, selected)
	}

	entries := make(map[string]Quantity, len(obj))
	for key, value := range obj {
		name := strings.TrimSpace(key)
		q := coerceQuantity(value)
		if name == "" || q == 0 {
			log.Warn().Str("item", key).Interface("value", value).Msg("skipping import entry")
			continue
		}
		entries[name] += q
	}
	return entries, nil
}

// ExportXLSX writes the ledger as a spreadsheet with one row per item,
// followed by the total and, for a ledger with a capacity, the capacity and
// remaining rows.
func ExportXLSX(w io.Writer, ledger *Ledger, low Quantity) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Stock")
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	header := sheet.AddRow()
	for _, title := range []string{"Item", "Quantity"} {
		cell := header.AddCell()
		cell.Value = title
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	addRow := func(label string, q Quantity, bold bool) {
		row := sheet.AddRow()
		name := row.AddCell()
		name.Value = label
		name.GetStyle().Font.Bold = bold
		value := row.AddCell()
		value.SetInt64(int64(q))
	}

	for name, q := range ledger.Items() {
		addRow(name, q, false)
	}

	status := ledger.Status(low)
	addRow("Total", status.Total, true)
	if status.Level != LevelUnlimited {
		addRow("Capacity", status.Capacity, true)
		addRow("Remaining", status.Remaining, true)
	}

	sheet.SetColWidth(1, 1, 30)
	sheet.SetColWidth(2, 2, 12)

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}
