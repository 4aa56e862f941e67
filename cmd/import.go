package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/etnz/stock"
	"github.com/google/subcommands"
)

type importCmd struct {
	path string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "add stock items read from a JSON document" }
func (*importCmd) Usage() string {
	return `stk import [-path <jsonpath>] <file>

  Reads item quantities from any JSON document and adds them to the stock,
  as many "stk add" would. <file> is "-" for the standard input.

  -path selects, with a JSONPath expression, the object mapping item names to
  quantities inside the document. By default it is the whole document, so
  that another snapshot can be imported as is.

  Entries that cannot be added, e.g. because of the capacity, are reported
  and the others are still added.

Usage Examples:
$ stk import other_stock.json
$ stk import -path '$.warehouse.stock' export.json
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "path", "$", "JSONPath expression of the object to import")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: import requires a file name, or - for the standard input.")
		return subcommands.ExitUsageError
	}

	var r io.Reader = os.Stdin
	if name := f.Arg(0); name != "-" {
		file, err := os.Open(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", name, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		r = file
	}
	entries, err := stock.ImportJSON(r, c.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading import: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "Error: %q selects no item with a positive quantity.\n", c.path)
		return subcommands.ExitFailure
	}

	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	added, rejected := 0, 0
	for _, name := range slices.Sorted(maps.Keys(entries)) {
		if _, err := s.ledger.Add(name, entries[name]); err != nil {
			fmt.Fprintf(os.Stderr, "Skipping '%s': %s\n", name, describe(err, name))
			rejected++
			continue
		}
		fmt.Println(addMessage(name, entries[name]))
		added++
	}

	if added > 0 {
		if err := s.save(ctx); err != nil {
			fmt.Fprintln(os.Stderr, describe(err, ""))
			return subcommands.ExitFailure
		}
	}
	if rejected > 0 {
		fmt.Fprintf(os.Stderr, "Imported %d of %d items.\n", added, added+rejected)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
