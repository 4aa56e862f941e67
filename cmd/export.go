package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/stock"
	"github.com/google/subcommands"
)

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the stock as a spreadsheet" }
func (*exportCmd) Usage() string {
	return `stk export [-o <file.xlsx>]

  Writes the stock as an Excel spreadsheet: one row per item, then the
  total and, when there is a capacity, the capacity and the remaining room.

Usage Examples:
$ stk export
$ stk export -o inventory.xlsx
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "stock.xlsx", "output file, - for the standard output")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	if c.output == "-" {
		if err := stock.ExportXLSX(os.Stdout, s.ledger, s.cfg.LowThreshold); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting stock: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	out, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	if err := stock.ExportXLSX(out, s.ledger, s.cfg.LowThreshold); err != nil {
		out.Close()
		fmt.Fprintf(os.Stderr, "Error exporting stock: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := out.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Exported %d items to %s\n", s.ledger.Len(), c.output)
	return subcommands.ExitSuccess
}
