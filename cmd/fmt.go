package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/stock"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	dryRun bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the snapshot into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `stk fmt [-n]

  Loads the snapshot and writes it back in canonical form: item names
  trimmed and sorted, quantities as integers, four-space indentation.
  Entries without a positive integer quantity are dropped, with a warning.

  A snapshot that cannot be loaded at all is left untouched.

Usage Examples:
# Rewrites the snapshot in place.
$ stk fmt

# Prints the canonical snapshot instead.
$ stk fmt -n
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "n", false, "print the formatted snapshot to stdout instead of saving it")
}

func (c *fmtCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	if s.loadErr != nil {
		fmt.Fprintln(os.Stderr, "Error: the snapshot was not formatted.")
		return subcommands.ExitFailure
	}

	if c.dryRun {
		if err := stock.EncodeLedger(os.Stdout, s.ledger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if err := s.save(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted snapshot: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Formatted snapshot with %d items.\n", s.ledger.Len())
	return subcommands.ExitSuccess
}
