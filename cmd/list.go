package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/stock/renderer"
	"github.com/google/subcommands"
)

type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list stock items and the stock status" }
func (*listCmd) Usage() string {
	return `stk list

  Displays every stock item with its quantity, sorted by name, followed by
  the status line.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	printMarkdown(renderer.StockMarkdown(s.ledger, s.cfg.LowThreshold))
	return subcommands.ExitSuccess
}
