package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/stock"
	"github.com/etnz/stock/renderer"
	"github.com/google/subcommands"
)

type statusCmd struct {
	check bool
}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "show the total stock against the capacity" }
func (*statusCmd) Usage() string {
	return `stk status [-check]

  Displays the total stock, the capacity and what remains, e.g.

    Total Stock: 950/1000 (Remaining: 50)

  On a terminal the line is red when over capacity, orange when the remaining
  room is below the low threshold, green otherwise.
`
}

func (c *statusCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.check, "check", false, "exit with a failure status when the stock is low or over capacity")
}

func (c *statusCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	status := s.status()
	if isTerminal(os.Stdout) {
		fmt.Println(renderer.ColorStatusLine(status))
	} else {
		fmt.Println(renderer.StatusLine(status))
	}

	if c.check && (status.Level == stock.LevelLow || status.Level == stock.LevelOver) {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
