package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/stock"
	"github.com/google/subcommands"
)

type addCmd struct{}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add units of a stock item" }
func (*addCmd) Usage() string {
	return `stk add <name> <quantity>

  Adds <quantity> units of the item <name>, creating the item if needed, and
  saves the stock. The addition is refused if it would take the total stock
  over the capacity.

Usage Examples:
$ stk add Widget 10
$ stk add "Blue paint" 3
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: add requires an item name and a quantity.")
		return subcommands.ExitUsageError
	}
	name := strings.TrimSpace(f.Arg(0))
	q, err := stock.ParseQuantity(f.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, describe(err, name))
		return subcommands.ExitUsageError
	}

	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	if _, err := s.ledger.Add(name, q); err != nil {
		fmt.Fprintln(os.Stderr, describe(err, name))
		return exitStatus(err)
	}
	if err := s.save(ctx); err != nil {
		fmt.Fprintln(os.Stderr, describe(err, name))
		return subcommands.ExitFailure
	}
	fmt.Println(addMessage(name, q))
	return subcommands.ExitSuccess
}
