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

type removeCmd struct {
	all bool
}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove units of a stock item" }
func (*removeCmd) Usage() string {
	return `stk remove <name> <quantity>
stk remove -all <name>

  Removes <quantity> units of the item <name> and saves the stock. Removing
  as many units as held, or more, removes the item altogether.

Usage Examples:
$ stk remove Widget 5
$ stk remove -all Widget
`
}

func (c *removeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "remove all units of the item")
}

func (c *removeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	want := 2
	if c.all {
		want = 1
	}
	if f.NArg() != want {
		if c.all {
			fmt.Fprintln(os.Stderr, "Error: remove -all requires an item name only.")
		} else {
			fmt.Fprintln(os.Stderr, "Error: remove requires an item name and a quantity, or -all and an item name.")
		}
		return subcommands.ExitUsageError
	}
	name := strings.TrimSpace(f.Arg(0))
	var q stock.Quantity
	if !c.all {
		var err error
		if q, err = stock.ParseQuantity(f.Arg(1)); err != nil {
			fmt.Fprintln(os.Stderr, describe(err, name))
			return subcommands.ExitUsageError
		}
	}

	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	var r stock.Removal
	if c.all {
		r, err = s.ledger.RemoveAll(name)
	} else {
		r, err = s.ledger.Remove(name, q)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, describe(err, name))
		return exitStatus(err)
	}
	if err := s.save(ctx); err != nil {
		fmt.Fprintln(os.Stderr, describe(err, name))
		return subcommands.ExitFailure
	}
	fmt.Println(removeMessage(r))
	return subcommands.ExitSuccess
}
