package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/etnz/stock"
	"github.com/etnz/stock/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// shutdownTimeout bounds the save at the end of a session.
const shutdownTimeout = 5 * time.Second

type shellCmd struct{}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "manage the stock interactively" }
func (*shellCmd) Usage() string {
	return `stk shell

  Starts an interactive session on the stock. Type "help" for the list of
  session commands. A missing argument is asked for, and an empty answer
  cancels the operation.

  The stock is saved after every change, and when the session ends.
`
}

func (c *shellCmd) SetFlags(f *flag.FlagSet) {}

func (c *shellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	sh := newShell(s, os.Stdin, os.Stdout, os.Stderr)
	sh.interactive = isTerminal(os.Stdin)
	sh.color = isTerminal(os.Stdout)
	return sh.run(ctx)
}

// shell is an interactive session on a ledger.
//
// Ledger operations all run on the goroutine calling run; a reader goroutine
// only delivers input lines.
type shell struct {
	session     *session
	in          io.Reader
	out         io.Writer
	errOut      io.Writer
	interactive bool // print prompts
	color       bool // render for a terminal

	lines <-chan string
}

func newShell(s *session, in io.Reader, out, errOut io.Writer) *shell {
	return &shell{session: s, in: in, out: out, errOut: errOut}
}

const shellHelp = `Commands:
  add [<name> [<quantity>]]     add units of an item
  remove [<name> [<quantity>]]  remove units of an item, all of them if as many as held
  list                          list items and the status line
  status                        show the status line
  save                          save the stock
  help                          show this help
  quit                          save and leave
`

// run reads and executes commands until quit, the end of the input or the
// cancellation of ctx, then saves the ledger.
func (sh *shell) run(ctx context.Context) subcommands.ExitStatus {
	done := make(chan struct{})
	defer close(done)
	sh.lines = readLines(sh.in, done)

	if sh.interactive {
		fmt.Fprintln(sh.out, `Type "help" for the list of commands.`)
		sh.status()
	}

loop:
	for {
		line, ok := sh.readLine(ctx, "stk> ")
		if !ok {
			if sh.interactive {
				fmt.Fprintln(sh.out)
			}
			break
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch command, args := fields[0], fields[1:]; command {
		case "add":
			sh.add(ctx, args)
		case "remove", "rm":
			sh.remove(ctx, args)
		case "list", "ls":
			fmt.Fprint(sh.out, renderMarkdown(renderer.StockMarkdown(sh.session.ledger, sh.session.cfg.LowThreshold), sh.color))
		case "status":
			sh.status()
		case "save":
			if err := sh.session.save(ctx); err != nil {
				fmt.Fprintln(sh.errOut, describe(err, ""))
				continue
			}
			fmt.Fprintln(sh.out, "Stock data saved successfully.")
		case "help", "?":
			fmt.Fprint(sh.out, shellHelp)
		case "quit", "exit":
			break loop
		default:
			fmt.Fprintf(sh.errOut, "Unknown command %q, type \"help\" for the list of commands.\n", command)
		}
	}
	return sh.shutdown(ctx)
}

// shutdown saves the ledger one last time. A failure is reported, it does
// not prevent the session from ending.
func (sh *shell) shutdown(ctx context.Context) subcommands.ExitStatus {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := sh.session.save(ctx); err != nil {
		fmt.Fprintf(sh.errOut, "Could not save stock data on exit: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Debug().Msg("stock saved on exit")
	return subcommands.ExitSuccess
}

func (sh *shell) add(ctx context.Context, args []string) {
	name, qty := splitArgs(args)
	name, ok := sh.argOrAsk(ctx, name, "Item name: ")
	if !ok {
		return
	}
	qty, ok = sh.argOrAsk(ctx, qty, "Quantity to add: ")
	if !ok {
		return
	}
	q, err := stock.ParseQuantity(qty)
	if err != nil {
		fmt.Fprintln(sh.errOut, describe(err, name))
		return
	}
	if _, err := sh.session.ledger.Add(name, q); err != nil {
		fmt.Fprintln(sh.errOut, describe(err, name))
		return
	}
	fmt.Fprintln(sh.out, addMessage(name, q))
	sh.autosave(ctx)
}

func (sh *shell) remove(ctx context.Context, args []string) {
	ledger := sh.session.ledger
	if ledger.Len() == 0 {
		fmt.Fprintln(sh.out, "No items to remove.")
		return
	}
	name, qty := splitArgs(args)
	name, ok := sh.argOrAsk(ctx, name, "Item name to remove: ")
	if !ok {
		return
	}
	if !ledger.Has(name) {
		fmt.Fprintln(sh.errOut, describe(stock.ErrNotFound, name))
		return
	}
	current := ledger.Quantity(name)
	qty, ok = sh.argOrAsk(ctx, qty, fmt.Sprintf("Quantity to remove (current: %d, %d to remove all): ", current, current))
	if !ok {
		return
	}
	q, err := stock.ParseQuantity(qty)
	if err != nil {
		fmt.Fprintln(sh.errOut, describe(err, name))
		return
	}
	r, err := ledger.Remove(name, q)
	if err != nil {
		fmt.Fprintln(sh.errOut, describe(err, name))
		return
	}
	fmt.Fprintln(sh.out, removeMessage(r))
	sh.autosave(ctx)
}

func (sh *shell) status() {
	status := sh.session.status()
	if sh.color {
		fmt.Fprintln(sh.out, renderer.ColorStatusLine(status))
		return
	}
	fmt.Fprintln(sh.out, renderer.StatusLine(status))
}

// autosave saves the ledger after a change. On failure the change is kept in
// memory, and saved again later.
func (sh *shell) autosave(ctx context.Context) {
	if err := sh.session.save(ctx); err != nil {
		fmt.Fprintln(sh.errOut, describe(err, ""))
	}
}

// argOrAsk returns arg if not empty, or else asks for it. ok is false when
// the answer is empty or the input is over: the operation is cancelled.
func (sh *shell) argOrAsk(ctx context.Context, arg, question string) (string, bool) {
	if arg != "" {
		return arg, true
	}
	answer, ok := sh.readLine(ctx, question)
	answer = strings.TrimSpace(answer)
	return answer, ok && answer != ""
}

// readLine prints the prompt, if interactive, and returns the next input
// line. ok is false at the end of the input or when ctx is done.
func (sh *shell) readLine(ctx context.Context, prompt string) (line string, ok bool) {
	if sh.interactive {
		fmt.Fprint(sh.out, prompt)
	}
	select {
	case <-ctx.Done():
		return "", false
	case line, ok = <-sh.lines:
		return line, ok
	}
}

// splitArgs splits the arguments of add and remove: the last of several is
// the quantity, the others the name.
func splitArgs(args []string) (name, qty string) {
	switch len(args) {
	case 0:
		return "", ""
	case 1:
		return args[0], ""
	default:
		return strings.Join(args[:len(args)-1], " "), args[len(args)-1]
	}
}

// readLines delivers the lines of r until its end or until done is closed.
func readLines(r io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
			log.Warn().Err(err).Msg("cannot read input")
		}
	}()
	return lines
}
