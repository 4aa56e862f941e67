// Package cmd implements the stk command-line application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/stock"
	"github.com/etnz/stock/config"
	"github.com/etnz/stock/redisstore"
	"github.com/google/subcommands"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&addCmd{}, "stock")
	c.Register(&removeCmd{}, "stock")
	c.Register(&listCmd{}, "stock")
	c.Register(&statusCmd{}, "stock")
	c.Register(&shellCmd{}, "stock")

	c.Register(&fmtCmd{}, "snapshot")
	c.Register(&importCmd{}, "snapshot")
	c.Register(&exportCmd{}, "snapshot")

	c.Register(&topicCmd{}, "documentation")

	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var snapshotFile = flag.String("f", "", "Path to the snapshot file (default \"stock_data.json\")")
var storeURL = flag.String("store", "", "URL of the snapshot store, redis://host:port/db[?key=name], takes precedence over -f")
var capacityFlag = flag.Int64("capacity", -1, "Total stock capacity, 0 for unlimited, -1 for the configured one (default 1000)")
var configFile = flag.String("config", "", "Path to the config file (default .stk.yaml)")

// Verbose enables debug logs.
var Verbose = flag.Bool("v", false, "Verbose output")

// Settings returns the configuration with the global flags applied on top.
func Settings() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *snapshotFile != "" {
		cfg.File = *snapshotFile
		cfg.Store = ""
	}
	if *storeURL != "" {
		cfg.Store = *storeURL
	}
	if *capacityFlag != -1 {
		cfg.Capacity = stock.Quantity(*capacityFlag)
	}
	if *Verbose {
		cfg.LogLevel = zerolog.LevelDebugValue
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// setupLogging directs diagnostics to stderr at the configured level.
func setupLogging(cfg *config.Config) {
	level, err := cfg.Level()
	if err != nil {
		level = zerolog.WarnLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !isatty.IsTerminal(os.Stderr.Fd())}
	log.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// OpenStore returns the store holding the snapshot: the configured store
// URL, or the snapshot file.
func OpenStore(cfg *config.Config) (stock.Store, error) {
	if cfg.Store == "" {
		return stock.NewFileStore(cfg.File), nil
	}
	u, err := url.Parse(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("invalid store %q: %w", cfg.Store, err)
	}
	switch u.Scheme {
	case "file":
		path := config.FilePath(u)
		if path == "" {
			return nil, fmt.Errorf("store %q has no file path", cfg.Store)
		}
		return stock.NewFileStore(path), nil
	case "redis", "rediss":
		return redisstore.Open(cfg.Store)
	default:
		return nil, fmt.Errorf("unsupported store %q", cfg.Store)
	}
}

// session is the ledger a command works on, and where it is kept.
type session struct {
	cfg     *config.Config
	store   stock.Store
	ledger  *stock.Ledger
	loadErr error // why the snapshot could not be loaded, if so
}

// openSession loads the ledger from the configured store.
//
// A corrupt snapshot is reported, and the session starts with an empty
// ledger.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := Settings()
	if err != nil {
		return nil, err
	}
	setupLogging(cfg)

	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	ledger, loadErr := store.Load(ctx)
	if loadErr != nil {
		if !errors.Is(loadErr, stock.ErrCorruptSnapshot) {
			closeStore(store)
			return nil, loadErr
		}
		fmt.Fprintf(os.Stderr, "Error loading data: %v. Starting empty.\n", loadErr)
	}
	if err := ledger.SetCapacity(cfg.Capacity); err != nil {
		closeStore(store)
		return nil, err
	}
	log.Debug().Int("items", ledger.Len()).Int64("capacity", int64(cfg.Capacity)).Msg("ledger loaded")
	return &session{cfg: cfg, store: store, ledger: ledger, loadErr: loadErr}, nil
}

// save persists the ledger.
func (s *session) save(ctx context.Context) error {
	return s.store.Save(ctx, s.ledger)
}

// status returns the ledger status against the configured threshold.
func (s *session) status() stock.Status {
	return s.ledger.Status(s.cfg.LowThreshold)
}

func (s *session) close() {
	closeStore(s.store)
}

func closeStore(store stock.Store) {
	if c, ok := store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close the store")
		}
	}
}

// describe returns the message shown to the user for a failed ledger
// operation on the named item.
func describe(err error, name string) string {
	var cerr *stock.CapacityError
	switch {
	case errors.As(err, &cerr) && cerr.Capacity == 0:
		return fmt.Sprintf("Adding %d would overflow the total stock. Max add: %d.", cerr.Requested, cerr.MaxAddable)
	case errors.As(err, &cerr):
		return fmt.Sprintf("Adding %d would exceed capacity (%d). Max add: %d.", cerr.Requested, cerr.Capacity, cerr.MaxAddable)
	case errors.Is(err, stock.ErrInvalidName):
		return "Item name cannot be empty."
	case errors.Is(err, stock.ErrInvalidQuantity):
		return "Quantity must be a positive integer."
	case errors.Is(err, stock.ErrNotFound):
		return fmt.Sprintf("Item '%s' not found in stock.", name)
	case errors.Is(err, stock.ErrPersistence):
		return fmt.Sprintf("Error saving: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// exitStatus returns the exit status for a failed ledger operation.
func exitStatus(err error) subcommands.ExitStatus {
	if errors.Is(err, stock.ErrInvalidName) || errors.Is(err, stock.ErrInvalidQuantity) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// addMessage and removeMessage report successful operations.
func addMessage(name string, q stock.Quantity) string {
	return fmt.Sprintf("Added %d of '%s'.", q, name)
}

func removeMessage(r stock.Removal) string {
	if r.All {
		return fmt.Sprintf("Removed all of '%s'.", r.Name)
	}
	return fmt.Sprintf("Removed %d of '%s'. Remaining: %d", r.Removed, r.Name, r.Remaining)
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printMarkdown prints md to stdout, rendered for the terminal if stdout is
// one, as is otherwise.
func printMarkdown(md string) {
	fmt.Print(renderMarkdown(md, isTerminal(os.Stdout)))
}

// renderMarkdown renders md with glamour when tty is true.
func renderMarkdown(md string, tty bool) string {
	if !tty {
		return md
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		log.Debug().Err(err).Msg("cannot render markdown")
		return md
	}
	return out
}
