package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/etnz/stock/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment variables passing the global settings to extensions.
const (
	EnvSnapshotFile = "STK_SNAPSHOT_FILE"
	EnvStore        = "STK_STORE"
	EnvCapacity     = "STK_CAPACITY"
	EnvVerbose      = "STK_VERBOSE"
)

// ExtensionPrefix prefixes the executable name of extensions.
const ExtensionPrefix = "stk-"

// RunExtension attempts to find and execute an external stk-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := ExtensionPrefix + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		log.Debug().Err(err).Str("command", externalCmdName).Msg("extension not found in PATH")
		return false, 0
	}

	env, err := extensionEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return true, 2
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), env...)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}

// verbose reports whether cfg logs debug messages.
func verbose(cfg *config.Config) bool {
	level, err := cfg.Level()
	return err == nil && level <= zerolog.DebugLevel
}

// extensionEnv returns the global settings as environment variables.
func extensionEnv() ([]string, error) {
	cfg, err := Settings()
	if err != nil {
		return nil, err
	}
	return []string{
		EnvSnapshotFile + "=" + cfg.File,
		EnvStore + "=" + cfg.Store,
		EnvCapacity + "=" + strconv.FormatInt(int64(cfg.Capacity), 10),
		EnvVerbose + "=" + strconv.FormatBool(verbose(cfg)),
	}, nil
}
