package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/target/banksim-ui/config"
	"github.com/target/banksim-ui/internal/bootstrap"
	"github.com/target/banksim-ui/internal/observability/statsd"
	"github.com/target/banksim-ui/internal/service"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
	// NewClient builds the backend client for this invocation. Each command
	// gets a fresh cookie jar.
	NewClient service.ClientFactory
}

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:       context.Background(),
		Logger:    logger,
		Config:    cfg,
		Out:       os.Stdout,
		NewClient: bootstrap.NewClientFactory(cfg.Backend, statsd.Nop{}, logger),
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"probe": {
			name:        "probe",
			description: "Check that the banking backend answers the session probe",
			run:         runProbe,
		},
		"whoami": {
			name:        "whoami",
			description: "Sign in and print the identity the backend reports",
			run:         runWhoAmI,
		},
		"accounts": {
			name:        "accounts",
			description: "Sign in and list accounts (--all for every account, admin only)",
			run:         runAccounts,
		},
		"export-csv": {
			name:        "export-csv",
			description: "Sign in and save an account's transaction CSV to disk",
			run:         runExportCSV,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: banksim-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-12s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
