// Package main implements the lox command: script runner, REPL and
// front-end inspection tools.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/you-not-fish/lox/internal/config"
	"github.com/you-not-fish/lox/internal/lox"
)

// Version information
const Version = "0.1.0-dev"

// exitCode carries a process exit status out of a command without
// printing anything further.
type exitCode int

func (c exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(c))
}

// app holds the state shared by all subcommands.
type app struct {
	configPath string
	debug      bool

	conf *config.Config
	log  *slog.Logger
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line and returns the process exit code.
func run(args []string) int {
	a := &app{}
	root := a.rootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	var code exitCode
	switch {
	case err == nil:
		return lox.ExitOK
	case errors.As(err, &code):
		return int(code)
	}

	// Anything cobra rejected, or a bad config, is a usage error.
	fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	fmt.Fprintln(root.ErrOrStderr(), "Usage: lox [script]")
	return lox.ExitUsage
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lox [script]",
		Short: "Run Lox scripts or start an interactive session",
		Long: "lox runs a Lox script when given one, and starts an interactive\n" +
			"session otherwise.",
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.repl(cmd)
			}
			return a.runScript(cmd, args[0])
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (default $LOX_CONFIG or $XDG_CONFIG_HOME/lox/config.yaml)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		a.runCmd(),
		a.replCmd(),
		a.tokensCmd(),
		a.parseCmd(),
		a.resolveCmd(),
		versionCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger before any
// subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	conf, err := config.Load(config.Find(a.configPath))
	if err != nil {
		return err
	}
	a.conf = conf

	level, err := conf.LogLevel()
	if err != nil {
		return err
	}
	if a.debug || os.Getenv("LOX_DEBUG") != "" {
		level = slog.LevelDebug
	}
	a.log = newLogger(cmd.ErrOrStderr(), level)
	a.log.Debug("config loaded", "path", conf.Path, "log_level", level)
	return nil
}

// newLogger returns a text logger without time and level attributes, so
// debug lines read like compiler traces.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && (a.Key == slog.TimeKey || a.Key == slog.LevelKey) {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// sessionOptions translates the configuration into session options.
func (a *app) sessionOptions(stdout io.Writer) lox.Options {
	// Both were checked when the config was loaded.
	eq, _ := a.conf.Equality()
	nr, _ := a.conf.NilReads()
	return lox.Options{
		Stdout:   stdout,
		Logger:   a.log,
		Equality: eq,
		NilReads: nr,
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "lox version %s\n", Version)
			fmt.Fprintf(out, "go version %s\n", runtime.Version())
			return nil
		},
	}
}
