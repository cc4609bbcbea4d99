package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/you-not-fish/lox/internal/lox"
)

func (a *app) runCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a Lox script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				return a.watchScript(cmd, args[0])
			}
			return a.runScript(cmd, args[0])
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Rerun the script whenever it changes")
	return cmd
}

// runScript runs path once and maps the outcome to an exit code.
func (a *app) runScript(cmd *cobra.Command, path string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if code := a.runFile(ctx, path, cmd.OutOrStdout(), cmd.ErrOrStderr()); code != lox.ExitOK {
		return exitCode(code)
	}
	return nil
}

// runFile runs path in a fresh session and reports diagnostics to stderr.
func (a *app) runFile(ctx context.Context, path string, stdout, stderr io.Writer) int {
	s := lox.NewSession(a.sessionOptions(stdout))
	st, err := s.RunFile(ctx, path)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return lox.ExitNoInput
	}
	st.Report(stderr)
	return st.ExitCode()
}

// watchScript runs path, then reruns it in a fresh session each time it
// is written. A run still in progress is cancelled first.
func (a *app) watchScript(cmd *cobra.Command, path string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	abs, err := filepath.Abs(path)
	if err != nil {
		return exitCode(lox.ExitNoInput)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	// Editors often replace files on save, so watch the directory.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: watch %s: %v\n", path, err)
		return exitCode(lox.ExitNoInput)
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	r := &rerunner{run: func(ctx context.Context) {
		code := a.runFile(ctx, path, stdout, stderr)
		a.log.Debug("run finished", "file", path, "exit", code)
	}}
	defer r.stop()

	r.start(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			a.log.Debug("change detected", "file", path, "op", ev.Op.String())
			fmt.Fprintf(stderr, "-- %s changed, rerunning\n", path)
			r.start(ctx)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.log.Warn("watch error", "err", err)
		}
	}
}

// rerunner runs at most one job at a time. Starting a job cancels and
// waits for the previous one.
type rerunner struct {
	run    func(ctx context.Context)
	cancel context.CancelFunc
	done   chan struct{}
}

func (r *rerunner) start(parent context.Context) {
	r.stop()

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	r.cancel, r.done = cancel, done
	go func() {
		defer close(done)
		r.run(ctx)
	}()
}

func (r *rerunner) stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel, r.done = nil, nil
}
