package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/you-not-fish/lox/internal/config"
	"github.com/you-not-fish/lox/internal/lox"
)

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.repl(cmd)
		},
	}
}

// lineReader is the part of liner.State the read loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

func (a *app) repl(cmd *cobra.Command) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if hist := a.conf.HistoryPath(); hist != "" {
		if f, err := os.Open(hist); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(hist); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	s := lox.NewSession(a.sessionOptions(cmd.OutOrStdout()))
	r := &repl{
		session: s,
		conf:    a.conf.REPL,
		in:      ln,
		stdout:  cmd.OutOrStdout(),
		stderr:  cmd.ErrOrStderr(),
		history: func(entry string) {
			ln.AppendHistory(strings.ReplaceAll(entry, "\n", " "))
		},
	}
	r.loop(cmd.Context())
	return nil
}

// repl is a read-eval-print loop over one session.
type repl struct {
	session *lox.Session
	conf    config.REPL
	in      lineReader
	stdout  io.Writer
	stderr  io.Writer
	history func(entry string)
}

// loop runs until end of input or :quit. Each entry runs under its own
// context so that an interrupt stops the running program, not the REPL.
func (r *repl) loop(ctx context.Context) {
	for {
		src, ok := r.read()
		if !ok {
			fmt.Fprintln(r.stdout)
			return
		}

		entry := strings.TrimSpace(src)
		if entry == "" {
			continue
		}
		if strings.HasPrefix(entry, ":") {
			switch strings.ToLower(entry) {
			case ":quit", ":q", ":exit":
				return
			default:
				fmt.Fprintln(r.stderr, "unknown command. Type :quit to exit.")
			}
			continue
		}

		if r.history != nil {
			r.history(src)
		}

		runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		st := r.session.RunLine(runCtx, src, r.conf.Echo)
		stop()
		st.Report(r.stderr)
	}
}

// read returns the next complete entry, prompting for continuation
// lines while the input so far is an incomplete program. Ctrl-C discards
// the pending entry.
func (r *repl) read() (string, bool) {
	var b strings.Builder
	for {
		prompt := r.conf.Prompt
		if b.Len() > 0 {
			prompt = r.conf.Continuation
		}

		line, err := r.in.Prompt(prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			return "", true
		case errors.Is(err, io.EOF):
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		case err != nil:
			fmt.Fprintf(r.stderr, "error: %v\n", err)
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !lox.Incomplete(src) {
			return src, true
		}
	}
}
