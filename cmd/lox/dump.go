package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/you-not-fish/lox/internal/lox"
	"github.com/you-not-fish/lox/internal/resolve"
	"github.com/you-not-fish/lox/internal/syntax"
)

func (a *app) tokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitStatus(runEmitTokens(args[0], cmd.OutOrStdout(), cmd.ErrOrStderr()))
		},
	}
}

func (a *app) parseCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the syntax tree of a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid --format %q (want text or json)", format)
			}
			return exitStatus(runEmitAST(args[0], format, cmd.OutOrStdout(), cmd.ErrOrStderr()))
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text or json)")
	return cmd
}

func (a *app) resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <file>",
		Short: "Print the scope distance of every variable reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exitStatus(runEmitResolve(args[0], cmd.OutOrStdout(), cmd.ErrOrStderr()))
		},
	}
}

func exitStatus(code int) error {
	if code == lox.ExitOK {
		return nil
	}
	return exitCode(code)
}

// runEmitTokens scans the input file and prints all tokens with positions.
func runEmitTokens(filename string, stdout, stderr io.Writer) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return lox.ExitNoInput
	}
	defer f.Close()

	var errors []string
	errh := func(line, col int, msg string) {
		errors = append(errors, fmt.Sprintf("[line %d] Error: %s", line, msg))
	}

	fmt.Fprintf(stdout, "%-20s %-12s %-16s %s\n", "POSITION", "TOKEN", "LEXEME", "LITERAL")
	fmt.Fprintf(stdout, "%-20s %-12s %-16s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 16), strings.Repeat("-", 20))

	for _, tok := range syntax.ScanAll(filename, f, errh) {
		fmt.Fprintf(stdout, "%-20s %-12s %-16s %s\n", tok.Pos, tok.Kind, tok.Lexeme, formatLiteral(tok.Literal))
	}

	for _, e := range errors {
		fmt.Fprintln(stderr, e)
	}
	if len(errors) > 0 {
		return lox.ExitStatic
	}
	return lox.ExitOK
}

// formatLiteral formats a token literal for display, escaping special
// characters in strings.
func formatLiteral(lit any) string {
	switch lit := lit.(type) {
	case nil:
		return ""
	case string:
		var b strings.Builder
		b.WriteRune('"')
		for _, r := range lit {
			switch r {
			case '\n':
				b.WriteString("\\n")
			case '\t':
				b.WriteString("\\t")
			case '\r':
				b.WriteString("\\r")
			case '\\':
				b.WriteString("\\\\")
			case '"':
				b.WriteString("\\\"")
			default:
				b.WriteRune(r)
			}
		}
		b.WriteRune('"')
		return b.String()
	}
	return fmt.Sprint(lit)
}

// parseFile parses filename, printing syntax errors to stderr.
func parseFile(filename string, stderr io.Writer) (*syntax.Program, int) {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return nil, lox.ExitNoInput
	}
	defer f.Close()

	p := syntax.NewParser(filename, f, func(err *syntax.Error) {
		fmt.Fprintln(stderr, err)
	})
	prog := p.Parse()
	if p.Errors() > 0 {
		return prog, lox.ExitStatic
	}
	return prog, lox.ExitOK
}

// runEmitAST parses the input file and outputs the AST. The tree is
// printed even when there are errors; failed statements are omitted.
func runEmitAST(filename, format string, stdout, stderr io.Writer) int {
	prog, code := parseFile(filename, stderr)
	if prog == nil {
		return code
	}

	switch format {
	case "json":
		if err := syntax.FprintJSON(stdout, prog); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return lox.ExitStatic
		}
	default:
		syntax.Fprint(stdout, prog)
	}
	return code
}

// runEmitResolve resolves the input file and lists each variable
// reference with the number of frames to its declaration.
func runEmitResolve(filename string, stdout, stderr io.Writer) int {
	prog, code := parseFile(filename, stderr)
	if code != lox.ExitOK {
		return code
	}

	info := &resolve.Info{}
	conf := &resolve.Config{Error: func(err *syntax.Error) {
		fmt.Fprintln(stderr, err)
	}}
	if err := resolve.Resolve(prog, conf, info); err != nil {
		return lox.ExitStatic
	}

	syntax.Walk(prog, func(n syntax.Node) bool {
		var name string
		switch n := n.(type) {
		case *syntax.Variable:
			name = n.Name.Lexeme
		case *syntax.Assign:
			name = n.Name.Lexeme + " ="
		case *syntax.This:
			name = "this"
		case *syntax.Super:
			name = "super." + n.Method.Lexeme
		default:
			return true
		}

		where := "global"
		if d, ok := info.Depth(n.(syntax.Expr)); ok {
			where = fmt.Sprintf("local %d", d)
		}
		fmt.Fprintf(stdout, "%-20s %-16s %s\n", n.Pos(), name, where)
		return true
	})
	return lox.ExitOK
}
