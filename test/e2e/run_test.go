package e2e

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/you-not-fish/lox/internal/lox"
)

// exitDirective matches a "// exit: N" line declaring the expected exit code.
var exitDirective = regexp.MustCompile(`(?m)^// exit: (\d+)$`)

// TestE2E runs every .lox file in testdata/.
// Each test:
//  1. Runs the file in a fresh session: parse → resolve → evaluate
//  2. Compares stdout against the .golden file
//  3. Compares diagnostics against the .err file, which must be absent
//     when the run is expected to be clean
//  4. Checks the exit code against the "// exit: N" directive (default 0)
func TestE2E(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.lox")
	if err != nil {
		t.Fatal(err)
	}
	if len(testFiles) == 0 {
		t.Fatal("no .lox test files found in testdata/")
	}

	for _, testFile := range testFiles {
		name := strings.TrimSuffix(filepath.Base(testFile), ".lox")
		t.Run(name, func(t *testing.T) {
			runE2ETest(t, testFile)
		})
	}
}

// runE2ETest runs a single end-to-end test.
func runE2ETest(t *testing.T, loxFile string) {
	t.Helper()

	src, err := os.ReadFile(loxFile)
	if err != nil {
		t.Fatalf("reading source: %v", err)
	}
	base := strings.TrimSuffix(loxFile, ".lox")

	wantOut, err := os.ReadFile(base + ".golden")
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}
	wantErr, err := os.ReadFile(base + ".err")
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("reading error file: %v", err)
	}

	wantCode := lox.ExitOK
	if m := exitDirective.FindSubmatch(src); m != nil {
		wantCode, _ = strconv.Atoi(string(m[1]))
	}

	var stdout, stderr bytes.Buffer
	s := lox.NewSession(lox.Options{Stdout: &stdout})
	st := s.Run(context.Background(), filepath.Base(loxFile), bytes.NewReader(src))
	st.Report(&stderr)

	if diff := cmp.Diff(string(wantOut), stdout.String()); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(string(wantErr), stderr.String()); diff != "" {
		t.Errorf("stderr mismatch (-want +got):\n%s", diff)
	}
	if got := st.ExitCode(); got != wantCode {
		t.Errorf("exit code = %d, want %d", got, wantCode)
	}
}
