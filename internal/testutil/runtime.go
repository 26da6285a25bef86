package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteRuntime writes an executable /bin/sh script standing in for the
// runtime and returns its path.
//
// The script sees the same argument vector the real runtime would. The
// evaluated form is the last argument, with the eval flag still attached:
//
//	path := testutil.WriteRuntime(t, `for last; do :; done; echo "$last"`)
func WriteRuntime(t testing.TB, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runtime")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake runtime: %v", err)
	}
	return path
}

// Response is one scripted runtime reply.
type Response struct {
	Stdout string
	Stderr string
	Exit   int
}

// SequenceRuntime writes a runtime that answers its Nth invocation with
// responses[N-1]. Invocations beyond the list repeat the last response.
// Stdout and Stderr are printed with a trailing newline when non-empty.
func SequenceRuntime(t testing.TB, responses ...Response) string {
	t.Helper()
	if len(responses) == 0 {
		t.Fatalf("SequenceRuntime: no responses")
	}
	counter := filepath.Join(t.TempDir(), "count")

	var b strings.Builder
	fmt.Fprintf(&b, "n=$(cat %s 2>/dev/null || echo 0)\n", shellQuote(counter))
	b.WriteString("n=$((n+1))\n")
	fmt.Fprintf(&b, "echo $n > %s\n", shellQuote(counter))
	b.WriteString("case $n in\n")
	for i, r := range responses {
		pattern := fmt.Sprintf("%d", i+1)
		if i == len(responses)-1 {
			pattern = "*"
		}
		fmt.Fprintf(&b, "%s)\n", pattern)
		if r.Stdout != "" {
			fmt.Fprintf(&b, "  printf '%%s\\n' %s\n", shellQuote(r.Stdout))
		}
		if r.Stderr != "" {
			fmt.Fprintf(&b, "  printf '%%s\\n' %s >&2\n", shellQuote(r.Stderr))
		}
		fmt.Fprintf(&b, "  exit %d\n  ;;\n", r.Exit)
	}
	b.WriteString("esac\n")
	return WriteRuntime(t, b.String())
}

// shellQuote single-quotes s for /bin/sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
