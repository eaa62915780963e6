package main

import (
	"io"
	"strings"
)

// helpRequested returns true if a canonical help flag appears before the
// first positional argument. Anything from the first non-flag token on is
// data for the task program, never a request for usage.
func helpRequested(args []string) bool {
	for _, a := range args {
		if a == "--" || !strings.HasPrefix(a, "-") {
			return false
		}
		if a == "--help" || a == "-h" {
			return true
		}
	}
	return false
}

// versionRequested returns true if a canonical version flag appears before
// the first positional argument.
func versionRequested(args []string) bool {
	for _, a := range args {
		if a == "--" || !strings.HasPrefix(a, "-") {
			return false
		}
		if a == "--version" || a == "-version" {
			return true
		}
	}
	return false
}

// printUsage writes the usage guide to w.
func printUsage(w io.Writer) {
	var b strings.Builder
	b.WriteString("runcheckcli — run a task command, then the verifier with stderr captured\n\n")
	b.WriteString("Usage:\n  runcheckcli [flags] <arg1> [arg2] [arg3]\n\n")
	b.WriteString("Argument forwarding:\n")
	b.WriteString("  arg2 empty or absent  -> task receives only arg1\n")
	b.WriteString("  arg2 non-empty        -> task receives arg1, arg2, arg3 (arg3 may be empty)\n")
	b.WriteString("  The verifier always runs afterwards; its stderr replaces the report file\n")
	b.WriteString("  and its exit status becomes the process exit status.\n\n")
	b.WriteString("Flags (precedence: flag > env > default):\n")
	b.WriteString("  -plan string\n    Path to plan JSON naming the task and verify commands (env RUNCHECK_PLAN)\n")
	b.WriteString("  -task string\n    Task command override, comma-separated argv (default ./tools/bin/fs_find)\n")
	b.WriteString("  -verify string\n    Verify command override, comma-separated argv (default ./tools/bin/verify)\n")
	b.WriteString("  -report string\n    Report file for verifier stderr (env RUNCHECK_REPORT; default test_report.log)\n")
	b.WriteString("  -report-pdf string\n    Also render a PDF run summary to this path\n")
	b.WriteString("  -task-timeout duration\n    Task step timeout (default 0 = none)\n")
	b.WriteString("  -verify-timeout duration\n    Verify step timeout (default 0 = none)\n")
	b.WriteString("  -print-config\n    Print resolved config and exit\n")
	b.WriteString("  -debug\n    Print dispatch details to stderr\n")
	b.WriteString("  --version | -version\n    Print version and exit\n")
	b.WriteString("\nExamples:\n")
	b.WriteString("  # Search /tmp for notes.txt, then verify; report lands in test_report.log\n")
	b.WriteString("  runcheckcli /tmp notes.txt\n\n")
	b.WriteString("  # One-argument form: the task sees only the root and fails its own\n")
	b.WriteString("  # validation; the verifier still runs and decides the exit status\n")
	b.WriteString("  runcheckcli /tmp\n")
	safeFprintln(w, strings.TrimRight(b.String(), "\n"))
}
