package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"time"

	"github.com/hyperifyio/runcheck/internal/dispatch"
	"github.com/hyperifyio/runcheck/internal/report"
)

func main() {
	os.Exit(cliMain(os.Args[1:], os.Stdout, os.Stderr))
}

// cliMain is a testable entrypoint for the CLI. It accepts argv (excluding
// program name) and writers for stdout/stderr, and returns the intended
// process exit code.
func cliMain(args []string, stdout io.Writer, stderr io.Writer) int {
	// Handle help and version flags prior to any parsing or side effects.
	if helpRequested(args) {
		printUsage(stdout)
		return 0
	}
	if versionRequested(args) {
		printVersion(stdout)
		return 0
	}

	cfg, err := parseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		// A help flag between other flags still reaches the parser.
		printUsage(stdout)
		return 0
	}
	if err != nil {
		safeFprintln(stderr, "error:", err)
		printUsage(stderr)
		return 2
	}
	if cfg.printConfig {
		return printResolvedConfig(cfg, stdout, stderr)
	}
	return runDispatch(cfg, stdout, stderr)
}

// runDispatch executes the task/verify sequence and maps the outcome to the
// process exit code: the verify step's status, per the wrapper contract.
func runDispatch(cfg cliConfig, stdout, stderr io.Writer) int {
	if cfg.debug {
		safeFprintf(stderr, "debug: task argv tail %q\n", cfg.args.Forwarded())
		safeFprintf(stderr, "debug: report %s\n", cfg.plan.Report)
	}

	ranAt := time.Now()
	out, err := dispatch.Run(context.Background(), cfg.plan, cfg.args, dispatch.IO{Stdout: stdout, Stderr: stderr})
	if err != nil {
		safeFprintln(stderr, "error:", err)
		return 1
	}
	if cfg.debug && out.Task.Err != nil {
		safeFprintf(stderr, "debug: task step failed (exit %d): %v\n", out.Task.ExitCode, out.Task.Err)
	}

	if cfg.reportPDF != "" {
		if err := report.WritePDF(cfg.reportPDF, out, ranAt); err != nil {
			// The PDF is a companion artifact; its failure must not mask
			// the verify status, so it is reported and otherwise ignored.
			safeFprintln(stderr, "warning:", err)
		}
	}

	if out.Verify.ExitCode < 0 {
		return 1
	}
	if out.Verify.ExitCode > 255 {
		return 255
	}
	return out.Verify.ExitCode
}
