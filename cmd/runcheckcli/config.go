package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hyperifyio/runcheck/internal/dispatch"
)

// cliConfig holds user-supplied configuration resolved from flags and env.
type cliConfig struct {
	plan        dispatch.Plan
	args        dispatch.Args
	planPath    string
	reportPDF   string
	printConfig bool
	debug       bool
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// parseFlags resolves flags, env fallbacks, and positional arguments into a
// cliConfig. Precedence: flag > env > default.
func parseFlags(args []string) (cliConfig, error) {
	var cfg cliConfig

	fs := flag.NewFlagSet("runcheckcli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		taskCmd       string
		verifyCmd     string
		reportPath    string
		taskTimeout   time.Duration
		verifyTimeout time.Duration
	)
	fs.StringVar(&cfg.planPath, "plan", getEnv("RUNCHECK_PLAN", ""), "Path to plan JSON (env RUNCHECK_PLAN)")
	fs.StringVar(&taskCmd, "task", "", "Task command override, comma-separated argv")
	fs.StringVar(&verifyCmd, "verify", "", "Verify command override, comma-separated argv")
	fs.StringVar(&reportPath, "report", getEnv("RUNCHECK_REPORT", ""), "Report file for verifier stderr (env RUNCHECK_REPORT; default test_report.log)")
	fs.StringVar(&cfg.reportPDF, "report-pdf", "", "Also render a PDF run summary to this path")
	fs.DurationVar(&taskTimeout, "task-timeout", 0, "Task step timeout (0 = none)")
	fs.DurationVar(&verifyTimeout, "verify-timeout", 0, "Verify step timeout (0 = none)")
	fs.BoolVar(&cfg.printConfig, "print-config", false, "Print resolved config and exit")
	fs.BoolVar(&cfg.debug, "debug", false, "Print dispatch details to stderr")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.planPath != "" {
		plan, err := dispatch.LoadPlan(cfg.planPath)
		if err != nil {
			return cfg, err
		}
		cfg.plan = plan
	} else {
		cfg.plan = dispatch.DefaultPlan()
	}
	if taskCmd != "" {
		argv := splitCommand(taskCmd)
		if len(argv) == 0 {
			return cfg, errors.New("-task must name at least one command token")
		}
		cfg.plan.Task.Command = argv
	}
	if verifyCmd != "" {
		argv := splitCommand(verifyCmd)
		if len(argv) == 0 {
			return cfg, errors.New("-verify must name at least one command token")
		}
		cfg.plan.Verify.Command = argv
	}
	if reportPath != "" {
		cfg.plan.Report = reportPath
	}
	if taskTimeout > 0 {
		cfg.plan.Task.TimeoutSec = ceilSeconds(taskTimeout)
	}
	if verifyTimeout > 0 {
		cfg.plan.Verify.TimeoutSec = ceilSeconds(verifyTimeout)
	}

	rest := fs.Args()
	if len(rest) > 3 {
		return cfg, fmt.Errorf("too many arguments: expected <arg1> [arg2] [arg3], got %d", len(rest))
	}
	if len(rest) > 0 {
		cfg.args.Arg1 = rest[0]
	}
	if len(rest) > 1 {
		cfg.args.Arg2 = rest[1]
	}
	if len(rest) > 2 {
		cfg.args.Arg3 = rest[2]
	}
	if cfg.args.Arg1 == "" && !cfg.printConfig {
		return cfg, errors.New("arg1 is required")
	}
	return cfg, nil
}

// splitCommand turns a comma-separated override into an argv vector. Commas
// keep embedded spaces in arguments intact.
func splitCommand(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func ceilSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}

// printResolvedConfig dumps the effective plan and arguments as JSON. Only
// the JSON document goes to stdout; failures are diagnostics.
func printResolvedConfig(cfg cliConfig, stdout, stderr io.Writer) int {
	view := struct {
		Plan      dispatch.Plan `json:"plan"`
		Args      []string      `json:"forwardedArgs"`
		ReportPDF string        `json:"reportPdf,omitempty"`
	}{Plan: cfg.plan, ReportPDF: cfg.reportPDF}
	if cfg.args.Arg1 != "" {
		view.Args = cfg.args.Forwarded()
	}
	b, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		safeFprintln(stderr, "error:", err)
		return 1
	}
	safeFprintln(stdout, string(b))
	return 0
}
