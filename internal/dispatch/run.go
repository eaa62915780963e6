package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/hyperifyio/runcheck/internal/iolimit"
)

// timeNow is a package-level clock to enable deterministic tests.
var timeNow = time.Now

// exitNotStarted mirrors the shell convention for a command that could not
// be executed at all.
const exitNotStarted = 127

// Result captures one step execution.
type Result struct {
	Step     string
	Argv     []string
	ExitCode int
	Duration time.Duration
	// Err records why the step failed. Task-step errors are informational
	// only; the sequence proceeds regardless.
	Err error
}

// Outcome is the record of one full dispatch run.
type Outcome struct {
	Task       Result
	Verify     Result
	ReportPath string
	// ReportBytes counts what the verify step wrote to the report file.
	ReportBytes int64
	// StderrTail holds a capped excerpt of the verify stderr for summary
	// rendering; the full stream is in the report file.
	StderrTail      string
	StderrTruncated bool
}

// IO wires the dispatcher's streams. Task output goes to the console
// untouched; only the verify step's stderr is diverted to the report.
type IO struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the two-step sequence: the task command with the forwarded
// arguments, then the verify command with its stderr redirected to the
// report file. The task's exit status is observed and audited but never
// stops the sequence. The returned error covers only setup failures such as
// an unwritable report file; step failures live in the Outcome.
func Run(ctx context.Context, plan Plan, args Args, streams IO) (Outcome, error) {
	out := Outcome{ReportPath: plan.Report}
	if out.ReportPath == "" {
		out.ReportPath = DefaultReportPath
	}

	taskArgv := append(append([]string(nil), plan.Task.Command...), args.Forwarded()...)
	out.Task = runStep(ctx, plan.Task, taskArgv, streams.Stdout, streams.Stderr)

	// Create or truncate the report before the verify step so the file
	// exists even when the verifier itself cannot start.
	report, err := os.OpenFile(out.ReportPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return out, fmt.Errorf("open report %s: %w", out.ReportPath, err)
	}
	counted := &countingWriter{w: report}
	excerpt := iolimit.NewExcerptWriter(0)
	verifyArgv := append([]string(nil), plan.Verify.Command...)
	out.Verify = runStep(ctx, plan.Verify, verifyArgv, streams.Stdout, io.MultiWriter(counted, excerpt))
	out.ReportBytes = counted.n
	out.StderrTail = excerpt.String()
	out.StderrTruncated = excerpt.Truncated()
	if err := report.Close(); err != nil {
		return out, fmt.Errorf("close report %s: %w", out.ReportPath, err)
	}
	return out, nil
}

// runStep executes one argv with the step's timeout and minimal environment,
// wiring the given stdout/stderr destinations. It always returns a Result;
// failures are encoded in ExitCode and Err.
func runStep(parentCtx context.Context, spec StepSpec, argv []string, stdout, stderr io.Writer) Result {
	start := timeNow()
	res := Result{Step: spec.Name, Argv: argv}

	ctx := parentCtx
	if spec.TimeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parentCtx, time.Duration(spec.TimeoutSec)*time.Second)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	env, passedKeys := buildStepEnvironment(spec)
	cmd.Env = env
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	res.Duration = timeNow().Sub(start)
	switch {
	case err == nil:
		res.ExitCode = 0
	case ctx.Err() == context.DeadlineExceeded:
		res.ExitCode = -1
		res.Err = fmt.Errorf("step timed out after %ds", spec.TimeoutSec)
	default:
		var ee *exec.ExitError
		if errors.As(err, &ee) && ee.ProcessState != nil {
			res.ExitCode = ee.ProcessState.ExitCode()
			res.Err = err
		} else {
			res.ExitCode = exitNotStarted
			res.Err = fmt.Errorf("start %s: %w", argv[0], err)
		}
	}

	writeAudit(spec, argv, res, passedKeys)
	return res
}

// buildStepEnvironment constructs a minimal environment for the step process
// and returns the environment slice along with the list of env keys that
// were passed through (for audit visibility).
func buildStepEnvironment(spec StepSpec) (env []string, passedKeys []string) {
	if v := os.Getenv("PATH"); v != "" {
		env = append(env, "PATH="+v)
	}
	if v := os.Getenv("HOME"); v != "" {
		env = append(env, "HOME="+v)
	}
	for _, key := range spec.EnvPassthrough {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
			passedKeys = append(passedKeys, key)
		}
	}
	return env, passedKeys
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
