package dispatch

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DefaultReportPath is where the verify step's stderr lands when the plan
// does not name another file.
const DefaultReportPath = "test_report.log"

// StepSpec defines how to execute one plan step.
type StepSpec struct {
	Name    string   `json:"name"`
	Command []string `json:"command"` // argv: program and args
	// TimeoutSec bounds one invocation; 0 means no timeout, matching the
	// wrapper's unbounded waits.
	TimeoutSec int `json:"timeoutSec,omitempty"`
	// EnvPassthrough is an allowlist of environment variable names passed
	// through to the step process. Names are normalized to upper case,
	// trimmed, validated against [A-Z_][A-Z0-9_]*, and de-duplicated while
	// preserving order.
	EnvPassthrough []string `json:"envPassthrough,omitempty"`
}

// Plan names the two collaborators and the report destination.
type Plan struct {
	Task   StepSpec `json:"task"`
	Verify StepSpec `json:"verify"`
	Report string   `json:"report,omitempty"`
}

// DefaultPlan returns the built-in collaborator commands used when no plan
// file is supplied.
func DefaultPlan() Plan {
	return Plan{
		Task:   StepSpec{Name: "task", Command: []string{"./tools/bin/fs_find"}},
		Verify: StepSpec{Name: "verify", Command: []string{"./tools/bin/verify"}},
		Report: DefaultReportPath,
	}
}

// LoadPlan reads a JSON plan file and validates both steps. Relative command
// paths are required to live under ./tools/bin and are resolved against the
// plan file's directory, so they do not depend on the process working
// directory.
func LoadPlan(planPath string) (Plan, error) {
	data, err := os.ReadFile(planPath)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan: %w", err)
	}
	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return Plan{}, fmt.Errorf("parse plan: %w", err)
	}
	planDir := filepath.Dir(planPath)
	if plan.Task.Name == "" {
		plan.Task.Name = "task"
	}
	if plan.Verify.Name == "" {
		plan.Verify.Name = "verify"
	}
	if err := normalizeStep(&plan.Task, planDir); err != nil {
		return Plan{}, fmt.Errorf("step %q: %w", plan.Task.Name, err)
	}
	if err := normalizeStep(&plan.Verify, planDir); err != nil {
		return Plan{}, fmt.Errorf("step %q: %w", plan.Verify.Name, err)
	}
	if plan.Task.Name == plan.Verify.Name {
		return Plan{}, fmt.Errorf("steps must have distinct names (both %q)", plan.Task.Name)
	}
	if plan.Report == "" {
		plan.Report = DefaultReportPath
	}
	return plan, nil
}

// normalizeStep validates a step spec in place: command presence, the
// tools/bin prefix rule for relative programs, and the env allowlist.
func normalizeStep(spec *StepSpec, planDir string) error {
	if len(spec.Command) < 1 {
		return fmt.Errorf("command must have at least program name")
	}
	if len(spec.EnvPassthrough) > 0 {
		norm, err := normalizeEnvAllowlist(spec.EnvPassthrough)
		if err != nil {
			return err
		}
		spec.EnvPassthrough = norm
	}
	cmd0 := spec.Command[0]
	if filepath.IsAbs(cmd0) {
		return nil
	}
	// Bare program names resolve through PATH like a shell would.
	if !strings.ContainsAny(cmd0, "/\\") {
		return nil
	}
	raw := strings.ReplaceAll(cmd0, "\\", "/")
	norm := filepath.ToSlash(path.Clean(raw))
	if strings.HasPrefix(norm, "tools/") || norm == "tools" {
		norm = "./" + norm
	}
	if strings.HasPrefix(norm, "../") || norm == ".." {
		return fmt.Errorf("command[0] must not start with '..' or escape tools/bin (got %q)", cmd0)
	}
	if !strings.HasPrefix(norm, "./tools/bin/") {
		return fmt.Errorf("relative command[0] must start with ./tools/bin/ (got %q)", cmd0)
	}
	// Resolve against the plan directory so execution is CWD-independent.
	trimmed := strings.TrimPrefix(norm, "./")
	resolved := filepath.Join(planDir, filepath.FromSlash(trimmed))
	absResolved, err := filepath.Abs(resolved)
	if err != nil {
		return fmt.Errorf("resolve command[0]: %w", err)
	}
	spec.Command[0] = absResolved
	return nil
}

// normalizeEnvAllowlist normalizes, validates, and de-duplicates environment
// variable names. It enforces the pattern ^[A-Z_][A-Z0-9_]*$ after converting
// to upper case and trimming ASCII whitespace. Order of first occurrence is
// preserved. Returns an error describing the first invalid entry.
func normalizeEnvAllowlist(keys []string) ([]string, error) {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for idx, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed == "" {
			return nil, fmt.Errorf("envPassthrough[%d]: empty name", idx)
		}
		upper := strings.ToUpper(trimmed)
		if !isValidEnvName(upper) {
			return nil, fmt.Errorf("envPassthrough[%d]: invalid name %q (must match [A-Z_][A-Z0-9_]*)", idx, k)
		}
		if _, ok := seen[upper]; ok {
			continue
		}
		seen[upper] = struct{}{}
		out = append(out, upper)
	}
	return out, nil
}

func isValidEnvName(s string) bool {
	if len(s) == 0 {
		return false
	}
	c := s[0]
	if !((c >= 'A' && c <= 'Z') || c == '_') {
		return false
	}
	for i := 1; i < len(s); i++ {
		c = s[i]
		if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}
	return true
}
