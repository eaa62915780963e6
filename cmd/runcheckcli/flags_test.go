package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseFlags_PositionalDispatchRules(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want []string
	}{
		{"one arg", []string{"foo"}, []string{"foo"}},
		{"two args", []string{"foo", "bar"}, []string{"foo", "bar", ""}},
		{"three args", []string{"foo", "bar", "baz"}, []string{"foo", "bar", "baz"}},
		{"empty second arg", []string{"foo", "", "baz"}, []string{"foo"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := parseFlags(tc.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := cfg.args.Forwarded(); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestParseFlags_RequiresArg1(t *testing.T) {
	if _, err := parseFlags(nil); err == nil {
		t.Fatalf("expected error without positional args")
	}
	// -print-config may run without positionals.
	if _, err := parseFlags([]string{"-print-config"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseFlags_RejectsExtraArgs(t *testing.T) {
	if _, err := parseFlags([]string{"a", "b", "c", "d"}); err == nil {
		t.Fatalf("expected error for four positional args")
	}
}

func TestParseFlags_OverridesAndDefaults(t *testing.T) {
	cfg, err := parseFlags([]string{
		"-task", "/bin/echo,task",
		"-verify", "/bin/echo, verify ",
		"-report", "other.log",
		"-verify-timeout", "1500ms",
		"foo",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(cfg.plan.Task.Command, []string{"/bin/echo", "task"}) {
		t.Fatalf("task override not applied: %q", cfg.plan.Task.Command)
	}
	if !reflect.DeepEqual(cfg.plan.Verify.Command, []string{"/bin/echo", "verify"}) {
		t.Fatalf("verify override not applied: %q", cfg.plan.Verify.Command)
	}
	if cfg.plan.Report != "other.log" {
		t.Fatalf("report override not applied: %q", cfg.plan.Report)
	}
	// Sub-second timeouts round up to a whole second.
	if cfg.plan.Verify.TimeoutSec != 2 {
		t.Fatalf("expected ceil to 2s, got %d", cfg.plan.Verify.TimeoutSec)
	}
	if cfg.plan.Task.TimeoutSec != 0 {
		t.Fatalf("expected no task timeout, got %d", cfg.plan.Task.TimeoutSec)
	}
}

func TestParseFlags_RejectsEmptyCommandOverride(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"verify only commas", []string{"-verify", ",", "foo"}},
		{"verify only spaces", []string{"-task", "/bin/true", "-verify", "  ", "foo"}},
		{"task only commas", []string{"-task", ", ,", "foo"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseFlags(tc.args); err == nil {
				t.Fatalf("expected error for empty command override")
			}
		})
	}
}

func TestParseFlags_PlanEnvFallback(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.json")
	body := `{
		"task":   {"command": ["/bin/true"]},
		"verify": {"command": ["/bin/true"]},
		"report": "from_plan.log"
	}`
	if err := os.WriteFile(planPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	t.Setenv("RUNCHECK_PLAN", planPath)

	cfg, err := parseFlags([]string{"foo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.plan.Report != "from_plan.log" {
		t.Fatalf("expected plan from env, got report %q", cfg.plan.Report)
	}

	// Flag wins over env.
	cfg, err = parseFlags([]string{"-report", "flag.log", "foo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.plan.Report != "flag.log" {
		t.Fatalf("expected flag override, got %q", cfg.plan.Report)
	}
}

func TestParseFlags_BadPlanPath(t *testing.T) {
	if _, err := parseFlags([]string{"-plan", filepath.Join(t.TempDir(), "absent.json"), "foo"}); err == nil {
		t.Fatalf("expected error for missing plan file")
	}
}
