package dispatch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// writeAudit emits an NDJSON line capturing step execution metadata.
// Audit failures never affect the step result.
func writeAudit(spec StepSpec, argv []string, res Result, envKeys []string) {
	type auditEntry struct {
		TS      string   `json:"ts"`
		Step    string   `json:"step"`
		Argv    []string `json:"argv"`
		CWD     string   `json:"cwd"`
		Exit    int      `json:"exit"`
		MS      int64    `json:"ms"`
		Error   string   `json:"error,omitempty"`
		EnvKeys []string `json:"envKeys,omitempty"`
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}
	entry := auditEntry{
		TS:      timeNow().UTC().Format(time.RFC3339Nano),
		Step:    spec.Name,
		Argv:    append([]string(nil), argv...),
		CWD:     cwd,
		Exit:    res.ExitCode,
		MS:      res.Duration.Milliseconds(),
		EnvKeys: append([]string(nil), envKeys...),
	}
	if res.Err != nil {
		entry.Error = res.Err.Error()
	}
	if err := appendAuditLog(entry); err != nil {
		_ = err
	}
}

// appendAuditLog writes an NDJSON audit line to .runcheck/audit/YYYYMMDD.log
// under the repository root. The repository root is determined by walking
// upward from the current working directory until a directory containing
// go.mod is found. If no go.mod is found, falls back to CWD.
func appendAuditLog(entry any) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	root := moduleRoot()
	dir := filepath.Join(root, ".runcheck", "audit")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	fname := timeNow().UTC().Format("20060102") + ".log"
	path := filepath.Join(dir, fname)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			_ = err
		}
	}()
	if _, err := f.Write(append(b, '\n')); err != nil {
		return err
	}
	return nil
}

// moduleRoot walks upward from the current working directory to locate the
// directory containing go.mod. If none is found, it returns the current
// working directory.
func moduleRoot() string {
	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root; fallback to original cwd
			return cwd
		}
		dir = parent
	}
}
