// Command verify runs a self-check suite against the file search engine.
// Diagnostics go to stderr only, so a caller capturing that stream gets the
// complete account of the run; stdout stays silent. Exit status is zero iff
// every check passed.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/hyperifyio/runcheck/internal/findfile"
)

func main() {
	os.Exit(run(os.Stderr))
}

// errSkip marks a check that cannot run on the current platform.
var errSkip = errors.New("skipped")

type check struct {
	name string
	fn   func(root string) error
}

var checks = []check{
	{"basic_search", checkBasicSearch},
	{"nested_search", checkNestedSearch},
	{"empty_folder", checkEmptyFolder},
	{"hidden_folder", checkHiddenFolder},
	{"case_insensitive", checkCaseInsensitive},
	{"missing_root", checkMissingRoot},
	{"file_as_root", checkFileAsRoot},
	{"empty_target", checkEmptyTarget},
	{"special_characters", checkSpecialCharacters},
	{"symlinked_dir", checkSymlinkedDir},
	{"unreadable_dir", checkUnreadableDir},
}

func run(stderr io.Writer) int {
	root, err := os.MkdirTemp("", "verify-fixture-")
	if err != nil {
		fmt.Fprintf(stderr, "fixture: %v\n", err)
		return 1
	}
	defer func() {
		if err := os.RemoveAll(root); err != nil {
			_ = err
		}
	}()
	if err := buildFixture(root); err != nil {
		fmt.Fprintf(stderr, "fixture: %v\n", err)
		return 1
	}

	failures := 0
	for _, c := range checks {
		switch err := c.fn(root); {
		case err == nil:
			fmt.Fprintf(stderr, "%s ... ok\n", c.name)
		case errors.Is(err, errSkip):
			fmt.Fprintf(stderr, "%s ... skipped: %v\n", c.name, err)
		default:
			failures++
			fmt.Fprintf(stderr, "%s ... FAIL: %v\n", c.name, err)
		}
	}
	if failures > 0 {
		fmt.Fprintf(stderr, "FAILED (failures=%d, checks=%d)\n", failures, len(checks))
		return 1
	}
	fmt.Fprintf(stderr, "OK (%d checks)\n", len(checks))
	return 0
}

// buildFixture lays out the directory tree every check runs against:
//
//	root/
//	├── file1.txt
//	├── FILE1.txt
//	├── empty_folder/
//	├── folder1/
//	│   ├── file2.txt
//	│   └── folder2/
//	│       ├── file3.txt
//	│       └── folder3/
//	│           └── file1.txt
//	└── folder4/
//	    ├── file1.txt
//	    └── folder5/
//	        ├── file2.txt
//	        └── .hidden_folder/
//	            └── file1.txt
func buildFixture(root string) error {
	dirs := []string{
		"empty_folder",
		filepath.Join("folder1", "folder2", "folder3"),
		filepath.Join("folder4", "folder5", ".hidden_folder"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return err
		}
	}
	files := map[string]string{
		"file1.txt":                           "base file1",
		"FILE1.txt":                           "base FILE1",
		filepath.Join("folder1", "file2.txt"): "folder1 file2",
		filepath.Join("folder1", "folder2", "file3.txt"):                   "folder2 file3",
		filepath.Join("folder1", "folder2", "folder3", "file1.txt"):        "folder3 file1",
		filepath.Join("folder4", "file1.txt"):                              "folder4 file1",
		filepath.Join("folder4", "folder5", "file2.txt"):                   "folder5 file2",
		filepath.Join("folder4", "folder5", ".hidden_folder", "file1.txt"): "hidden file1",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(body), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func checkBasicSearch(root string) error {
	paths, count, err := findfile.Search(root, "file1.txt", findfile.Options{})
	if err != nil {
		return err
	}
	if count != 4 || len(paths) != 4 {
		return fmt.Errorf("expected 4 matches, got count=%d len=%d", count, len(paths))
	}
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			return fmt.Errorf("expected absolute path, got %q", p)
		}
	}
	return nil
}

func checkNestedSearch(root string) error {
	paths, count, err := findfile.Search(root, "file3.txt", findfile.Options{})
	if err != nil {
		return err
	}
	if count != 1 {
		return fmt.Errorf("expected 1 match, got %d", count)
	}
	want := filepath.Join("folder2", "file3.txt")
	if !strings.HasSuffix(paths[0], want) {
		return fmt.Errorf("expected suffix %q, got %q", want, paths[0])
	}
	return nil
}

func checkEmptyFolder(root string) error {
	_, count, err := findfile.Search(filepath.Join(root, "empty_folder"), "file1.txt", findfile.Options{})
	if err != nil {
		return err
	}
	if count != 0 {
		return fmt.Errorf("expected 0 matches, got %d", count)
	}
	return nil
}

func checkHiddenFolder(root string) error {
	paths, _, err := findfile.Search(root, "file1.txt", findfile.Options{})
	if err != nil {
		return err
	}
	hidden := filepath.Join(root, "folder4", "folder5", ".hidden_folder", "file1.txt")
	for _, p := range paths {
		if filepath.Clean(p) == filepath.Clean(hidden) {
			return nil
		}
	}
	return fmt.Errorf("hidden-folder match %q not found", hidden)
}

func checkCaseInsensitive(root string) error {
	_, count, err := findfile.Search(root, "file1.txt", findfile.Options{CaseInsensitive: true})
	if err != nil {
		return err
	}
	// 4 exact matches plus FILE1.txt.
	if count != 5 {
		return fmt.Errorf("expected 5 matches, got %d", count)
	}
	return nil
}

func checkMissingRoot(root string) error {
	_, _, err := findfile.Search(filepath.Join(root, "invalid"), "file1.txt", findfile.Options{})
	if !errors.Is(err, findfile.ErrNotExist) {
		return fmt.Errorf("expected ErrNotExist, got %v", err)
	}
	return nil
}

func checkFileAsRoot(root string) error {
	_, _, err := findfile.Search(filepath.Join(root, "file1.txt"), "file2.txt", findfile.Options{})
	if !errors.Is(err, findfile.ErrNotDir) {
		return fmt.Errorf("expected ErrNotDir, got %v", err)
	}
	return nil
}

func checkEmptyTarget(root string) error {
	_, count, err := findfile.Search(root, "", findfile.Options{})
	if err != nil {
		return err
	}
	if count != 0 {
		return fmt.Errorf("expected 0 matches for empty target, got %d", count)
	}
	return nil
}

func checkSpecialCharacters(root string) error {
	name := "test_!@#.txt"
	if err := os.WriteFile(filepath.Join(root, name), []byte("special characters"), 0o644); err != nil {
		return err
	}
	paths, count, err := findfile.Search(root, name, findfile.Options{})
	if err != nil {
		return err
	}
	if count != 1 || !strings.HasSuffix(paths[0], name) {
		return fmt.Errorf("expected 1 match ending in %q, got count=%d paths=%v", name, count, paths)
	}
	return nil
}

func checkSymlinkedDir(root string) error {
	link := filepath.Join(root, "symlink_to_folder1")
	if err := os.Symlink(filepath.Join(root, "folder1"), link); err != nil {
		return fmt.Errorf("%w: symlinks unsupported: %v", errSkip, err)
	}
	_, count, err := findfile.Search(link, "file2.txt", findfile.Options{})
	if err != nil {
		return err
	}
	if count != 1 {
		return fmt.Errorf("expected 1 match through symlink, got %d", count)
	}
	return nil
}

func checkUnreadableDir(root string) error {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		return fmt.Errorf("%w: cannot drop directory permissions here", errSkip)
	}
	restricted := filepath.Join(root, "restricted_folder")
	if err := os.MkdirAll(restricted, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(restricted, "file1.txt"), []byte("restricted"), 0o644); err != nil {
		return err
	}
	if err := os.Chmod(restricted, 0o000); err != nil {
		return fmt.Errorf("%w: chmod: %v", errSkip, err)
	}
	defer func() {
		if err := os.Chmod(restricted, 0o755); err != nil {
			_ = err
		}
	}()

	warned := 0
	_, count, err := findfile.Search(root, "file1.txt", findfile.Options{
		Warn: func(string, error) { warned++ },
	})
	if err != nil {
		return fmt.Errorf("scan must not abort on permission errors: %v", err)
	}
	if count == 0 {
		return errors.New("expected matches outside the restricted folder")
	}
	if warned == 0 {
		return errors.New("expected a warning for the restricted folder")
	}
	return nil
}
