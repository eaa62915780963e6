package findfile

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// buildTree lays out the fixture used across the search tests:
// duplicate names at several depths, a same-name-different-case file,
// an empty directory, and a hidden directory.
func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dirs := []string{
		"empty_folder",
		filepath.Join("folder1", "folder2", "folder3"),
		filepath.Join("folder4", "folder5", ".hidden_folder"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
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
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func TestSearch_BasicCount(t *testing.T) {
	root := buildTree(t)
	paths, count, err := Search(root, "file1.txt", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 4 || len(paths) != 4 {
		t.Fatalf("expected 4 matches, got count=%d len=%d", count, len(paths))
	}
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			t.Fatalf("expected absolute path, got %q", p)
		}
	}
}

func TestSearch_NestedMatch(t *testing.T) {
	root := buildTree(t)
	paths, count, err := Search(root, "file3.txt", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 match, got %d", count)
	}
	if want := filepath.Join("folder2", "file3.txt"); !strings.HasSuffix(paths[0], want) {
		t.Fatalf("expected suffix %q, got %q", want, paths[0])
	}
}

func TestSearch_HiddenFolderIsVisited(t *testing.T) {
	root := buildTree(t)
	paths, _, err := Search(root, "file1.txt", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hidden := filepath.Join(root, "folder4", "folder5", ".hidden_folder", "file1.txt")
	found := false
	for _, p := range paths {
		if filepath.Clean(p) == filepath.Clean(hidden) {
			found = true
		}
	}
	if !found {
		t.Fatalf("hidden path %q missing from %v", hidden, paths)
	}
}

func TestSearch_CaseInsensitive(t *testing.T) {
	root := buildTree(t)
	_, count, err := Search(root, "FILE1.TXT", Options{CaseInsensitive: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 matches (4 lower + 1 upper), got %d", count)
	}
}

func TestSearch_EmptyDirAndEmptyTarget(t *testing.T) {
	root := buildTree(t)
	if _, count, err := Search(filepath.Join(root, "empty_folder"), "file1.txt", Options{}); err != nil || count != 0 {
		t.Fatalf("empty dir: expected 0 matches, got count=%d err=%v", count, err)
	}
	if _, count, err := Search(root, "", Options{}); err != nil || count != 0 {
		t.Fatalf("empty target: expected 0 matches, got count=%d err=%v", count, err)
	}
}

func TestSearch_RootErrors(t *testing.T) {
	root := buildTree(t)
	if _, _, err := Search(filepath.Join(root, "missing"), "x", Options{}); !errors.Is(err, ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	if _, _, err := Search(filepath.Join(root, "file1.txt"), "x", Options{}); !errors.Is(err, ErrNotDir) {
		t.Fatalf("expected ErrNotDir, got %v", err)
	}
}

func TestSearch_MaxResultsStopsEarly(t *testing.T) {
	root := buildTree(t)
	paths, count, err := Search(root, "file1.txt", Options{MaxResults: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 || len(paths) != 2 {
		t.Fatalf("expected capped 2 matches, got count=%d len=%d", count, len(paths))
	}
}

func TestSearch_FilterDecidesAndFails(t *testing.T) {
	root := buildTree(t)

	paths, _, err := Search(root, "file1.txt", Options{
		Filter: func(p string) (bool, error) {
			return strings.Contains(p, "folder4"), nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range paths {
		if !strings.Contains(p, "folder4") {
			t.Fatalf("filter leaked path %q", p)
		}
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 folder4 matches, got %d", len(paths))
	}

	wantErr := errors.New("boom")
	if _, _, err := Search(root, "file1.txt", Options{
		Filter: func(string) (bool, error) { return false, wantErr },
	}); !errors.Is(err, wantErr) {
		t.Fatalf("expected filter error to propagate, got %v", err)
	}
}

func TestSearch_SymlinkedDir(t *testing.T) {
	root := buildTree(t)
	link := filepath.Join(root, "symlink_to_folder1")
	if err := os.Symlink(filepath.Join(root, "folder1"), link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	_, count, err := Search(link, "file2.txt", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 match through symlink, got %d", count)
	}
}

func TestSearch_UnreadableDirWarnsAndContinues(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("cannot drop directory permissions here")
	}
	root := buildTree(t)
	restricted := filepath.Join(root, "restricted_folder")
	if err := os.MkdirAll(restricted, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(restricted, "file1.txt"), []byte("restricted"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Chmod(restricted, 0o000); err != nil {
		t.Skipf("chmod: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chmod(restricted, 0o755); err != nil {
			t.Logf("restore perms: %v", err)
		}
	})

	warned := 0
	_, count, err := Search(root, "file1.txt", Options{
		Warn: func(string, error) { warned++ },
	})
	if err != nil {
		t.Fatalf("scan aborted on permission error: %v", err)
	}
	if count == 0 {
		t.Fatalf("expected matches outside restricted folder")
	}
	if warned == 0 {
		t.Fatalf("expected a warning for the restricted folder")
	}
}
