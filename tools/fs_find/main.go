// Command fs_find recursively searches a directory tree for files with an
// exact name. Optional filters narrow matches by extracted file content or
// by a JavaScript predicate over the path.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hyperifyio/runcheck/internal/content"
	"github.com/hyperifyio/runcheck/internal/findfile"
	"github.com/hyperifyio/runcheck/internal/jsfilter"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fs_find", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: fs_find [flags] <root_dir> <target_name>")
		fs.PrintDefaults()
	}
	var (
		caseInsensitive = fs.Bool("ci", false, "case-insensitive name match")
		contains        = fs.String("contains", "", "require extracted file content to contain this substring")
		filterSrc       = fs.String("filter", "", "JavaScript predicate over the bound path global")
		filterWallMS    = fs.Int("filter-wall-ms", 0, "wall-clock budget per filter evaluation in ms (0 = default)")
		maxResults      = fs.Int("max", 0, "stop after this many matches (0 = unbounded)")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	root, target := fs.Arg(0), fs.Arg(1)

	opts := findfile.Options{
		CaseInsensitive: *caseInsensitive,
		MaxResults:      *maxResults,
		Warn: func(path string, err error) {
			fmt.Fprintf(stderr, "Warning: error accessing %s: %v\n", path, err)
		},
	}
	matcher, err := buildMatcher(*contains, *filterSrc, *filterWallMS)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	opts.Filter = matcher

	paths, count, err := findfile.Search(root, target, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if count == 0 {
		fmt.Fprintf(stdout, "No instances of %q found in %q\n", target, root)
		return 0
	}
	fmt.Fprintf(stdout, "Located %d instance(s) of %q in these locations:\n", count, target)
	for _, p := range paths {
		fmt.Fprintf(stdout, "- %s\n", p)
	}
	return 0
}

// buildMatcher combines the content and JS filters into one findfile.Matcher.
// Returns nil when neither filter is requested.
func buildMatcher(contains, filterSrc string, wallMS int) (findfile.Matcher, error) {
	var pred *jsfilter.Predicate
	if filterSrc != "" {
		var err error
		pred, err = jsfilter.Compile(filterSrc, wallMS)
		if err != nil {
			return nil, err
		}
	}
	if contains == "" && pred == nil {
		return nil, nil
	}
	return func(path string) (bool, error) {
		if contains != "" {
			ok, err := content.Contains(path, contains)
			if err != nil {
				// Unreadable or unparsable candidates are skipped, not fatal.
				return false, nil
			}
			if !ok {
				return false, nil
			}
		}
		if pred != nil {
			return pred.Keep(path)
		}
		return true, nil
	}, nil
}
