// Command permute prints the permutations of its argument, optionally
// de-duplicated, and can compare the recursive and iterative strategies.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hyperifyio/runcheck/internal/permute"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("permute", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: permute [flags] <string>")
		fs.PrintDefaults()
	}
	var (
		unique    = fs.Bool("unique", false, "remove duplicate permutations")
		iterative = fs.Bool("iterative", false, "use the iterative strategy")
		compare   = fs.Bool("compare", false, "time both strategies and report agreement")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	input := fs.Arg(0)

	if *compare {
		stats, err := permute.Compare(input)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Performance evaluation for string %q:\n", stats.Input)
		fmt.Fprintf(stdout, "Recursive method: %v\n", stats.RecursiveDuration)
		fmt.Fprintf(stdout, "Iterative method: %v\n", stats.IterativeDuration)
		fmt.Fprintf(stdout, "Total permutations generated: %d\n", stats.Count)
		fmt.Fprintf(stdout, "Outputs match: %v\n", stats.Match)
		return 0
	}

	gen := permute.Generate
	if *iterative {
		gen = permute.GenerateIterative
	}
	perms, err := gen(input)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if *unique {
		perms = permute.Unique(perms)
	}
	fmt.Fprintf(stdout, "Generated %d permutations:\n", len(perms))
	for _, p := range perms {
		fmt.Fprintln(stdout, p)
	}
	return 0
}
