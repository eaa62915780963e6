// Package permute generates string permutations with two interchangeable
// strategies, a recursive one and an insertion-based iterative one.
package permute

import (
	"errors"
	"sort"
	"time"
)

// ErrEmptyInput is returned when the source string has no characters.
var ErrEmptyInput = errors.New("input string cannot be empty")

// Generate returns every permutation of s using head-recursion: each rune in
// turn is fixed as the prefix and the remainder is permuted. Duplicate runes
// produce duplicate permutations; see Unique.
func Generate(s string) ([]string, error) {
	if s == "" {
		return nil, ErrEmptyInput
	}
	return generate([]rune(s)), nil
}

func generate(runes []rune) []string {
	if len(runes) == 1 {
		return []string{string(runes)}
	}
	var out []string
	for i := range runes {
		rest := make([]rune, 0, len(runes)-1)
		rest = append(rest, runes[:i]...)
		rest = append(rest, runes[i+1:]...)
		for _, sub := range generate(rest) {
			out = append(out, string(runes[i])+sub)
		}
	}
	return out
}

// GenerateIterative returns every permutation of s by inserting each
// successive rune at all positions of the permutations built so far.
func GenerateIterative(s string) ([]string, error) {
	if s == "" {
		return nil, ErrEmptyInput
	}
	runes := []rune(s)
	perms := []string{string(runes[0])}
	for _, r := range runes[1:] {
		next := make([]string, 0, len(perms)*(len(perms[0])+1))
		for _, perm := range perms {
			pr := []rune(perm)
			for pos := 0; pos <= len(pr); pos++ {
				np := make([]rune, 0, len(pr)+1)
				np = append(np, pr[:pos]...)
				np = append(np, r)
				np = append(np, pr[pos:]...)
				next = append(next, string(np))
			}
		}
		perms = next
	}
	return perms, nil
}

// Unique removes duplicate permutations while preserving first-seen order.
func Unique(perms []string) []string {
	seen := make(map[string]struct{}, len(perms))
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Stats captures one timed comparison of the two strategies.
type Stats struct {
	Input             string
	Count             int
	RecursiveDuration time.Duration
	IterativeDuration time.Duration
	Match             bool
}

// Compare times both strategies on the same input and reports whether their
// outputs agree ignoring order.
func Compare(s string) (Stats, error) {
	start := time.Now()
	rec, err := Generate(s)
	if err != nil {
		return Stats{}, err
	}
	recDur := time.Since(start)

	start = time.Now()
	iter, err := GenerateIterative(s)
	if err != nil {
		return Stats{}, err
	}
	iterDur := time.Since(start)

	return Stats{
		Input:             s,
		Count:             len(rec),
		RecursiveDuration: recDur,
		IterativeDuration: iterDur,
		Match:             sameElements(rec, iter),
	}, nil
}

func sameElements(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
