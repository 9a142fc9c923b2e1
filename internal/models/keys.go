package models

import (
	"golang.org/x/text/cases"
)

// Keyer maps a name to the key it is stored under. The loader and the
// engine must use the same Keyer for lookups to line up.
type Keyer func(string) string

// ExactKeys stores names as written.
func ExactKeys(name string) string {
	return name
}

// FoldedKeys returns a Keyer that case-folds names, so "Key" and "key"
// refer to the same thing.
func FoldedKeys() Keyer {
	c := cases.Fold()
	return func(name string) string {
		return c.String(name)
	}
}

// dedupe keys names while keeping declared order and dropping repeats.
func dedupe(keys Keyer, names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		k := keys(n)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
