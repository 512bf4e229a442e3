// Package similarity adapts a fuzzy string matching library to the
// port.StringSimilarity interface used by the item matcher cascade.
package similarity

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"trimatch/internal/port"
)

type tokenSort struct{}

// NewTokenSort returns a scorer based on token-sort ratio: descriptions are
// tokenized, sorted, and compared, so "Blue Widget 10mm" and "10mm widget,
// blue" score high despite word order and punctuation.
func NewTokenSort() port.StringSimilarity {
	return tokenSort{}
}

func (tokenSort) Score(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	return fuzzy.TokenSortRatio(a, b)
}
