package util

import "github.com/sahilm/fuzzy"

// ScoreCompletions returns the top N matches for the input string from the candidates list.
func ScoreCompletions(input string, candidates []string, n int) []string {
	if input == "" {
		return candidates
	}
	idx := MatchIndexes(input, candidates)
	if n > 0 && len(idx) > n {
		idx = idx[:n]
	}
	if len(idx) == 0 {
		return nil
	}
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = candidates[j]
	}
	return out
}

// MatchIndexes returns the indexes of candidates that fuzzy-match input,
// best match first. An empty input matches everything in order.
func MatchIndexes(input string, candidates []string) []int {
	if input == "" {
		out := make([]int, len(candidates))
		for i := range candidates {
			out[i] = i
		}
		return out
	}
	matches := fuzzy.Find(input, candidates)
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}
