// internal/search/fuzzy.go
package search

import (
	"sort"
	"strings"
)

// DefaultThreshold is the minimum score (0-100) a fuzzy candidate must reach
// to count as a match.
const DefaultThreshold = 75

// BestMatch finds the candidate most similar to query. It returns the
// original (non-normalized) candidate string and its score.
//
// Exact matches after normalization short-circuit at score 100; otherwise
// every candidate is scored with a token-order-insensitive similarity and the
// maximum wins. Scores below threshold, an empty query or an empty candidate
// set all return ok=false, never an error. Ties keep the first candidate by
// iteration order.
func BestMatch(query string, candidates []string, threshold int) (string, int, bool) {
	if query == "" || len(candidates) == 0 {
		return "", 0, false
	}

	normalizedQuery := Normalize(query)
	if normalizedQuery == "" {
		return "", 0, false
	}

	normalized := make([]string, len(candidates))
	for i, c := range candidates {
		normalized[i] = Normalize(c)
	}

	for i, n := range normalized {
		if n == normalizedQuery {
			return candidates[i], 100, true
		}
	}

	bestIdx, bestScore := -1, 0
	for i, n := range normalized {
		if n == "" {
			continue
		}
		// Strictly-greater keeps the first candidate on score ties.
		if score := tokenSortRatio(normalizedQuery, n); score > bestScore {
			bestIdx, bestScore = i, score
		}
	}

	if bestIdx < 0 || bestScore < threshold {
		return "", 0, false
	}
	return candidates[bestIdx], bestScore, true
}

// tokenSortRatio scores two normalized strings 0-100 independent of word
// order: tokens are sorted before comparing, so "corolla toyota" and
// "toyota corolla" score 100.
func tokenSortRatio(a, b string) int {
	return indelRatio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	fields := strings.Fields(s)
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// indelRatio is the normalized insert/delete similarity:
// 100 * (len(a)+len(b) - distance) / (len(a)+len(b)), where distance is the
// weighted edit distance with substitutions costing 2.
func indelRatio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	lensum := len(ra) + len(rb)
	if lensum == 0 {
		return 100
	}
	dist := indelDistance(ra, rb)
	return int(float64(lensum-dist)/float64(lensum)*100 + 0.5)
}

// indelDistance computes the edit distance with substitution cost 2 using a
// single-row DP table.
func indelDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr := make([]int, len(b)+1)
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 2
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, min(prev[j]+1, prev[j-1]+cost))
		}
		prev = curr
	}
	return prev[len(b)]
}
