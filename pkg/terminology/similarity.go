package terminology

import (
	"math"
	"strings"
)

// SimilarityScore computes a string similarity score in [0,1] between a
// search term and a result name. An exact match (case-insensitive) scores
// 1.0; otherwise a longest-common-subsequence ratio with small bonuses for
// containment in either direction, rounded to 4 decimal places so scores are
// stable across runs.
func SimilarityScore(searchTerm, resultName string) float64 {
	search := strings.ToLower(strings.TrimSpace(searchTerm))
	result := strings.ToLower(strings.TrimSpace(resultName))

	if search == result {
		return 1.0
	}
	if search == "" || result == "" {
		return 0.0
	}

	score := lcsRatio(search, result)
	if strings.Contains(result, search) {
		score = math.Min(1.0, score+0.15)
	}
	if strings.Contains(search, result) {
		score = math.Min(1.0, score+0.1)
	}
	return math.Round(score*10000) / 10000
}

// CombinedScore blends string similarity with the result's rank position in
// the terminology search response (rank starts at 1). Similarity dominates;
// position breaks near-ties in favor of the API's own relevance ordering.
func CombinedScore(similarity float64, rank int) float64 {
	position := 1.0 / (1.0 + 0.1*float64(rank-1))
	return math.Round((0.7*similarity+0.3*position)*10000) / 10000
}

// lcsRatio is 2*LCS/(len(a)+len(b)) over bytes, the classic sequence-matcher
// ratio.
func lcsRatio(a, b string) float64 {
	m, n := len(a), len(b)
	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return 2.0 * float64(prev[n]) / float64(m+n)
}
