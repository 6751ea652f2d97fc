package ranker

import "strings"

// Penalties are indexed by the query prefix length remaining at the step
// (the candidate prefix length for insertions). Index 0 is unused; positions
// past the table use the last entry.
var (
	substitutionPenalty = [...]int{0, 5, 4, 3, 2, 1}
	gapPenalty          = [...]int{0, 10, 8, 6, 4, 2}
)

func penalty(table []int, pos int) int {
	if pos >= len(table) {
		return table[len(table)-1]
	}
	return table[pos]
}

// Score rates how well candidate matches query. A query contained in the
// candidate scores 2×len(query). Otherwise the Levenshtein table is walked
// back from the bottom-right corner, preferring an exact match, then
// substitution, deletion and insertion, and each edit subtracts its
// position-dependent penalty from 2×len(query). The result may be negative.
func Score(query, candidate string) int {
	q, c := []rune(query), []rune(candidate)
	score := 2 * len(q)
	if strings.Contains(candidate, query) {
		return score
	}

	dp := matrix(q, c)
	i, j := len(q), len(c)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && q[i-1] == c[j-1]:
			i--
			j--
		case i > 0 && j > 0 && dp[i][j] == dp[i-1][j-1]+1:
			score -= penalty(substitutionPenalty[:], i)
			i--
			j--
		case i > 0 && dp[i][j] == dp[i-1][j]+1:
			score -= penalty(gapPenalty[:], i)
			i--
		default:
			// dp[i][j] == dp[i][j-1]+1 is the only remaining option.
			score -= penalty(gapPenalty[:], j)
			j--
		}
	}
	return score
}
