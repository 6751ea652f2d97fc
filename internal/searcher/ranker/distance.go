// Package ranker holds the edit-distance engine: plain Levenshtein distance
// for fuzzy word correction and a position-weighted score for ranking
// candidate lines. Both operate on runes.
package ranker

// matrix fills the full (len(a)+1)×(len(b)+1) Levenshtein table.
func matrix(a, b []rune) [][]int {
	dp := make([][]int, len(a)+1)
	for i := range dp {
		dp[i] = make([]int, len(b)+1)
		dp[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		dp[0][j] = j
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1]
				continue
			}
			dp[i][j] = 1 + min(dp[i-1][j], dp[i][j-1], dp[i-1][j-1])
		}
	}
	return dp
}

// Distance returns the Levenshtein edit distance between a and b with unit
// costs for insertion, deletion and substitution.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	return matrix(ra, rb)[len(ra)][len(rb)]
}
