package executor

import (
	"unicode/utf8"

	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/searcher/ranker"
)

// maxCorrectionDistance is the largest edit distance a replacement term may
// have from the query word.
const maxCorrectionDistance = 1

// Correction records how a query word missing from the index was handled.
type Correction struct {
	Word        string `json:"word"`
	Replacement string `json:"replacement"`
	Corrected   bool   `json:"corrected"`
}

// bestCorrection scans every index term whose length is within one rune of
// word and returns the highest-scoring term at edit distance one or less.
// Equal scores go to the lexicographically smallest term. ok is false when no
// term qualifies.
func bestCorrection(idx *index.InvertedIndex, word string) (term string, ok bool) {
	wordLen := utf8.RuneCountInString(word)
	bestScore := 0
	for _, candidate := range idx.Terms() {
		diff := utf8.RuneCountInString(candidate) - wordLen
		if diff < -1 || diff > 1 {
			continue
		}
		if ranker.Distance(word, candidate) > maxCorrectionDistance {
			continue
		}
		score := ranker.Score(word, candidate)
		// Terms come sorted, so a strict comparison keeps the smallest term
		// among equal scores.
		if !ok || score > bestScore {
			term, bestScore, ok = candidate, score, true
		}
	}
	return term, ok
}
