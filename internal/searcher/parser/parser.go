// Package parser turns a free-text phrase query into the normalised word list
// the search engine works on.
package parser

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/indexer/tokenizer"
)

// QueryPlan keeps the raw query (used for scoring) next to its normalised
// form and words (used for lookup and phrase verification).
type QueryPlan struct {
	RawQuery   string
	Normalized string
	Words      []string
}

// Empty reports whether the query has no searchable words.
func (p *QueryPlan) Empty() bool {
	return len(p.Words) == 0
}

// Phrase joins the plan's words with single spaces.
func (p *QueryPlan) Phrase() string {
	return strings.Join(p.Words, " ")
}

func Parse(query string) *QueryPlan {
	normalized := tokenizer.Normalize(query)
	plan := &QueryPlan{
		RawQuery:   query,
		Normalized: normalized,
		Words:      make([]string, 0),
	}
	if normalized == "" {
		return plan
	}
	plan.Words = strings.Split(normalized, " ")
	return plan
}
