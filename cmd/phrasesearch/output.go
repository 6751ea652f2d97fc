package main

import (
	"fmt"
	"io"

	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/searcher/executor"
)

func printResult(w io.Writer, res *executor.SearchResult) {
	switch {
	case res.Message == executor.MessageNoWords:
		fmt.Fprintf(w, "No words to search for in '%s'\n", res.Query)
		return
	case len(res.Results) == 0:
		fmt.Fprintf(w, "'%s' not found\n", res.Query)
		return
	}
	for _, c := range res.Corrections {
		if c.Corrected {
			fmt.Fprintf(w, "Corrected '%s' to '%s'\n", c.Word, c.Replacement)
		}
	}
	fmt.Fprintf(w, "Top matches for '%s':\n", res.Phrase)
	for _, c := range res.Results {
		fmt.Fprintf(w, "File: %s, Line %d, Score: %d: %s\n", c.DocID, c.Line, c.Score, c.Text)
	}
}

func printMatches(w io.Writer, term string, matches []executor.Match) {
	if len(matches) == 0 {
		fmt.Fprintf(w, "'%s' not found\n", term)
		return
	}
	fmt.Fprintf(w, "Occurrences of '%s':\n", term)
	for _, m := range matches {
		fmt.Fprintf(w, "File: %s, Line %d: %s\n", m.DocID, m.Line, m.Text)
	}
}
