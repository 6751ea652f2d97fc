// Package indexer builds the inverted index from a corpus directory and keeps
// a persisted copy of it in sync with the corpus archive.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/indexer/tokenizer"
)

// IndexBuilder is what the Loader calls when the persisted index is stale.
type IndexBuilder interface {
	Build(ctx context.Context, corpusDir string) (*index.InvertedIndex, error)
}

// Builder scans every document under a corpus directory into a fresh index.
type Builder struct {
	extensions []string
	logger     *slog.Logger
}

func NewBuilder(extensions []string) *Builder {
	return &Builder{
		extensions: extensions,
		logger:     slog.Default().With("component", "index-builder"),
	}
}

// Build indexes every line of every matching document. Each word of the
// lower-cased, trimmed line is appended as a term, and so is the whole line
// when it is not blank. Documents that cannot be read are logged and skipped.
func (b *Builder) Build(ctx context.Context, corpusDir string) (*index.InvertedIndex, error) {
	start := time.Now()
	docs, err := corpus.Walk(corpusDir, b.extensions)
	if err != nil {
		return nil, err
	}
	idx := index.New()
	skipped := 0
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("index build cancelled: %w", err)
		}
		if err := b.indexDocument(idx, doc); err != nil {
			skipped++
			b.logger.Warn("skipping unreadable document",
				"doc_id", doc.ID,
				"error", err,
			)
		}
	}
	b.logger.Info("index built",
		"documents", len(docs)-skipped,
		"skipped", skipped,
		"terms", idx.Len(),
		"occurrences", idx.Occurrences(),
		"duration", time.Since(start),
	)
	return idx, nil
}

// indexDocument stages a document's postings locally so a read error halfway
// through leaves no partial postings behind.
func (b *Builder) indexDocument(idx *index.InvertedIndex, doc corpus.Document) error {
	f, err := os.Open(doc.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	type posting struct {
		term string
		occ  index.Occurrence
	}
	var staged []posting
	err = corpus.ScanLines(f, func(lineNo int, line string) error {
		occ := index.Occurrence{DocID: doc.ID, Line: lineNo}
		term := tokenizer.LineTerm(line)
		for _, word := range tokenizer.Words(term) {
			staged = append(staged, posting{term: word, occ: occ})
		}
		if term != "" {
			staged = append(staged, posting{term: term, occ: occ})
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, p := range staged {
		idx.Append(p.term, p.occ)
	}
	b.logger.Debug("document indexed", "doc_id", doc.ID, "postings", len(staged))
	return nil
}
