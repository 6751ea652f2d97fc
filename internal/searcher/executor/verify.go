package executor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/resilience"
	"golang.org/x/sync/errgroup"
)

// Match is one line of one document, with surrounding whitespace trimmed.
type Match struct {
	DocID string `json:"doc_id"`
	Line  int    `json:"line"`
	Text  string `json:"text"`
}

// PhraseInLine reports whether phrase appears as a contiguous substring of
// line once both are normalised.
func PhraseInLine(line, phrase string) bool {
	return strings.Contains(tokenizer.Normalize(line), tokenizer.Normalize(phrase))
}

// VerifyDocument reads the document at path and returns, in the order given,
// the requested lines that contain phrase. Line numbers past the end of the
// file are ignored.
func VerifyDocument(path, docID string, lineNumbers []int, phrase string) ([]Match, error) {
	lines, err := corpus.ReadLines(path)
	if err != nil {
		return nil, err
	}
	var matches []Match
	for _, n := range lineNumbers {
		if n < 1 || n > len(lines) {
			continue
		}
		text := strings.TrimSpace(lines[n-1])
		if PhraseInLine(text, phrase) {
			matches = append(matches, Match{DocID: docID, Line: n, Text: text})
		}
	}
	return matches, nil
}

// docLines is the verification work for one document.
type docLines struct {
	docID string
	lines []int
}

// verifyAll runs one verification task per document on the bounded pool and
// returns the matches in document order. A document whose task fails
// contributes nothing; the other documents are unaffected.
func (e *Executor) verifyAll(ctx context.Context, work []docLines, phrase string) []Match {
	perDoc := make([][]Match, len(work))
	g := new(errgroup.Group)
	g.SetLimit(e.workers)
	for i, w := range work {
		g.Go(func() error {
			matches, err := e.verifyWithRetry(ctx, w, phrase)
			if err != nil {
				e.logger.Warn("phrase verification failed, skipping document",
					"doc_id", w.docID,
					"error", err,
				)
				e.countVerify("failed")
				return nil
			}
			e.countVerify("ok")
			perDoc[i] = matches
			return nil
		})
	}
	g.Wait()

	var merged []Match
	for _, matches := range perDoc {
		merged = append(merged, matches...)
	}
	return merged
}

func (e *Executor) verifyWithRetry(ctx context.Context, w docLines, phrase string) ([]Match, error) {
	name := fmt.Sprintf("verify %s", w.docID)
	path := corpus.Resolve(e.corpusDir, w.docID)
	var result []Match
	err := resilience.WithTimeout(ctx, e.taskTimeout, name, func(ctx context.Context) error {
		var matches []Match
		err := resilience.Retry(ctx, name, resilience.RetryConfig{
			MaxAttempts:  e.readRetries,
			InitialDelay: 20 * time.Millisecond,
			MaxDelay:     500 * time.Millisecond,
		}, func() error {
			var err error
			matches, err = VerifyDocument(path, w.docID, w.lines, phrase)
			if errors.Is(err, fs.ErrNotExist) {
				return resilience.Permanent(err)
			}
			return err
		})
		if err == nil {
			result = matches
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Executor) countVerify(status string) {
	if e.metrics != nil {
		e.metrics.VerifyTasksTotal.WithLabelValues(status).Inc()
	}
}
