package executor

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/searcher/merger"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/metrics"
)

const (
	MessageNoWords  = "no words to search"
	MessageNotFound = "not found"
)

type SearchResult struct {
	Query           string             `json:"query"`
	Phrase          string             `json:"phrase"`
	Corrections     []Correction       `json:"corrections,omitempty"`
	TotalCandidates int                `json:"total_candidates"`
	Results         []merger.Candidate `json:"results"`
	Message         string             `json:"message,omitempty"`
}

// Options tunes an Executor. Zero values fall back to the defaults noted.
type Options struct {
	MaxResults  int           // default 5
	Workers     int           // default runtime.NumCPU()
	TaskTimeout time.Duration // zero means unbounded
	ReadRetries int           // default 3
	Metrics     *metrics.Metrics
}

// Executor answers phrase queries against one immutable index. It is safe
// for concurrent use.
type Executor struct {
	idx         *index.InvertedIndex
	corpusDir   string
	maxResults  int
	workers     int
	taskTimeout time.Duration
	readRetries int
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func New(idx *index.InvertedIndex, corpusDir string, opts Options) *Executor {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 5
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.ReadRetries <= 0 {
		opts.ReadRetries = 3
	}
	return &Executor{
		idx:         idx,
		corpusDir:   corpusDir,
		maxResults:  opts.MaxResults,
		workers:     opts.Workers,
		taskTimeout: opts.TaskTimeout,
		readRetries: opts.ReadRetries,
		metrics:     opts.Metrics,
		logger:      slog.Default().With("component", "query-executor"),
	}
}

// Search runs the full phrase pipeline: normalise, correct missing words,
// intersect occurrences, verify the phrase in each candidate line, score
// against the raw query and keep the best MaxResults lines.
func (e *Executor) Search(ctx context.Context, query string) (*SearchResult, error) {
	start := time.Now()
	log := logger.FromContext(ctx).With("component", "query-executor")
	plan := parser.Parse(query)
	result := &SearchResult{
		Query:   query,
		Results: []merger.Candidate{},
	}
	if plan.Empty() {
		result.Message = MessageNoWords
		e.observe("empty_query", start, 0)
		return result, nil
	}

	words, corrections := e.correctWords(log, plan.Words)
	result.Phrase = strings.Join(words, " ")
	result.Corrections = corrections

	candidates := e.intersect(words)
	result.TotalCandidates = len(candidates)
	if len(candidates) == 0 {
		log.Info("no common occurrences", "query", query, "phrase", result.Phrase)
		result.Message = MessageNotFound
		e.observe("not_found", start, 0)
		return result, nil
	}

	matches := e.verifyAll(ctx, groupByDocument(candidates), result.Phrase)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scored := make([]merger.Candidate, len(matches))
	for i, m := range matches {
		scored[i] = merger.Candidate{
			DocID: m.DocID,
			Line:  m.Line,
			Text:  m.Text,
			Score: ranker.Score(plan.RawQuery, m.Text),
			Seq:   i,
		}
	}
	result.Results = merger.TopK(scored, e.maxResults)
	if len(result.Results) == 0 {
		result.Message = MessageNotFound
		e.observe("not_found", start, 0)
	} else {
		e.observe("hit", start, len(result.Results))
	}

	log.Info("query executed",
		"query", query,
		"phrase", result.Phrase,
		"candidates", len(candidates),
		"verified", len(matches),
		"results", len(result.Results),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// correctWords replaces each word the index does not hold with its best
// fuzzy correction. Words without a correction are kept as typed.
func (e *Executor) correctWords(log *slog.Logger, words []string) ([]string, []Correction) {
	out := make([]string, len(words))
	var corrections []Correction
	for i, w := range words {
		out[i] = w
		if e.idx.Contains(w) {
			continue
		}
		log.Info("finding best match for missing word", "word", w)
		replacement, ok := bestCorrection(e.idx, w)
		if !ok {
			log.Info("no correction found", "word", w)
			corrections = append(corrections, Correction{Word: w, Replacement: w})
			e.countCorrection("kept")
			continue
		}
		log.Info("best match for word", "word", w, "replacement", replacement)
		out[i] = replacement
		corrections = append(corrections, Correction{Word: w, Replacement: replacement, Corrected: true})
		e.countCorrection("corrected")
	}
	return out, corrections
}

// intersect returns the (document, line) pairs every word occurs at,
// starting from the word with the fewest postings.
func (e *Executor) intersect(words []string) map[index.Occurrence]struct{} {
	postings := make([]index.PostingList, len(words))
	shortest := 0
	for i, w := range words {
		postings[i] = e.idx.Lookup(w)
		if len(postings[i]) == 0 {
			return nil
		}
		if len(postings[i]) < len(postings[shortest]) {
			shortest = i
		}
	}
	candidates := make(map[index.Occurrence]struct{}, len(postings[shortest]))
	for _, occ := range postings[shortest] {
		candidates[occ] = struct{}{}
	}
	for i, list := range postings {
		if i == shortest {
			continue
		}
		present := make(map[index.Occurrence]struct{}, len(list))
		for _, occ := range list {
			present[occ] = struct{}{}
		}
		for occ := range candidates {
			if _, ok := present[occ]; !ok {
				delete(candidates, occ)
			}
		}
		if len(candidates) == 0 {
			return nil
		}
	}
	return candidates
}

// groupByDocument orders candidates by document id, then line number.
func groupByDocument(candidates map[index.Occurrence]struct{}) []docLines {
	byDoc := make(map[string][]int)
	for occ := range candidates {
		byDoc[occ.DocID] = append(byDoc[occ.DocID], occ.Line)
	}
	work := make([]docLines, 0, len(byDoc))
	for docID, lines := range byDoc {
		sort.Ints(lines)
		work = append(work, docLines{docID: docID, lines: lines})
	}
	sort.Slice(work, func(i, j int) bool { return work[i].docID < work[j].docID })
	return work
}

// Lookup returns every line the single term occurs on, in posting order,
// with the line text read back from the corpus. Unreadable documents are
// logged and skipped.
func (e *Executor) Lookup(ctx context.Context, term string) []Match {
	key := tokenizer.LineTerm(term)
	postings := e.idx.Lookup(key)
	log := logger.FromContext(ctx).With("component", "query-executor")
	files := make(map[string][]string)
	matches := make([]Match, 0, len(postings))
	for _, occ := range postings {
		lines, ok := files[occ.DocID]
		if !ok {
			var err error
			lines, err = corpus.ReadLines(corpus.Resolve(e.corpusDir, occ.DocID))
			if err != nil {
				log.Warn("reading document failed", "doc_id", occ.DocID, "error", err)
			}
			files[occ.DocID] = lines
		}
		if occ.Line < 1 || occ.Line > len(lines) {
			continue
		}
		matches = append(matches, Match{
			DocID: occ.DocID,
			Line:  occ.Line,
			Text:  strings.TrimSpace(lines[occ.Line-1]),
		})
	}
	return matches
}

func (e *Executor) observe(outcome string, start time.Time, results int) {
	if e.metrics == nil {
		return
	}
	e.metrics.SearchQueriesTotal.WithLabelValues(outcome).Inc()
	e.metrics.SearchLatency.Observe(time.Since(start).Seconds())
	e.metrics.SearchResultsCount.Observe(float64(results))
}

func (e *Executor) countCorrection(outcome string) {
	if e.metrics != nil {
		e.metrics.FuzzyCorrections.WithLabelValues(outcome).Inc()
	}
}
