package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/indexer/segment"
	apperrors "github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/metrics"
)

// Paths names the files the Loader works with.
type Paths struct {
	Archive       string
	CorpusDir     string
	IndexStore    string
	ChecksumStore string
}

// Snapshot is a loaded index together with the archive checksum it
// corresponds to.
type Snapshot struct {
	Index    *index.InvertedIndex
	Checksum string
	Rebuilt  bool
	LoadedAt time.Time
}

// IndexRebuilt is published after a rebuild so other processes sharing the
// store can reload.
type IndexRebuilt struct {
	Checksum    string    `json:"checksum"`
	Terms       int       `json:"terms"`
	Occurrences int       `json:"occurrences"`
	Documents   int       `json:"documents"`
	BuiltAt     time.Time `json:"built_at"`
}

// Notifier receives rebuild events. *kafka.Producer satisfies it.
type Notifier interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// Loader reuses the persisted index while the archive checksum is unchanged
// and rebuilds it otherwise. It is not safe for concurrent LoadOrBuild calls.
type Loader struct {
	builder  IndexBuilder
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewLoader creates a Loader. notifier and m may be nil.
func NewLoader(builder IndexBuilder, notifier Notifier, m *metrics.Metrics) *Loader {
	return &Loader{
		builder:  builder,
		notifier: notifier,
		metrics:  m,
		logger:   slog.Default().With("component", "index-loader"),
	}
}

// LoadOrBuild returns the stored index when both stores exist and the stored
// checksum equals the archive's; otherwise it builds from p.CorpusDir and
// persists the result. A corrupt store is logged and rebuilt. A missing
// archive is returned as errors.ErrConfiguration.
func (l *Loader) LoadOrBuild(ctx context.Context, p Paths) (*Snapshot, error) {
	sum, err := Checksum(p.Archive)
	if err != nil {
		return nil, err
	}

	if stored, ok := l.storedChecksum(p.ChecksumStore); ok && stored == sum {
		idx, err := segment.Read(p.IndexStore)
		if err == nil {
			l.logger.Info("checksum matches, reusing stored index",
				"checksum", sum,
				"terms", idx.Len(),
			)
			l.observe("reused", idx)
			return &Snapshot{Index: idx, Checksum: sum, LoadedAt: time.Now()}, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Info("no stored index, building", "checksum", sum)
		} else {
			l.logger.Warn("stored index unreadable, rebuilding",
				"path", p.IndexStore,
				"error", err,
			)
			if l.metrics != nil {
				l.metrics.IndexLoadsTotal.WithLabelValues("corrupt").Inc()
			}
		}
	} else {
		l.logger.Info("corpus changed or no stored index, building",
			"checksum", sum,
		)
	}

	start := time.Now()
	idx, err := l.builder.Build(ctx, p.CorpusDir)
	if err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}
	if l.metrics != nil {
		l.metrics.IndexBuildDuration.Observe(time.Since(start).Seconds())
	}
	if err := l.persist(p, idx, sum); err != nil {
		// The in-memory index is still good; the next load simply rebuilds.
		l.logger.Error("persisting index failed", "error", err)
	}
	l.observe("rebuilt", idx)
	l.notify(ctx, idx, sum)
	return &Snapshot{Index: idx, Checksum: sum, Rebuilt: true, LoadedAt: time.Now()}, nil
}

// persist writes the index before the checksum, so a failure in between
// leaves a checksum that no longer matches and forces a rebuild next time.
func (l *Loader) persist(p Paths, idx *index.InvertedIndex, sum string) error {
	if err := segment.Write(p.IndexStore, idx); err != nil {
		os.Remove(p.ChecksumStore)
		return fmt.Errorf("writing index store: %w", err)
	}
	if err := writeFileAtomic(p.ChecksumStore, []byte(sum)); err != nil {
		return fmt.Errorf("writing checksum store: %w", err)
	}
	l.logger.Info("index persisted",
		"store", p.IndexStore,
		"checksum_store", p.ChecksumStore,
	)
	return nil
}

func (l *Loader) storedChecksum(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Warn("reading stored checksum failed", "path", path, "error", err)
		}
		return "", false
	}
	sum := strings.TrimSpace(string(data))
	if !isHexDigest(sum) {
		l.logger.Warn("stored checksum malformed, ignoring", "path", path)
		return "", false
	}
	return sum, true
}

func (l *Loader) observe(outcome string, idx *index.InvertedIndex) {
	if l.metrics == nil {
		return
	}
	l.metrics.IndexLoadsTotal.WithLabelValues(outcome).Inc()
	l.metrics.IndexTerms.Set(float64(idx.Len()))
	l.metrics.IndexDocuments.Set(float64(idx.Documents()))
}

func (l *Loader) notify(ctx context.Context, idx *index.InvertedIndex, sum string) {
	if l.notifier == nil {
		return
	}
	event := kafka.Event{
		Key: sum,
		Value: IndexRebuilt{
			Checksum:    sum,
			Terms:       idx.Len(),
			Occurrences: idx.Occurrences(),
			Documents:   idx.Documents(),
			BuiltAt:     time.Now().UTC(),
		},
	}
	if err := l.notifier.Publish(ctx, event); err != nil {
		l.logger.Warn("publishing rebuild event failed", "error", err)
	}
}

// Checksum returns the hex SHA-256 of the file at path. A missing file is a
// configuration error.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.Configf("corpus archive %s not found", path)
		}
		return "", fmt.Errorf("opening corpus archive: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing corpus archive: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func isHexDigest(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func writeFileAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
