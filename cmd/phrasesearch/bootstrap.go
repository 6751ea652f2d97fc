package main

import (
	"context"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/metrics"
)

// bootstrap extracts the archive into the corpus directory and loads the
// index, rebuilding it when the archive changed.
func bootstrap(ctx context.Context, cfg *config.Config, notifier indexer.Notifier, m *metrics.Metrics) (*indexer.Snapshot, error) {
	slog.Info("loading corpus", "archive", cfg.Corpus.Archive, "dir", cfg.Corpus.Dir)
	n, err := corpus.ExtractText(cfg.Corpus.Archive, cfg.Corpus.Dir, cfg.Corpus.Extensions)
	if err != nil {
		return nil, err
	}
	slog.Info("corpus extracted", "files", n)

	loader := indexer.NewLoader(indexer.NewBuilder(cfg.Corpus.Extensions), notifier, m)
	return loader.LoadOrBuild(ctx, indexer.Paths{
		Archive:       cfg.Corpus.Archive,
		CorpusDir:     cfg.Corpus.Dir,
		IndexStore:    cfg.Index.StorePath,
		ChecksumStore: cfg.Index.ChecksumPath,
	})
}

func executorOptions(cfg *config.Config, m *metrics.Metrics) executor.Options {
	return executor.Options{
		MaxResults:  cfg.Search.MaxResults,
		Workers:     cfg.Search.Workers,
		TaskTimeout: cfg.Search.TaskTimeout,
		ReadRetries: cfg.Search.ReadRetries,
		Metrics:     m,
	}
}

func newExecutor(ctx context.Context, cfg *config.Config) (*executor.Executor, error) {
	snap, err := bootstrap(ctx, cfg, nil, nil)
	if err != nil {
		return nil, err
	}
	return executor.New(snap.Index, cfg.Corpus.Dir, executorOptions(cfg, nil)), nil
}

// newNotifier returns a Kafka producer for rebuild events when Kafka is
// enabled, or a nil Notifier.
func newNotifier(cfg *config.Config) (indexer.Notifier, func()) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}
	}
	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.IndexRebuilt)
	slog.Info("publishing rebuild events", "topic", cfg.Kafka.Topics.IndexRebuilt)
	return producer, func() {
		if err := producer.Close(); err != nil {
			slog.Error("closing kafka producer", "error", err)
		}
	}
}
