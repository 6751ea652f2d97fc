package corpus

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/errors"
)

// Document is one indexable file. ID is its slash-separated path relative to
// the corpus directory and doubles as the document id in the index.
type Document struct {
	ID   string
	Path string
}

// Walk lists every file under dir whose extension is in exts (compared
// case-insensitively), sorted by ID. Unreadable sub-directories are logged
// and skipped; a missing dir is a configuration error.
func Walk(dir string, exts []string) ([]Document, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, apperrors.Configf("corpus directory %s: %v", dir, err)
	}
	if !info.IsDir() {
		return nil, apperrors.Configf("corpus path %s is not a directory", dir)
	}
	logger := slog.Default().With("component", "corpus")
	var docs []Document
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !HasExtension(path, exts) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		docs = append(docs, Document{ID: filepath.ToSlash(rel), Path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking corpus directory %s: %w", dir, err)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// HasExtension reports whether name ends in one of exts.
func HasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range exts {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// Resolve maps a document id back to its path under dir.
func Resolve(dir, docID string) string {
	return filepath.Join(dir, filepath.FromSlash(docID))
}
