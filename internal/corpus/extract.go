package corpus

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/errors"
)

// ExtractText copies every archive entry with one of exts into outDir, keeping
// sub-directories, and returns how many files were written. Entries whose
// names would escape outDir are skipped. A missing archive is a configuration
// error.
func ExtractText(archivePath, outDir string, exts []string) (int, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil && errors.Is(err, zip.ErrInsecurePath) && zr != nil {
		// Insecure names are filtered per entry below.
		err = nil
	}
	if err != nil {
		if os.IsNotExist(err) {
			return 0, apperrors.Configf("corpus archive %s not found", archivePath)
		}
		return 0, fmt.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer zr.Close()

	logger := slog.Default().With("component", "corpus-extract")
	root, err := filepath.Abs(outDir)
	if err != nil {
		return 0, fmt.Errorf("resolving output directory: %w", err)
	}
	written := 0
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !HasExtension(f.Name, exts) {
			continue
		}
		target := filepath.Join(root, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			logger.Warn("skipping archive entry outside output directory", "entry", f.Name)
			continue
		}
		if err := extractFile(f, target); err != nil {
			return written, fmt.Errorf("extracting %s: %w", f.Name, err)
		}
		written++
	}
	logger.Info("archive extracted", "archive", archivePath, "dir", outDir, "files", written)
	return written, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
