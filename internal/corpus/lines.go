// Package corpus reads the plain-text documents the index is built from: it
// extracts them from the source archive, enumerates them in a stable order and
// splits them into lines the same way for indexing and for verification.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ScanLines calls fn for every line of r with its 1-based number. A line ends
// at "\n", "\r\n" or a lone "\r"; line length is unbounded. Invalid UTF-8 is
// replaced with U+FFFD. Returning an error from fn stops the scan.
func ScanLines(r io.Reader, fn func(lineNo int, line string) error) error {
	reader := bufio.NewReaderSize(r, 64*1024)
	lineNo := 0
	for {
		chunk, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return fmt.Errorf("scanning line %d: %w", lineNo+1, readErr)
		}
		if chunk != "" {
			chunk = strings.TrimSuffix(chunk, "\n")
			chunk = strings.TrimSuffix(chunk, "\r")
			// Whatever "\r" remains is a lone terminator inside the chunk.
			for _, line := range strings.Split(chunk, "\r") {
				lineNo++
				if err := fn(lineNo, strings.ToValidUTF8(line, "\uFFFD")); err != nil {
					return err
				}
			}
		}
		if readErr == io.EOF {
			return nil
		}
	}
}

// ReadLines returns every line of the file at path, without terminators.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	err = ScanLines(f, func(_ int, line string) error {
		lines = append(lines, line)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}
