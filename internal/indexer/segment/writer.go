// Package segment persists an inverted index as a single binary store file
// and reads it back, rejecting anything truncated or altered.
//
// Layout (little endian):
//
//	[header 64B][postings: one JSON array per term][dictionary JSON][footer 32B]
//
// The footer's CRC-32 covers the postings and dictionary regions.
package segment

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"time"

	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/indexer/index"
)

const (
	MagicBytes    uint32 = 0x58495350 // "PSIX"
	FormatVersion uint32 = 1
	HeaderSize    int    = 64
	FooterSize    int    = 32
)

// Header is the fixed-size header written at the start of every store file.
type Header struct {
	Magic       uint32
	Version     uint32
	TermCount   uint32
	DocCount    uint32
	CreatedAt   int64
	DictOffset  int64
	DictSize    int64
	PostOffset  int64
	PostSize    int64
	Occurrences int64
}

// DictEntry locates one term's postings inside the postings region.
type DictEntry struct {
	Term       string `json:"t"`
	PostOffset int64  `json:"o"`
	PostLen    int    `json:"l"`
	Count      int    `json:"n"`
}

func (h Header) encode() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.Version)
	binary.LittleEndian.PutUint32(buf[8:12], h.TermCount)
	binary.LittleEndian.PutUint32(buf[12:16], h.DocCount)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(h.CreatedAt))
	binary.LittleEndian.PutUint64(buf[24:32], uint64(h.DictOffset))
	binary.LittleEndian.PutUint64(buf[32:40], uint64(h.DictSize))
	binary.LittleEndian.PutUint64(buf[40:48], uint64(h.PostOffset))
	binary.LittleEndian.PutUint64(buf[48:56], uint64(h.PostSize))
	binary.LittleEndian.PutUint64(buf[56:64], uint64(h.Occurrences))
	return buf
}

func decodeHeader(buf []byte) Header {
	return Header{
		Magic:       binary.LittleEndian.Uint32(buf[0:4]),
		Version:     binary.LittleEndian.Uint32(buf[4:8]),
		TermCount:   binary.LittleEndian.Uint32(buf[8:12]),
		DocCount:    binary.LittleEndian.Uint32(buf[12:16]),
		CreatedAt:   int64(binary.LittleEndian.Uint64(buf[16:24])),
		DictOffset:  int64(binary.LittleEndian.Uint64(buf[24:32])),
		DictSize:    int64(binary.LittleEndian.Uint64(buf[32:40])),
		PostOffset:  int64(binary.LittleEndian.Uint64(buf[40:48])),
		PostSize:    int64(binary.LittleEndian.Uint64(buf[48:56])),
		Occurrences: int64(binary.LittleEndian.Uint64(buf[56:64])),
	}
}

// Write stores idx at path. It writes to path+".tmp", syncs, and renames, so a
// crash never leaves a half-written store under the final name.
func Write(path string, idx *index.InvertedIndex) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating store directory: %w", err)
		}
	}
	entries := idx.Entries()

	postings := make([]byte, 0, 64*len(entries))
	dict := make([]DictEntry, 0, len(entries))
	for _, entry := range entries {
		data, err := json.Marshal(entry.Postings)
		if err != nil {
			return fmt.Errorf("marshaling postings for term %q: %w", entry.Term, err)
		}
		dict = append(dict, DictEntry{
			Term:       entry.Term,
			PostOffset: int64(len(postings)),
			PostLen:    len(data),
			Count:      len(entry.Postings),
		})
		postings = append(postings, data...)
	}
	dictData, err := json.Marshal(dict)
	if err != nil {
		return fmt.Errorf("marshaling dictionary: %w", err)
	}

	header := Header{
		Magic:       MagicBytes,
		Version:     FormatVersion,
		TermCount:   uint32(len(entries)),
		DocCount:    uint32(idx.Documents()),
		CreatedAt:   time.Now().Unix(),
		PostOffset:  int64(HeaderSize),
		PostSize:    int64(len(postings)),
		DictOffset:  int64(HeaderSize + len(postings)),
		DictSize:    int64(len(dictData)),
		Occurrences: int64(idx.Occurrences()),
	}
	crc := crc32.NewIEEE()
	crc.Write(postings)
	crc.Write(dictData)
	footer := make([]byte, FooterSize)
	binary.LittleEndian.PutUint32(footer[0:4], crc.Sum32())
	binary.LittleEndian.PutUint32(footer[4:8], header.DocCount)
	binary.LittleEndian.PutUint64(footer[8:16], uint64(header.DictOffset))
	binary.LittleEndian.PutUint64(footer[16:24], uint64(header.DictSize))
	binary.LittleEndian.PutUint64(footer[24:32], uint64(header.PostSize))

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating temp store file: %w", err)
	}
	defer os.Remove(tmpPath)
	for _, part := range [][]byte{header.encode(), postings, dictData, footer} {
		if _, err := f.Write(part); err != nil {
			f.Close()
			return fmt.Errorf("writing store file: %w", err)
		}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("syncing store file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing store file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming store file: %w", err)
	}
	return nil
}
