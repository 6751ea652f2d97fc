package segment

import (
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"os"

	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/phrase-search/pkg/errors"
)

// Read loads the store at path into a new index. Open errors are returned as
// is (so callers can test os.IsNotExist); every structural problem is
// reported as errors.ErrCorruptIndex.
func Read(path string) (*index.InvertedIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses a store image held in memory.
func Decode(data []byte) (*index.InvertedIndex, error) {
	if len(data) < HeaderSize+FooterSize {
		return nil, apperrors.Corruptf("store too short: %d bytes", len(data))
	}
	header := decodeHeader(data[:HeaderSize])
	if header.Magic != MagicBytes {
		return nil, apperrors.Corruptf("bad magic bytes %x", header.Magic)
	}
	if header.Version != FormatVersion {
		return nil, apperrors.Corruptf("unsupported store version %d", header.Version)
	}
	size := int64(len(data))
	if header.PostOffset != int64(HeaderSize) ||
		header.PostSize < 0 || header.DictSize < 0 ||
		header.DictOffset != header.PostOffset+header.PostSize ||
		header.DictOffset+header.DictSize+int64(FooterSize) != size {
		return nil, apperrors.Corruptf("region bounds do not match file size %d", size)
	}

	postings := data[header.PostOffset:header.DictOffset]
	dictData := data[header.DictOffset : header.DictOffset+header.DictSize]
	footer := data[size-int64(FooterSize):]
	crc := crc32.NewIEEE()
	crc.Write(postings)
	crc.Write(dictData)
	if want := binary.LittleEndian.Uint32(footer[0:4]); crc.Sum32() != want {
		return nil, apperrors.Corruptf("checksum mismatch: got %08x, want %08x", crc.Sum32(), want)
	}

	var dict []DictEntry
	if err := json.Unmarshal(dictData, &dict); err != nil {
		return nil, apperrors.Corruptf("parsing dictionary: %v", err)
	}
	if len(dict) != int(header.TermCount) {
		return nil, apperrors.Corruptf("dictionary has %d terms, header says %d", len(dict), header.TermCount)
	}

	idx := index.New()
	for _, entry := range dict {
		end := entry.PostOffset + int64(entry.PostLen)
		if entry.Term == "" || entry.PostOffset < 0 || entry.PostLen < 0 || end > int64(len(postings)) {
			return nil, apperrors.Corruptf("bad dictionary entry for term %q", entry.Term)
		}
		var list index.PostingList
		if err := json.Unmarshal(postings[entry.PostOffset:end], &list); err != nil {
			return nil, apperrors.Corruptf("parsing postings for term %q: %v", entry.Term, err)
		}
		if len(list) != entry.Count {
			return nil, apperrors.Corruptf("term %q has %d postings, dictionary says %d", entry.Term, len(list), entry.Count)
		}
		for _, occ := range list {
			idx.Append(entry.Term, occ)
		}
	}
	if int64(idx.Occurrences()) != header.Occurrences {
		return nil, apperrors.Corruptf("store has %d occurrences, header says %d", idx.Occurrences(), header.Occurrences)
	}
	return idx, nil
}
