package index

import (
	"sort"
	"sync"
)

// InvertedIndex maps a term (a word, or a whole lower-cased line) to the
// ordered list of places it occurs. It is filled once by a builder or a store
// reader and is read-only afterwards, so concurrent readers need no locking.
type InvertedIndex struct {
	postings    map[string]PostingList
	occurrences int

	termsOnce sync.Once
	terms     []string
}

func New() *InvertedIndex {
	return &InvertedIndex{
		postings: make(map[string]PostingList),
	}
}

// Append inserts term if it is new and appends occ to its postings. Empty
// terms are ignored. Append must not be called once the index is shared.
func (idx *InvertedIndex) Append(term string, occ Occurrence) {
	if term == "" {
		return
	}
	idx.postings[term] = append(idx.postings[term], occ)
	idx.occurrences++
}

// Lookup returns a copy of the postings for term, or nil.
func (idx *InvertedIndex) Lookup(term string) PostingList {
	postings, ok := idx.postings[term]
	if !ok {
		return nil
	}
	out := make(PostingList, len(postings))
	copy(out, postings)
	return out
}

// Contains reports whether term has at least one occurrence.
func (idx *InvertedIndex) Contains(term string) bool {
	return len(idx.postings[term]) > 0
}

// Terms returns every term in lexicographic order. The slice is computed on
// first use and shared; callers must not modify it.
func (idx *InvertedIndex) Terms() []string {
	idx.termsOnce.Do(func() {
		terms := make([]string, 0, len(idx.postings))
		for term := range idx.postings {
			terms = append(terms, term)
		}
		sort.Strings(terms)
		idx.terms = terms
	})
	return idx.terms
}

// Entries returns the index as term-sorted entries, the layout the store
// writer expects.
func (idx *InvertedIndex) Entries() []TermEntry {
	terms := idx.Terms()
	entries := make([]TermEntry, 0, len(terms))
	for _, term := range terms {
		entries = append(entries, TermEntry{Term: term, Postings: idx.postings[term]})
	}
	return entries
}

// Len returns the number of distinct terms.
func (idx *InvertedIndex) Len() int {
	return len(idx.postings)
}

// Occurrences returns the total number of postings across all terms.
func (idx *InvertedIndex) Occurrences() int {
	return idx.occurrences
}

// Documents returns the number of distinct document ids.
func (idx *InvertedIndex) Documents() int {
	docs := make(map[string]struct{})
	for _, postings := range idx.postings {
		for _, occ := range postings {
			docs[occ.DocID] = struct{}{}
		}
	}
	return len(docs)
}

// Equal reports whether both indexes hold the same terms with identical
// postings, order and duplicates included.
func (idx *InvertedIndex) Equal(other *InvertedIndex) bool {
	if idx.Len() != other.Len() || idx.occurrences != other.occurrences {
		return false
	}
	for term, postings := range idx.postings {
		theirs, ok := other.postings[term]
		if !ok || len(theirs) != len(postings) {
			return false
		}
		for i := range postings {
			if postings[i] != theirs[i] {
				return false
			}
		}
	}
	return true
}
