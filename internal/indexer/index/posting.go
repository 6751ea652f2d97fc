package index

import "fmt"

// Occurrence identifies one line in one document. Line numbers start at 1.
type Occurrence struct {
	DocID string `json:"d"`
	Line  int    `json:"l"`
}

func (o Occurrence) String() string {
	return fmt.Sprintf("%s:%d", o.DocID, o.Line)
}

// PostingList is the ordered occurrence list of one term. Duplicates are kept
// and order is scan order.
type PostingList []Occurrence

// TermEntry pairs a term with its postings, as written to the index store.
type TermEntry struct {
	Term     string
	Postings PostingList
}
