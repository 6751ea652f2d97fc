package index

import (
	"reflect"
	"sync"
	"testing"
)

func TestInvertedIndex_AppendAndLookup(t *testing.T) {
	idx := New()
	idx.Append("this", Occurrence{"a.txt", 1})
	idx.Append("this", Occurrence{"a.txt", 3})
	idx.Append("this", Occurrence{"a.txt", 3})
	idx.Append("it", Occurrence{"a.txt", 2})
	idx.Append("", Occurrence{"a.txt", 4})

	want := PostingList{{"a.txt", 1}, {"a.txt", 3}, {"a.txt", 3}}
	if got := idx.Lookup("this"); !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup(this) = %v, want %v", got, want)
	}
	if got := idx.Lookup("missing"); got != nil {
		t.Errorf("Lookup(missing) = %v, want nil", got)
	}
	if idx.Contains("") {
		t.Error("empty term must never be stored")
	}
	if idx.Len() != 2 {
		t.Errorf("Len = %d, want 2", idx.Len())
	}
	if idx.Occurrences() != 4 {
		t.Errorf("Occurrences = %d, want 4", idx.Occurrences())
	}
	if idx.Documents() != 1 {
		t.Errorf("Documents = %d, want 1", idx.Documents())
	}
}

func TestInvertedIndex_LookupReturnsCopy(t *testing.T) {
	idx := New()
	idx.Append("word", Occurrence{"a.txt", 1})
	got := idx.Lookup("word")
	got[0].Line = 99
	if idx.Lookup("word")[0].Line != 1 {
		t.Error("mutating a Lookup result changed the index")
	}
}

func TestInvertedIndex_TermsSorted(t *testing.T) {
	idx := New()
	for _, term := range []string{"zeta", "alpha", "mid"} {
		idx.Append(term, Occurrence{"a.txt", 1})
	}
	want := []string{"alpha", "mid", "zeta"}
	if got := idx.Terms(); !reflect.DeepEqual(got, want) {
		t.Errorf("Terms = %v, want %v", got, want)
	}
	entries := idx.Entries()
	if len(entries) != 3 || entries[0].Term != "alpha" {
		t.Errorf("Entries = %v", entries)
	}
}

func TestInvertedIndex_ConcurrentReads(t *testing.T) {
	idx := New()
	for i := 1; i <= 100; i++ {
		idx.Append("term", Occurrence{"a.txt", i})
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = idx.Terms()
			if len(idx.Lookup("term")) != 100 {
				t.Error("unexpected postings length")
			}
		}()
	}
	wg.Wait()
}

func TestInvertedIndex_Equal(t *testing.T) {
	a, b := New(), New()
	a.Append("x", Occurrence{"d", 1})
	a.Append("x", Occurrence{"d", 2})
	b.Append("x", Occurrence{"d", 2})
	b.Append("x", Occurrence{"d", 1})
	if a.Equal(b) {
		t.Error("indexes with different postings order reported equal")
	}
	c := New()
	c.Append("x", Occurrence{"d", 1})
	c.Append("x", Occurrence{"d", 2})
	if !a.Equal(c) {
		t.Error("identical indexes reported unequal")
	}
}
