package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/indexer/index"
)

const sampleText = "This is a simple test file.\nIt has several lines of text.\nThis is the third line.\n"

func setupCorpus(t *testing.T, files map[string]string) (string, *index.InvertedIndex) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	idx, err := indexer.NewBuilder([]string{".txt"}).Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return dir, idx
}

func lineNumbers(res *SearchResult) []int {
	var lines []int
	for _, c := range res.Results {
		lines = append(lines, c.Line)
	}
	return lines
}

func TestSearch_SampleFile(t *testing.T) {
	dir, idx := setupCorpus(t, map[string]string{"test_file.txt": sampleText})
	exec := New(idx, dir, Options{Workers: 2})

	res, err := exec.Search(context.Background(), "this is")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Message != "" {
		t.Errorf("Message = %q, want empty", res.Message)
	}
	if res.Phrase != "this is" {
		t.Errorf("Phrase = %q, want %q", res.Phrase, "this is")
	}
	// Line 3 is the closer match to the raw query and ranks first.
	if got := lineNumbers(res); !reflect.DeepEqual(got, []int{3, 1}) {
		t.Fatalf("lines = %v, want [3 1]", got)
	}
	for _, c := range res.Results {
		if c.DocID != "test_file.txt" {
			t.Errorf("DocID = %q", c.DocID)
		}
	}
	if res.Results[1].Text != "This is a simple test file." {
		t.Errorf("Text = %q", res.Results[1].Text)
	}
}

func TestSearch_ScoresAgainstRawQuery(t *testing.T) {
	dir, idx := setupCorpus(t, map[string]string{"test_file.txt": sampleText})
	exec := New(idx, dir, Options{})

	res, err := exec.Search(context.Background(), "this is")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	var scores []int
	for _, c := range res.Results {
		scores = append(scores, c.Score)
	}
	if !reflect.DeepEqual(scores, []int{-23, -37}) {
		t.Errorf("scores = %v, want [-23 -37]", scores)
	}
}

func TestSearch_CapsAtMaxResults(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "the quick fox number %d\n", i)
	}
	dir, idx := setupCorpus(t, map[string]string{"fox.txt": b.String()})
	exec := New(idx, dir, Options{MaxResults: 5})

	res, err := exec.Search(context.Background(), "quick fox")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Results) != 5 {
		t.Fatalf("len(Results) = %d, want 5", len(res.Results))
	}
	if res.TotalCandidates != 8 {
		t.Errorf("TotalCandidates = %d, want 8", res.TotalCandidates)
	}
	// Equal scores keep document order.
	if got := lineNumbers(res); !reflect.DeepEqual(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("lines = %v", got)
	}
	for i := 1; i < len(res.Results); i++ {
		if res.Results[i].Score > res.Results[i-1].Score {
			t.Errorf("results not in descending score order: %v", res.Results)
		}
	}
}

func TestSearch_FuzzyCorrection(t *testing.T) {
	dir, idx := setupCorpus(t, map[string]string{"test_file.txt": sampleText})
	exec := New(idx, dir, Options{})

	res, err := exec.Search(context.Background(), "simpel test")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// "simpel" is two edits from "simple"; nothing within one edit exists.
	if len(res.Results) != 0 || res.Message != MessageNotFound {
		t.Errorf("got %+v, want not found", res)
	}

	res, err = exec.Search(context.Background(), "simplr test")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Phrase != "simple test" {
		t.Errorf("Phrase = %q, want %q", res.Phrase, "simple test")
	}
	want := []Correction{{Word: "simplr", Replacement: "simple", Corrected: true}}
	if !reflect.DeepEqual(res.Corrections, want) {
		t.Errorf("Corrections = %+v, want %+v", res.Corrections, want)
	}
	if got := lineNumbers(res); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("lines = %v, want [1]", got)
	}
}

func TestSearch_WordWithoutCorrection(t *testing.T) {
	dir, idx := setupCorpus(t, map[string]string{"test_file.txt": sampleText})
	exec := New(idx, dir, Options{})

	res, err := exec.Search(context.Background(), "this zzzzzz")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Results) != 0 {
		t.Errorf("Results = %v, want none", res.Results)
	}
	if res.Message != MessageNotFound {
		t.Errorf("Message = %q", res.Message)
	}
	want := []Correction{{Word: "zzzzzz", Replacement: "zzzzzz"}}
	if !reflect.DeepEqual(res.Corrections, want) {
		t.Errorf("Corrections = %+v", res.Corrections)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	dir, idx := setupCorpus(t, map[string]string{"test_file.txt": sampleText})
	exec := New(idx, dir, Options{})

	for _, q := range []string{"", "   ", "?!."} {
		res, err := exec.Search(context.Background(), q)
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if res.Message != MessageNoWords {
			t.Errorf("Search(%q).Message = %q", q, res.Message)
		}
		if res.Results == nil || len(res.Results) != 0 {
			t.Errorf("Search(%q).Results = %v, want empty slice", q, res.Results)
		}
	}
}

func TestSearch_WordsNotAdjacent(t *testing.T) {
	dir, idx := setupCorpus(t, map[string]string{"a.txt": "is this the line\n"})
	exec := New(idx, dir, Options{})

	res, err := exec.Search(context.Background(), "this is")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.TotalCandidates != 1 {
		t.Errorf("TotalCandidates = %d, want 1", res.TotalCandidates)
	}
	if len(res.Results) != 0 || res.Message != MessageNotFound {
		t.Errorf("got %+v, want not found", res)
	}
}

func TestSearch_MissingDocumentSkipped(t *testing.T) {
	dir, idx := setupCorpus(t, map[string]string{
		"a.txt": "the quick brown fox\n",
		"b.txt": "a quick brown dog\n",
	})
	if err := os.Remove(filepath.Join(dir, "a.txt")); err != nil {
		t.Fatal(err)
	}
	exec := New(idx, dir, Options{Workers: 1})

	res, err := exec.Search(context.Background(), "quick brown")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Results) != 1 || res.Results[0].DocID != "b.txt" {
		t.Errorf("Results = %+v, want only b.txt", res.Results)
	}
}

func TestSearch_MultipleDocumentsInOrder(t *testing.T) {
	dir, idx := setupCorpus(t, map[string]string{
		"b.txt":     "red apple pie\n",
		"a.txt":     "Red apple\nred apple tart\n",
		"sub/c.txt": "red apple\n",
	})
	exec := New(idx, dir, Options{Workers: 3, MaxResults: 10})

	res, err := exec.Search(context.Background(), "red apple")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	var got []string
	for _, c := range res.Results {
		got = append(got, fmt.Sprintf("%s:%d:%d", c.DocID, c.Line, c.Score))
	}
	// Lines containing the raw query score 18; "Red apple" loses 5 for the
	// substituted first letter and sorts last.
	want := []string{"a.txt:2:18", "b.txt:1:18", "sub/c.txt:1:18", "a.txt:1:13"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("results = %v, want %v", got, want)
	}
}

func TestSearch_Cancelled(t *testing.T) {
	dir, idx := setupCorpus(t, map[string]string{"test_file.txt": sampleText})
	exec := New(idx, dir, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := exec.Search(ctx, "this is"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestLookup(t *testing.T) {
	dir, idx := setupCorpus(t, map[string]string{"test_file.txt": sampleText})
	exec := New(idx, dir, Options{})

	got := exec.Lookup(context.Background(), "  THIS ")
	want := []Match{
		{DocID: "test_file.txt", Line: 1, Text: "This is a simple test file."},
		{DocID: "test_file.txt", Line: 3, Text: "This is the third line."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup = %+v, want %+v", got, want)
	}
	if got := exec.Lookup(context.Background(), "absent"); len(got) != 0 {
		t.Errorf("Lookup(absent) = %v", got)
	}
}
