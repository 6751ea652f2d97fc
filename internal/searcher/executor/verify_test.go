package executor

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestPhraseInLine(t *testing.T) {
	tests := []struct {
		line, phrase string
		want         bool
	}{
		{"This is a simple test file.", "this is", true},
		{"This is a simple test file.", "simple  TEST", true},
		{"This is a simple test file.", "test simple", false},
		{"is this the line", "this is", false},
		{"anything", "", true},
		{"", "word", false},
	}
	for _, tt := range tests {
		if got := PhraseInLine(tt.line, tt.phrase); got != tt.want {
			t.Errorf("PhraseInLine(%q, %q) = %v, want %v", tt.line, tt.phrase, got, tt.want)
		}
	}
}

func TestVerifyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte(sampleText), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := VerifyDocument(path, "doc.txt", []int{1, 2, 3, 9}, "this is")
	if err != nil {
		t.Fatalf("VerifyDocument: %v", err)
	}
	want := []Match{
		{DocID: "doc.txt", Line: 1, Text: "This is a simple test file."},
		{DocID: "doc.txt", Line: 3, Text: "This is the third line."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("VerifyDocument = %+v, want %+v", got, want)
	}
}

func TestVerifyDocument_MissingFile(t *testing.T) {
	_, err := VerifyDocument(filepath.Join(t.TempDir(), "nope.txt"), "nope.txt", []int{1}, "x")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBestCorrection(t *testing.T) {
	_, idx := setupCorpus(t, map[string]string{"a.txt": "cat bat hat\n"})

	tests := []struct {
		word   string
		want   string
		wantOK bool
	}{
		{"cat", "cat", true},
		{"cas", "cat", true},
		{"xat", "bat", true},
		{"dog", "", false},
	}
	for _, tt := range tests {
		got, ok := bestCorrection(idx, tt.word)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("bestCorrection(%q) = %q, %v; want %q, %v", tt.word, got, ok, tt.want, tt.wantOK)
		}
	}
}
