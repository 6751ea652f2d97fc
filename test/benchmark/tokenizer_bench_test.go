package benchmark

import (
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/phrase-search/internal/searcher/ranker"
)

var benchLine = "The Quick, brown fox -- jumped over the LAZY dog's 3rd kennel; twice!"

func BenchmarkNormalize(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = tokenizer.Normalize(benchLine)
	}
}

func BenchmarkNormalizeLong(b *testing.B) {
	long := strings.Repeat(benchLine+" ", 100)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tokenizer.Normalize(long)
	}
}

func BenchmarkWords(b *testing.B) {
	term := tokenizer.LineTerm(benchLine)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tokenizer.Words(term)
	}
}

func BenchmarkDistance(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = ranker.Distance("kitten", "sitting")
	}
}

// BenchmarkScore scores a short query against a full line, the shape used
// for every verified match.
func BenchmarkScore(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = ranker.Score("quick brwn fox", benchLine)
	}
}
