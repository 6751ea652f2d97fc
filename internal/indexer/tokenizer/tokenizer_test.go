package tokenizer

import (
	"reflect"
	"strings"
	"testing"
	"unicode"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, world!", "hello world"},
		{"  This    is    a  test   ", "this is a test"},
		{"", ""},
		{"!!!", ""},
		{"snake_case stays", "snake_case stays"},
		{"Tabs\tand\nnewlines", "tabs and newlines"},
		{"don't stop", "dont stop"},
		{"a , b", "a b"},
		{"Ünïcödé WÖRDS", "ünïcödé wörds"},
		{"version 2.0.1", "version 201"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_IdempotentAndLowercase(t *testing.T) {
	inputs := []string{
		"Hello, world!",
		"  MIXED   Case\t\tText ",
		"İstanbul ǅemal",
		"punctuation... everywhere?! (yes)",
		"ΣΊΣΥΦΟΣ",
		" non-breaking space",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
		for _, r := range once {
			if unicode.IsUpper(r) {
				t.Errorf("Normalize(%q) = %q contains upper-case rune %q", in, once, r)
			}
		}
		if strings.Contains(once, "  ") || strings.HasPrefix(once, " ") || strings.HasSuffix(once, " ") {
			t.Errorf("Normalize(%q) = %q has stray spaces", in, once)
		}
	}
}

func TestLineTerm(t *testing.T) {
	if got := LineTerm("  This is a simple test file.\n"); got != "this is a simple test file." {
		t.Errorf("LineTerm = %q", got)
	}
}

func TestWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"this is a simple test file.", []string{"this", "is", "a", "simple", "test", "file"}},
		{"it's e-mail_v2!", []string{"it", "s", "e", "mail_v2"}},
		{"...", nil},
	}
	for _, tt := range tests {
		got := Words(tt.in)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Words(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
