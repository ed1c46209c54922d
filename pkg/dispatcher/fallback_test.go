package dispatcher

import (
	"strings"
	"testing"

	"github.com/dtnitsch/pageclarity/models"
)

func TestCorrect(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "i recieve teh package", want: "I receive the package"},
		{in: "if i think, i am", want: "if I think, I am"},
		{in: "tehran is not teh word", want: "tehran is not the word"},
		{in: "Nothing to fix.", want: "Nothing to fix."},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Correct(tt.in); got != tt.want {
				t.Errorf("Correct() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCorrect_Idempotent(t *testing.T) {
	inputs := []string{
		"i recieve teh package",
		"teh i recieve i teh",
		"I already receive the mail",
	}
	for _, in := range inputs {
		once := Correct(in)
		if twice := Correct(once); twice != once {
			t.Errorf("Correct not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestFallbackText_SummarizeCountsRunes(t *testing.T) {
	req := models.CapabilityRequest{Capability: models.CapabilitySummarize, Input: "héllo"}
	got := fallbackText(req, plan{})
	if !strings.Contains(got, "(5 chars)") {
		t.Errorf("fallbackText() = %q, want rune count", got)
	}
}

func TestLanguageLabel(t *testing.T) {
	tests := map[string]string{
		"es": "Spanish",
		"fr": "French",
		"de": "German",
		"hi": "Hindi",
		"zh": "Chinese",
		"ja": "Japanese",
		"xx": "xx",
		"pt": "pt",
	}
	for code, want := range tests {
		if got := LanguageLabel(code); got != want {
			t.Errorf("LanguageLabel(%q) = %q, want %q", code, got, want)
		}
	}
}
