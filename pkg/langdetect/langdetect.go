// Package langdetect guesses the source language of text handed to the
// translator.
package langdetect

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// DefaultLanguage is reported when detection is inconclusive.
const DefaultLanguage = "en"

// Supported are the languages the detector distinguishes between. Keeping the
// set small keeps the loaded models small.
var Supported = []lingua.Language{
	lingua.English,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Hindi,
	lingua.Chinese,
	lingua.Japanese,
	lingua.Italian,
	lingua.Portuguese,
}

// Detector wraps a lazily built lingua detector. The zero value is ready to use.
type Detector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

func (d *Detector) load() lingua.LanguageDetector {
	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(Supported...).
			Build()
	})
	return d.detector
}

// Detect returns the ISO 639-1 code of text's language, lowercased, and
// whether detection succeeded.
func (d *Detector) Detect(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	lang, ok := d.load().DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// DetectOr returns the detected code, or fallback.
func (d *Detector) DetectOr(text, fallback string) string {
	if code, ok := d.Detect(text); ok {
		return code
	}
	return fallback
}
