package dispatcher

import "strings"

const (
	DefaultStyle          = "plain"
	DefaultTargetLanguage = "es"
	DefaultSourceLanguage = "en"
)

// Style describes how a rewrite style maps onto each tier.
type Style struct {
	Tone        string // on-device tone
	Length      string // on-device length, empty for unchanged
	Instruction string // remote instruction
	Description string // fallback wording
}

var styles = map[string]Style{
	"plain": {
		Tone:        "neutral",
		Instruction: "Rewrite this text in simple, clear language:",
		Description: "simplified and clear",
	},
	"friendly": {
		Tone:        "casual",
		Instruction: "Rewrite this text in a warm, conversational tone:",
		Description: "warm and conversational",
	},
	"shorter": {
		Tone:        "neutral",
		Length:      "shorter",
		Instruction: "Rewrite this text to be more concise:",
		Description: "concise and brief",
	},
}

// ResolveStyle returns the canonical style name and its mapping. Unrecognized
// styles resolve to plain.
func ResolveStyle(name string) (string, Style) {
	name = strings.ToLower(strings.TrimSpace(name))
	if s, ok := styles[name]; ok {
		return name, s
	}
	return DefaultStyle, styles[DefaultStyle]
}

var languageNames = map[string]string{
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"hi": "Hindi",
	"zh": "Chinese",
	"ja": "Japanese",
}

// LanguageLabel names a language code. Unknown codes are returned verbatim.
func LanguageLabel(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}
