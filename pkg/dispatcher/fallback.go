package dispatcher

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/dtnitsch/pageclarity/models"
)

const configureHint = "(Configure the remote API key for real AI)"

var corrections = []struct {
	pattern *regexp.Regexp
	replace string
}{
	{regexp.MustCompile(`\bi\b`), "I"},
	{regexp.MustCompile(`\bteh\b`), "the"},
	{regexp.MustCompile(`\brecieve\b`), "receive"},
}

// Correct applies the fixed demo corrections used by the proofread fallback.
// It is idempotent.
func Correct(text string) string {
	for _, c := range corrections {
		text = c.pattern.ReplaceAllString(text, c.replace)
	}
	return text
}

func fallbackText(req models.CapabilityRequest, pl plan) string {
	tag := models.TierFallback.Tag()

	switch req.Capability {
	case models.CapabilitySummarize:
		return fmt.Sprintf("%s Summary of text (%d chars):\n\n• Main topic identified\n• Important details highlighted\n• Concise overview provided\n\n%s",
			tag, utf8.RuneCountInString(req.Input), configureHint)

	case models.CapabilityRewrite:
		_, style := ResolveStyle(pl.style)
		return fmt.Sprintf("%s Text rewritten in %s style:\n\n%s\n\n%s", tag, style.Description, req.Input, configureHint)

	case models.CapabilityTranslate:
		return fmt.Sprintf("%s Translation to %s:\n\n\"%s\"\n\n%s", tag, pl.targetLabel, req.Input, configureHint)

	case models.CapabilityProofread:
		return fmt.Sprintf("%s Proofread version:\n\n%s\n\n%s", tag, Correct(req.Input), configureHint)

	case models.CapabilityAsk:
		pc := contextOf(req)
		return fmt.Sprintf("%s Answer to \"%s\":\n\nBased on the page \"%s\", here would be an AI-generated response.\n\n%s",
			tag, req.Input, orDefault(pc.Title, "this page"), configureHint)
	}
	return fmt.Sprintf("%s No placeholder is available for %q.\n\n%s", tag, req.Capability, configureHint)
}
