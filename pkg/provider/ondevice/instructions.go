package ondevice

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/pageclarity/models"
	"github.com/dtnitsch/pageclarity/pkg/provider"
)

// systemInstruction turns session options into the instruction that makes a
// general model behave like the dedicated summarizer, rewriter, translator or
// proofreader. The language-model capability gets none.
func systemInstruction(c models.Capability, opts provider.SessionOptions) (string, error) {
	switch c {
	case models.CapabilitySummarize:
		var b strings.Builder
		b.WriteString("You are a summarizer. Summarize the user's text")
		if opts.Type == "tl;dr" {
			b.WriteString(" as a short tl;dr")
		}
		if opts.Length != "" {
			fmt.Fprintf(&b, ", %s length", opts.Length)
		}
		if opts.Format == "markdown" {
			b.WriteString(", formatted as markdown")
		}
		b.WriteString(". Reply with the summary only.")
		return b.String(), nil

	case models.CapabilityRewrite:
		var b strings.Builder
		b.WriteString("You are a rewriter. Rewrite the user's text")
		if opts.Tone != "" {
			fmt.Fprintf(&b, " in a %s tone", opts.Tone)
		}
		if opts.Length == "shorter" {
			b.WriteString(" and make it shorter")
		}
		if opts.Format == "plain" {
			b.WriteString(", as plain text")
		}
		b.WriteString(". Reply with the rewritten text only.")
		return b.String(), nil

	case models.CapabilityTranslate:
		if opts.TargetLanguage == "" {
			return "", fmt.Errorf("translator requires a target language")
		}
		source := opts.SourceLanguage
		if source == "" {
			source = "en"
		}
		return fmt.Sprintf("You are a translator. Translate the user's text from %s to %s. Reply with the translation only.", source, opts.TargetLanguage), nil

	case models.CapabilityProofread:
		return "You are a proofreader. Correct any grammar, spelling, or punctuation errors in the user's text. Reply with the corrected text only.", nil

	case models.CapabilityAsk:
		return "", nil
	}
	return "", fmt.Errorf("unsupported capability: %s", c)
}

func samplingOptions(opts provider.SessionOptions) map[string]any {
	out := map[string]any{}
	if opts.Temperature > 0 {
		out["temperature"] = opts.Temperature
	}
	if opts.TopK > 0 {
		out["top_k"] = opts.TopK
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
