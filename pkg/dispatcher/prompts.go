package dispatcher

import (
	"fmt"

	"github.com/dtnitsch/pageclarity/models"
)

func summarizePrompt(text string) string {
	return "Summarize this text in 3-4 bullet points:\n\n" + text
}

func translatePrompt(label, text string) string {
	return fmt.Sprintf("Translate this text to %s:\n\n%s", label, text)
}

func proofreadPrompt(text string) string {
	return "Proofread and correct any grammar, spelling, or punctuation errors in this text:\n\n" + text
}

func askOnDevicePrompt(pc models.PageContext, question string) string {
	return fmt.Sprintf("Page Context:\nTitle: %s\nContent: %s\n\nUser Question: %s\n\nAnswer based on the page context:",
		orDefault(pc.Title, "Unknown"),
		orDefault(pc.TopContent, "No content"),
		question,
	)
}

func askRemotePrompt(pc models.PageContext, question string) string {
	return fmt.Sprintf("Based on this webpage context, answer the user's question:\n\n"+
		"Page Title: %s\nPage Content: %s\nSelected Text: %s\n\n"+
		"User Question: %s\n\nProvide a helpful answer based on the page context:",
		orDefault(pc.Title, "Unknown"),
		orDefault(pc.TopContent, "No content available"),
		orDefault(pc.Selection, "None"),
		question,
	)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
