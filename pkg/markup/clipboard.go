package markup

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrRichUnsupported is returned by clipboards that only hold plain text.
var ErrRichUnsupported = errors.New("clipboard does not support rich text")

// Clipboard writes to a system or test clipboard.
type Clipboard interface {
	// WriteRich places both representations on the clipboard in one write.
	WriteRich(html, plain string) error
	WriteText(plain string) error
}

// SystemClipboard is the OS clipboard. It only holds plain text, so rich
// copies always degrade.
type SystemClipboard struct{}

func (SystemClipboard) WriteRich(html, plain string) error {
	return ErrRichUnsupported
}

func (SystemClipboard) WriteText(plain string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility available")
	}
	return clipboard.WriteAll(plain)
}

// CopyRich strips the provenance tag from text and copies it as HTML plus
// plain text. When the rich write fails it copies plain text only and
// reports false.
func CopyRich(cb Clipboard, text string) (bool, error) {
	clean := StripTierTag(text)
	plain := ToPlainText(clean)

	if err := cb.WriteRich(RenderMarkup(clean), plain); err == nil {
		return true, nil
	}
	if err := cb.WriteText(plain); err != nil {
		return false, fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return false, nil
}
