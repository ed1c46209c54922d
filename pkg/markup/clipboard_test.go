package markup

import (
	"errors"
	"strings"
	"testing"
)

type fakeClipboard struct {
	richErr error
	textErr error
	html    string
	plain   string
}

func (f *fakeClipboard) WriteRich(html, plain string) error {
	if f.richErr != nil {
		return f.richErr
	}
	f.html, f.plain = html, plain
	return nil
}

func (f *fakeClipboard) WriteText(plain string) error {
	if f.textErr != nil {
		return f.textErr
	}
	f.plain = plain
	return nil
}

func TestCopyRich(t *testing.T) {
	cb := &fakeClipboard{}
	rich, err := CopyRich(cb, "[Remote API] **Done** now")
	if err != nil {
		t.Fatalf("CopyRich() error = %v", err)
	}
	if !rich {
		t.Error("CopyRich() = false, want rich copy")
	}
	if cb.html != "<strong>Done</strong> now" {
		t.Errorf("html = %q", cb.html)
	}
	if cb.plain != "Done now" {
		t.Errorf("plain = %q", cb.plain)
	}
}

func TestCopyRich_DegradesToPlain(t *testing.T) {
	cb := &fakeClipboard{richErr: ErrRichUnsupported}
	rich, err := CopyRich(cb, "[On-Device] - item")
	if err != nil {
		t.Fatalf("CopyRich() error = %v", err)
	}
	if rich {
		t.Error("CopyRich() = true, want degraded copy")
	}
	if cb.html != "" {
		t.Errorf("html should not be written, got %q", cb.html)
	}
	if cb.plain != "• item" {
		t.Errorf("plain = %q", cb.plain)
	}
}

func TestCopyRich_PlainFails(t *testing.T) {
	cb := &fakeClipboard{richErr: ErrRichUnsupported, textErr: errors.New("denied")}
	_, err := CopyRich(cb, "text")
	if err == nil || !strings.Contains(err.Error(), "denied") {
		t.Errorf("CopyRich() error = %v, want wrapped denial", err)
	}
}

func TestRenderTerminal(t *testing.T) {
	out, err := RenderTerminal("# Heading\n\nSome **bold** text", "notty", 40)
	if err != nil {
		t.Fatalf("RenderTerminal() error = %v", err)
	}
	for _, want := range []string{"Heading", "bold", "text"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderTerminal() output missing %q: %q", want, out)
		}
	}
}
