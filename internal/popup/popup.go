package popup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dtnitsch/pageclarity/models"
	"github.com/dtnitsch/pageclarity/pkg/markup"
	"github.com/dtnitsch/pageclarity/pkg/transport"
)

type Action string

const (
	SummarizePage      Action = "summarize-page"
	SummarizeSelection Action = "summarize-selection"
	RewriteSelection   Action = "rewrite-selection"
	CopyRewrite        Action = "copy-rewrite"
	ReplaceRewrite     Action = "replace-rewrite"
	TranslateSelection Action = "translate-selection"
	ProofreadSelection Action = "proofread-selection"
	CopyProofread      Action = "copy-proofread"
	AskPage            Action = "ask-page"
)

// Actions lists every action in menu order.
var Actions = []Action{
	SummarizePage, SummarizeSelection,
	RewriteSelection, CopyRewrite, ReplaceRewrite,
	TranslateSelection,
	ProofreadSelection, CopyProofread,
	AskPage,
}

var ErrUnknownAction = errors.New("unknown action")

const (
	pastePrompt = "For your security, this site restricts text access. Please paste the text you'd like to %s:"

	noContentSummary = "Page: %s\nURL: %s\n\nContent extraction not available for this page. Please select text manually for better results."
	noContentContext = "Content extraction not available for this page. Question will be answered based on page title and URL only."
	unknownPage      = "Unknown Page"
)

// Executor runs one capability request and always produces text.
type Executor interface {
	Execute(ctx context.Context, req models.CapabilityRequest) models.CapabilityResult
}

// Prompter asks the user to paste text when the page refuses to share it.
type Prompter interface {
	Prompt(message string) (string, error)
}

// TabFunc reports the active page as known without the peer.
type TabFunc func(ctx context.Context) models.Tab

// Input carries the per-action fields the user filled in.
type Input struct {
	Style    string
	Target   string
	Question string
}

// Output is what an action leaves on screen. Display is markdown; Result is
// nil when no capability ran.
type Output struct {
	Action  Action
	Display string
	Result  *models.CapabilityResult
	Status  Status
}

type Options struct {
	Executor  Executor
	Peer      transport.Peer
	Prompter  Prompter
	Clipboard markup.Clipboard
	Tab       TabFunc
	Logger    *slog.Logger
}

type handler func(ctx context.Context, in Input) Output

// Surface maps action identifiers to capability calls. Apart from the two
// last-result caches it holds no state between actions.
type Surface struct {
	exec      Executor
	peer      transport.Peer
	prompter  Prompter
	clipboard markup.Clipboard
	tab       TabFunc
	logger    *slog.Logger
	commands  map[Action]handler

	mu            sync.Mutex
	lastRewrite   string
	lastProofread string
}

func New(opts Options) *Surface {
	s := &Surface{
		exec:      opts.Executor,
		peer:      opts.Peer,
		prompter:  opts.Prompter,
		clipboard: opts.Clipboard,
		tab:       opts.Tab,
		logger:    opts.Logger,
	}
	if s.clipboard == nil {
		s.clipboard = markup.SystemClipboard{}
	}
	if s.tab == nil {
		s.tab = func(context.Context) models.Tab { return models.Tab{} }
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.commands = map[Action]handler{
		SummarizePage:      s.summarizePage,
		SummarizeSelection: s.summarizeSelection,
		RewriteSelection:   s.rewriteSelection,
		CopyRewrite:        s.copyLast(&s.lastRewrite),
		ReplaceRewrite:     s.replaceRewrite,
		TranslateSelection: s.translateSelection,
		ProofreadSelection: s.proofreadSelection,
		CopyProofread:      s.copyLast(&s.lastProofread),
		AskPage:            s.askPage,
	}
	return s
}

// Do runs one action. It only fails for unknown actions; capability and
// transport problems end up in the returned status.
func (s *Surface) Do(ctx context.Context, action Action, in Input) (Output, error) {
	h, ok := s.commands[action]
	if !ok {
		return Output{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	s.logger.Debug("action started", "action", action)
	out := h(ctx, in)
	out.Action = action
	s.logger.Debug("action finished", "action", action, "status", out.Status.Message, "error", out.Status.Error)
	return out, nil
}

// LastRewrite and LastProofread expose the copy caches.
func (s *Surface) LastRewrite() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRewrite
}

func (s *Surface) LastProofread() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastProofread
}

func (s *Surface) summarizePage(ctx context.Context, in Input) Output {
	content := s.relay(ctx, transport.NewRequest(transport.GetPageContent, "")).Text
	if content == "" {
		tab := s.tab(ctx)
		content = fmt.Sprintf(noContentSummary, tab.Title, tab.URL)
	}
	res := s.run(ctx, models.CapabilitySummarize, content, nil, nil)
	return Output{Display: res.Text, Result: &res, Status: info("Summary complete")}
}

func (s *Surface) summarizeSelection(ctx context.Context, in Input) Output {
	text, status, ok := s.selection(ctx, "summarize")
	if !ok {
		return Output{Status: status}
	}
	res := s.run(ctx, models.CapabilitySummarize, text, nil, nil)
	return Output{Display: res.Text, Result: &res, Status: info("Summary complete")}
}

func (s *Surface) rewriteSelection(ctx context.Context, in Input) Output {
	text, status, ok := s.selection(ctx, "rewrite")
	if !ok {
		return Output{Status: status}
	}
	opts := map[string]string{models.OptionStyle: in.Style}
	res := s.run(ctx, models.CapabilityRewrite, text, opts, nil)
	s.remember(&s.lastRewrite, res.Text)
	return Output{Display: res.Text, Result: &res, Status: info("Rewrite complete")}
}

func (s *Surface) translateSelection(ctx context.Context, in Input) Output {
	text, status, ok := s.selection(ctx, "translate")
	if !ok {
		return Output{Status: status}
	}
	opts := map[string]string{models.OptionTarget: in.Target}
	res := s.run(ctx, models.CapabilityTranslate, text, opts, nil)
	return Output{
		Display: fmt.Sprintf("**Original:** %s\n\n**Translated:** %s", text, res.Text),
		Result:  &res,
		Status:  info("Translation complete"),
	}
}

func (s *Surface) proofreadSelection(ctx context.Context, in Input) Output {
	text, status, ok := s.selection(ctx, "proofread")
	if !ok {
		return Output{Status: status}
	}
	res := s.run(ctx, models.CapabilityProofread, text, nil, nil)
	s.remember(&s.lastProofread, res.Text)
	return Output{
		Display: fmt.Sprintf("**Original:** %s\n\n**Corrected:** %s", text, res.Text),
		Result:  &res,
		Status:  info("Proofreading complete"),
	}
}

func (s *Surface) askPage(ctx context.Context, in Input) Output {
	question := strings.TrimSpace(in.Question)
	if question == "" {
		return Output{Status: failure("Please enter a question")}
	}

	resp := s.relay(ctx, transport.NewRequest(transport.GetPageContext, ""))
	pc := resp.Context
	if pc == nil {
		tab := s.tab(ctx)
		title := tab.Title
		if title == "" {
			title = unknownPage
		}
		pc = &models.PageContext{
			Title:      title,
			URL:        tab.URL,
			Selection:  "None",
			TopContent: noContentContext,
		}
	}

	res := s.run(ctx, models.CapabilityAsk, question, nil, pc)
	return Output{Display: res.Text, Result: &res, Status: info("Answer complete")}
}

func (s *Surface) copyLast(slot *string) handler {
	return func(ctx context.Context, in Input) Output {
		s.mu.Lock()
		text := *slot
		s.mu.Unlock()
		if text == "" {
			return Output{Status: failure("Nothing to copy yet")}
		}

		rich, err := markup.CopyRich(s.clipboard, text)
		if err != nil {
			return Output{Status: failure("Error: " + err.Error())}
		}
		if rich {
			return Output{Status: info("Copied with formatting!")}
		}
		return Output{Status: info("Copied as plain text")}
	}
}

func (s *Surface) replaceRewrite(ctx context.Context, in Input) Output {
	text := markup.ToPlainText(markup.StripTierTag(s.LastRewrite()))
	if text == "" {
		return Output{Status: failure("Nothing to replace yet")}
	}

	resp := s.relay(ctx, transport.NewRequest(transport.ReplaceInInput, text))
	switch {
	case resp.Unavailable():
		return Output{Status: failure("Please refresh the page and try again")}
	case !resp.Success:
		return Output{Status: failure("No editable field found on the page")}
	}
	return Output{Status: info("Text replaced in page")}
}

// selection returns the page selection, asking the user to paste it when the
// page gives nothing back.
func (s *Surface) selection(ctx context.Context, verb string) (string, Status, bool) {
	text := strings.TrimSpace(s.relay(ctx, transport.NewRequest(transport.GetSelection, "")).Text)
	if text != "" {
		return text, Status{}, true
	}
	if s.prompter == nil {
		return "", failure("No text provided"), false
	}

	pasted, err := s.prompter.Prompt(fmt.Sprintf(pastePrompt, verb))
	if err != nil {
		s.logger.Warn("prompt failed", "error", err)
		return "", failure("No text provided"), false
	}
	if pasted = strings.TrimSpace(pasted); pasted == "" {
		return "", failure("No text provided"), false
	}
	return pasted, Status{}, true
}

func (s *Surface) relay(ctx context.Context, req transport.Request) transport.Response {
	return transport.Relay(ctx, s.logger, s.peer, req)
}

func (s *Surface) run(ctx context.Context, c models.Capability, input string, opts map[string]string, pc *models.PageContext) models.CapabilityResult {
	return s.exec.Execute(ctx, models.CapabilityRequest{
		Capability: c,
		Input:      input,
		Options:    opts,
		Context:    pc,
	})
}

func (s *Surface) remember(slot *string, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*slot = text
}
