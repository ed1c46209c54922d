// Package transport relays requests between the surface and the page that
// hosts the extractor, in process or over HTTP.
package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dtnitsch/pageclarity/models"
	"github.com/dtnitsch/pageclarity/pkg/extractor"
	"github.com/dtnitsch/pageclarity/pkg/parser"
	"github.com/google/uuid"
)

type MessageType string

const (
	GetSelection   MessageType = "GET_SELECTION"
	GetPageContent MessageType = "GET_PAGE_CONTENT"
	GetPageContext MessageType = "GET_PAGE_CONTEXT"
	ReplaceInInput MessageType = "REPLACE_IN_INPUT"
	GetArticle     MessageType = "GET_ARTICLE"
)

var (
	// ErrPeerUnreachable means no page answered. Callers degrade instead of retrying.
	ErrPeerUnreachable = errors.New("peer unreachable")
	ErrUnknownMessage  = errors.New("unknown message type")
)

type Request struct {
	ID   string      `json:"id"`
	Type MessageType `json:"type"`
	Text string      `json:"text,omitempty"`
}

// NewRequest stamps a message with a fresh id.
func NewRequest(t MessageType, text string) Request {
	return Request{ID: uuid.NewString(), Type: t, Text: text}
}

type Response struct {
	ID      string              `json:"id"`
	Success bool                `json:"success"`
	Text    string              `json:"text,omitempty"`
	Context *models.PageContext `json:"context,omitempty"`
	Article *models.Article     `json:"article,omitempty"`

	unavailable bool
}

// Unavailable reports whether the response stands in for a peer that could
// not be reached. Its fields are all empty.
func (r Response) Unavailable() bool {
	return r.unavailable
}

// Peer delivers one request to the page and waits for the answer.
type Peer interface {
	Send(ctx context.Context, req Request) (Response, error)
}

// Relay sends req and never fails: any error resolves to an Unavailable
// response so the caller can substitute degraded context.
func Relay(ctx context.Context, logger *slog.Logger, peer Peer, req Request) Response {
	if peer == nil {
		logger.Warn("PeerUnreachable", "type", req.Type, "id", req.ID, "error", "no peer configured")
		return Response{ID: req.ID, unavailable: true}
	}

	resp, err := peer.Send(ctx, req)
	if err != nil {
		logger.Warn("PeerUnreachable", "type", req.Type, "id", req.ID, "error", err)
		return Response{ID: req.ID, unavailable: true}
	}
	return resp
}

// Handle executes one request against page.
func Handle(page *extractor.Page, req Request) (Response, error) {
	resp := Response{ID: req.ID, Success: true}

	switch req.Type {
	case GetSelection:
		resp.Text = page.ExtractSelection()
	case GetPageContent:
		resp.Text = page.ExtractPageContent()
	case GetPageContext:
		pc := page.ExtractPageContext()
		resp.Context = &pc
	case ReplaceInInput:
		resp.Success = page.ReplaceInInput(req.Text)
	case GetArticle:
		html, err := page.HTML()
		if err != nil {
			return Response{}, fmt.Errorf("failed to render page: %w", err)
		}
		article, err := (&parser.Parser{}).Readable(page.URL(), html)
		if err != nil {
			return Response{}, err
		}
		resp.Article = article
	default:
		return Response{}, fmt.Errorf("%w: %q", ErrUnknownMessage, req.Type)
	}
	return resp, nil
}

// LocalPeer serves requests from a page held in the same process.
type LocalPeer struct {
	Page *extractor.Page
}

func (l *LocalPeer) Send(ctx context.Context, req Request) (Response, error) {
	if l == nil || l.Page == nil {
		return Response{}, ErrPeerUnreachable
	}
	if err := ctx.Err(); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrPeerUnreachable, err)
	}
	return Handle(l.Page, req)
}
