package present

import (
	"context"
	"errors"
	"io"

	"github.com/mithrel/folio/internal/present/format"
	"github.com/mithrel/folio/internal/present/tui"
	"github.com/mithrel/folio/pkg/api"
	"github.com/mithrel/folio/pkg/blocks"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeStyled
	ModeJSON
	ModeNDJSON
	ModeHTML
	ModeTUI
)

var modeNames = map[string]Mode{
	"plain":  ModePlain,
	"pretty": ModePretty,
	"styled": ModeStyled,
	"json":   ModeJSON,
	"ndjson": ModeNDJSON,
	"html":   ModeHTML,
	"tui":    ModeTUI,
}

// ModeNames lists the accepted --output values.
func ModeNames() []string {
	return []string{"plain", "pretty", "styled", "json", "ndjson", "html", "tui"}
}

func (m Mode) String() string {
	for name, mode := range modeNames {
		if mode == m {
			return name
		}
	}
	return "plain"
}

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	Width      int
	Style      string
	NoColor    bool
	// ExcerptLength adds an excerpt of that many runes to post listings.
	// Zero leaves excerpts out.
	ExcerptLength int
	// Render turns raw content into blocks for views that render posts
	// lazily, like the TUI. Nil uses blocks.RenderString.
	Render func(content string) []blocks.Block
	// Delete, when set, lets the TUI remove posts.
	Delete func(ctx context.Context, slug string) error
}

// ParseMode parses a string like "plain", "pretty", "json", "ndjson", "tui".
func ParseMode(s string) (Mode, bool) {
	m, ok := modeNames[s]
	return m, ok
}

var ErrUnsupportedMode = errors.New("output mode not supported here")

func (o Options) render(content string) []blocks.Block {
	if o.Render != nil {
		return o.Render(content)
	}
	return blocks.RenderString(content)
}

// RenderBlocks renders a standalone document.
func RenderBlocks(ctx context.Context, w io.Writer, bs []blocks.Block, opts Options) error {
	switch opts.Mode {
	case ModePretty:
		return format.WritePrettyBlocks(w, bs, opts.Style, opts.Width)
	case ModeStyled:
		return format.WriteStyledBlocks(w, bs, opts.Width, opts.NoColor)
	case ModeJSON:
		return format.WriteJSONBlocks(w, bs, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONBlocks(w, bs)
	case ModeHTML:
		return format.WriteHTMLBlocks(w, bs)
	case ModeTUI:
		return tui.RunViewer(ctx, "", format.Styled(format.NewStyles(w, opts.Width, opts.NoColor), bs))
	default:
		return format.WritePlainBlocks(w, bs, opts.Width)
	}
}

// RenderPost renders a single post with its blocks.
func RenderPost(ctx context.Context, w io.Writer, p api.Post, bs []blocks.Block, opts Options) error {
	switch opts.Mode {
	case ModePretty:
		return format.WritePrettyPost(w, p, bs, opts.Style, opts.Width)
	case ModeStyled:
		return format.WriteStyledPost(w, p, bs, opts.Width, opts.NoColor)
	case ModeJSON:
		return format.WriteJSONPost(w, format.NewPostDocument(p, bs), opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteJSONPost(w, format.NewPostDocument(p, bs), false)
	case ModeHTML:
		return format.WriteHTMLPage(w, p, bs)
	case ModeTUI:
		return tui.RunViewer(ctx, p.DisplayTitle(), format.StyledPost(format.NewStyles(w, opts.Width, opts.NoColor), p, bs))
	default:
		if err := format.WritePlainPosts(w, []api.Post{p}, opts.Headers, 0); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		return format.WritePlainBlocks(w, bs, opts.Width)
	}
}

// RenderPosts renders a post listing.
func RenderPosts(ctx context.Context, w io.Writer, posts []api.Post, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONPosts(w, posts, opts.JSONIndent, opts.ExcerptLength)
	case ModeNDJSON:
		nw := format.NewNDJSONStreamWriter(w, opts.ExcerptLength)
		if err := nw.WritePosts(posts); err != nil {
			return err
		}
		return nw.Close()
	case ModeTUI:
		return tui.RenderTable(ctx, posts, tui.Options{
			Headers: opts.Headers,
			View: func(p api.Post) string {
				return format.StyledPost(format.NewStyles(w, opts.Width, opts.NoColor), p, opts.render(p.Content))
			},
			Delete: opts.Delete,
		})
	case ModePretty, ModeStyled, ModeHTML:
		return ErrUnsupportedMode
	default:
		return format.WritePlainPosts(w, posts, opts.Headers, opts.ExcerptLength)
	}
}

// StreamWriter writes post listings page by page.
type StreamWriter interface {
	WritePosts(posts []api.Post) error
	Close() error
}

// NewStreamWriter returns a paged writer for plain, json and ndjson modes.
func NewStreamWriter(w io.Writer, opts Options) (StreamWriter, error) {
	switch opts.Mode {
	case ModePlain:
		return format.NewPlainStreamWriter(w, opts.Headers, opts.ExcerptLength), nil
	case ModeJSON:
		return format.NewJSONStreamWriter(w, opts.JSONIndent, opts.ExcerptLength), nil
	case ModeNDJSON:
		return format.NewNDJSONStreamWriter(w, opts.ExcerptLength), nil
	default:
		return nil, ErrUnsupportedMode
	}
}
