package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/mithrel/folio/pkg/api"
	"github.com/mithrel/folio/pkg/blocks"
)

// CommonMark converts blocks to CommonMark that glamour displays literally:
// inline punctuation is escaped and each code line gets its own closed
// fence.
func CommonMark(bs []blocks.Block) string {
	if blocks.IsEmpty(bs) {
		return "_" + api.NoContentPlaceholder + "_\n"
	}
	parts := make([]string, 0, len(bs))
	for _, blk := range bs {
		switch x := blk.(type) {
		case blocks.Heading:
			parts = append(parts, strings.Repeat("#", x.Level)+" "+escapeInline(x.Text))
		case blocks.Blockquote:
			parts = append(parts, "> "+escapeInline(x.Text))
		case blocks.CodeLine:
			fence := codeFence(x.Text)
			parts = append(parts, fence+"\n"+x.Text+"\n"+fence)
		case blocks.List:
			items := make([]string, len(x.Items))
			for i, it := range x.Items {
				items[i] = "- " + escapeInline(it)
			}
			parts = append(parts, strings.Join(items, "\n"))
		case blocks.Paragraph:
			parts = append(parts, escapeInline(x.Text))
		}
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// escapeInline backslash-escapes every ASCII punctuation character, which
// CommonMark always treats as a literal.
func escapeInline(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x80 && strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// codeFence returns a backtick fence longer than any run inside text.
func codeFence(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}

func newTermRenderer(style string, width int) (*glamour.TermRenderer, error) {
	if style == "" {
		style = "dracula"
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return r, nil
}

// WritePrettyBlocks renders blocks through glamour.
func WritePrettyBlocks(w io.Writer, bs []blocks.Block, style string, width int) error {
	return writeGlamour(w, CommonMark(bs), style, width)
}

// WritePrettyPost renders a post header and body through glamour.
func WritePrettyPost(w io.Writer, p api.Post, bs []blocks.Block, style string, width int) error {
	md := fmt.Sprintf(`# %s

> **Author:** %s | **Date:** %s
>
> **Category:** %s

---

%s`, escapeInline(p.DisplayTitle()), escapeInline(p.DisplayAuthor()),
		escapeInline(p.DisplayDate()), escapeInline(p.DisplayCategory()), CommonMark(bs))
	return writeGlamour(w, md, style, width)
}

func writeGlamour(w io.Writer, md, style string, width int) error {
	r, err := newTermRenderer(style, width)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
