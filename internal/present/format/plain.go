package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/mithrel/folio/pkg/api"
	"github.com/mithrel/folio/pkg/blocks"
)

const headerLine = "SLUG\tTITLE\tCATEGORY\tDATE\tUPDATED"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func plainPostLine(row PostRow, excerpt bool) string {
	p := row.Post
	updated := ""
	if !p.UpdatedAt.IsZero() {
		updated = humanize.Time(p.UpdatedAt)
	}
	line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s",
		esc(p.Slug), esc(p.DisplayTitle()), esc(p.DisplayCategory()), esc(p.DisplayDate()), updated)
	if excerpt {
		line += "\t" + flatten(row.Excerpt)
	}
	return line + "\n"
}

// PlainStreamWriter writes posts as aligned columns, one batch at a time.
type PlainStreamWriter struct {
	tw          *tabwriter.Writer
	headers     bool
	excerpt     int
	wroteHeader bool
}

// NewPlainStreamWriter creates a streaming plain writer. excerpt > 0 adds an
// EXCERPT column of that many runes with whitespace collapsed.
func NewPlainStreamWriter(w io.Writer, headers bool, excerpt int) *PlainStreamWriter {
	return &PlainStreamWriter{
		tw:      tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
		headers: headers,
		excerpt: excerpt,
	}
}

// WritePosts writes a batch of posts and flushes.
func (pw *PlainStreamWriter) WritePosts(posts []api.Post) error {
	if pw.headers && !pw.wroteHeader {
		header := headerLine
		if pw.excerpt > 0 {
			header += "\tEXCERPT"
		}
		_, _ = io.WriteString(pw.tw, header+"\n")
		pw.wroteHeader = true
	}
	for _, p := range posts {
		_, _ = io.WriteString(pw.tw, plainPostLine(NewPostRow(p, pw.excerpt), pw.excerpt > 0))
	}
	return pw.tw.Flush()
}

// Close flushes remaining buffered output.
func (pw *PlainStreamWriter) Close() error {
	return pw.tw.Flush()
}

func WritePlainPosts(w io.Writer, posts []api.Post, headers bool, excerpt int) error {
	pw := NewPlainStreamWriter(w, headers, excerpt)
	if err := pw.WritePosts(posts); err != nil {
		return err
	}
	return pw.Close()
}

// WritePlainBlocks writes blocks as wrapped text separated by blank lines.
// Code lines are indented and never wrapped. width <= 0 disables wrapping.
func WritePlainBlocks(w io.Writer, bs []blocks.Block, width int) error {
	_, err := io.WriteString(w, PlainText(bs, width))
	return err
}

// PlainText is the string form of WritePlainBlocks.
func PlainText(bs []blocks.Block, width int) string {
	if blocks.IsEmpty(bs) {
		return api.NoContentPlaceholder + "\n"
	}
	wrap := func(s string, hang uint) string {
		if width <= 0 || width <= int(hang) {
			return s
		}
		out := wordwrap.String(s, width-int(hang))
		if hang == 0 {
			return out
		}
		// The caller writes its own marker in place of the first line's indent.
		return strings.TrimPrefix(indent.String(out, hang), strings.Repeat(" ", int(hang)))
	}

	parts := make([]string, 0, len(bs))
	for _, blk := range bs {
		switch x := blk.(type) {
		case blocks.Heading:
			text := wrap(x.Text, 0)
			switch x.Level {
			case 1:
				text += "\n" + strings.Repeat("=", lineWidth(text))
			case 2:
				text += "\n" + strings.Repeat("-", lineWidth(text))
			}
			parts = append(parts, text)
		case blocks.Blockquote:
			parts = append(parts, "  "+wrap(x.Text, 2))
		case blocks.CodeLine:
			parts = append(parts, "    "+x.Text)
		case blocks.List:
			items := make([]string, len(x.Items))
			for i, it := range x.Items {
				items[i] = "- " + wrap(it, 2)
			}
			parts = append(parts, strings.Join(items, "\n"))
		case blocks.Paragraph:
			parts = append(parts, wrap(x.Text, 0))
		}
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// lineWidth is the rune length of the longest line in s.
func lineWidth(s string) int {
	n := 0
	for _, l := range strings.Split(s, "\n") {
		n = max(n, len([]rune(l)))
	}
	return n
}
