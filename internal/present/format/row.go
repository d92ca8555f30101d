package format

import (
	"strings"

	"github.com/mithrel/folio/pkg/api"
)

// PostRow is one entry of a post listing. Excerpt is filled only when the
// listing asks for excerpts.
type PostRow struct {
	api.Post
	Excerpt string `json:"excerpt,omitempty"`
}

// NewPostRow builds the listing entry for p. excerpt <= 0 leaves Excerpt empty.
func NewPostRow(p api.Post, excerpt int) PostRow {
	row := PostRow{Post: p}
	if excerpt > 0 {
		row.Excerpt = p.Excerpt(excerpt)
	}
	return row
}

// NewPostRows maps NewPostRow over posts.
func NewPostRows(posts []api.Post, excerpt int) []PostRow {
	rows := make([]PostRow, len(posts))
	for i, p := range posts {
		rows[i] = NewPostRow(p, excerpt)
	}
	return rows
}

// flatten collapses runs of whitespace, newlines included, to single spaces.
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
