package db

import (
	"sort"
	"strings"

	"github.com/mithrel/folio/pkg/api"
)

// cursorToken points at the last post of a page. Listings run newest date
// first, ties broken by ascending slug.
type cursorToken struct {
	date string
	slug string
}

func parseCursorToken(s string) (cursorToken, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), "|", 2)
	if len(parts) != 2 {
		return cursorToken{}, false
	}
	slug := strings.TrimSpace(parts[1])
	if slug == "" {
		return cursorToken{}, false
	}
	return cursorToken{date: parts[0], slug: slug}, true
}

func encodeCursorToken(p api.Post) string {
	return p.Date + "|" + p.Slug
}

// comesAfter reports whether p sorts after the cursor position.
func (c cursorToken) comesAfter(p api.Post) bool {
	if p.Date != c.date {
		return p.Date < c.date
	}
	return p.Slug > c.slug
}

func sortPosts(posts []api.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].Date != posts[j].Date {
			return posts[i].Date > posts[j].Date
		}
		return posts[i].Slug < posts[j].Slug
	})
}

func buildPage(posts []api.Post, hasMore bool) api.Page {
	if !hasMore || len(posts) == 0 {
		return api.Page{}
	}
	return api.Page{Next: encodeCursorToken(posts[len(posts)-1])}
}
