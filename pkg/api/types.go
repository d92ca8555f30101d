package api

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Post is a stored blog post. Content is the raw document in the block
// dialect; Date is the publication day as YYYY-MM-DD.
type Post struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Date      string    `json:"date"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// PostSummary is the list view of a post.
type PostSummary struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

const (
	NoContentPlaceholder  = "No content"
	UntitledPlaceholder   = "Untitled"
	NoAuthorPlaceholder   = "Unknown author"
	NoDatePlaceholder     = "No date"
	NoCategoryPlaceholder = "Uncategorized"

	DefaultExcerptLength = 200

	DateLayout        = "2006-01-02"
	DisplayDateLayout = "January 2, 2006"
)

func (p Post) Summary() PostSummary { return PostSummary{Slug: p.Slug, Title: p.Title} }

func (p Post) DisplayTitle() string { return orPlaceholder(p.Title, UntitledPlaceholder) }

func (p Post) DisplayAuthor() string { return orPlaceholder(p.Author, NoAuthorPlaceholder) }

func (p Post) DisplayCategory() string { return orPlaceholder(p.Category, NoCategoryPlaceholder) }

// DisplayDate formats Date in long form. An unparsable date is shown as is.
func (p Post) DisplayDate() string {
	d := strings.TrimSpace(p.Date)
	if d == "" {
		return NoDatePlaceholder
	}
	t, err := time.Parse(DateLayout, d)
	if err != nil {
		return d
	}
	return t.Format(DisplayDateLayout)
}

// Excerpt returns the first n runes of the content, with "..." appended
// when the content is longer. n <= 0 uses DefaultExcerptLength.
func (p Post) Excerpt(n int) string {
	if p.Content == "" {
		return NoContentPlaceholder
	}
	if n <= 0 {
		n = DefaultExcerptLength
	}
	if utf8.RuneCountInString(p.Content) <= n {
		return p.Content
	}
	i := 0
	for pos := range p.Content {
		if i == n {
			return p.Content[:pos] + "..."
		}
		i++
	}
	return p.Content
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

// ListQuery filters posts for listing. Results are ordered newest first by
// Date, then by Slug.
type ListQuery struct {
	Category string
	// Since and Until bound Date inclusively, as YYYY-MM-DD.
	Since  string
	Until  string
	Limit  int
	Cursor string
}

// Page describes the position of a listing.
type Page struct {
	Next string `json:"next,omitempty"`
}
