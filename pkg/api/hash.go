package api

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// ContentHash returns the BLAKE3 hex digest of a raw document. Rendered
// blocks are a pure function of the document, so this is their cache key.
func ContentHash(content string) string {
	sum := blake3.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Hash returns a deterministic BLAKE3 hash of everything a reader sees:
// slug, title, content, author, date and category. Timestamps and version
// are bookkeeping and do not participate.
func (p Post) Hash() string {
	h := blake3.New()

	// Fields are NUL-separated so adjacent values cannot run together.
	for _, f := range []string{p.Slug, p.Title, p.Content, p.Author, p.Date, p.Category} {
		_, _ = h.Write([]byte(f))
		_, _ = h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}
