package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/folio/pkg/api"
)

// JSONStreamWriter incrementally writes posts as a JSON array.
type JSONStreamWriter struct {
	w        io.Writer
	indent   bool
	excerpt  int
	wroteAny bool
}

// NewJSONStreamWriter creates a streaming JSON writer. excerpt > 0 adds an
// excerpt of that many runes to every row.
func NewJSONStreamWriter(w io.Writer, indent bool, excerpt int) *JSONStreamWriter {
	return &JSONStreamWriter{w: w, indent: indent, excerpt: excerpt}
}

// WritePosts writes a batch of posts.
func (jw *JSONStreamWriter) WritePosts(posts []api.Post) error {
	for _, p := range posts {
		var (
			b   []byte
			err error
		)
		row := NewPostRow(p, jw.excerpt)
		if jw.indent {
			b, err = json.MarshalIndent(row, "  ", "  ")
		} else {
			b, err = json.Marshal(row)
		}
		if err != nil {
			return err
		}
		sep := ","
		if !jw.wroteAny {
			sep = "["
		}
		if jw.indent {
			sep += "\n  "
		}
		if _, err := io.WriteString(jw.w, sep); err != nil {
			return err
		}
		if _, err := jw.w.Write(b); err != nil {
			return err
		}
		jw.wroteAny = true
	}
	return nil
}

// Close finishes the JSON array.
func (jw *JSONStreamWriter) Close() error {
	switch {
	case !jw.wroteAny:
		_, err := io.WriteString(jw.w, "[]\n")
		return err
	case jw.indent:
		_, err := io.WriteString(jw.w, "\n]\n")
		return err
	default:
		_, err := io.WriteString(jw.w, "]\n")
		return err
	}
}
