package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/folio/pkg/api"
	"github.com/mithrel/folio/pkg/blocks"
)

// WriteNDJSONBlocks writes one wire node per line.
func WriteNDJSONBlocks(w io.Writer, bs []blocks.Block) error {
	enc := json.NewEncoder(w)
	for _, n := range blocks.Encode(bs) {
		if err := enc.Encode(n); err != nil {
			return err
		}
	}
	return nil
}

// NDJSONStreamWriter incrementally writes posts as NDJSON.
type NDJSONStreamWriter struct {
	enc     *json.Encoder
	excerpt int
}

// NewNDJSONStreamWriter creates a streaming NDJSON writer.
func NewNDJSONStreamWriter(w io.Writer, excerpt int) *NDJSONStreamWriter {
	return &NDJSONStreamWriter{enc: json.NewEncoder(w), excerpt: excerpt}
}

// WritePosts writes a batch of posts.
func (nw *NDJSONStreamWriter) WritePosts(posts []api.Post) error {
	for _, p := range posts {
		if err := nw.enc.Encode(NewPostRow(p, nw.excerpt)); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op for NDJSON output.
func (nw *NDJSONStreamWriter) Close() error { return nil }
