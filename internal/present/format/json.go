package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/folio/pkg/api"
	"github.com/mithrel/folio/pkg/blocks"
)

// PostDocument is a post together with its rendered body.
type PostDocument struct {
	api.Post
	Blocks []blocks.Node `json:"blocks"`
}

// NewPostDocument pairs p with the encoded form of bs.
func NewPostDocument(p api.Post, bs []blocks.Block) PostDocument {
	return PostDocument{Post: p, Blocks: blocks.Encode(bs)}
}

func newEncoder(w io.Writer, indent bool) *json.Encoder {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc
}

func WriteJSONBlocks(w io.Writer, bs []blocks.Block, indent bool) error {
	return newEncoder(w, indent).Encode(blocks.Encode(bs))
}

func WriteJSONPost(w io.Writer, doc PostDocument, indent bool) error {
	return newEncoder(w, indent).Encode(doc)
}

func WriteJSONPosts(w io.Writer, posts []api.Post, indent bool, excerpt int) error {
	return newEncoder(w, indent).Encode(NewPostRows(posts, excerpt))
}
