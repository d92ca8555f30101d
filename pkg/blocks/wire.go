package blocks

import (
	"errors"
	"fmt"
)

// Node is the serialized form of a Block used by the HTTP API and the JSON
// output modes.
type Node struct {
	Type  string   `json:"type"`
	Level int      `json:"level,omitempty"`
	Text  string   `json:"text,omitempty"`
	Items []string `json:"items,omitempty"`
}

var ErrBadNode = errors.New("invalid block node")

// Encode converts blocks to wire nodes.
func Encode(bs []Block) []Node {
	out := make([]Node, 0, len(bs))
	for _, blk := range bs {
		n := Node{Type: blk.Kind().String()}
		switch x := blk.(type) {
		case Heading:
			n.Level, n.Text = x.Level, x.Text
		case Blockquote:
			n.Text = x.Text
		case CodeLine:
			n.Text = x.Text
		case List:
			n.Items = append([]string(nil), x.Items...)
		case Paragraph:
			n.Text = x.Text
		}
		out = append(out, n)
	}
	return out
}

// Decode converts wire nodes back into blocks, rejecting nodes that could
// not have come out of Render.
func Decode(ns []Node) ([]Block, error) {
	out := make([]Block, 0, len(ns))
	for i, n := range ns {
		switch n.Type {
		case "heading":
			if n.Level < 1 || n.Level > 3 {
				return nil, fmt.Errorf("%w: node %d: heading level %d", ErrBadNode, i, n.Level)
			}
			out = append(out, Heading{Level: n.Level, Text: n.Text})
		case "blockquote":
			out = append(out, Blockquote{Text: n.Text})
		case "code":
			out = append(out, CodeLine{Text: n.Text})
		case "list":
			if len(n.Items) == 0 {
				return nil, fmt.Errorf("%w: node %d: list without items", ErrBadNode, i)
			}
			out = append(out, List{Items: append([]string(nil), n.Items...)})
		case "paragraph":
			out = append(out, Paragraph{Text: n.Text})
		case "empty":
			if len(ns) != 1 {
				return nil, fmt.Errorf("%w: node %d: empty marker alongside other blocks", ErrBadNode, i)
			}
			out = append(out, Empty{})
		default:
			return nil, fmt.Errorf("%w: node %d: unknown type %q", ErrBadNode, i, n.Type)
		}
	}
	return out, nil
}
