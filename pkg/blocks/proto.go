package blocks

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// EncodeProto marshals blocks as a google.protobuf.ListValue of Struct
// nodes with the same fields as the JSON form.
func EncodeProto(bs []Block) ([]byte, error) {
	nodes := Encode(bs)
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(nodes))}
	for _, n := range nodes {
		fields := map[string]*structpb.Value{
			"type": structpb.NewStringValue(n.Type),
		}
		if n.Level != 0 {
			fields["level"] = structpb.NewNumberValue(float64(n.Level))
		}
		if n.Text != "" {
			fields["text"] = structpb.NewStringValue(n.Text)
		}
		if len(n.Items) > 0 {
			items := make([]*structpb.Value, len(n.Items))
			for i, it := range n.Items {
				items[i] = structpb.NewStringValue(it)
			}
			fields["items"] = structpb.NewListValue(&structpb.ListValue{Values: items})
		}
		list.Values = append(list.Values, structpb.NewStructValue(&structpb.Struct{Fields: fields}))
	}
	return proto.Marshal(list)
}

// DecodeProto is the inverse of EncodeProto.
func DecodeProto(data []byte) ([]Block, error) {
	var list structpb.ListValue
	if err := proto.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("unmarshal blocks: %w", err)
	}
	nodes := make([]Node, 0, len(list.Values))
	for i, v := range list.Values {
		s := v.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("%w: node %d is not a struct", ErrBadNode, i)
		}
		f := s.GetFields()
		n := Node{
			Type:  f["type"].GetStringValue(),
			Level: int(f["level"].GetNumberValue()),
			Text:  f["text"].GetStringValue(),
		}
		for _, it := range f["items"].GetListValue().GetValues() {
			n.Items = append(n.Items, it.GetStringValue())
		}
		nodes = append(nodes, n)
	}
	return Decode(nodes)
}
