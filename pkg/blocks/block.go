package blocks

// Kind identifies a block variant.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindHeading
	KindBlockquote
	KindCodeLine
	KindList
	KindParagraph
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindBlockquote:
		return "blockquote"
	case KindCodeLine:
		return "code"
	case KindList:
		return "list"
	case KindParagraph:
		return "paragraph"
	default:
		return "empty"
	}
}

// Block is one semantic unit of a rendered document. The set of
// implementations is closed: Heading, Blockquote, CodeLine, List, Paragraph
// and Empty.
type Block interface {
	Kind() Kind
	block()
}

// Heading is a level 1-3 title line.
type Heading struct {
	Level int
	Text  string
}

// Blockquote is a single quoted line.
type Blockquote struct {
	Text string
}

// CodeLine is one fenced line. There is no closing fence; every fenced
// line stands alone.
type CodeLine struct {
	Text string
}

// List is a maximal run of consecutive list item lines. Ordinals of
// numbered items are not kept.
type List struct {
	Items []string
}

// Paragraph is any line that matched nothing else, verbatim.
type Paragraph struct {
	Text string
}

// Empty marks a document that produced no blocks. It is only ever the
// sole element of a result.
type Empty struct{}

func (Heading) Kind() Kind    { return KindHeading }
func (Blockquote) Kind() Kind { return KindBlockquote }
func (CodeLine) Kind() Kind   { return KindCodeLine }
func (List) Kind() Kind       { return KindList }
func (Paragraph) Kind() Kind  { return KindParagraph }
func (Empty) Kind() Kind      { return KindEmpty }

func (Heading) block()    {}
func (Blockquote) block() {}
func (CodeLine) block()   {}
func (List) block()       {}
func (Paragraph) block()  {}
func (Empty) block()      {}

// IsEmpty reports whether bs is the empty-document result. A nil or
// zero-length slice also counts as empty.
func IsEmpty(bs []Block) bool {
	if len(bs) == 0 {
		return true
	}
	if len(bs) == 1 {
		_, ok := bs[0].(Empty)
		return ok
	}
	return false
}
