package blocks

import "strings"

// Markdown writes bs back out in the dialect Render reads. Blocks are
// separated by a blank line, so rendering the result yields bs again. The
// empty result serializes to "".
func Markdown(bs []Block) string {
	if IsEmpty(bs) {
		return ""
	}
	var b strings.Builder
	for i, blk := range bs {
		if i > 0 {
			b.WriteString("\n")
		}
		switch x := blk.(type) {
		case Heading:
			b.WriteString(strings.Repeat("#", x.Level))
			b.WriteString(" ")
			b.WriteString(x.Text)
			b.WriteString("\n")
		case Blockquote:
			b.WriteString("> ")
			b.WriteString(x.Text)
			b.WriteString("\n")
		case CodeLine:
			b.WriteString("```")
			b.WriteString(x.Text)
			b.WriteString("\n")
		case List:
			for _, it := range x.Items {
				b.WriteString("- ")
				b.WriteString(it)
				b.WriteString("\n")
			}
		case Paragraph:
			b.WriteString(x.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}
