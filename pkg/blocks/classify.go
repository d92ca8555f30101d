package blocks

import (
	"regexp"
	"strings"
)

// LineKind is the classification of a single source line.
type LineKind uint8

const (
	LineParagraph LineKind = iota
	LineHeading1
	LineHeading2
	LineHeading3
	LineBlank
	LineCode
	LineQuote
	LineListItem
)

var orderedItem = regexp.MustCompile(`^[0-9]+\. `)

// Classify returns the kind of line and its payload text. Rules are tried
// in a fixed order and the first match wins; anything unmatched is a
// paragraph carrying the line unchanged.
func Classify(line string) (LineKind, string) {
	switch {
	case strings.HasPrefix(line, "# "):
		return LineHeading1, line[2:]
	case strings.HasPrefix(line, "## "):
		return LineHeading2, line[3:]
	case strings.HasPrefix(line, "### "):
		return LineHeading3, line[4:]
	case strings.TrimSpace(line) == "":
		return LineBlank, ""
	case strings.HasPrefix(line, "```"):
		return LineCode, line[3:]
	case strings.HasPrefix(line, "> "):
		return LineQuote, line[2:]
	case strings.HasPrefix(line, "- "):
		return LineListItem, line[2:]
	}
	if loc := orderedItem.FindStringIndex(line); loc != nil {
		return LineListItem, line[loc[1]:]
	}
	return LineParagraph, line
}

// blockFor builds the node for a non-list, non-blank classification.
func blockFor(k LineKind, text string) Block {
	switch k {
	case LineHeading1:
		return Heading{Level: 1, Text: text}
	case LineHeading2:
		return Heading{Level: 2, Text: text}
	case LineHeading3:
		return Heading{Level: 3, Text: text}
	case LineCode:
		return CodeLine{Text: text}
	case LineQuote:
		return Blockquote{Text: text}
	default:
		return Paragraph{Text: text}
	}
}
