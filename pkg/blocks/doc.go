// Package blocks renders post documents written in folio's small markup
// dialect into a flat sequence of typed blocks.
//
// The dialect is line oriented. Each line is classified on its own by
// prefix ("# ", "## ", "### ", "```", "> ", "- ", "N. "), blank lines
// separate units, and anything else is a paragraph. The only state carried
// between lines is the run of list items being collected: consecutive item
// lines merge into one List, and any other line closes the run before its
// own block is emitted.
//
//	bs := blocks.RenderString("# Title\n\n- a\n- b\n")
//	// [Heading{1, "Title"}, List{["a", "b"]}]
//
// Rendering is a pure function of its input and safe for concurrent use.
package blocks
