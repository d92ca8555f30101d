package blocks

import "strings"

// Accumulator is the state carried between lines: the blocks emitted so far
// and the list items not yet flushed.
type Accumulator struct {
	Out     []Block
	Pending []string
}

// builder is the mutable form of Accumulator used inside a single render.
type builder struct {
	out     []Block
	pending []string
}

func (b *builder) flush() {
	if len(b.pending) == 0 {
		return
	}
	b.out = append(b.out, List{Items: b.pending})
	b.pending = nil
}

func (b *builder) feed(line string) {
	k, text := Classify(line)
	if k == LineListItem {
		b.pending = append(b.pending, text)
		return
	}
	// A pending list closes before the boundary line's own node.
	b.flush()
	if k == LineBlank {
		return
	}
	b.out = append(b.out, blockFor(k, text))
}

func (b *builder) finish() []Block {
	b.flush()
	if len(b.out) == 0 {
		return []Block{Empty{}}
	}
	return b.out
}

// Step applies one line to acc and returns the next accumulator. acc is not
// modified and the result shares no backing storage with it.
func Step(acc Accumulator, line string) Accumulator {
	b := builder{
		out:     append([]Block(nil), acc.Out...),
		pending: append([]string(nil), acc.Pending...),
	}
	b.feed(line)
	return Accumulator{Out: b.out, Pending: b.pending}
}

// Finish flushes any pending list and returns the final block sequence.
// A document that produced nothing yields a single Empty block.
func Finish(acc Accumulator) []Block {
	b := builder{
		out:     append([]Block(nil), acc.Out...),
		pending: append([]string(nil), acc.Pending...),
	}
	return b.finish()
}

// Render converts document lines into blocks. It never fails; the result
// is never nil.
func Render(lines []string) []Block {
	var b builder
	for _, line := range lines {
		b.feed(line)
	}
	return b.finish()
}

// RenderString splits doc with SplitLines and renders it.
func RenderString(doc string) []Block {
	return Render(SplitLines(doc))
}

// SplitLines splits doc on "\n". The result always has
// strings.Count(doc, "\n")+1 elements, so a trailing newline yields a final
// empty line. A carriage return ending a line is dropped.
func SplitLines(doc string) []string {
	lines := strings.Split(doc, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
