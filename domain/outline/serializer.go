package outline

import (
	"strings"

	"github.com/eykd/prosemark-sub000/domain/config"
)

// Serializer renders a Document back to outline text
type Serializer struct {
	indentWidth int
	extension   string
}

// NewSerializer creates a serializer for the given grammar settings; nil
// means the defaults.
func NewSerializer(cfg *config.DomainConfig) *Serializer {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Serializer{
		indentWidth: cfg.IndentWidth,
		extension:   cfg.LinkExtension,
	}
}

// emitted is one rendered list line
type emitted struct {
	indent  int
	ordinal int
	text    string
}

// Serialize renders doc. An unmodified parsed document renders as its
// source text. Otherwise every list item gets one line, untouched items
// keep their source line, and ledger lines are woven back in.
func (s *Serializer) Serialize(doc *Document) string {
	if !doc.modified {
		return doc.source
	}

	lines := s.renderItems(doc)
	out := s.interleave(lines, doc.ledger)

	if len(out) == 0 {
		return ""
	}
	text := strings.Join(out, doc.newline)
	if doc.trailingNewline {
		text += doc.newline
	}
	return text
}

// FormatItem renders a single list line at depth
func (s *Serializer) FormatItem(title, target string, depth int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", s.indentWidth*depth))
	b.WriteString("- [")
	b.WriteString(title)
	b.WriteString("](")
	if target != "" {
		b.WriteString(target)
		b.WriteString(s.extension)
	}
	b.WriteString(")")
	return b.String()
}

// renderItems walks the list items depth first without recursion
func (s *Serializer) renderItems(doc *Document) []emitted {
	type pending struct {
		item  *Node
		depth int
	}

	var out []emitted
	roots := doc.root.Items()
	stack := make([]pending, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, pending{roots[i], 0})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		item := top.item
		indent := s.indentWidth * top.depth
		text := item.raw
		if item.line < 0 || item.edited || item.raw == "" || item.indent != indent {
			text = s.FormatItem(item.title, item.target, top.depth)
		}
		out = append(out, emitted{indent: indent, ordinal: item.line, text: text})

		children := item.Items()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, pending{children[i], top.depth + 1})
		}
	}
	return out
}

// interleave places each ledger entry before a chosen rendered line.
// Entries with a source ordinal go before the first line whose ordinal is
// greater; entries without one go before the first line indented no deeper
// than the entry. Entries without an anchor go at the end, and entries never
// overtake one another.
func (s *Serializer) interleave(lines []emitted, ledger Ledger) []string {
	before := make([][]string, len(lines)+1)
	floor := 0

	for _, entry := range ledger {
		pos := len(lines)
		for i, line := range lines {
			if entry.Index >= 0 {
				if line.ordinal > entry.Index {
					pos = i
					break
				}
			} else if line.indent <= entry.Indent {
				pos = i
				break
			}
		}
		if pos < floor {
			pos = floor
		}
		floor = pos
		before[pos] = append(before[pos], entry.Line)
	}

	out := make([]string, 0, len(lines)+len(ledger))
	for i, line := range lines {
		out = append(out, before[i]...)
		out = append(out, line.text)
	}
	return append(out, before[len(lines)]...)
}
