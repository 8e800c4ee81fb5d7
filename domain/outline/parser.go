package outline

import (
	"regexp"
	"strings"

	"github.com/eykd/prosemark-sub000/domain/config"
)

// listLinePattern matches a whole list line once leading spaces are
// stripped; only trailing blanks may follow the link. Group 1 is the title,
// group 2 the link target. A target never holds brackets, so the title
// extends to the last "](" of the line and may itself contain links.
var listLinePattern = regexp.MustCompile(`^- \[(.*?)\]\(([^()\[\]\s]*)\)[ \t]*$`)

// Parser turns outline text into a Document. Parsing never fails: lines
// that do not fit the grammar or the nesting rules go to the ledger.
type Parser struct {
	indentWidth       int
	extension         string
	allowPlaceholders bool
}

// NewParser creates a parser for the given grammar settings; nil means
// the defaults.
func NewParser(cfg *config.DomainConfig) *Parser {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &Parser{
		indentWidth:       cfg.IndentWidth,
		extension:         cfg.LinkExtension,
		allowPlaceholders: cfg.AllowPlaceholderLinks,
	}
}

type frame struct {
	node   *Node
	indent int
}

// Parse builds the outline tree for text
func (p *Parser) Parse(text string) *Document {
	doc := NewDocument()
	doc.building = true
	defer func() {
		doc.building = false
		doc.modified = false
	}()

	lines, newline, trailing := splitLines(text)
	doc.source = text
	doc.newline = newline
	doc.trailingNewline = trailing

	stack := []frame{{node: doc.root, indent: -1}}

	for ordinal, line := range lines {
		indent := leadingSpaces(line)
		stripped := line[indent:]

		title, target, ok := p.matchListLine(stripped)
		if !ok {
			p.unparsed(doc, stack, ordinal, indent, normaliseBareDash(line, indent, stripped))
			continue
		}

		// Find the structural parent without popping, so a rejected line
		// leaves the stack as it was.
		j := len(stack) - 1
		for j > 0 && stack[j].indent >= indent {
			j--
		}
		parent := stack[j]

		valid := (j == 0 && indent == 0) || (j > 0 && indent == parent.indent+p.indentWidth)
		if !valid {
			p.unparsed(doc, stack, ordinal, indent, line)
			continue
		}

		item := NewListItem(title, target)
		item.indent = indent
		item.line = ordinal
		item.raw = line
		_ = parent.node.AddItem(item)

		stack = append(stack[:j+1], frame{node: item, indent: indent})
	}

	return doc
}

// matchListLine reports whether stripped is a list line and extracts its
// title and link stem
func (p *Parser) matchListLine(stripped string) (title, target string, ok bool) {
	m := listLinePattern.FindStringSubmatch(stripped)
	if m == nil {
		return "", "", false
	}

	title, link := m[1], m[2]
	if link == "" {
		return title, "", p.allowPlaceholders
	}
	if !strings.HasSuffix(link, p.extension) || len(link) == len(p.extension) {
		return "", "", false
	}
	return title, strings.TrimSuffix(link, p.extension), true
}

// unparsed records a ledger entry and marks the line in the tree at the
// deepest valid level
func (p *Parser) unparsed(doc *Document, stack []frame, ordinal, indent int, line string) {
	doc.ledger = append(doc.ledger, LedgerEntry{Indent: indent, Line: line, Index: ordinal})

	text := NewText(line)
	text.indent = indent
	text.line = ordinal
	text.raw = line
	_ = stack[len(stack)-1].node.AddChild(text)
}

func normaliseBareDash(line string, indent int, stripped string) string {
	if strings.TrimRight(stripped, " ") != "-" {
		return line
	}
	return line[:indent] + "- "
}

// splitLines splits text on "\n", detecting "\r\n" from the first line
// break and remembering whether the text ended with a newline
func splitLines(text string) (lines []string, newline string, trailing bool) {
	newline = "\n"
	if i := strings.IndexByte(text, '\n'); i > 0 && text[i-1] == '\r' {
		newline = "\r\n"
	}

	if text == "" {
		return nil, newline, true
	}

	lines = strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
		trailing = true
	}

	if newline == "\r\n" {
		for i, line := range lines {
			lines[i] = strings.TrimSuffix(line, "\r")
		}
	}
	return lines, newline, trailing
}
