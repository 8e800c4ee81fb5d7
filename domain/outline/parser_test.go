package outline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eykd/prosemark-sub000/domain/config"
)

func parse(text string) *Document {
	return NewParser(nil).Parse(text)
}

func itemTitles(items []*Node) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title()
	}
	return out
}

func TestParse_NestedItems(t *testing.T) {
	input := "- [Chapter 1](id1.md)\n  - [Scene 1](id2.md)\n"
	doc := parse(input)

	roots := doc.Items()
	require.Len(t, roots, 1)
	assert.Equal(t, "Chapter 1", roots[0].Title())
	assert.Equal(t, "id1", roots[0].Target())
	assert.Equal(t, 0, roots[0].Line())

	children := roots[0].Items()
	require.Len(t, children, 1)
	assert.Equal(t, "Scene 1", children[0].Title())
	assert.Equal(t, "id2", children[0].Target())
	assert.Equal(t, 2, children[0].Indent())
	assert.Same(t, roots[0], children[0].Parent().Parent())

	assert.Empty(t, doc.Ledger())
	assert.False(t, doc.Modified())
	assert.Equal(t, input, NewSerializer(nil).Serialize(doc))
}

func TestParse_BareDash(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		ledger LedgerEntry
	}{
		{"dash space", "- \n", LedgerEntry{Indent: 0, Line: "- ", Index: 0}},
		{"dash only", "-\n", LedgerEntry{Indent: 0, Line: "- ", Index: 0}},
		{"dash trailing spaces", "-   \n", LedgerEntry{Indent: 0, Line: "- ", Index: 0}},
		{"indented dash", "  -\n", LedgerEntry{Indent: 2, Line: "  - ", Index: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(tt.input)
			assert.Zero(t, doc.ItemCount())
			assert.Equal(t, Ledger{tt.ledger}, doc.Ledger())
		})
	}

	doc := parse("- \n")
	doc.MarkModified()
	assert.Equal(t, "- \n", NewSerializer(nil).Serialize(doc))
}

func TestParse_OvershootGoesToLedger(t *testing.T) {
	input := "- [A](a.md)\n    - [Deep](d.md)\n- [B](b.md)\n  - [C](c.md)\n"
	doc := parse(input)

	assert.Equal(t, []string{"A", "B"}, itemTitles(doc.Items()))
	assert.Empty(t, doc.Items()[0].Items())
	assert.Equal(t, []string{"C"}, itemTitles(doc.Items()[1].Items()))
	assert.Equal(t, Ledger{{Indent: 4, Line: "    - [Deep](d.md)", Index: 1}}, doc.Ledger())

	var texts []*Node
	doc.Items()[0].Walk(func(n *Node) bool {
		if n.Kind() == TextNode {
			texts = append(texts, n)
		}
		return true
	})
	require.Len(t, texts, 1)
	assert.Equal(t, "    - [Deep](d.md)", texts[0].Text())
}

func TestParse_OvershootDoesNotDisturbFollowingLines(t *testing.T) {
	input := strings.Join([]string{
		"- [A](a.md)",
		"  - [B](b.md)",
		"      - [Overshoot](o.md)",
		"  - [C](c.md)",
		"    - [D](d.md)",
		"",
	}, "\n")
	doc := parse(input)

	a := doc.Items()[0]
	assert.Equal(t, []string{"B", "C"}, itemTitles(a.Items()))
	assert.Equal(t, []string{"D"}, itemTitles(a.Items()[1].Items()))
	assert.Len(t, doc.Ledger(), 1)
}

func TestParse_DedentToUnknownLevel(t *testing.T) {
	input := strings.Join([]string{
		"- [A](a.md)",
		"  - [B](b.md)",
		"    - [C](c.md)",
		"   - [X](x.md)",
		"    - [D](d.md)",
		"- [E](e.md)",
	}, "\n")
	doc := parse(input)

	assert.Equal(t, []string{"A", "E"}, itemTitles(doc.Items()))
	b := doc.Items()[0].Items()[0]
	assert.Equal(t, []string{"C", "D"}, itemTitles(b.Items()))
	assert.Equal(t, Ledger{{Indent: 3, Line: "   - [X](x.md)", Index: 3}}, doc.Ledger())
}

func TestParse_TopLevelMustNotBeIndented(t *testing.T) {
	doc := parse("  - [A](a.md)\n- [B](b.md)\n")

	assert.Equal(t, []string{"B"}, itemTitles(doc.Items()))
	assert.Equal(t, "  - [A](a.md)", doc.Ledger()[0].Line)
}

func TestParse_Placeholders(t *testing.T) {
	input := "- [Someday]()\n  - [Child](c.md)\n"

	doc := parse(input)
	require.Len(t, doc.Items(), 1)
	assert.True(t, doc.Items()[0].IsPlaceholder())
	assert.Equal(t, "Someday", doc.Items()[0].Title())
	assert.Len(t, doc.Items()[0].Items(), 1)

	strict := NewParser(config.StrictDomainConfig()).Parse(input)
	assert.Empty(t, strict.Items())
	assert.Len(t, strict.Ledger(), 2)
}

func TestParse_NonMatchingLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"wrong extension", "- [A](a.txt)"},
		{"empty stem", "- [A](.md)"},
		{"space in target", "- [A]( a.md)"},
		{"heading", "# Binder"},
		{"blank", ""},
		{"tab indent", "\t- [A](a.md)"},
		{"star bullet", "* [A](a.md)"},
		{"no space after dash", "-[A](a.md)"},
		{"prose", "some words"},
		{"trailing text", "- [A](a.md) trailing note"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(tt.line + "\n")
			assert.Zero(t, doc.ItemCount())
			require.Len(t, doc.Ledger(), 1)
			assert.Equal(t, tt.line, doc.Ledger()[0].Line)
		})
	}
}

func TestParse_TitleEdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		title  string
		target string
	}{
		{"brackets in title", "- [A [draft]](a.md)", "A [draft]", "a"},
		{"empty title", "- [](a.md)", "", "a"},
		{"trailing blanks", "- [A](a.md)  \t", "A", "a"},
		{"link in title", "- [See [x](notes.md)](a.md)", "See [x](notes.md)", "a"},
		{"link syntax in title", "- [a](b](c.md)", "a](b", "c"},
		{"two links", "- [A](a.md) [B](b.md)", "A](a.md) [B", "b"},
		{"placeholder with link in title", "- [See [x](notes.md)]()", "See [x](notes.md)", ""},
		{"uuid target", "- [A](0192f0c1-2345-7123-8abc-def012345678.md)", "A", "0192f0c1-2345-7123-8abc-def012345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(tt.line)
			require.Len(t, doc.Items(), 1)
			assert.Equal(t, tt.title, doc.Items()[0].Title())
			assert.Equal(t, tt.target, doc.Items()[0].Target())
			assert.Equal(t, tt.line, doc.Items()[0].Raw())
		})
	}
}

func TestParse_LineEndings(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		newline string
	}{
		{"lf", "- [A](a.md)\n  - [B](b.md)\n", "\n"},
		{"crlf", "- [A](a.md)\r\n  - [B](b.md)\r\n", "\r\n"},
		{"no trailing newline", "- [A](a.md)\n  - [B](b.md)", "\n"},
		{"empty", "", "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(tt.input)
			assert.Equal(t, tt.newline, doc.Newline())
			if tt.input != "" {
				assert.Equal(t, "B", doc.Items()[0].Items()[0].Title())
			}

			doc.MarkModified()
			assert.Equal(t, tt.input, NewSerializer(nil).Serialize(doc))
		})
	}
}

func TestParse_IsTotal(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"- [",
		"- [](",
		"- []()",
		"- [a](b.md",
		"        - [Deep](d.md)\n- [A](a.md)\n",
		"- [A](a.md)\n  \n  - [B](b.md)\n",
		"\r\n\r\n",
		"- [A](a.md)\n- [A](a.md)\n",
		"]]]((([[[",
		"- [ü](ü.md)\n  - [日本](日本.md)\n",
	}

	for _, input := range inputs {
		doc := parse(input)
		lines, _, _ := splitLines(input)
		assert.Equal(t, len(lines), doc.ItemCount()+len(doc.Ledger()), "input %q", input)
		assert.Equal(t, input, NewSerializer(nil).Serialize(doc))
	}
}

func TestParse_DeepNestingUsesNoRecursion(t *testing.T) {
	const depth = 5000

	var b strings.Builder
	for i := 0; i < depth; i++ {
		b.WriteString(strings.Repeat(" ", 2*i))
		b.WriteString("- [n](n.md)\n")
	}
	input := b.String()

	doc := parse(input)
	assert.Equal(t, depth, doc.ItemCount())
	assert.Empty(t, doc.Ledger())

	doc.MarkModified()
	assert.Equal(t, input, NewSerializer(nil).Serialize(doc))
}

func TestParse_CustomIndentWidth(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.IndentWidth = 4
	cfg.LinkExtension = ".markdown"

	doc := NewParser(cfg).Parse("- [A](a.markdown)\n    - [B](b.markdown)\n  - [C](c.markdown)\n")

	require.Len(t, doc.Items(), 1)
	assert.Equal(t, []string{"B"}, itemTitles(doc.Items()[0].Items()))
	assert.Len(t, doc.Ledger(), 1)
}
