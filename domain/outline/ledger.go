package outline

// LedgerEntry is a source line that did not parse as a list line
type LedgerEntry struct {
	Indent int    // leading spaces of the raw line
	Line   string // raw text; a bare dash is normalised to "<indent>- "
	Index  int    // 0-based source line ordinal, -1 when unknown
}

// Ledger holds unparsed lines in source order
type Ledger []LedgerEntry

// Clone returns an independent copy
func (l Ledger) Clone() Ledger {
	if l == nil {
		return nil
	}
	out := make(Ledger, len(l))
	copy(out, l)
	return out
}

// NonBlank counts entries with visible content
func (l Ledger) NonBlank() int {
	n := 0
	for _, e := range l {
		if len(e.Line) > e.Indent {
			n++
		}
	}
	return n
}

// NewLedgerEntry builds an entry without a source ordinal; it is placed by
// indentation when rendered.
func NewLedgerEntry(line string) LedgerEntry {
	return LedgerEntry{Indent: leadingSpaces(line), Line: line, Index: -1}
}

func leadingSpaces(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}
