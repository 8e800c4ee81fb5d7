package queries

// GetBinderStructureQuery represents a query for the whole binder tree
type GetBinderStructureQuery struct{}

// Validate validates the GetBinderStructureQuery
func (q GetBinderStructureQuery) Validate() error {
	return nil
}

// BinderStructure represents the binder as a tree of plain values
type BinderStructure struct {
	Roots         []*StructureNode `json:"roots"`
	TotalItems    int              `json:"totalItems"`
	Placeholders  int              `json:"placeholders"`
	UnparsedLines []UnparsedLine   `json:"unparsedLines"`
}

// StructureNode is one binder item. ID is empty for placeholders.
type StructureNode struct {
	ID          string           `json:"id,omitempty"`
	Title       string           `json:"title"`
	Placeholder bool             `json:"placeholder"`
	Depth       int              `json:"depth"`
	Children    []*StructureNode `json:"children,omitempty"`
}

// UnparsedLine is a non-blank source line that is not a binder item
type UnparsedLine struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}
