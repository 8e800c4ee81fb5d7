package outline

import "errors"

// NodeType identifies the kind of an outline AST node
type NodeType int

const (
	DocumentNode NodeType = iota
	ListNode
	ListItemNode
	TextNode
)

func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "document"
	case ListNode:
		return "list"
	case ListItemNode:
		return "list_item"
	case TextNode:
		return "text"
	default:
		return "unknown"
	}
}

// ErrCyclicAttach is returned when a node would become its own descendant
var ErrCyclicAttach = errors.New("outline: cannot attach a node beneath itself")

// Node is an element of the outline AST. Nodes are doubly linked: each
// knows its parent and its ordered children.
//
// A Document owns a List of ListItems; each ListItem may own a nested List.
// Text nodes mark lines that did not parse and carry no structure.
type Node struct {
	kind     NodeType
	parent   *Node
	children []*Node

	title  string // ListItem
	target string // ListItem link stem; empty for placeholders
	text   string // Text

	// Source information for parsed nodes; line is -1 for nodes built in code
	indent int
	line   int
	raw    string
	edited bool

	// Set on the document root only
	owner *Document
}

// NewListItem creates a detached list item linking to target. An empty
// target makes a placeholder.
func NewListItem(title, target string) *Node {
	return &Node{kind: ListItemNode, title: title, target: target, line: -1}
}

// NewList creates a detached list container
func NewList() *Node {
	return &Node{kind: ListNode, line: -1}
}

// NewText creates a detached text node
func NewText(text string) *Node {
	return &Node{kind: TextNode, text: text, line: -1}
}

func (n *Node) Kind() NodeType { return n.kind }
func (n *Node) Parent() *Node  { return n.parent }
func (n *Node) Title() string  { return n.title }
func (n *Node) Target() string { return n.target }
func (n *Node) Text() string   { return n.text }

// IsPlaceholder reports whether a list item has no link target
func (n *Node) IsPlaceholder() bool {
	return n.kind == ListItemNode && n.target == ""
}

// Indent returns the leading-space count of the source line
func (n *Node) Indent() int { return n.indent }

// Line returns the 0-based source line ordinal, or -1
func (n *Node) Line() int { return n.line }

// Raw returns the source line the node was parsed from
func (n *Node) Raw() string { return n.raw }

// AdoptSource gives a detached item the source position and line of from,
// an item of an earlier parse. The source line is only reused if title and
// target still agree.
func (n *Node) AdoptSource(from *Node) {
	n.line = from.line
	n.indent = from.indent
	n.raw = from.raw
	n.edited = from.edited || n.title != from.title || n.target != from.target
}

// Children returns a copy of the node's children
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// SetTitle changes a list item's title
func (n *Node) SetTitle(title string) {
	if n.title == title {
		return
	}
	n.title = title
	n.edited = true
	n.touch()
}

// SetTarget changes a list item's link target
func (n *Node) SetTarget(target string) {
	if n.target == target {
		return
	}
	n.target = target
	n.edited = true
	n.touch()
}

// List returns the node's list container, creating it when absent
func (n *Node) List() *Node {
	for _, child := range n.children {
		if child.kind == ListNode {
			return child
		}
	}
	list := NewList()
	n.attach(list, len(n.children))
	return list
}

// Items returns the list items nested directly under the node
func (n *Node) Items() []*Node {
	var items []*Node
	for _, child := range n.children {
		if child.kind != ListNode {
			continue
		}
		for _, item := range child.children {
			if item.kind == ListItemNode {
				items = append(items, item)
			}
		}
	}
	return items
}

// AddItem appends item to the node's list
func (n *Node) AddItem(item *Node) error {
	if item.isAncestorOf(n) {
		return ErrCyclicAttach
	}
	return n.List().AddChild(item)
}

// AddChild appends child, detaching it from any previous parent
func (n *Node) AddChild(child *Node) error {
	return n.InsertChild(child, len(n.children))
}

// InsertChild inserts child at position, clamped to the child count
func (n *Node) InsertChild(child *Node, position int) error {
	if child.isAncestorOf(n) {
		return ErrCyclicAttach
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	if position < 0 {
		position = 0
	}
	if position > len(n.children) {
		position = len(n.children)
	}
	n.attach(child, position)
	return nil
}

// RemoveChild detaches child and reports whether it was present
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			child.parent = nil
			n.touch()
			return true
		}
	}
	return false
}

// AddSiblingBefore inserts sibling just before n. It reports false when n
// has no parent.
func (n *Node) AddSiblingBefore(sibling *Node) (bool, error) {
	return n.addSibling(sibling, 0)
}

// AddSiblingAfter inserts sibling just after n
func (n *Node) AddSiblingAfter(sibling *Node) (bool, error) {
	return n.addSibling(sibling, 1)
}

func (n *Node) addSibling(sibling *Node, offset int) (bool, error) {
	if n.parent == nil {
		return false, nil
	}
	if sibling == n || sibling.isAncestorOf(n) {
		return false, ErrCyclicAttach
	}
	parent := n.parent
	if sibling.parent != nil {
		sibling.parent.RemoveChild(sibling)
	}
	parent.attach(sibling, parent.indexOf(n)+offset)
	return true, nil
}

// AddParent puts newParent where n was and makes n its last child
func (n *Node) AddParent(newParent *Node) (bool, error) {
	if n.parent == nil {
		return false, nil
	}
	if newParent == n || newParent.isAncestorOf(n) || n.isAncestorOf(newParent) {
		return false, ErrCyclicAttach
	}
	if newParent.parent != nil {
		newParent.parent.RemoveChild(newParent)
	}
	oldParent := n.parent
	position := oldParent.indexOf(n)
	oldParent.RemoveChild(n)
	oldParent.attach(newParent, position)
	newParent.attach(n, len(newParent.children))
	return true, nil
}

// Walk visits the subtree in preorder without recursion. Returning false
// from fn skips the node's children.
func (n *Node) Walk(fn func(node *Node) bool) {
	stack := []*Node{n}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(top) {
			continue
		}
		for i := len(top.children) - 1; i >= 0; i-- {
			stack = append(stack, top.children[i])
		}
	}
}

func (n *Node) attach(child *Node, position int) {
	child.parent = n
	n.children = append(n.children, nil)
	copy(n.children[position+1:], n.children[position:])
	n.children[position] = child
	n.touch()
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// isAncestorOf reports whether n is other or one of other's ancestors
func (n *Node) isAncestorOf(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// touch marks the owning document as modified
func (n *Node) touch() {
	root := n
	for root.parent != nil {
		root = root.parent
	}
	if root.owner != nil && !root.owner.building {
		root.owner.modified = true
	}
}

// Document is the result of parsing an outline: the AST, the ledger of
// lines that did not parse, and what is needed to reproduce the source.
type Document struct {
	root   *Node
	ledger Ledger

	source          string
	newline         string
	trailingNewline bool

	modified bool
	building bool
}

// NewDocument creates an empty document with "\n" line endings
func NewDocument() *Document {
	doc := &Document{newline: "\n", trailingNewline: true, modified: true}
	doc.root = &Node{kind: DocumentNode, line: -1, owner: doc}
	return doc
}

// InheritFormat copies line endings and the ledger from prev
func (d *Document) InheritFormat(prev *Document) {
	d.newline = prev.newline
	d.trailingNewline = prev.trailingNewline
	d.ledger = prev.ledger.Clone()
	d.modified = true
}

// Root returns the document node
func (d *Document) Root() *Node { return d.root }

// Items returns the top-level list items
func (d *Document) Items() []*Node { return d.root.Items() }

// Ledger returns a copy of the unparsed lines
func (d *Document) Ledger() Ledger { return d.ledger.Clone() }

// SetLedger replaces the unparsed lines
func (d *Document) SetLedger(ledger Ledger) {
	d.ledger = ledger.Clone()
	d.modified = true
}

// Source returns the text the document was parsed from
func (d *Document) Source() string { return d.source }

// Newline returns the line terminator used when rendering
func (d *Document) Newline() string { return d.newline }

// Modified reports whether the tree changed since it was parsed
func (d *Document) Modified() bool { return d.modified }

// MarkModified forces the next render to be rebuilt from the tree
func (d *Document) MarkModified() { d.modified = true }

// ItemCount returns the number of list items at any depth
func (d *Document) ItemCount() int {
	n := 0
	d.root.Walk(func(node *Node) bool {
		if node.kind == ListItemNode {
			n++
		}
		return true
	})
	return n
}
