package tree

// Store resolves elements by identifier
type Store interface {
	// ElementByID returns the element carrying id="<id>", if any
	ElementByID(id string) (*Node, bool)
}

// Document is an in-memory Store indexing a tree by element id.
// Ids inside template contents are not indexed. First occurrence wins.
type Document struct {
	root *Node
	byID map[string]*Node
}

// NewDocument indexes root. Later changes to root are not reflected.
func NewDocument(root *Node) *Document {
	d := &Document{
		root: root,
		byID: make(map[string]*Node),
	}
	for _, n := range root.FindAll(WithAttr("id")) {
		id, _ := n.Attr("id")
		if _, exists := d.byID[id]; !exists {
			d.byID[id] = n
		}
	}
	return d
}

// Root returns the indexed tree
func (d *Document) Root() *Node {
	return d.root
}

// ElementByID implements Store
func (d *Document) ElementByID(id string) (*Node, bool) {
	n, ok := d.byID[id]
	return n, ok
}

// Len returns the number of indexed identifiers
func (d *Document) Len() int {
	return len(d.byID)
}
