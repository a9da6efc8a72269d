package tree

// NodeType identifies the kind of a Node
type NodeType int

const (
	// FragmentNode is a parentless container for a list of nodes
	FragmentNode NodeType = iota

	// ElementNode is a tagged node with attributes and children
	ElementNode

	// TextNode holds character data
	TextNode

	// CommentNode holds a markup comment
	CommentNode
)

// TemplateTag is the tag of template elements
const TemplateTag = "template"

// String returns the string representation of the node type
func (t NodeType) String() string {
	switch t {
	case FragmentNode:
		return "fragment"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	default:
		return "unknown"
	}
}

// Attr is a single element attribute
type Attr struct {
	Key string
	Val string
}

// Node is a node of the tree
type Node struct {
	Type NodeType

	// Tag is the lower-case tag name of an element
	Tag string

	// Data is the character data of text and comment nodes
	Data string

	attrs     []Attr
	children  []*Node
	parent    *Node
	listeners map[string][]Handler
}

// NewFragment creates a fragment holding the given nodes
func NewFragment(children ...*Node) *Node {
	n := &Node{Type: FragmentNode}
	n.AppendChild(children...)
	return n
}

// NewElement creates an element with the given tag and attributes
func NewElement(tag string, attrs ...Attr) *Node {
	n := &Node{Type: ElementNode, Tag: tag}
	n.attrs = append(n.attrs, attrs...)
	return n
}

// NewText creates a text node
func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// NewComment creates a comment node
func NewComment(data string) *Node {
	return &Node{Type: CommentNode, Data: data}
}

// IsElement reports whether the node is an element
func (n *Node) IsElement() bool {
	return n.Type == ElementNode
}

// IsTemplate reports whether the node is a <template> element
func (n *Node) IsTemplate() bool {
	return n.Type == ElementNode && n.Tag == TemplateTag
}

// Parent returns the parent node or nil if the node is detached
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a snapshot of the node's children
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Attrs returns a snapshot of the node's attributes in document order
func (n *Node) Attrs() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// Attr returns the value of the named attribute
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether the named attribute is present
func (n *Node) HasAttr(key string) bool {
	_, ok := n.Attr(key)
	return ok
}

// SetAttr sets the named attribute, appending it if absent
func (n *Node) SetAttr(key, val string) {
	for i := range n.attrs {
		if n.attrs[i].Key == key {
			n.attrs[i].Val = val
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Key: key, Val: val})
}

// RemoveAttr removes the named attribute if present
func (n *Node) RemoveAttr(key string) {
	for i := range n.attrs {
		if n.attrs[i].Key == key {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

// AppendChild appends nodes as the last children, detaching them first
func (n *Node) AppendChild(children ...*Node) {
	for _, c := range children {
		c.Remove()
		c.parent = n
		n.children = append(n.children, c)
	}
}

// InsertAfter inserts nodes as siblings directly after n, in order.
// It is a no-op for a detached node.
func (n *Node) InsertAfter(nodes ...*Node) {
	p := n.parent
	if p == nil || len(nodes) == 0 {
		return
	}
	for _, c := range nodes {
		c.Remove()
	}
	idx := p.indexOf(n)
	tail := append([]*Node{}, p.children[idx+1:]...)
	p.children = append(p.children[:idx+1], nodes...)
	p.children = append(p.children, tail...)
	for _, c := range nodes {
		c.parent = p
	}
}

// Remove detaches the node from its parent
func (n *Node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	if idx := p.indexOf(n); idx >= 0 {
		p.children = append(p.children[:idx], p.children[idx+1:]...)
	}
	n.parent = nil
}

// SetContent replaces all children with the given nodes
func (n *Node) SetContent(children ...*Node) {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	n.AppendChild(children...)
}

// SetText replaces all children with a single text node
func (n *Node) SetText(text string) {
	if text == "" {
		n.SetContent()
		return
	}
	n.SetContent(NewText(text))
}

// Text returns the concatenated character data of all descendant text nodes
func (n *Node) Text() string {
	if n.Type == TextNode {
		return n.Data
	}
	var out []byte
	for _, c := range n.children {
		out = append(out, c.Text()...)
	}
	return string(out)
}

// NextElementSibling returns the next sibling element, skipping text and comments
func (n *Node) NextElementSibling() *Node {
	p := n.parent
	if p == nil {
		return nil
	}
	for _, s := range p.children[p.indexOf(n)+1:] {
		if s.Type == ElementNode {
			return s
		}
	}
	return nil
}

// Clone returns a deep, detached copy of the node. Listeners are copied by reference.
func (n *Node) Clone() *Node {
	c := &Node{
		Type: n.Type,
		Tag:  n.Tag,
		Data: n.Data,
	}
	if len(n.attrs) > 0 {
		c.attrs = make([]Attr, len(n.attrs))
		copy(c.attrs, n.attrs)
	}
	for kind, hs := range n.listeners {
		if c.listeners == nil {
			c.listeners = make(map[string][]Handler, len(n.listeners))
		}
		c.listeners[kind] = append([]Handler(nil), hs...)
	}
	for _, child := range n.children {
		cc := child.Clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// CloneContent returns a fragment holding deep copies of the node's children
func (n *Node) CloneContent() *Node {
	f := &Node{Type: FragmentNode}
	for _, child := range n.children {
		cc := child.Clone()
		cc.parent = f
		f.children = append(f.children, cc)
	}
	return f
}

// Matcher selects nodes in a query
type Matcher func(*Node) bool

// FindAll returns the descendants of n matching m, in document order.
// Template elements may match but their contents are never visited.
func (n *Node) FindAll(m Matcher) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(p *Node) {
		for _, c := range p.children {
			if m(c) {
				out = append(out, c)
			}
			if !c.IsTemplate() {
				walk(c)
			}
		}
	}
	walk(n)
	return out
}

// IsTemplateElement matches template elements
func IsTemplateElement(n *Node) bool {
	return n.IsTemplate()
}

// WithAttr matches elements carrying the given attribute
func WithAttr(key string) Matcher {
	return func(n *Node) bool {
		return n.Type == ElementNode && n.HasAttr(key)
	}
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}
