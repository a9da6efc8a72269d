package tree

// Event is delivered to handlers attached to a node
type Event struct {
	Kind   string
	Target *Node
	Detail any
}

// Handler reacts to an event
type Handler func(Event)

// AddEventListener attaches h for events of the given kind
func (n *Node) AddEventListener(kind string, h Handler) {
	if h == nil {
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]Handler)
	}
	n.listeners[kind] = append(n.listeners[kind], h)
}

// Listeners returns the handlers attached for the given event kind
func (n *Node) Listeners(kind string) []Handler {
	return append([]Handler(nil), n.listeners[kind]...)
}

// ListenerCount returns the number of handlers attached across all kinds
func (n *Node) ListenerCount() int {
	total := 0
	for _, hs := range n.listeners {
		total += len(hs)
	}
	return total
}

// Dispatch invokes every handler attached for the event kind in attachment
// order and returns how many ran. Target is set to n when empty.
func (n *Node) Dispatch(ev Event) int {
	if ev.Target == nil {
		ev.Target = n
	}
	hs := n.listeners[ev.Kind]
	for _, h := range hs {
		h(ev)
	}
	return len(hs)
}
