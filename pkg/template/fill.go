package template

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aescanero/dago-template/pkg/eval"
	"github.com/aescanero/dago-template/pkg/tree"
)

// fillContent replaces the content of n with the markup of a resolved value.
// A null value clears the content.
func (r *renderer) fillContent(n *tree.Node) error {
	path, _ := n.Attr(AttrContent)

	value, err := eval.Resolve(strings.TrimSpace(path), r.scope())
	if err != nil {
		return err
	}

	markup := ""
	if value != nil {
		markup = eval.ToString(value)
	}
	nodes, err := tree.ParseNodes(markup)
	if err != nil {
		return fmt.Errorf("failed to parse content of %s: %w", path, err)
	}

	n.SetContent(nodes...)
	n.RemoveAttr(AttrContent)
	return nil
}

// fillAttributes sets one attribute per "<attribute>: <variable>" entry
func (r *renderer) fillAttributes(n *tree.Node) error {
	rule, _ := n.Attr(AttrAttributes)

	for _, entry := range strings.Split(rule, ",") {
		name, path, ok := strings.Cut(entry, ":")
		if !ok {
			return NewSyntaxError(AttrAttributes, rule, "<attribute>: <variable>[, <attribute>: <variable>...]")
		}
		value, err := eval.Resolve(strings.TrimSpace(path), r.scope())
		if err != nil {
			return err
		}
		n.SetAttr(strings.TrimSpace(name), eval.ToString(value))
	}

	n.RemoveAttr(AttrAttributes)
	return nil
}

// bindEvents attaches every handler of each named group to n.
// Within a group, handlers are attached in event-kind order.
func (r *renderer) bindEvents(n *tree.Node) error {
	rule, _ := n.Attr(AttrEvents)

	for _, group := range strings.Split(rule, ",") {
		group = strings.TrimSpace(group)
		handlers, ok := r.t.handlers[group]
		if !ok {
			return NewUnknownHandlerGroupError(group)
		}

		kinds := make([]string, 0, len(handlers))
		for kind := range handlers {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)

		for _, kind := range kinds {
			n.AddEventListener(kind, handlers[kind])
		}
	}

	n.RemoveAttr(AttrEvents)
	return nil
}
