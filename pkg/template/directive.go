package template

import (
	"strings"

	"github.com/aescanero/dago-template/pkg/eval"
	"github.com/aescanero/dago-template/pkg/tree"
	"go.uber.org/zap"
)

// directive replaces a <template> element with its expansion. An if-chain
// head selects one branch first; a bare else or else-if is dropped.
func (r *renderer) directive(node *tree.Node) error {
	selected := node

	switch {
	case node.HasAttr(AttrIf):
		var err error
		selected, err = r.selectBranch(node)
		if err != nil {
			return err
		}
		if selected == nil {
			return nil
		}
	case node.HasAttr(AttrElseIf), node.HasAttr(AttrElse):
		node.Remove()
		return nil
	}

	return r.expand(selected)
}

// selectBranch evaluates the if-chain headed by head and removes every
// member but the selected one. It returns nil when no branch applies.
func (r *renderer) selectBranch(head *tree.Node) (*tree.Node, error) {
	condition, _ := head.Attr(AttrIf)

	chain := []*tree.Node{head}
	var elseNode *tree.Node
lookahead:
	for sib := head.NextElementSibling(); sib != nil && sib.IsTemplate(); sib = sib.NextElementSibling() {
		switch {
		case sib.HasAttr(AttrElseIf):
			chain = append(chain, sib)
		case sib.HasAttr(AttrElse):
			if elseNode != nil {
				return nil, NewMultipleElseError(condition)
			}
			elseNode = sib
			chain = append(chain, sib)
		default:
			break lookahead
		}
	}

	var selected *tree.Node
	for _, member := range chain {
		var expr string
		switch {
		case member == head:
			expr = condition
		case member == elseNode:
			continue
		default:
			expr, _ = member.Attr(AttrElseIf)
		}

		ok, err := r.eval.EvaluateCondition(expr, r.scope())
		if err != nil {
			return nil, err
		}
		if ok {
			selected = member
			break
		}
	}
	if selected == nil {
		selected = elseNode
	}

	for _, member := range chain {
		if member != selected {
			member.Remove()
		}
	}

	r.logger.Debug("if-chain resolved",
		zap.String("condition", condition),
		zap.Int("branches", len(chain)),
		zap.String("selected", branchName(head, elseNode, selected)),
	)

	return selected, nil
}

func branchName(head, elseNode, selected *tree.Node) string {
	switch selected {
	case nil:
		return "none"
	case head:
		return AttrIf
	case elseNode:
		return AttrElse
	default:
		return AttrElseIf
	}
}

// expand replaces node with one or more processed copies of its content
func (r *renderer) expand(node *tree.Node) error {
	content, err := r.content(node)
	if err != nil {
		return err
	}

	if rule, ok := node.Attr(AttrMap); ok {
		bindings, err := r.mapBindings(rule)
		if err != nil {
			return err
		}
		r.push(r.scope().With(bindings))
		defer r.pop()
	}

	var out []*tree.Node
	if rule, ok := node.Attr(AttrForEach); ok {
		out, err = r.forEach(rule, content)
		if err != nil {
			return err
		}
	} else {
		frag := content.CloneContent()
		if err := r.process(frag); err != nil {
			return err
		}
		out = frag.Children()
	}

	node.InsertAfter(out...)
	node.Remove()
	return nil
}

// content returns the node whose children are expanded: the included
// template, a placeholder for external includes, or node itself.
func (r *renderer) content(node *tree.Node) (*tree.Node, error) {
	if id, ok := node.Attr(AttrInclude); ok {
		included, found := r.t.store.ElementByID(id)
		if !found {
			return nil, NewLookupError(id, ErrNotFound)
		}
		if !included.IsTemplate() {
			return nil, NewLookupError(id, ErrNotTemplate)
		}
		r.logger.Debug("include resolved", zap.String("id", id))
		return included, nil
	}

	if ref, ok := node.Attr(AttrIncludeExternal); ok {
		r.logger.Debug("external include not inlined",
			zap.String("url", r.t.ResolveExternalURL(ref)),
		)
		return tree.NewFragment(tree.NewText(ExternalIncludeMarker)), nil
	}

	return node, nil
}

// mapBindings resolves "<from>: <to>, ..." in the current scope
func (r *renderer) mapBindings(rule string) (map[string]any, error) {
	bindings := make(map[string]any)
	for _, entry := range strings.Split(rule, ",") {
		from, to, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, NewSyntaxError(AttrMap, rule, "<variable>: <name>[, <variable>: <name>...]")
		}
		value, err := eval.Resolve(strings.TrimSpace(from), r.scope())
		if err != nil {
			return nil, err
		}
		bindings[strings.TrimSpace(to)] = value
	}
	return bindings, nil
}

// forEach processes a copy of content once per element of the collection,
// with the element bound to the loop name.
func (r *renderer) forEach(rule string, content *tree.Node) ([]*tree.Node, error) {
	path, name, ok := strings.Cut(rule, ":")
	if !ok {
		return nil, NewSyntaxError(AttrForEach, rule, "<iterable>: <name>")
	}
	path = strings.TrimSpace(path)
	name = strings.TrimSpace(name)

	collection, err := eval.Resolve(path, r.scope())
	if err != nil {
		return nil, err
	}
	items, ok := eval.Sequence(collection)
	if !ok {
		return nil, NewNotIterableError(path, eval.KindOf(collection))
	}

	base := r.scope()
	var out []*tree.Node
	for _, item := range items {
		frag := content.CloneContent()

		r.push(base.Bind(name, item))
		err := r.process(frag)
		r.pop()
		if err != nil {
			return nil, err
		}

		out = append(out, frag.Children()...)
	}

	r.logger.Debug("for-each expanded",
		zap.String("collection", path),
		zap.String("as", name),
		zap.Int("items", len(items)),
	)

	return out, nil
}
