package template

import (
	"github.com/aescanero/dago-template/pkg/eval"
	"github.com/aescanero/dago-template/pkg/tree"
	"go.uber.org/zap"
)

// renderer carries the state of a single Render call. Scopes are pushed
// when a map or for-each directive introduces bindings and popped on exit.
type renderer struct {
	t      *Template
	eval   *eval.Evaluator
	scopes []*eval.Scope
	logger *zap.Logger
}

func newRenderer(t *Template) *renderer {
	return &renderer{
		t:      t,
		eval:   eval.NewEvaluator(t.predicates),
		scopes: []*eval.Scope{eval.NewScope(t.vars)},
		logger: t.logger,
	}
}

func (r *renderer) scope() *eval.Scope {
	return r.scopes[len(r.scopes)-1]
}

func (r *renderer) push(s *eval.Scope) {
	r.scopes = append(r.scopes, s)
}

func (r *renderer) pop() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// process runs the directive, content, attribute and event passes over
// container in that order. Each pass works on the tree left by the previous one.
func (r *renderer) process(container *tree.Node) error {
	for _, n := range container.FindAll(tree.IsTemplateElement) {
		// dropped together with an earlier if-chain
		if n.Parent() == nil {
			continue
		}
		if err := r.directive(n); err != nil {
			return err
		}
	}

	for _, n := range container.FindAll(tree.WithAttr(AttrContent)) {
		if err := r.fillContent(n); err != nil {
			return err
		}
	}

	for _, n := range container.FindAll(tree.WithAttr(AttrAttributes)) {
		if err := r.fillAttributes(n); err != nil {
			return err
		}
	}

	for _, n := range container.FindAll(tree.WithAttr(AttrEvents)) {
		if err := r.bindEvents(n); err != nil {
			return err
		}
	}

	return nil
}
