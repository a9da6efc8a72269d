package template

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aescanero/dago-template/pkg/eval"
	"github.com/aescanero/dago-template/pkg/metrics"
	"github.com/aescanero/dago-template/pkg/tree"
	"go.uber.org/zap"
)

// Directive attributes carried by <template> elements
const (
	AttrIf              = "if"
	AttrElseIf          = "else-if"
	AttrElse            = "else"
	AttrInclude         = "include"
	AttrIncludeExternal = "include-external"
	AttrMap             = "map"
	AttrForEach         = "for-each"
)

// Injection attributes carried by regular elements
const (
	// AttrContent replaces the element content with a resolved value
	AttrContent = "template-html"

	// AttrAttributes sets attributes from resolved values: "attr: path, ..."
	AttrAttributes = "template-attr"

	// AttrEvents attaches handler groups: "group, ..."
	AttrEvents = "template-events"
)

// ExternalIncludeMarker is rendered in place of include-external content
const ExternalIncludeMarker = "[Cannot inline-load external templates yet]"

// HandlerGroups maps a group name to the handlers it attaches, by event kind
type HandlerGroups map[string]map[string]tree.Handler

// Template renders a source tree against variables, handler groups and
// predicates. Render never modifies the source tree or the variables.
//
// Setters are not safe to call concurrently with Render.
type Template struct {
	root               *tree.Node
	vars               map[string]any
	handlers           HandlerGroups
	predicates         *eval.Registry
	store              tree.Store
	externalIncludeURL string
	logger             *zap.Logger
	metrics            *metrics.Recorder
}

// New creates a template from a copy of root. A <template> element
// contributes its content, any other node is used as is.
func New(root *tree.Node, opts ...Option) *Template {
	o := newOptions(opts)

	var source *tree.Node
	switch {
	case root.IsTemplate():
		source = root.CloneContent()
	case root.Type == tree.FragmentNode:
		source = root.Clone()
	default:
		source = tree.NewFragment(root.Clone())
	}

	store := o.store
	if store == nil {
		store = tree.NewDocument(source)
	}

	return &Template{
		root:               source,
		vars:               map[string]any{},
		handlers:           HandlerGroups{},
		predicates:         eval.NewRegistry(),
		store:              store,
		externalIncludeURL: "/",
		logger:             o.logger,
		metrics:            o.metrics,
	}
}

// FromStore creates a template from the <template> element with the given
// id. The store also serves include directives unless WithStore overrides it.
func FromStore(store tree.Store, id string, opts ...Option) (*Template, error) {
	n, ok := store.ElementByID(id)
	if !ok {
		return nil, NewLookupError(id, ErrNotFound)
	}
	if !n.IsTemplate() {
		return nil, NewLookupError(id, ErrNotTemplate)
	}
	return New(n, append([]Option{WithStore(store)}, opts...)...), nil
}

// FromMarkup creates a template by parsing markup
func FromMarkup(markup string, opts ...Option) (*Template, error) {
	root, err := tree.ParseFragment(markup)
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return New(root, opts...), nil
}

// SetVariables sets the root scope. The map is referenced, never modified.
func (t *Template) SetVariables(vars map[string]any) {
	if vars == nil {
		vars = map[string]any{}
	}
	t.vars = vars
}

// Variables returns the root scope variables
func (t *Template) Variables() map[string]any {
	return t.vars
}

// SetEventHandlers sets the handler-group table. The table is referenced.
func (t *Template) SetEventHandlers(handlers HandlerGroups) {
	if handlers == nil {
		handlers = HandlerGroups{}
	}
	t.handlers = handlers
}

// AddTest registers a predicate for is/isnot conditions. handler must be an
// eval.Predicate or a func(any) bool.
func (t *Template) AddTest(name string, handler any) error {
	return t.predicates.RegisterFunc(name, handler)
}

// AddCELTest registers a predicate defined by a CEL expression over "value"
func (t *Template) AddCELTest(name, expression string) error {
	return t.predicates.RegisterCEL(name, expression)
}

// Predicates returns the predicate registry
func (t *Template) Predicates() *eval.Registry {
	return t.predicates
}

// SetExternalIncludeURL sets the base URL for include-external references
func (t *Template) SetExternalIncludeURL(url string) {
	t.externalIncludeURL = url
}

// ExternalIncludeURL returns the base URL for include-external references
func (t *Template) ExternalIncludeURL() string {
	return t.externalIncludeURL
}

// ResolveExternalURL resolves an include-external reference against the base URL
func (t *Template) ResolveExternalURL(ref string) string {
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "/") {
		return ref
	}
	return strings.TrimSuffix(t.externalIncludeURL, "/") + "/" + ref
}

// Source returns a copy of the source tree
func (t *Template) Source() *tree.Node {
	return t.root.Clone()
}

// Clone returns a template with a copy of the source tree and of the
// predicate registry, sharing variables and handler groups.
func (t *Template) Clone() *Template {
	c := *t
	c.root = t.root.Clone()
	c.predicates = t.predicates.Clone()
	if doc, ok := t.store.(*tree.Document); ok && doc.Root() == t.root {
		c.store = tree.NewDocument(c.root)
	}
	return &c
}

// Render produces a new tree. On error no output is returned.
func (t *Template) Render() (*tree.Node, error) {
	start := time.Now()

	out := t.root.Clone()
	r := newRenderer(t)
	err := r.process(out)

	t.metrics.RenderCompleted(time.Since(start), errorKind(err))
	if err != nil {
		t.logger.Debug("render failed", zap.Error(err))
		return nil, err
	}
	return out, nil
}

// RenderMarkup renders and serializes the result
func (t *Template) RenderMarkup() (string, error) {
	out, err := t.Render()
	if err != nil {
		return "", err
	}
	return tree.InnerMarkup(out)
}

// errorKind classifies render errors for metrics
func errorKind(err error) string {
	if err == nil {
		return ""
	}
	var (
		resolution   *eval.ResolutionError
		unknownTest  *eval.UnknownTestError
		unknownOp    *eval.UnknownOperatorError
		typeKind     *eval.TypeKindError
		multipleElse *MultipleElseError
		syntax       *SyntaxError
		notIterable  *NotIterableError
		lookup       *LookupError
		handlerGroup *UnknownHandlerGroupError
	)
	switch {
	case errors.As(err, &resolution):
		return "resolution"
	case errors.As(err, &unknownTest):
		return "unknown_test"
	case errors.As(err, &unknownOp):
		return "unknown_operator"
	case errors.As(err, &typeKind):
		return "type_kind"
	case errors.As(err, &multipleElse):
		return "multiple_else"
	case errors.As(err, &syntax):
		return "syntax"
	case errors.As(err, &notIterable):
		return "not_iterable"
	case errors.As(err, &lookup):
		return "lookup"
	case errors.As(err, &handlerGroup):
		return "unknown_handler_group"
	default:
		return "other"
	}
}
