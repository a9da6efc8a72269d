package eval

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aescanero/dago-template/internal/eval/cel"
)

// Predicate is a named one-argument test used by "is" and "isnot" conditions
type Predicate func(v any) bool

// Built-in predicate names
const (
	PredicateEmpty     = "empty"
	PredicateUndefined = "undefined"
)

// Registry maps predicate names to predicates. It is safe for concurrent
// use; during a render it is only read.
type Registry struct {
	mu    sync.RWMutex
	preds map[string]Predicate
}

// NewRegistry creates a registry seeded with the built-in predicates
func NewRegistry() *Registry {
	return &Registry{
		preds: map[string]Predicate{
			PredicateEmpty:     IsEmpty,
			PredicateUndefined: IsUndefined,
		},
	}
}

// Register adds or replaces a predicate. A nil predicate is rejected.
func (r *Registry) Register(name string, fn Predicate) error {
	if fn == nil {
		return NewTypeKindError(fmt.Sprintf("cannot add test %s, handler", name), "null")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preds[name] = fn
	return nil
}

// RegisterFunc registers any value usable as a predicate: a Predicate or a
// func(any) bool. Other values fail with a TypeKindError.
func (r *Registry) RegisterFunc(name string, fn any) error {
	switch f := fn.(type) {
	case Predicate:
		return r.Register(name, f)
	case func(any) bool:
		return r.Register(name, f)
	}
	return NewTypeKindError(fmt.Sprintf("cannot add test %s, handler", name), KindOf(fn))
}

// RegisterCEL compiles a CEL expression over the variable "value" and
// registers it as a predicate.
func (r *Registry) RegisterCEL(name, expression string) error {
	p, err := CELPredicate(expression)
	if err != nil {
		return fmt.Errorf("failed to register test %s: %w", name, err)
	}
	return r.Register(name, p)
}

// Lookup returns the named predicate
func (r *Registry) Lookup(name string) (Predicate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.preds[name]
	return p, ok
}

// Names returns the registered predicate names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.preds))
	for name := range r.preds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent registry with the same predicates
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := &Registry{preds: make(map[string]Predicate, len(r.preds))}
	for k, v := range r.preds {
		c.preds[k] = v
	}
	return c
}

// IsEmpty is true for undefined, the empty string, a zero-length sequence
// and a mapping without entries.
func IsEmpty(v any) bool {
	if IsUndefined(v) {
		return true
	}
	switch KindOf(v) {
	case "string", "sequence", "mapping":
		n, ok := Len(v)
		return ok && n == 0
	}
	return false
}

var celEvaluator = cel.NewEvaluator()

// CELPredicate compiles a CEL expression over the variable "value" into a
// predicate. Evaluation errors and non-boolean results count as false.
func CELPredicate(expression string) (Predicate, error) {
	if err := celEvaluator.ValidateExpression(expression); err != nil {
		return nil, err
	}
	return func(v any) bool {
		if IsUndefined(v) {
			v = nil
		}
		ok, err := celEvaluator.EvaluateBool(expression, v)
		return err == nil && ok
	}, nil
}
