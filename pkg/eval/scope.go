package eval

import "sort"

// Scope is an immutable set of variable bindings. Deriving a scope never
// changes the one it was derived from, so a scope may be shared freely
// between nested renders.
type Scope struct {
	parent *Scope
	vars   map[string]any
}

// NewScope creates a root scope over vars. The map is read, never written.
func NewScope(vars map[string]any) *Scope {
	if vars == nil {
		vars = map[string]any{}
	}
	return &Scope{vars: vars}
}

// With returns a scope that inherits every binding of s and adds bindings,
// shadowing inherited names.
func (s *Scope) With(bindings map[string]any) *Scope {
	own := make(map[string]any, len(bindings))
	for k, v := range bindings {
		own[k] = v
	}
	return &Scope{parent: s, vars: own}
}

// Bind returns a scope that inherits every binding of s plus name=value.
func (s *Scope) Bind(name string, value any) *Scope {
	return &Scope{parent: s, vars: map[string]any{name: value}}
}

// Lookup returns the value bound to name
func (s *Scope) Lookup(name string) (any, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Names returns every visible name, sorted
func (s *Scope) Names() []string {
	seen := make(map[string]struct{})
	for cur := s; cur != nil; cur = cur.parent {
		for k := range cur.vars {
			seen[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Flatten returns a new map holding every visible binding
func (s *Scope) Flatten() map[string]any {
	out := make(map[string]any)
	for _, name := range s.Names() {
		out[name], _ = s.Lookup(name)
	}
	return out
}
