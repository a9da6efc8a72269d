// Package eval implements the directive evaluation language: variable path
// resolution against immutable scopes, named predicates and conditions.
//
// Path expressions:
//   - null, true, false and numeric strings are literals
//   - @text is the literal string "text"
//   - ??path resolves path and JSON-serializes the result
//   - $path resolves path, yielding Undefined instead of failing when missing
//   - a.b.c and a[b].c walk mappings and sequences
//
// Conditions are conjunctions (" & ") of disjunctions (" | ") of tests. A
// test is either a single path (truthiness) or "L OP R" with OP one of
// == != >= <= > < is isnot contains notcontains in notin.
//
// Example usage:
//
//	scope := eval.NewScope(map[string]any{
//	    "user":  map[string]any{"role": "editor"},
//	    "items": []any{},
//	})
//	ev := eval.NewEvaluator(eval.NewRegistry())
//	ok, err := ev.EvaluateCondition("user.role == @editor & items is empty", scope)
package eval
