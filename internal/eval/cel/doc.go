// Package cel provides a CEL (Common Expression Language) evaluator for user-defined predicates.
//
// CEL is a non-Turing complete expression language that provides fast, safe evaluation
// of tests. Every expression sees a single variable, value, holding the tested value.
//
// Example usage:
//
//	evaluator := cel.NewEvaluator()
//
//	matched, err := evaluator.EvaluateBool("value >= 18", 21)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// matched == true
//
// Supported operations:
//   - Comparisons: ==, !=, <, <=, >, >=
//   - Boolean logic: &&, ||, !
//   - String operations: contains, startsWith, endsWith, matches
//   - Arithmetic: +, -, *, /, %
//   - List operations: in, size
//   - Map access: value.field, value["field"]
package cel
