package eval

import (
	"regexp"
	"strings"
)

// Operator is a comparison operator of the condition grammar
type Operator int

const (
	OpInvalid Operator = iota
	OpEqual
	OpNotEqual
	OpGreaterEqual
	OpLessEqual
	OpGreater
	OpLess
	OpIs
	OpIsNot
	OpContains
	OpNotContains
	OpIn
	OpNotIn
)

var operatorTokens = map[string]Operator{
	"==":          OpEqual,
	"!=":          OpNotEqual,
	">=":          OpGreaterEqual,
	"<=":          OpLessEqual,
	">":           OpGreater,
	"<":           OpLess,
	"is":          OpIs,
	"isnot":       OpIsNot,
	"contains":    OpContains,
	"notcontains": OpNotContains,
	"in":          OpIn,
	"notin":       OpNotIn,
}

// ParseOperator maps an operator token to its Operator
func ParseOperator(token string) (Operator, bool) {
	op, ok := operatorTokens[token]
	return op, ok
}

// String returns the operator token
func (op Operator) String() string {
	for token, o := range operatorTokens {
		if o == op {
			return token
		}
	}
	return "invalid"
}

var (
	andSeparator = regexp.MustCompile(`\s+&\s+`)
	orSeparator  = regexp.MustCompile(`\s+\|\s+`)
)

// Evaluator evaluates conditions against a scope, consulting a predicate
// registry for "is"/"isnot" tests.
type Evaluator struct {
	predicates *Registry
}

// NewEvaluator creates an evaluator. A nil registry means built-ins only.
func NewEvaluator(predicates *Registry) *Evaluator {
	if predicates == nil {
		predicates = NewRegistry()
	}
	return &Evaluator{predicates: predicates}
}

// EvaluateCondition evaluates an "if" attribute: clauses separated by " & "
// must all hold, and a clause holds when any of its " | " separated tests
// holds. Evaluation stops at the first false clause.
func (e *Evaluator) EvaluateCondition(condition string, s *Scope) (bool, error) {
	for _, clause := range andSeparator.Split(condition, -1) {
		held := false
		for _, test := range orSeparator.Split(clause, -1) {
			ok, err := e.EvaluateTest(test, s)
			if err != nil {
				return false, err
			}
			if ok {
				held = true
				break
			}
		}
		if !held {
			return false, nil
		}
	}
	return true, nil
}

// EvaluateTest evaluates a single test: "A" for truthiness or "A OP B".
// Any other number of tokens yields false.
func (e *Evaluator) EvaluateTest(test string, s *Scope) (bool, error) {
	tokens := strings.Fields(test)
	switch len(tokens) {
	case 1:
		v, err := Resolve(tokens[0], s)
		if err != nil {
			return false, err
		}
		return Truthy(v), nil
	case 3:
		return e.compare(tokens[0], tokens[1], tokens[2], s)
	default:
		return false, nil
	}
}

func (e *Evaluator) compare(left, token, right string, s *Scope) (bool, error) {
	op, ok := ParseOperator(token)
	if !ok {
		// Unknown operators still resolve their operands first, so a
		// missing variable is reported before the bad operator.
		if _, err := Resolve(left, s); err != nil {
			return false, err
		}
		if _, err := Resolve(right, s); err != nil {
			return false, err
		}
		return false, NewUnknownOperatorError(token)
	}

	if op == OpIs || op == OpIsNot {
		v, err := Resolve(left, s)
		if err != nil {
			return false, err
		}
		pred, found := e.predicates.Lookup(right)
		if !found {
			return false, NewUnknownTestError(right)
		}
		return pred(v) != (op == OpIsNot), nil
	}

	l, err := Resolve(left, s)
	if err != nil {
		return false, err
	}
	r, err := Resolve(right, s)
	if err != nil {
		return false, err
	}

	switch op {
	case OpEqual:
		return LooseEqual(l, r), nil
	case OpNotEqual:
		return !LooseEqual(l, r), nil
	case OpGreater:
		return Less(r, l), nil
	case OpLess:
		return Less(l, r), nil
	case OpGreaterEqual:
		return Comparable(l, r) && !Less(l, r), nil
	case OpLessEqual:
		return Comparable(l, r) && !Less(r, l), nil
	case OpContains, OpNotContains:
		found, err := Contains(l, r)
		if err != nil {
			return false, err
		}
		return found != (op == OpNotContains), nil
	case OpIn, OpNotIn:
		found, err := Contains(r, l)
		if err != nil {
			return false, err
		}
		return found != (op == OpNotIn), nil
	}
	return false, NewUnknownOperatorError(token)
}
