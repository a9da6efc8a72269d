package eval

import (
	"regexp"
	"strings"
)

// Path modifier prefixes
const (
	// LiteralPrefix turns the rest of the path into a string literal
	LiteralPrefix = "@"

	// SerializePrefix JSON-serializes the resolved value
	SerializePrefix = "??"

	// OptionalPrefix makes a missing segment resolve to Undefined
	OptionalPrefix = "$"
)

var bracketIndex = regexp.MustCompile(`\[([^\]]+)\]`)

// Resolve evaluates a path expression against s. Literals are recognized
// first, in this order: "null", any numeric string, "true"/"false" and
// "@literal". Otherwise the "??" and "$" modifiers are stripped (in that
// order) and the remainder is walked through the scope, "a[b]" being
// equivalent to "a.b".
func Resolve(path string, s *Scope) (any, error) {
	if path == "null" {
		return nil, nil
	}
	if f, ok := parseNumber(strings.TrimSpace(path)); ok {
		return f, nil
	}
	switch path {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if strings.HasPrefix(path, LiteralPrefix) {
		return path[len(LiteralPrefix):], nil
	}

	serialize := false
	if strings.HasPrefix(path, SerializePrefix) {
		path = path[len(SerializePrefix):]
		serialize = true
	}

	optional := false
	if strings.HasPrefix(path, OptionalPrefix) {
		path = path[len(OptionalPrefix):]
		optional = true
	}

	v, err := walk(path, s, optional)
	if err != nil {
		return nil, err
	}
	if serialize {
		return ToJSON(v)
	}
	return v, nil
}

// MustResolve is like Resolve but panics on failure. Intended for tests and
// for paths known to be literals.
func MustResolve(path string, s *Scope) any {
	v, err := Resolve(path, s)
	if err != nil {
		panic(err)
	}
	return v
}

func walk(path string, s *Scope, optional bool) (any, error) {
	segments := strings.Split(bracketIndex.ReplaceAllString(path, ".$1"), ".")

	var (
		cur   any
		found bool
	)
	for i, seg := range segments {
		if i == 0 {
			cur, found = s.Lookup(seg)
		} else {
			cur, found = member(cur, seg)
		}
		if !found || IsUndefined(cur) {
			if optional {
				return Undefined, nil
			}
			return nil, NewResolutionError(seg, path)
		}
	}
	return cur, nil
}
