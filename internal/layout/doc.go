// Package layout wraps rendered template markup in a Handlebars layout.
//
// A layout is an ordinary Handlebars document; the rendered markup is
// available unescaped as {{content}}, the template origin as {{source}} and
// the render context under {{vars}}.
//
// Example usage:
//
//	engine := layout.NewEngine()
//
//	out, err := engine.Render(
//	    "<html><head><title>{{default vars.title \"Untitled\"}}</title></head><body>{{content}}</body></html>",
//	    layout.Page{Content: markup, Source: "page.html", Variables: vars},
//	)
//
// Built-in helpers:
//   - uppercase, lowercase, trim - string transforms
//   - default - Return default value if first arg is empty
//   - eq - Equality comparison
//   - join - Join array elements with separator
//   - len - Get length of array/string/map
package layout
