// Package template renders declarative markup templates.
//
// A template is a tree whose <template> elements carry directives:
//
//	<template if="user.role == admin">…</template>
//	<template else-if="user.role == editor">…</template>
//	<template else>…</template>
//
//	<template for-each="items: item"><li template-html="item.name"></li></template>
//	<template map="user.profile: p">…</template>
//	<template include="card"></template>
//	<template include-external="partials/footer.html"></template>
//
// Regular elements carry injection rules that are applied after directives:
//
//	template-html="path"            replace the content with the resolved value
//	template-attr="href: link.url"  set attributes from resolved values
//	template-events="form, nav"     attach registered handler groups
//
// Paths, literals and conditions follow package eval. Rendering never
// modifies the source tree, the variables or the handler table; each call
// to Render produces a fresh tree.
//
// Usage:
//
//	tmpl, err := template.FromMarkup(markup, template.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	tmpl.SetVariables(map[string]any{"items": []any{"a", "b"}})
//	out, err := tmpl.Render()
//
// Templates can also be fetched over HTTP with FromURL, or taken from a
// tree.Store (such as a redisstore document) with FromStore.
package template
