package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, markup string) *Node {
	t.Helper()
	root, err := ParseFragment(markup)
	require.NoError(t, err)
	return root
}

func mustMarkup(t *testing.T, n *Node) string {
	t.Helper()
	out, err := Markup(n)
	require.NoError(t, err)
	return out
}

func TestParseFragment_RoundTrip(t *testing.T) {
	markup := `<div id="a" class="x"><p>Hello <b>world</b></p><!-- note --></div>`
	root := mustParse(t, markup)

	assert.Equal(t, FragmentNode, root.Type)
	require.Len(t, root.Children(), 1)
	assert.Equal(t, markup, mustMarkup(t, root))
}

func TestParseFragment_TemplateChildren(t *testing.T) {
	root := mustParse(t, `<template if="x"><span>y</span></template>`)

	children := root.Children()
	require.Len(t, children, 1)
	tpl := children[0]
	assert.True(t, tpl.IsTemplate())

	val, ok := tpl.Attr("if")
	assert.True(t, ok)
	assert.Equal(t, "x", val)

	require.Len(t, tpl.Children(), 1)
	assert.Equal(t, "span", tpl.Children()[0].Tag)
}

func TestClone_IsIndependent(t *testing.T) {
	root := mustParse(t, `<div a="1"><p>text</p></div>`)
	clone := root.Clone()

	div := clone.Children()[0]
	div.SetAttr("a", "2")
	div.Children()[0].SetText("changed")

	assert.Equal(t, `<div a="1"><p>text</p></div>`, mustMarkup(t, root))
	assert.Equal(t, `<div a="2"><p>changed</p></div>`, mustMarkup(t, clone))
	assert.Nil(t, clone.Parent())
}

func TestAttributes(t *testing.T) {
	n := NewElement("a", Attr{Key: "href", Val: "/"})

	n.SetAttr("title", "home")
	n.SetAttr("href", "/index")
	assert.Equal(t, []Attr{{Key: "href", Val: "/index"}, {Key: "title", Val: "home"}}, n.Attrs())

	n.RemoveAttr("href")
	assert.False(t, n.HasAttr("href"))
	assert.True(t, n.HasAttr("title"))

	n.RemoveAttr("missing")
	assert.Len(t, n.Attrs(), 1)
}

func TestInsertAfterAndRemove(t *testing.T) {
	root := mustParse(t, `<i>1</i><i>4</i>`)
	first := root.Children()[0]

	first.InsertAfter(NewElement("b"), NewText("t"))
	assert.Equal(t, `<i>1</i><b></b>t<i>4</i>`, mustMarkup(t, root))

	first.Remove()
	assert.Nil(t, first.Parent())
	assert.Equal(t, `<b></b>t<i>4</i>`, mustMarkup(t, root))

	// detached nodes ignore insertion
	first.InsertAfter(NewText("lost"))
	assert.Equal(t, `<b></b>t<i>4</i>`, mustMarkup(t, root))
}

func TestAppendChild_MovesNode(t *testing.T) {
	a := NewElement("a")
	b := NewElement("b")
	c := NewText("c")

	a.AppendChild(c)
	b.AppendChild(c)

	assert.Empty(t, a.Children())
	require.Len(t, b.Children(), 1)
	assert.Same(t, b, c.Parent())
}

func TestNextElementSibling_SkipsText(t *testing.T) {
	root := mustParse(t, "<i></i>\n  <!-- c -->\n<b></b>")
	first := root.Children()[0]

	next := first.NextElementSibling()
	require.NotNil(t, next)
	assert.Equal(t, "b", next.Tag)
	assert.Nil(t, next.NextElementSibling())
}

func TestFindAll_DoesNotEnterTemplates(t *testing.T) {
	root := mustParse(t, `<div x="1"><template x="2"><p x="3"></p></template><p x="4"></p></div>`)

	found := root.FindAll(WithAttr("x"))
	var values []string
	for _, n := range found {
		v, _ := n.Attr("x")
		values = append(values, v)
	}
	assert.Equal(t, []string{"1", "2", "4"}, values)

	templates := root.FindAll(IsTemplateElement)
	assert.Len(t, templates, 1)
}

func TestSetContentAndText(t *testing.T) {
	n := NewElement("div")
	n.SetContent(NewText("a"), NewElement("br"))
	assert.Equal(t, "<div>a<br/></div>", mustMarkup(t, n))

	n.SetText("plain")
	assert.Equal(t, "plain", n.Text())

	n.SetText("")
	assert.Empty(t, n.Children())
}

func TestCloneContent(t *testing.T) {
	root := mustParse(t, `<template><b>1</b><i>2</i></template>`)
	tpl := root.Children()[0]

	frag := tpl.CloneContent()
	assert.Equal(t, FragmentNode, frag.Type)
	assert.Equal(t, "<b>1</b><i>2</i>", mustMarkup(t, frag))
	assert.Len(t, tpl.Children(), 2)
}

func TestEvents(t *testing.T) {
	n := NewElement("button")
	var got []string
	n.AddEventListener("click", func(ev Event) { got = append(got, "a:"+ev.Kind) })
	n.AddEventListener("click", func(ev Event) { got = append(got, "b:"+ev.Kind) })
	n.AddEventListener("click", nil)

	assert.Equal(t, 2, n.ListenerCount())
	assert.Equal(t, 2, n.Dispatch(Event{Kind: "click"}))
	assert.Equal(t, 0, n.Dispatch(Event{Kind: "input"}))
	assert.Equal(t, []string{"a:click", "b:click"}, got)

	clone := n.Clone()
	assert.Len(t, clone.Listeners("click"), 2)
}

func TestDocument_ElementByID(t *testing.T) {
	root := mustParse(t, `<template id="row"><p id="inner"></p></template><div id="row"></div><span id="s"></span>`)
	doc := NewDocument(root)

	n, ok := doc.ElementByID("row")
	require.True(t, ok)
	assert.True(t, n.IsTemplate())

	_, ok = doc.ElementByID("inner")
	assert.False(t, ok)

	_, ok = doc.ElementByID("s")
	assert.True(t, ok)
	assert.Equal(t, 2, doc.Len())
	assert.Same(t, root, doc.Root())
}

func TestNodeType_String(t *testing.T) {
	assert.Equal(t, "fragment", FragmentNode.String())
	assert.Equal(t, "element", ElementNode.String())
	assert.Equal(t, "text", TextNode.String())
	assert.Equal(t, "comment", CommentNode.String())
	assert.Equal(t, "unknown", NodeType(42).String())
}
