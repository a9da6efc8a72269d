// Package tree provides the node tree the template engine rewrites.
//
// A tree is made of fragment, element, text and comment nodes. Elements carry
// an ordered attribute list, children and attached event listeners. Contents of
// <template> elements are inert: document-order queries and id lookups do not
// descend into them, mirroring how a browser treats template content.
//
// Example usage:
//
//	root, err := tree.ParseFragment(`<ul><template for-each="items:item"><li>x</li></template></ul>`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out := root.Clone()
//	html, _ := tree.InnerMarkup(out)
//	fmt.Println(html)
package tree
