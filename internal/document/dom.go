package document

import (
	"strings"

	"github.com/beevik/etree"
)

// RootTag is the element name of a root node.
const RootTag = "root"

// TextContent concatenates the character data of el and all its descendants.
func TextContent(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var b strings.Builder
	appendText(&b, el)
	return b.String()
}

func appendText(b *strings.Builder, el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			appendText(b, t)
		}
	}
}

// DirectChild returns the first direct child of el with the given tag.
// Matches at any other depth are ignored.
func DirectChild(el *etree.Element, tag string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

// DirectChildren returns every direct child of el with the given tag.
func DirectChildren(el *etree.Element, tag string) []*etree.Element {
	if el == nil {
		return nil
	}
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			out = append(out, child)
		}
	}
	return out
}

// DirectChildText returns the trimmed text of the first direct child with
// the given tag and whether such a child exists.
func DirectChildText(el *etree.Element, tag string) (string, bool) {
	child := DirectChild(el, tag)
	if child == nil {
		return "", false
	}
	return strings.TrimSpace(TextContent(child)), true
}

// Descendants returns every element below el in document order.
func Descendants(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	Walk(el, func(e *etree.Element) bool {
		if e != el && (tag == "" || e.Tag == tag) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Owned returns descendants of a root element with the given tag, without
// descending into nested root elements. A root's properties, geometry,
// functions and annotations are the ones it owns, not its children's.
func Owned(rootEl *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	Walk(rootEl, func(e *etree.Element) bool {
		if e == rootEl {
			return true
		}
		if e.Tag == RootTag {
			return false
		}
		if e.Tag == tag {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Walk visits el and its descendants depth-first in document order.
// Returning false from fn skips the element's children.
func Walk(el *etree.Element, fn func(*etree.Element) bool) {
	if el == nil {
		return
	}
	if !fn(el) {
		return
	}
	for _, child := range el.ChildElements() {
		Walk(child, fn)
	}
}

// AncestorCount counts the ancestors of el whose tag equals tag.
func AncestorCount(el *etree.Element, tag string) int {
	n := 0
	for p := el.Parent(); p != nil; p = p.Parent() {
		if p.Tag == tag {
			n++
		}
	}
	return n
}

// Attr returns the value of an attribute, accepting namespace-prefixed keys
// such as "po:accession".
func Attr(el *etree.Element, key string) string {
	return el.SelectAttrValue(key, "")
}
