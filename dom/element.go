package dom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/engrave/tree"
)

// Kind is the capability tag of an element.
type Kind int

// Kinds of elements.
const (
	KindUnknown Kind = iota
	KindScore
	KindSystem
	KindStave
	KindVoice
	KindTuplet
	KindBeam
	KindCurve
	KindText
)

var kindTags = map[Kind]string{
	KindScore:  "vf-score",
	KindSystem: "vf-system",
	KindStave:  "vf-stave",
	KindVoice:  "vf-voice",
	KindTuplet: "vf-tuplet",
	KindBeam:   "vf-beam",
	KindCurve:  "vf-curve",
	KindText:   "#text",
}

func (k Kind) String() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}
	return "unknown"
}

// KindFromTag maps an element tag to its kind.
func KindFromTag(tag string) Kind {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for k, t := range kindTags {
		if t == tag {
			return k
		}
	}
	return KindUnknown
}

// Element is a node of a document.
type Element struct {
	tree.Node[*Element] // we build on top of general purpose tree
	kind                Kind
	attrs               map[string]string
	text                string
}

// NewElement creates an element of a kind with attributes.
// Attribute names are case-insensitive.
func NewElement(kind Kind, attrs map[string]string) *Element {
	e := &Element{kind: kind, attrs: make(map[string]string, len(attrs))}
	e.Payload = e // Payload will always reference the element itself
	for k, v := range attrs {
		e.attrs[strings.ToLower(k)] = v
	}
	return e
}

// NewText creates a text element.
func NewText(text string) *Element {
	e := NewElement(KindText, nil)
	e.text = text
	return e
}

// Node gets the element from a generic tree node.
func Node(n *tree.Node[*Element]) *Element {
	if n == nil {
		return nil
	}
	return n.Payload
}

// Kind returns the capability tag of an element.
func (e *Element) Kind() Kind {
	return e.kind
}

// Attr returns the value of an attribute. Attribute names are case-insensitive.
func (e *Element) Attr(key string) (string, bool) {
	v, ok := e.attrs[strings.ToLower(key)]
	return v, ok
}

// SetAttr sets an attribute.
func (e *Element) SetAttr(key, value string) {
	e.attrs[strings.ToLower(key)] = value
}

// Text returns the text of a text element.
func (e *Element) Text() string {
	return e.text
}

// Append adds children to an element. It returns the element to allow
// for chaining.
func (e *Element) Append(children ...*Element) *Element {
	for _, ch := range children {
		e.AddChild(&ch.Node)
	}
	return e
}

// Elements returns the children of an element in declaration order.
func (e *Element) Elements() []*Element {
	var children []*Element
	for _, ch := range e.Children(true) {
		children = append(children, Node(ch))
	}
	return children
}

// ElementsOf returns the children of a kind, in declaration order.
func (e *Element) ElementsOf(kind Kind) []*Element {
	var children []*Element
	for _, ch := range e.Elements() {
		if ch.kind == kind {
			children = append(children, ch)
		}
	}
	return children
}

// ParentElement returns the parent of an element, or nil.
func (e *Element) ParentElement() *Element {
	return Node(e.Parent())
}

// TextContent returns the text of all text elements at or below e,
// concatenated in declaration order.
func (e *Element) TextContent() string {
	texts, _ := tree.DescendantsWith(&e.Node, NodeIsKind(KindText))
	var b strings.Builder
	for _, t := range texts {
		b.WriteString(Node(t).text)
	}
	return b.String()
}

func (e *Element) String() string {
	if e.kind == KindText {
		return fmt.Sprintf("%q", e.text)
	}
	var b strings.Builder
	b.WriteString(e.kind.String())
	for _, a := range e.Attributes() {
		fmt.Fprintf(&b, " %s=%q", a.Key, a.Value)
	}
	return b.String()
}

// Attribute is a key-value pair of an element.
type Attribute struct {
	Key, Value string
}

// Attributes returns the attributes of an element, sorted by key.
func (e *Element) Attributes() []Attribute {
	attrs := make([]Attribute, 0, len(e.attrs))
	for k, v := range e.attrs {
		attrs = append(attrs, Attribute{Key: k, Value: v})
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Key < attrs[j].Key })
	return attrs
}
