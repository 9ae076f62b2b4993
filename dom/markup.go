package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParseMarkup reads a document in markup notation and returns its score
// element. Elements which are not part of the notation vocabulary are
// transparent: their children are attached to the nearest known ancestor.
//
// Curve elements must be closed explicitly, i.e.
// <vf-curve from="a" to="b"></vf-curve>.
func ParseMarkup(r io.Reader) (*Element, error) {
	h, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("cannot parse markup: %w", err)
	}
	root := NewElement(KindUnknown, nil)
	convertHTML(h, root)
	score, err := FindScore(root)
	if err != nil {
		return nil, err
	}
	score.Isolate()
	tracer().Debugf("parsed score markup with %d top-level elements", score.ChildCount())
	return score, nil
}

func convertHTML(h *html.Node, parent *Element) {
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			kind := KindFromTag(c.Data)
			if kind == KindUnknown || kind == KindText {
				convertHTML(c, parent)
				continue
			}
			attrs := make(map[string]string, len(c.Attr))
			for _, a := range c.Attr {
				attrs[a.Key] = a.Val
			}
			e := NewElement(kind, attrs)
			parent.Append(e)
			convertHTML(c, e)
		case html.TextNode:
			if !holdsText(parent.kind) || strings.TrimSpace(c.Data) == "" {
				continue
			}
			parent.Append(NewText(c.Data))
		default:
			convertHTML(c, parent)
		}
	}
}

func holdsText(k Kind) bool {
	return k == KindVoice || k == KindTuplet || k == KindBeam
}
