package dom

import (
	"errors"

	"github.com/npillmayer/engrave/tree"
)

// ErrNoScore is returned if a document contains no score element.
var ErrNoScore = errors.New("document contains no score")

// NodeIsKind is a predicate to match elements of a kind.
// It is intended to be used in tree walks.
func NodeIsKind(kind Kind) tree.Predicate[*Element] {
	return func(n *tree.Node[*Element], unused *tree.Node[*Element]) (*tree.Node[*Element], error) {
		if Node(n).kind == kind {
			return n, nil
		}
		return nil, nil
	}
}

// NodeIsText is a predicate to match text elements.
var NodeIsText = NodeIsKind(KindText)

// FindScore returns the first score element at or below root.
func FindScore(root *Element) (*Element, error) {
	if root == nil {
		return nil, ErrNoScore
	}
	scores, err := tree.DescendantsWith(&root.Node, NodeIsKind(KindScore))
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, ErrNoScore
	}
	return Node(scores[0]), nil
}
