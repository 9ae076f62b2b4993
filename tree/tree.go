package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
)

// ErrEmptyTree is returned if a walk is started on a nil node.
var ErrEmptyTree = errors.New("cannot walk empty tree")

// ErrInvalidFilter is returned if a walk is called without an action or predicate.
var ErrInvalidFilter = errors.New("filter is invalid")

// Action is a function type to operate on tree nodes.
// n is the node under test, parent is its parent node (or nil) and position
// is the index of n within the children of parent.
// An action may return a result node, which will be collected by the walk.
type Action[T comparable] func(n *Node[T], parent *Node[T], position int) (*Node[T], error)

// Predicate is a function type to match against nodes of a tree.
// test is the node under test, node is the start node of the walk.
type Predicate[T comparable] func(test *Node[T], node *Node[T]) (match *Node[T], err error)

// ----------------------------------------------------------------------

// TopDown traverses a tree starting at (and including) the root node.
// The traversal guarantees that parents are always processed before
// their children, and siblings are processed in declaration order.
//
// If the action function returns an error for a node,
// descending the branch below this node is aborted. The last error
// is returned together with all result nodes collected so far.
func TopDown[T comparable](root *Node[T], action Action[T]) ([]*Node[T], error) {
	if root == nil {
		return nil, ErrEmptyTree
	}
	if action == nil {
		return nil, ErrInvalidFilter
	}
	var results []*Node[T]
	var lasterror error
	var walk func(n *Node[T], parent *Node[T], position int)
	walk = func(n *Node[T], parent *Node[T], position int) {
		result, err := action(n, parent, position)
		if err != nil {
			tracer().Debugf("action for node %s returned error: %v", n, err)
			lasterror = err
			return // do not descend further
		}
		if result != nil {
			results = append(results, result)
		}
		for i, ch := range n.children.slice {
			if ch != nil {
				walk(ch, n, i)
			}
		}
	}
	walk(root, root.Parent(), positionOf(root))
	return results, lasterror
}

// DescendantsWith collects all nodes below (and including) root which match
// a predicate, in top-down declaration order.
func DescendantsWith[T comparable](root *Node[T], predicate Predicate[T]) ([]*Node[T], error) {
	if predicate == nil {
		return nil, ErrInvalidFilter
	}
	return TopDown(root, func(n *Node[T], parent *Node[T], position int) (*Node[T], error) {
		return predicate(n, root)
	})
}

func positionOf[T comparable](n *Node[T]) int {
	if n.Parent() == nil {
		return 0
	}
	return int(n.Rank)
}
