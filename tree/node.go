package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
)

/*
We manage a tree of mutable nodes. Each node carries a payload of type parameter T.
Nodes maintain a slice of children.

All operations on a tree happen on a single goroutine, therefore nodes do not
lock. Clients sharing a tree between goroutines have to synchronize on their own.
*/

// Node is the base type our tree is built of.
type Node[T comparable] struct {
	parent   *Node[T]         // parent node of this node
	children childrenSlice[T] // slice of children nodes, in declaration order
	Payload  T                // nodes may carry a payload of arbitrary type
	Rank     uint32           // position within the parent's children
}

// NewNode creates a new tree node with a given payload.
func NewNode[T comparable](payload T) *Node[T] {
	return &Node[T]{Payload: payload}
}

func (node *Node[T]) String() string {
	return fmt.Sprintf("(Node #ch=%d %v)", node.ChildCount(), node.Payload)
}

// AddChild appends a new child node to the children of node.
// The newly inserted node is connected to this node as its parent.
// Its Rank is set to its position.
// It returns the parent node to allow for chaining.
func (node *Node[T]) AddChild(ch *Node[T]) *Node[T] {
	if ch != nil {
		node.children.addChild(ch, node)
	}
	return node
}

// Parent returns the parent node or nil (for the root of the tree).
func (node *Node[T]) Parent() *Node[T] {
	return node.parent
}

// Isolate removes a node from its parent.
// The position the node occupied stays empty, i.e., siblings keep their
// positions.
// Isolate returns the isolated node.
func (node *Node[T]) Isolate() *Node[T] {
	if node != nil && node.parent != nil {
		node.parent.children.remove(node)
	}
	return node
}

// ChildCount returns the number of children-nodes for a node.
// Empty positions are counted as well.
func (node *Node[T]) ChildCount() int {
	return len(node.children.slice)
}

// Child gets the n-th child of a node.
func (node *Node[T]) Child(n int) (*Node[T], bool) {
	ch := node.children.child(n)
	return ch, ch != nil
}

// Children returns a slice with all children of a node.
// If omitNilChildren is set, empty children aren't included in the slice.
func (node *Node[T]) Children(omitNilChildren bool) []*Node[T] {
	return node.children.asSlice(omitNilChildren)
}

// IndexOfChild returns the index of a child within the list of children
// of its parent. ch may not be nil.
func (node *Node[T]) IndexOfChild(ch *Node[T]) int {
	for i, child := range node.children.slice {
		if ch == child {
			return i
		}
	}
	return -1
}

// --- Slices of children -----------------------------------------------

type childrenSlice[T comparable] struct {
	slice []*Node[T]
}

func (chs *childrenSlice[T]) addChild(child *Node[T], parent *Node[T]) {
	child.Rank = uint32(len(chs.slice))
	chs.slice = append(chs.slice, child)
	child.parent = parent
}

func (chs *childrenSlice[T]) remove(node *Node[T]) {
	for i, ch := range chs.slice {
		if ch == node {
			chs.slice[i] = nil
			node.parent = nil
			break
		}
	}
}

func (chs *childrenSlice[T]) child(n int) *Node[T] {
	if n < 0 || n >= len(chs.slice) {
		return nil
	}
	return chs.slice[n]
}

func (chs *childrenSlice[T]) asSlice(omitNilCh bool) []*Node[T] {
	children := make([]*Node[T], 0, len(chs.slice))
	for _, ch := range chs.slice {
		if ch != nil || !omitNilCh {
			children = append(children, ch)
		}
	}
	return children
}
