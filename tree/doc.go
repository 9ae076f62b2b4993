/*
Package tree implements a general purpose tree of ordered nodes.

Nodes carry a payload of a type parameter and keep their children in
declaration order. A child's position within its parent is fixed once it
has been attached; it is the ordering key clients use when they have to
collect results from children in the order the children were declared.

Walks over a tree are synchronous. TopDown visits parents before their
children and siblings in declaration order; DescendantsWith collects the
nodes of a walk matching a predicate.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'engrave.tree'.
func tracer() tracing.Trace {
	return tracing.Select("engrave.tree")
}
