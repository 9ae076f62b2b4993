/*
Package score assembles a score document into notation artifacts.

A score is a tree of nodes: systems, staves, voices, tuplets and beams. Every
node needs a render context, which is owned by the score root. On attachment,
a node requests the context from its parent, which forwards the request
upwards until it reaches the score. The score answers by handing down a
reference to its context.

Once a node holds a context, it builds its artifacts. Aggregating nodes
(score, system, stave, voice) wait for all of their children before
reporting to their own parent. Children may complete in any order, even
before the parent knows about them; the aggregate result always follows
declaration order. When every system has reported, the score attaches
connectors and curves and commits the factory, exactly once.

Building is single-threaded and cooperative: fan-out steps are posted to a
Dispatcher and run one after the other on the goroutine calling Await.

	doc, _ := dom.ParseMarkup(r)
	s, err := score.Build(doc)
	…
	s.Attach()
	rendering, err := s.Await(ctx)

Await returns ErrStalled if assembly comes to rest without a commit, which
happens if note text of a subtree cannot be parsed.

Detaching cascades downwards. Score.Detach tears down the whole tree and
the render context. Systems, staves and voices may be detached on their
own while assembly is running; the detached subtree stops building and its
parent keeps waiting for it, so no partial score is ever committed.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package score

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'engrave.score'.
func tracer() tracing.Trace {
	return tracing.Select("engrave.score")
}

// ErrStalled is returned by Await if there is no more work to do but the
// score has not been committed.
var ErrStalled = errors.New("score assembly stalled before commit")

// ErrDetached is returned for operations on a detached score.
var ErrDetached = errors.New("score is detached")
