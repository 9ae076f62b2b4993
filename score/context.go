package score

import (
	"github.com/npillmayer/engrave/notation"
	"github.com/npillmayer/engrave/notation/easyscore"
)

// RenderContext is created by the score on attachment and shared by
// reference with every node of the score.
type RenderContext struct {
	Registry *notation.Registry
	Factory  *notation.Factory
	dispatch Dispatcher
	report   func(error) // sink for errors of leaf builders
}

// post schedules a task on the dispatch timeline of the score.
func (rc *RenderContext) post(task func()) {
	rc.dispatch.Post(task)
}

// staveContext is what a stave hands down to its voices and their leaves.
type staveContext struct {
	*RenderContext
	resolver *easyscore.Resolver
}
