package score

import (
	"fmt"

	"github.com/npillmayer/engrave/dom"
	"github.com/npillmayer/engrave/join"
	"github.com/npillmayer/engrave/notation"
)

// System aggregates its staves into a notation system. It fires once it has
// been set up by the score layout and all of its staves are ready, in
// whichever order these happen.
type System struct {
	elem     *dom.Element
	score    *Score
	index    int
	conf     SystemConfig
	staves   []*Stave
	rc       *RenderContext
	join     *join.Join[*dom.Element, staveResult]
	artifact *notation.System
	first    bool
}

// staveResult is what a stave reports to its system.
type staveResult struct {
	voices   []*notation.Voice
	clef     string
	drawClef bool
	time     notation.TimeSig
	drawTime bool
	keySig   string
}

const setupHold = "setup"

func (sys *System) attach() {
	sys.rc = sys.score.contextRequest()
	if sys.rc == nil {
		tracer().Errorf("system %d attached without render context", sys.index)
		return
	}
	sys.join = join.New[*dom.Element, staveResult](fmt.Sprintf("system-%d", sys.index), sys.stavesReady)
	sys.join.Hold(setupHold)
	sys.rc.post(sys.register)
	for _, st := range sys.staves {
		st.attach()
	}
}

// Detach detaches the system and its staves, voices, tuplets and beams while
// assembly is running. Their pending tasks have no effect and the system
// never reports to the score, so the score is not committed and Await
// returns ErrStalled. Detaching after the system has reported has no effect
// on the rendering.
func (sys *System) Detach() {
	tracer().Infof("detaching system %d", sys.index)
	sys.detach()
}

func (sys *System) detach() {
	for _, st := range sys.staves {
		st.detach()
	}
	if sys.join != nil {
		sys.join.Cancel()
	}
	sys.rc = nil
}

// contextRequest forwards a request for the render context to the score.
func (sys *System) contextRequest() *RenderContext {
	if sys.rc != nil {
		return sys.rc
	}
	return sys.score.contextRequest()
}

func (sys *System) register() {
	if sys.rc == nil {
		return
	}
	for _, st := range sys.staves {
		sys.join.Expect(st.elem)
	}
	sys.join.Seal()
}

// setupSystem assigns the geometry of the system. Connectors of the first
// system in a line need space to the left.
func (sys *System) setupSystem(x, y, width float64, isFirstInLine bool) {
	if sys.rc == nil {
		return
	}
	if sys.artifact != nil {
		tracer().Debugf("system %d already set up", sys.index)
		return
	}
	offset := 0.0
	if isFirstInLine {
		offset = sys.conf.connectorOffset()
	}
	sys.first = isFirstInLine
	sys.artifact = sys.rc.Factory.System(x+offset, y, width-offset)
	tracer().P("system", sys.index).Debugf("set up at (%.0f,%.0f), width %.0f", x+offset, y, width-offset)
	sys.join.Release(setupHold)
}

// staveReady is called by a stave once it has been assembled.
func (sys *System) staveReady(st *Stave, result staveResult) {
	if sys.rc == nil {
		return
	}
	sys.join.Complete(st.elem, result)
}

func (sys *System) stavesReady(results []staveResult) {
	for _, r := range results {
		st := sys.rc.Factory.Stave(0, 0, 0, notation.StaveOptions{})
		st.SetClef(r.clef, r.drawClef)
		st.SetTimeSignature(r.time, r.drawTime)
		if r.keySig != "" {
			st.SetKeySignature(r.keySig)
		}
		sys.artifact.AddStave(st, r.voices)
	}
	sys.artifact.AddConnector(sys.conf.Connector)
	sys.score.systemReady(sys, sys.artifact)
}

// previousClef asks the score for the clef of the stave at the same index in
// the previous system.
func (sys *System) previousClef(staveIndex int) string {
	return sys.score.previousClef(sys.index, staveIndex)
}

// previousTime asks the score for the time signature of the stave at the
// same index in the previous system.
func (sys *System) previousTime(staveIndex int) notation.TimeSig {
	return sys.score.previousTime(sys.index, staveIndex)
}

// Staves returns the stave nodes of a system in declaration order.
func (sys *System) Staves() []*Stave {
	return sys.staves
}

// Artifact returns the notation system, once the system has been set up.
func (sys *System) Artifact() *notation.System {
	return sys.artifact
}
