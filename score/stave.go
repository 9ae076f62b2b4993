package score

import (
	"fmt"

	"github.com/npillmayer/engrave/dom"
	"github.com/npillmayer/engrave/join"
	"github.com/npillmayer/engrave/notation"
	"github.com/npillmayer/engrave/notation/easyscore"
)

// Stave aggregates its voices. It resolves the clef and time signature in
// effect, which may be inherited from the previous system, and hands a note
// resolver for them down to its voices.
type Stave struct {
	elem   *dom.Element
	system *System
	index  int
	conf   StaveConfig
	voices []*Voice
	sc     *staveContext
	join   *join.Join[*dom.Element, *notation.Voice]
	result staveResult
}

func (st *Stave) attach() {
	rc := st.system.contextRequest()
	if rc == nil {
		tracer().Errorf("stave attached without render context")
		return
	}
	st.result = staveResult{
		clef:     st.conf.Clef.WithDefault(""),
		drawClef: !st.conf.Clef.IsNothing(),
		time:     st.conf.Time.WithDefault(notation.TimeSig{}),
		drawTime: !st.conf.Time.IsNothing(),
		keySig:   st.conf.KeySig.WithDefault(""),
	}
	if !st.result.drawClef {
		st.result.clef = st.system.previousClef(st.index)
	}
	if !st.result.drawTime {
		st.result.time = st.system.previousTime(st.index)
	}
	st.sc = &staveContext{
		RenderContext: rc,
		resolver: easyscore.New(rc.Factory,
			easyscore.WithClef(st.result.clef),
			easyscore.WithTime(st.result.time)),
	}
	name := fmt.Sprintf("stave-%d.%d", st.system.index, st.index)
	st.join = join.New[*dom.Element, *notation.Voice](name, st.voicesReady)
	st.sc.post(st.register)
	for _, v := range st.voices {
		v.attach()
	}
}

// Detach detaches the stave and its voices, tuplets and beams while assembly
// is running. The system waits for the stave forever, so the score is not
// committed.
func (st *Stave) Detach() {
	tracer().Infof("detaching stave %d.%d", st.system.index, st.index)
	st.detach()
}

func (st *Stave) detach() {
	for _, v := range st.voices {
		v.detach()
	}
	if st.join != nil {
		st.join.Cancel()
	}
	st.sc = nil
}

// contextRequest answers a request of a voice for the render context and
// the note resolver of this stave.
func (st *Stave) contextRequest() *staveContext {
	return st.sc
}

func (st *Stave) register() {
	if st.sc == nil {
		return
	}
	for _, v := range st.voices {
		st.join.Expect(v.elem)
	}
	st.join.Seal()
}

// voiceReady is called by a voice once it has been assembled.
func (st *Stave) voiceReady(v *Voice, artifact *notation.Voice) {
	if st.sc == nil {
		return
	}
	st.join.Complete(v.elem, artifact)
}

func (st *Stave) voicesReady(voices []*notation.Voice) {
	st.result.voices = voices
	st.system.staveReady(st, st.result)
}

// Clef returns the clef in effect and whether it has been declared.
func (st *Stave) Clef() (string, bool) {
	return st.result.clef, st.result.drawClef
}

// TimeSignature returns the time signature in effect and whether it has been
// declared.
func (st *Stave) TimeSignature() (notation.TimeSig, bool) {
	return st.result.time, st.result.drawTime
}

// Voices returns the voice nodes of a stave in declaration order.
func (st *Stave) Voices() []*Voice {
	return st.voices
}
