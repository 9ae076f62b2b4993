package score

import (
	"fmt"
	"strings"

	"github.com/npillmayer/engrave/dom"
	"github.com/npillmayer/engrave/join"
	"github.com/npillmayer/engrave/notation"
)

// Voice aggregates note runs into a notation voice. Runs come from the
// voice's own note text, which is resolved while scanning, and from tuplet
// and beam children, which build on their own. The resulting note sequence
// follows declaration order, whatever order the children complete in.
type Voice struct {
	elem     *dom.Element
	stave    *Stave
	conf     VoiceConfig
	leaves   []leafBuilder
	sc       *staveContext
	join     *join.Join[*dom.Element, noteRun]
	artifact *notation.Voice
}

// noteRun is the artifact of a single child of a voice.
type noteRun struct {
	notes []*notation.Note
	beams []*notation.Beam
}

func (v *Voice) attach() {
	v.sc = v.stave.contextRequest()
	if v.sc == nil {
		tracer().Errorf("voice attached without render context")
		return
	}
	v.join = join.New[*dom.Element, noteRun](v.name(), v.runsReady)
	for _, l := range v.leaves {
		l.attach()
	}
	v.sc.post(v.scan)
}

func (v *Voice) name() string {
	return fmt.Sprintf("voice-%d.%d.%d", v.stave.system.index, v.stave.index,
		v.stave.elem.IndexOfChild(&v.elem.Node))
}

// Detach detaches the voice and its tuplets and beams. The stave never
// receives the voice, so the score is not committed.
func (v *Voice) Detach() {
	tracer().Infof("detaching %s", v.name())
	v.detach()
}

func (v *Voice) detach() {
	for _, l := range v.leaves {
		l.detach()
	}
	if v.join != nil {
		v.join.Cancel()
	}
	v.sc = nil
}

// contextRequest forwards a request of a tuplet or beam to the stave.
func (v *Voice) contextRequest() *staveContext {
	if v.sc != nil {
		return v.sc
	}
	return v.stave.contextRequest()
}

// stemFor answers the stem request of a child without a declared stem.
func (v *Voice) stemFor(child *dom.Element) notation.Stem {
	tracer().Debugf("%s: stem request answered with %s", v.name(), v.conf.Stem)
	return v.conf.Stem
}

// scan registers the children of the voice in declaration order. Note text
// is resolved on the spot, blank text is skipped. If note text is malformed,
// the error is reported and registration is never finished.
func (v *Voice) scan() {
	if v.sc == nil {
		return
	}
	var expected []*dom.Element
	for _, ch := range v.elem.Elements() {
		switch ch.Kind() {
		case dom.KindText:
			if strings.TrimSpace(ch.Text()) == "" {
				continue
			}
			notes, err := v.sc.resolver.Notes(ch.Text(), v.conf.Stem)
			if err != nil {
				v.sc.report(fmt.Errorf("%s: %w", v.name(), err))
				return
			}
			run := noteRun{notes: notes}
			if v.conf.AutoBeam {
				run.beams = v.sc.resolver.AutoBeams(notes)
			}
			v.join.Expect(ch)
			v.join.Complete(ch, run)
		case dom.KindTuplet, dom.KindBeam:
			expected = append(expected, ch)
			v.join.Expect(ch)
		}
	}
	tracer().Debugf("%s: scanned, waiting for %d tuplets and beams", v.name(), len(expected))
	v.join.Seal()
}

// leafReady is called by a tuplet or beam once it has been built.
func (v *Voice) leafReady(child *dom.Element, run noteRun) {
	if v.sc == nil {
		return
	}
	v.join.Complete(child, run)
}

func (v *Voice) runsReady(runs []noteRun) {
	var notes []*notation.Note
	var beams []*notation.Beam
	for _, r := range runs {
		notes = append(notes, r.notes...)
		beams = append(beams, r.beams...)
	}
	v.artifact = v.sc.Factory.Voice(notes, beams)
	tracer().Debugf("%s: ready with %d notes, %d beams", v.name(), len(notes), len(beams))
	v.stave.voiceReady(v, v.artifact)
}

// Artifact returns the notation voice, once the voice has been assembled.
func (v *Voice) Artifact() *notation.Voice {
	return v.artifact
}
