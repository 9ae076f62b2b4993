package score

import (
	"fmt"

	"github.com/npillmayer/engrave/attr"
	"github.com/npillmayer/engrave/dom"
	"github.com/npillmayer/engrave/notation"
)

// leafBuilder is implemented by the children of a voice which build notes
// on their own: tuplets and beams.
type leafBuilder interface {
	attach()
	detach()
}

// leaf holds what tuplets and beams have in common.
type leaf struct {
	elem  *dom.Element
	voice *Voice
	sc    *staveContext
}

// attachWith requests the context and posts the build step.
func (l *leaf) attachWith(build func()) {
	l.sc = l.voice.contextRequest()
	if l.sc == nil {
		tracer().Errorf("%s attached without render context", l.elem.Kind())
		return
	}
	l.sc.post(build)
}

func (l *leaf) detach() {
	l.sc = nil
}

// notes resolves the note text of the leaf. Without a declared stem
// direction, the voice is asked for it.
func (l *leaf) notes(stem attr.Option[notation.Stem]) ([]*notation.Note, error) {
	var s notation.Stem
	switch m := stem.Match(); m {
	case m.Just(&s):
	default:
		s = l.voice.stemFor(l.elem)
	}
	notes, err := l.sc.resolver.Notes(l.elem.TextContent(), s)
	if err != nil {
		return nil, fmt.Errorf("%s in %s: %w", l.elem.Kind(), l.voice.name(), err)
	}
	return notes, nil
}

// --- Tuplets ---------------------------------------------------------------

// Tuplet builds a tuplet over its notes, and optionally a beam.
type Tuplet struct {
	leaf
	conf     TupletConfig
	artifact *notation.Tuplet
}

func (t *Tuplet) attach() {
	t.attachWith(t.build)
}

func (t *Tuplet) build() {
	if t.sc == nil {
		return
	}
	notes, err := t.notes(t.conf.Stem)
	if err != nil {
		t.sc.report(err)
		return
	}
	t.artifact = t.sc.resolver.Tuplet(notes, t.conf.Options(len(notes)))
	run := noteRun{notes: notes}
	if t.conf.Beamed {
		run.beams = []*notation.Beam{t.sc.resolver.Beam(notes)}
	}
	t.voice.leafReady(t.elem, run)
}

// Artifact returns the notation tuplet, once built.
func (t *Tuplet) Artifact() *notation.Tuplet {
	return t.artifact
}

// --- Beams -----------------------------------------------------------------

// Beam builds a single beam spanning all of its notes.
type Beam struct {
	leaf
	conf     BeamConfig
	artifact *notation.Beam
}

func (b *Beam) attach() {
	b.attachWith(b.build)
}

func (b *Beam) build() {
	if b.sc == nil {
		return
	}
	notes, err := b.notes(b.conf.Stem)
	if err != nil {
		b.sc.report(err)
		return
	}
	b.artifact = b.sc.resolver.Beam(notes)
	b.voice.leafReady(b.elem, noteRun{notes: notes, beams: []*notation.Beam{b.artifact}})
}

// Artifact returns the notation beam, once built.
func (b *Beam) Artifact() *notation.Beam {
	return b.artifact
}

// --- Curves ----------------------------------------------------------------

// Curve connects two notes, identified by id. Curves are attached by the
// score once all systems are ready.
type Curve struct {
	elem     *dom.Element
	conf     CurveConfig
	artifact *notation.Curve
}

func (c *Curve) attach(rc *RenderContext) error {
	from, err := rc.Registry.Lookup(c.conf.From)
	if err != nil {
		return fmt.Errorf("curve %s→%s: %w", c.conf.From, c.conf.To, err)
	}
	to, err := rc.Registry.Lookup(c.conf.To)
	if err != nil {
		return fmt.Errorf("curve %s→%s: %w", c.conf.From, c.conf.To, err)
	}
	c.artifact = rc.Factory.Curve(from, to)
	return nil
}

// Artifact returns the notation curve, if it has been attached.
func (c *Curve) Artifact() *notation.Curve {
	return c.artifact
}
