package notation

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"

	"github.com/gogpu/gg/recording"
	"github.com/npillmayer/engrave/render"
)

// Factory creates artifacts and owns them. Drawable artifacts are collected
// in a render queue, which is drawn by Commit.
type Factory struct {
	registry *Registry
	backend  render.Backend
	width    int
	height   int
	systems  []*System
	renderQ  []drawable
	stats    Stats
	commits  int
}

// drawable is implemented by artifacts in the render queue.
type drawable interface {
	draw(rc *recording.Recorder)
}

// Stats counts the artifacts drawn by a commit.
type Stats struct {
	Systems, Staves, Notes, Beams, Tuplets, Curves, Connectors int
}

// Rendering is the result of a commit.
type Rendering struct {
	Backend render.Backend
	Width   int
	Height  int
	Data    []byte
	Stats   Stats
}

// NewFactory creates a factory recording a drawing of width × height device
// units, which is played back to backend on commit.
func NewFactory(registry *Registry, backend render.Backend, width, height int) *Factory {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Factory{
		registry: registry,
		backend:  backend,
		width:    width,
		height:   height,
	}
}

// Registry returns the registry notes are registered with.
func (f *Factory) Registry() *Registry {
	return f.registry
}

// Resize changes the size of the drawing.
func (f *Factory) Resize(width, height int) {
	f.width, f.height = width, height
}

// Size returns the size of the drawing.
func (f *Factory) Size() (int, int) {
	return f.width, f.height
}

// Backend returns the drawing backend.
func (f *Factory) Backend() render.Backend {
	return f.backend
}

// Committed is true after the first call to Commit.
func (f *Factory) Committed() bool {
	return f.commits > 0
}

// StaveNote creates a note and registers it.
func (f *Factory) StaveNote(ns NoteStruct) (*Note, error) {
	n, err := newNote(ns)
	if err != nil {
		return nil, err
	}
	if err := f.registry.Register(n); err != nil {
		return nil, err
	}
	return n, nil
}

// StaveNotes creates a run of notes and registers them. If any note cannot
// be created or registered, none is registered.
func (f *Factory) StaveNotes(nss []NoteStruct) ([]*Note, error) {
	notes := make([]*Note, len(nss))
	for i, ns := range nss {
		n, err := newNote(ns)
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", i+1, err)
		}
		notes[i] = n
	}
	if err := f.registry.RegisterAll(notes...); err != nil {
		return nil, err
	}
	return notes, nil
}

func newNote(ns NoteStruct) (*Note, error) {
	d, ok := CanonicalDuration(ns.Duration)
	if !ok {
		return nil, fmt.Errorf("invalid duration %q", ns.Duration)
	}
	ticks, err := DurationTicks(d, ns.Dots)
	if err != nil {
		return nil, err
	}
	if len(ns.Keys) == 0 {
		return nil, fmt.Errorf("note without keys")
	}
	stem := ns.Stem
	if stem == 0 {
		stem = StemUp
	}
	return &Note{
		id:       ns.ID,
		keys:     append([]Pitch(nil), ns.Keys...),
		duration: d,
		dots:     ns.Dots,
		rest:     ns.Rest,
		stem:     stem,
		ticks:    ticks,
	}, nil
}

// Beam creates a beam over notes.
func (f *Factory) Beam(notes []*Note) *Beam {
	b := &Beam{notes: append([]*Note(nil), notes...)}
	for _, n := range notes {
		n.beam = b
	}
	f.renderQ = append(f.renderQ, b)
	return b
}

// AutoBeams creates beams over notes, grouped by group.
func (f *Factory) AutoBeams(notes []*Note, group Fraction) []*Beam {
	var beams []*Beam
	for _, run := range GenerateBeams(notes, group) {
		beams = append(beams, f.Beam(run))
	}
	return beams
}

// Tuplet creates a tuplet over notes. The ticks of the notes are scaled by
// NotesOccupied/NumNotes.
func (f *Factory) Tuplet(notes []*Note, opts TupletOptions) *Tuplet {
	if opts.NumNotes == 0 {
		opts.NumNotes = len(notes)
	}
	if opts.NotesOccupied == 0 {
		opts.NotesOccupied = 2
	}
	if opts.Location == 0 {
		opts.Location = 1
	}
	t := &Tuplet{notes: append([]*Note(nil), notes...), opts: opts}
	scale := Frac(opts.NotesOccupied, opts.NumNotes)
	for _, n := range notes {
		n.tuplet = t
		n.ticks = n.ticks.Mul(scale)
	}
	f.renderQ = append(f.renderQ, t)
	return t
}

// Voice creates a voice from notes and the beams over them.
func (f *Factory) Voice(notes []*Note, beams []*Beam) *Voice {
	return &Voice{
		notes: append([]*Note(nil), notes...),
		beams: append([]*Beam(nil), beams...),
	}
}

// Stave creates a stave. Staves are positioned when added to a system.
func (f *Factory) Stave(x, y, width float64, opts StaveOptions) *Stave {
	return &Stave{X: x, Y: y, Width: width, opts: opts}
}

// System creates a system and adds it to the render queue.
func (f *Factory) System(x, y, width float64) *System {
	sys := &System{X: x, Y: y, Width: width}
	f.systems = append(f.systems, sys)
	return sys
}

// Systems returns all systems created so far.
func (f *Factory) Systems() []*System {
	return f.systems
}

// Curve creates a curve between two notes.
func (f *Factory) Curve(from, to *Note) *Curve {
	c := &Curve{from: from, to: to}
	f.renderQ = append(f.renderQ, c)
	return c
}

// Commit formats and draws all artifacts. It may be called only once.
func (f *Factory) Commit() (*Rendering, error) {
	if f.commits > 0 {
		return nil, ErrCommitted
	}
	f.commits++
	tracer().Infof("commit: %d systems, %d queued artifacts, %s %dx%d",
		len(f.systems), len(f.renderQ), f.backend, f.width, f.height)
	rc, err := render.NewRecorder(f.width, f.height)
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	for _, sys := range f.systems {
		formatSystem(sys)
	}
	for _, sys := range f.systems {
		f.drawSystem(sys, rc)
	}
	for _, d := range f.renderQ {
		d.draw(rc)
		f.count(d)
	}
	data, err := render.Play(rc.FinishRecording(), f.backend)
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &Rendering{
		Backend: f.backend,
		Width:   f.width,
		Height:  f.height,
		Data:    data,
		Stats:   f.stats,
	}, nil
}

func (f *Factory) count(d drawable) {
	switch d.(type) {
	case *Beam:
		f.stats.Beams++
	case *Tuplet:
		f.stats.Tuplets++
	case *Curve:
		f.stats.Curves++
	}
}
