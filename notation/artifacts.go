package notation

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

// Layout constants, in device units.
const (
	LineSpacing  = 10  // distance between stave lines
	StaveSpacing = 100 // vertical space occupied by a stave
	spaceAbove   = 4   // stave lines of space above the top line
)

// Beam connects the stems of a group of notes.
type Beam struct {
	notes []*Note
}

// Notes returns the notes of a beam.
func (b *Beam) Notes() []*Note { return b.notes }

// TupletOptions configures a tuplet.
type TupletOptions struct {
	NumNotes      int // zero for the number of notes
	NotesOccupied int // zero for 2
	Location      int // 1 for above, -1 for below
	Bracketed     bool
	Ratioed       bool
}

// Tuplet groups notes which occupy the time of NotesOccupied notes.
type Tuplet struct {
	notes []*Note
	opts  TupletOptions
}

// Notes returns the notes of a tuplet.
func (t *Tuplet) Notes() []*Note { return t.notes }

// Options returns the effective tuplet options.
func (t *Tuplet) Options() TupletOptions { return t.opts }

// Voice is a sequence of notes with the beams spanning them.
type Voice struct {
	notes []*Note
	beams []*Beam
}

// Notes returns the notes of a voice in order.
func (v *Voice) Notes() []*Note { return v.notes }

// Beams returns the beams of a voice.
func (v *Voice) Beams() []*Beam { return v.beams }

// TotalTicks is the duration of a voice.
func (v *Voice) TotalTicks() Fraction {
	total := Ticks(0)
	for _, n := range v.notes {
		total = total.Add(n.ticks)
	}
	return total
}

// StaveOptions configures a stave.
type StaveOptions struct {
	LeftBar, RightBar bool
}

// Stave is a set of five lines, carrying voices.
type Stave struct {
	X, Y, Width float64
	opts        StaveOptions
	clef        string
	drawClef    bool
	timeSig     TimeSig
	drawTime    bool
	keySig      string
	voices      []*Voice
}

// SetClef sets the clef used for positioning notes. If draw is false, the clef
// is in effect but not drawn.
func (s *Stave) SetClef(clef string, draw bool) {
	s.clef = clef
	s.drawClef = draw
}

// Clef returns the clef in effect.
func (s *Stave) Clef() string {
	if s.clef == "" {
		return DefaultClef
	}
	return s.clef
}

// SetTimeSignature sets the time signature. If draw is false, it is in effect
// but not drawn.
func (s *Stave) SetTimeSignature(ts TimeSig, draw bool) {
	s.timeSig = ts
	s.drawTime = draw
}

// TimeSignature returns the time signature in effect.
func (s *Stave) TimeSignature() TimeSig {
	if s.timeSig.Beats == 0 {
		return TimeSig{Beats: 4, Value: 4}
	}
	return s.timeSig
}

// SetKeySignature sets a key signature; it is always drawn.
func (s *Stave) SetKeySignature(key string) {
	s.keySig = key
}

// KeySignature returns the key signature, or "".
func (s *Stave) KeySignature() string { return s.keySig }

// Options returns the bar line options of a stave.
func (s *Stave) Options() StaveOptions { return s.opts }

// Voices returns the voices of a stave.
func (s *Stave) Voices() []*Voice { return s.voices }

// TopLineY is the y-coordinate of the top stave line.
func (s *Stave) TopLineY() float64 {
	return s.Y + spaceAbove*LineSpacing
}

// BottomLineY is the y-coordinate of the bottom stave line.
func (s *Stave) BottomLineY() float64 {
	return s.TopLineY() + 4*LineSpacing
}

// yForLine returns the y-coordinate of a diatonic position.
func (s *Stave) yForLine(line int) float64 {
	top := clefTopLine[s.Clef()]
	return s.TopLineY() + float64(top-line)*LineSpacing/2
}

// Connector is a type of line connecting the staves of a system.
type Connector string

// Connector types.
const (
	SingleRight     Connector = "singleRight"
	SingleLeft      Connector = "singleLeft"
	Single          Connector = "single"
	Double          Connector = "double"
	Brace           Connector = "brace"
	Bracket         Connector = "bracket"
	BoldDoubleLeft  Connector = "boldDoubleLeft"
	BoldDoubleRight Connector = "boldDoubleRight"
	ThinDouble      Connector = "thinDouble"
	NoConnector     Connector = "none"
)

// Connectors lists the tokens of all connector types.
var Connectors = []string{
	string(SingleRight), string(SingleLeft), string(Single), string(Double),
	string(Brace), string(Bracket), string(BoldDoubleLeft), string(BoldDoubleRight),
	string(ThinDouble), string(NoConnector),
}

// System is a group of staves drawn with aligned notes.
type System struct {
	X, Y, Width float64
	staves      []*Stave
	connectors  []Connector
}

// AddStave adds a stave with its voices. Staves are stacked in order of
// addition.
func (sys *System) AddStave(s *Stave, voices []*Voice) {
	s.X, s.Width = sys.X, sys.Width
	s.Y = sys.Y + float64(len(sys.staves))*StaveSpacing
	s.voices = append(s.voices, voices...)
	sys.staves = append(sys.staves, s)
}

// AddConnector adds a connector to a system.
func (sys *System) AddConnector(c Connector) {
	if c == NoConnector || c == "" {
		return
	}
	sys.connectors = append(sys.connectors, c)
}

// Staves returns the staves of a system.
func (sys *System) Staves() []*Stave { return sys.staves }

// Connectors returns the connectors of a system.
func (sys *System) Connectors() []Connector { return sys.connectors }

// Curve is a slur or tie between two notes.
type Curve struct {
	from, to *Note
}

// From returns the start note of a curve.
func (c *Curve) From() *Note { return c.from }

// To returns the end note of a curve.
func (c *Curve) To() *Note { return c.to }
