package notation

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strconv"
	"strings"
)

// Stem is the direction of a note stem.
type Stem int

// Stem directions.
const (
	StemUp   Stem = 1
	StemDown Stem = -1
)

// StemDirections lists the tokens for stem directions.
var StemDirections = []string{"up", "down"}

// ParseStem maps "up" and "down" to a stem direction.
func ParseStem(s string) (Stem, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return StemUp, true
	case "down":
		return StemDown, true
	}
	return StemUp, false
}

func (s Stem) String() string {
	if s == StemDown {
		return "down"
	}
	return "up"
}

// --- Pitches ---------------------------------------------------------------

const steps = "CDEFGAB"

// Pitch is a note name with an optional accidental and an octave.
type Pitch struct {
	Step       byte   // one of C, D, E, F, G, A, B
	Accidental string // "", "#", "##", "b", "bb" or "n"
	Octave     int
}

// Line returns the diatonic position of p, counted in steps from C0.
func (p Pitch) Line() int {
	return p.Octave*7 + strings.IndexByte(steps, p.Step)
}

func (p Pitch) String() string {
	return fmt.Sprintf("%c%s/%d", p.Step, p.Accidental, p.Octave)
}

// --- Clefs -----------------------------------------------------------------

// clefTopLine is the diatonic position of the top stave line per clef.
var clefTopLine = map[string]int{
	"treble":     Pitch{Step: 'F', Octave: 5}.Line(),
	"bass":       Pitch{Step: 'A', Octave: 3}.Line(),
	"alto":       Pitch{Step: 'G', Octave: 4}.Line(),
	"tenor":      Pitch{Step: 'E', Octave: 4}.Line(),
	"percussion": Pitch{Step: 'F', Octave: 5}.Line(),
	"soprano":    Pitch{Step: 'D', Octave: 5}.Line(),
	"french":     Pitch{Step: 'A', Octave: 5}.Line(),
	"subbass":    Pitch{Step: 'F', Octave: 3}.Line(),
}

// Clefs lists all known clef names.
var Clefs = []string{"treble", "bass", "alto", "tenor", "percussion", "soprano", "french", "subbass"}

// DefaultClef is used for staves which neither declare nor inherit a clef.
const DefaultClef = "treble"

func clefGlyph(clef string) string {
	switch clef {
	case "bass", "subbass":
		return "\U0001D122"
	case "alto", "tenor", "soprano":
		return "\U0001D121"
	case "percussion":
		return "\U0001D125"
	}
	return "\U0001D11E"
}

// --- Key signatures --------------------------------------------------------

// keySignatures maps keys to their number of sharps (negative for flats).
var keySignatures = map[string]int{
	"C": 0, "Am": 0,
	"G": 1, "Em": 1, "D": 2, "Bm": 2, "A": 3, "F#m": 3, "E": 4, "C#m": 4,
	"B": 5, "G#m": 5, "F#": 6, "D#m": 6, "C#": 7, "A#m": 7,
	"F": -1, "Dm": -1, "Bb": -2, "Gm": -2, "Eb": -3, "Cm": -3, "Ab": -4, "Fm": -4,
	"Db": -5, "Bbm": -5, "Gb": -6, "Ebm": -6, "Cb": -7, "Abm": -7,
}

// KeySignatures lists all known key signatures.
var KeySignatures = []string{
	"C", "Am", "G", "Em", "D", "Bm", "A", "F#m", "E", "C#m", "B", "G#m", "F#", "D#m", "C#", "A#m",
	"F", "Dm", "Bb", "Gm", "Eb", "Cm", "Ab", "Fm", "Db", "Bbm", "Gb", "Ebm", "Cb", "Abm",
}

// KeySharps returns the number of sharps of a key signature; flats are negative.
func KeySharps(key string) (int, bool) {
	n, ok := keySignatures[key]
	return n, ok
}

// --- Time signatures -------------------------------------------------------

// TimeSig is a time signature.
type TimeSig struct {
	Beats, Value int
	Symbol       string // "C" or "C|" for common/cut time, empty otherwise
}

// DefaultTimeSig is used for staves which neither declare nor inherit a
// time signature.
const DefaultTimeSig = "4/4"

// ParseTimeSig parses "N/M", "C" or "C|".
func ParseTimeSig(s string) (TimeSig, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "C":
		return TimeSig{Beats: 4, Value: 4, Symbol: s}, nil
	case "C|":
		return TimeSig{Beats: 2, Value: 2, Symbol: s}, nil
	}
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return TimeSig{}, fmt.Errorf("invalid time signature %q", s)
	}
	beats, err1 := strconv.Atoi(parts[0])
	value, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || beats < 1 || value < 1 || Resolution%value != 0 {
		return TimeSig{}, fmt.Errorf("invalid time signature %q", s)
	}
	return TimeSig{Beats: beats, Value: value}, nil
}

func (ts TimeSig) String() string {
	if ts.Symbol != "" {
		return ts.Symbol
	}
	return fmt.Sprintf("%d/%d", ts.Beats, ts.Value)
}

// --- Notes -----------------------------------------------------------------

// NoteStruct describes a note to be created by a factory.
type NoteStruct struct {
	ID       string // empty for an automatically assigned id
	Keys     []Pitch
	Duration string
	Dots     int
	Rest     bool
	Stem     Stem
}

// Note is a stave note: a single pitch, a chord or a rest.
type Note struct {
	id       string
	keys     []Pitch
	duration string
	dots     int
	rest     bool
	stem     Stem
	ticks    Fraction
	beam     *Beam
	tuplet   *Tuplet
	stave    *Stave  // set by formatting
	x        float64 // set by formatting
}

// ID returns the registry id of a note.
func (n *Note) ID() string { return n.id }

// Keys returns the pitches of a note.
func (n *Note) Keys() []Pitch { return n.keys }

// Duration returns the canonical duration token of a note.
func (n *Note) Duration() string { return n.duration }

// Dots returns the number of dots.
func (n *Note) Dots() int { return n.dots }

// IsRest is true for rests.
func (n *Note) IsRest() bool { return n.rest }

// Stem returns the stem direction.
func (n *Note) Stem() Stem { return n.stem }

// Ticks returns the duration of a note in ticks, including tuplet scaling.
func (n *Note) Ticks() Fraction { return n.ticks }

// Beam returns the beam a note belongs to, or nil.
func (n *Note) Beam() *Beam { return n.beam }

// Tuplet returns the tuplet a note belongs to, or nil.
func (n *Note) Tuplet() *Tuplet { return n.tuplet }

// Beamable is true for notes shorter than a quarter which are not rests.
func (n *Note) Beamable() bool {
	if n.rest {
		return false
	}
	v, _ := strconv.Atoi(n.duration)
	return v >= 8
}

func (n *Note) String() string {
	var keys []string
	for _, k := range n.keys {
		keys = append(keys, k.String())
	}
	r := ""
	if n.rest {
		r = "r"
	}
	return fmt.Sprintf("%s/%s%s%s", strings.Join(keys, " "), n.duration, strings.Repeat(".", n.dots), r)
}
