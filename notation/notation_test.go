package notation

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/engrave/render"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mknotes(t *testing.T, f *Factory, durations ...string) []*Note {
	var notes []*Note
	for i, d := range durations {
		rest := strings.HasSuffix(d, "r")
		d = strings.TrimSuffix(d, "r")
		n, err := f.StaveNote(NoteStruct{
			Keys:     []Pitch{{Step: steps[i%7], Octave: 4}},
			Duration: d,
			Rest:     rest,
		})
		require.NoError(t, err)
		notes = append(notes, n)
	}
	return notes
}

func TestDurationTicks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.notation")
	defer teardown()
	//
	q, err := DurationTicks("q", 0)
	require.NoError(t, err)
	assert.Equal(t, Ticks(4096), q)
	dq, _ := DurationTicks("4", 1)
	assert.Equal(t, Ticks(6144), dq)
	ddh, _ := DurationTicks("h", 2)
	assert.Equal(t, Ticks(8192+4096+2048), ddh)
	_, err = DurationTicks("3", 0)
	assert.Error(t, err)
}

func TestFraction(t *testing.T) {
	third := Frac(2, 6)
	assert.Equal(t, Fraction{1, 3}, third)
	assert.Equal(t, 0, third.Add(third).Cmp(Frac(2, 3)))
	assert.Equal(t, "1/3", third.String())
	assert.Equal(t, Ticks(1), Frac(4096, 3).Mul(Frac(3, 4096)))
	assert.True(t, Frac(0, 5).IsZero())
}

func TestTupletScalesTicks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.notation")
	defer teardown()
	//
	f := NewFactory(nil, render.SVG, 500, 150)
	notes := mknotes(t, f, "8", "8", "8")
	tu := f.Tuplet(notes, TupletOptions{})
	assert.Equal(t, 3, tu.Options().NumNotes)
	assert.Equal(t, 2, tu.Options().NotesOccupied)
	total := Ticks(0)
	for _, n := range notes {
		assert.Same(t, tu, n.Tuplet())
		total = total.Add(n.Ticks())
	}
	assert.Equal(t, Ticks(4096), total, "a triplet of eighths lasts a quarter")
}

func TestGenerateBeams(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.notation")
	defer teardown()
	//
	f := NewFactory(nil, render.SVG, 500, 150)
	// q | 8 8 | 8 8r | 16 16 8 | 8
	notes := mknotes(t, f, "4", "8", "8", "8", "8r", "16", "16", "8", "8")
	runs := GenerateBeams(notes, DefaultBeamGroup)
	require.Len(t, runs, 2)
	assert.Equal(t, []*Note{notes[1], notes[2]}, runs[0])
	assert.Equal(t, []*Note{notes[5], notes[6], notes[7]}, runs[1])
	beams := f.AutoBeams(notes, BeamGroupsFor(TimeSig{Beats: 4, Value: 4}))
	assert.Len(t, beams, 2)
	assert.Same(t, beams[0], notes[1].Beam())
	assert.Equal(t, Frac(3, 8), BeamGroupsFor(TimeSig{Beats: 6, Value: 8}))
}

func TestRegistry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.notation")
	defer teardown()
	//
	f := NewFactory(nil, render.SVG, 500, 150)
	n, err := f.StaveNote(NoteStruct{ID: "n1", Keys: []Pitch{{Step: 'C', Octave: 5}}, Duration: "q"})
	require.NoError(t, err)
	auto := mknotes(t, f, "q")[0]
	assert.True(t, strings.HasPrefix(auto.ID(), "auto-"))
	got, err := f.Registry().Lookup("n1")
	require.NoError(t, err)
	assert.Same(t, n, got)
	_, err = f.Registry().Lookup("n2")
	var lerr *LookupError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "n2", lerr.ID)
	_, err = f.StaveNote(NoteStruct{ID: "n1", Keys: []Pitch{{Step: 'D', Octave: 5}}, Duration: "q"})
	assert.True(t, errors.Is(err, ErrDuplicateID))
	assert.Equal(t, 2, f.Registry().Len())
}

func TestStaveNotesAllOrNone(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.notation")
	defer teardown()
	//
	f := NewFactory(nil, render.SVG, 500, 150)
	c5 := []Pitch{{Step: 'C', Octave: 5}}
	_, err := f.StaveNotes([]NoteStruct{
		{ID: "x", Keys: c5, Duration: "q"},
		{Keys: c5, Duration: "7"},
	})
	assert.ErrorContains(t, err, "note 2")
	_, err = f.StaveNotes([]NoteStruct{
		{ID: "x", Keys: c5, Duration: "q"},
		{ID: "x", Keys: c5, Duration: "q"},
	})
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 0, f.Registry().Len())
	notes, err := f.StaveNotes([]NoteStruct{
		{ID: "x", Keys: c5, Duration: "q"},
		{Keys: c5, Duration: "8"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", notes[1].ID()}, f.Registry().IDs())
}

func TestCommitCanvas(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.notation")
	defer teardown()
	//
	f := NewFactory(nil, render.Canvas, 300, 120)
	sys := f.System(10, 0, 280)
	notes := mknotes(t, f, "8", "8", "h")
	st := f.Stave(0, 0, 0, StaveOptions{})
	sys.AddStave(st, []*Voice{f.Voice(notes, f.AutoBeams(notes, DefaultBeamGroup))})
	r, err := f.Commit()
	require.NoError(t, err)
	assert.Equal(t, render.Canvas, r.Backend)
	assert.True(t, bytes.HasPrefix(r.Data, []byte("\x89PNG")), "expected PNG signature")
	assert.Equal(t, 3, r.Stats.Notes)
}

func TestTimeAndKeySignatures(t *testing.T) {
	ts, err := ParseTimeSig("6/8")
	require.NoError(t, err)
	assert.Equal(t, TimeSig{Beats: 6, Value: 8}, ts)
	ts, _ = ParseTimeSig("C|")
	assert.Equal(t, 2, ts.Beats)
	for _, bad := range []string{"4", "x/4", "4/3", "0/4"} {
		_, err := ParseTimeSig(bad)
		assert.Error(t, err, bad)
	}
	n, ok := KeySharps("Eb")
	assert.True(t, ok)
	assert.Equal(t, -3, n)
	_, ok = KeySharps("H")
	assert.False(t, ok)
}

func TestCommitOnce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.notation")
	defer teardown()
	//
	f := NewFactory(nil, render.SVG, 500, 250)
	sys := f.System(10, 0, 489)
	notes := mknotes(t, f, "8", "8", "q", "h")
	beams := f.AutoBeams(notes, DefaultBeamGroup)
	st := f.Stave(0, 0, 0, StaveOptions{})
	st.SetClef("bass", true)
	ts, _ := ParseTimeSig("4/4")
	st.SetTimeSignature(ts, true)
	st.SetKeySignature("D")
	sys.AddStave(st, []*Voice{f.Voice(notes, beams)})
	sys.AddConnector(SingleLeft)
	sys.AddConnector(NoConnector)
	from, to := notes[0], notes[3]
	f.Curve(from, to)
	r, err := f.Commit()
	require.NoError(t, err)
	assert.True(t, f.Committed())
	assert.Equal(t, Stats{Systems: 1, Staves: 1, Notes: 4, Beams: 1, Curves: 1, Connectors: 1}, r.Stats)
	assert.Contains(t, string(r.Data), "<svg")
	assert.Less(t, notes[0].x, notes[1].x)
	assert.Equal(t, 10.0, st.X)
	_, err = f.Commit()
	assert.ErrorIs(t, err, ErrCommitted)
}

func TestClefPositions(t *testing.T) {
	st := &Stave{}
	st.SetClef("treble", false)
	assert.Equal(t, st.TopLineY(), st.yForLine(Pitch{Step: 'F', Octave: 5}.Line()))
	assert.Equal(t, st.BottomLineY(), st.yForLine(Pitch{Step: 'E', Octave: 4}.Line()))
	st.SetClef("bass", false)
	assert.Equal(t, st.BottomLineY(), st.yForLine(Pitch{Step: 'G', Octave: 2}.Line()))
}
