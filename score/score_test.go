package score

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/engrave/attr"
	"github.com/npillmayer/engrave/dom"
	"github.com/npillmayer/engrave/notation"
	"github.com/npillmayer/engrave/notation/easyscore"
	"github.com/npillmayer/engrave/render"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func parseScore(t require.TestingT, markup string, opts ...Option) *Score {
	doc, err := dom.ParseMarkup(strings.NewReader(markup))
	require.NoError(t, err)
	s, err := Build(doc, opts...)
	require.NoError(t, err)
	return s
}

func await(t *testing.T, s *Score) (*notation.Rendering, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Await(ctx)
}

func noteIDs(notes []*notation.Note) []string {
	ids := make([]string, len(notes))
	for i, n := range notes {
		ids[i] = n.ID()
	}
	return ids
}

const wellFormed = `
<vf-score width="600">
  <vf-system connector="brace">
    <vf-stave clef="treble" timeSig="4/4">
      <vf-voice>
        C5/q[id="a"], B4/q
        <vf-tuplet>B4/8, A4, G4</vf-tuplet>
        A4/q
        <vf-beam>C4/16, D4, E4, F4</vf-beam>
      </vf-voice>
    </vf-stave>
    <vf-stave clef="bass">
      <vf-voice>C3/w[id="b"]</vf-voice>
    </vf-stave>
  </vf-system>
  <vf-curve from="a" to="b"></vf-curve>
</vf-score>
`

func TestSingleCommit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	s := parseScore(t, wellFormed)
	require.NoError(t, s.Attach())
	rc := s.Context()
	require.NoError(t, s.Attach())
	assert.Same(t, rc, s.Context(), "expected repeated attach to keep the render context")
	r, err := await(t, s)
	require.NoError(t, err)
	require.NotNil(t, r)
	t.Logf("\n%s", s)
	assert.Equal(t, 1, s.Commits())
	assert.Equal(t, render.SVG, r.Backend)
	assert.Equal(t, 600, r.Width)
	assert.Equal(t, 200, r.Height, "expected height of one line with two staves")
	assert.Equal(t, notation.Stats{
		Systems: 1, Staves: 2, Notes: 11, Beams: 1, Tuplets: 1, Curves: 1, Connectors: 3,
	}, r.Stats)
	assert.Contains(t, string(r.Data), "<svg")
	// a second await returns the same rendering without committing again
	r2, err := await(t, s)
	require.NoError(t, err)
	assert.Same(t, r, r2)
	assert.Equal(t, 1, s.Commits())
	_, err = s.Context().Factory.Commit()
	assert.ErrorIs(t, err, notation.ErrCommitted)
}

// shuffled hands out posted tasks in an order drawn by rapid.
type shuffled struct {
	tasks []func()
	pick  func(n int) int
}

func (d *shuffled) Post(task func()) {
	d.tasks = append(d.tasks, task)
}

func (d *shuffled) Next() (func(), bool) {
	if len(d.tasks) == 0 {
		return nil, false
	}
	i := d.pick(len(d.tasks))
	task := d.tasks[i]
	d.tasks = append(d.tasks[:i], d.tasks[i+1:]...)
	return task, true
}

const interleaved = `
<vf-score>
  <vf-system>
    <vf-stave>
      <vf-voice>
        C4/q[id="t1"]
        <vf-tuplet>D4/8[id="u1"], E4[id="u2"], F4[id="u3"]</vf-tuplet>
        G4/q[id="t2"]
        <vf-beam>A4/8[id="b1"], B4[id="b2"]</vf-beam>
      </vf-voice>
      <vf-voice stem="down">
        <vf-beam>C4/8[id="v1"], D4[id="v2"]</vf-beam>
        E4/q[id="v3"]
      </vf-voice>
    </vf-stave>
  </vf-system>
</vf-score>
`

func TestOrderPreservation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	rapid.Check(t, func(rt *rapid.T) {
		d := &shuffled{pick: func(n int) int {
			return rapid.IntRange(0, n-1).Draw(rt, "pick")
		}}
		s := parseScore(rt, interleaved, WithDispatcher(d))
		ctx := context.Background()
		_, err := s.Await(ctx)
		require.NoError(rt, err)
		voices := s.Systems()[0].Staves()[0].Voices()
		want := []string{"t1", "u1", "u2", "u3", "t2", "b1", "b2"}
		if diff := cmp.Diff(want, noteIDs(voices[0].Artifact().Notes())); diff != "" {
			rt.Fatalf("voice notes out of declaration order (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"v1", "v2", "v3"}, noteIDs(voices[1].Artifact().Notes())); diff != "" {
			rt.Fatalf("voice notes out of declaration order (-want +got):\n%s", diff)
		}
		require.Equal(rt, 1, s.Commits())
	})
}

func TestStemRequest(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	s := parseScore(t, interleaved)
	_, err := await(t, s)
	require.NoError(t, err)
	voices := s.Systems()[0].Staves()[0].Voices()
	for _, n := range voices[0].Artifact().Notes() {
		assert.Equal(t, notation.StemUp, n.Stem(), "note %s", n.ID())
	}
	for _, n := range voices[1].Artifact().Notes() {
		assert.Equal(t, notation.StemDown, n.Stem(), "note %s", n.ID())
	}
}

func TestRegistrationRace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	q := &Queue{}
	s := parseScore(t, `<vf-score><vf-system><vf-stave><vf-voice>
		C4/q <vf-tuplet>D4/8, E4, F4</vf-tuplet>
	</vf-voice></vf-stave></vf-system></vf-score>`, WithDispatcher(q))
	require.NoError(t, s.Attach())
	voice := s.Systems()[0].Staves()[0].Voices()[0]
	tuplet := voice.leaves[0].(*Tuplet)
	for tuplet.Artifact() == nil {
		task, ok := q.Next()
		require.True(t, ok, "expected tuplet to be built")
		task()
	}
	// tuplet has completed before the voice has scanned its children
	assert.False(t, voice.join.Sealed())
	assert.Equal(t, -1, voice.join.Pending())
	assert.False(t, voice.join.Fired())
	assert.Nil(t, voice.Artifact())
	q.Drain()
	require.NotNil(t, voice.Artifact())
	assert.Len(t, voice.Artifact().Notes(), 4)
	assert.Equal(t, 1, s.Commits())
}

func TestLastLineWidth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	var b strings.Builder
	b.WriteString(`<vf-score width="511" systemsPerLine="2">`)
	for i := 0; i < 5; i++ {
		b.WriteString(`<vf-system><vf-stave><vf-voice>C4/w</vf-voice></vf-stave>`)
		if i == 1 {
			b.WriteString(`<vf-stave><vf-voice>C4/w</vf-voice></vf-stave>`)
		}
		b.WriteString(`</vf-system>`)
	}
	b.WriteString(`</vf-score>`)
	s := parseScore(t, b.String())
	r, err := await(t, s)
	require.NoError(t, err)
	available := 511 - 10 - 1
	type geometry struct{ X, Y, Width float64 }
	var got []geometry
	for _, sys := range s.Systems() {
		a := sys.Artifact()
		got = append(got, geometry{a.X, a.Y, a.Width})
	}
	half := float64(available / 2)
	want := []geometry{
		{10, 0, half}, {10 + half, 0, half},
		{10, 200, half}, {10 + half, 200, half},
		{10, 300, float64(available)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected system geometry (-want +got):\n%s", diff)
	}
	assert.Equal(t, 400, r.Height)
	assert.Equal(t, 8, r.Stats.Connectors, "expected 5 right and 3 left connectors")
}

func TestLayoutLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	conf := ScoreConfig{X: 10, Width: 500, SystemsPerLine: 3}
	slots := layoutLines(conf, []int{1, 1, 1, 2, 1})
	require.Len(t, slots, 5)
	assert.Equal(t, 163.0, slots[0].width)
	assert.True(t, slots[0].first)
	assert.False(t, slots[2].first)
	assert.True(t, slots[3].first)
	assert.Equal(t, 244.0, slots[3].width)
	assert.Equal(t, 10+244.0, slots[4].x)
	assert.Equal(t, 100.0, slots[3].y)
	assert.Equal(t, 200, slots[4].height)
	assert.Nil(t, layoutLines(conf, nil))
}

func TestCurveLookupFailure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	s := parseScore(t, `<vf-score><vf-system><vf-stave><vf-voice>
		C4/q[id="x"], D4, E4, F4
	</vf-voice></vf-stave></vf-system>
	<vf-curve from="missing" to="x"></vf-curve>
	<vf-curve from="x" to="x"></vf-curve>
	</vf-score>`)
	r, err := await(t, s)
	require.NotNil(t, r, "expected commit despite unresolvable curve")
	var lerr *notation.LookupError
	require.True(t, errors.As(err, &lerr), "expected lookup error, have %v", err)
	assert.Equal(t, "missing", lerr.ID)
	assert.Equal(t, 1, s.Commits())
	assert.Equal(t, 1, r.Stats.Curves)
}

func TestTupletDefaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	s := parseScore(t, `<vf-score><vf-system><vf-stave><vf-voice>
		<vf-tuplet>C4/8, D4, E4, F4, G4</vf-tuplet>
		<vf-tuplet beamed location="below" numNotes="3" notesOccupied="2" ratioed="true">A4/8, B4, C5</vf-tuplet>
	</vf-voice></vf-stave></vf-system></vf-score>`)
	r, err := await(t, s)
	require.NoError(t, err)
	voice := s.Systems()[0].Staves()[0].Voices()[0]
	first := voice.leaves[0].(*Tuplet).Artifact()
	assert.Equal(t, notation.TupletOptions{
		NumNotes: 5, NotesOccupied: 2, Location: 1, Bracketed: true, Ratioed: true,
	}, first.Options())
	second := voice.leaves[1].(*Tuplet).Artifact()
	assert.Equal(t, notation.TupletOptions{
		NumNotes: 3, NotesOccupied: 2, Location: -1, Bracketed: false, Ratioed: true,
	}, second.Options())
	assert.Equal(t, 1, r.Stats.Beams)
	assert.Equal(t, 2, r.Stats.Tuplets)
}

func TestTupletOptions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	conf := TupletConfig{Location: 1}
	assert.False(t, conf.Options(3).Ratioed, "3 in the time of 2 shows no ratio")
	conf.NotesOccupied = attr.Just(4)
	opts := conf.Options(7)
	assert.Equal(t, 7, opts.NumNotes)
	assert.Equal(t, 4, opts.NotesOccupied)
	assert.True(t, opts.Ratioed)
	conf.Ratioed = attr.Just(false)
	assert.False(t, conf.Options(7).Ratioed)
}

func TestParseErrorStalls(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	for _, markup := range []string{
		`<vf-score><vf-system><vf-stave><vf-voice>H4/q</vf-voice></vf-stave></vf-system></vf-score>`,
		`<vf-score><vf-system><vf-stave><vf-voice>
			C4/q <vf-beam>C4/8, (D4</vf-beam>
		</vf-voice></vf-stave></vf-system></vf-score>`,
	} {
		s := parseScore(t, markup)
		r, err := await(t, s)
		assert.Nil(t, r)
		assert.ErrorIs(t, err, ErrStalled)
		var perr *easyscore.ParseError
		assert.True(t, errors.As(err, &perr), "expected parse error, have %v", err)
		assert.Equal(t, 0, s.Commits())
		voice := s.Systems()[0].Staves()[0].Voices()[0]
		assert.Nil(t, voice.Artifact(), "voice must not declare readiness")
		t.Logf("\n%s", s)
	}
}

func TestDetach(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	q := &Queue{}
	s := parseScore(t, wellFormed, WithDispatcher(q))
	require.NoError(t, s.Attach())
	task, _ := q.Next()
	task()
	s.Detach()
	assert.Nil(t, s.Context())
	n := q.Drain()
	assert.Greater(t, n, 0)
	assert.Equal(t, 0, s.Commits())
	_, err := await(t, s)
	assert.ErrorIs(t, err, ErrDetached)
	assert.ErrorIs(t, s.Attach(), ErrDetached)
}

func TestAwaitCancelled(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	s := parseScore(t, wellFormed)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, s.Commits())
}

func TestClefInheritance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	s := parseScore(t, `<vf-score>
	<vf-system>
		<vf-stave clef="bass" timeSig="3/4"><vf-voice>C3/h.</vf-voice></vf-stave>
		<vf-stave><vf-voice>C4/h.</vf-voice></vf-stave>
	</vf-system>
	<vf-system>
		<vf-stave><vf-voice>D3/h.</vf-voice></vf-stave>
		<vf-stave clef="alto"><vf-voice>D4/h.</vf-voice></vf-stave>
	</vf-system>
	<vf-system>
		<vf-stave><vf-voice>E3/h.</vf-voice></vf-stave>
		<vf-stave><vf-voice>E4/h.</vf-voice></vf-stave>
	</vf-system>
	</vf-score>`)
	_, err := await(t, s)
	require.NoError(t, err)
	type clef struct {
		Clef     string
		Declared bool
	}
	var clefs []clef
	for _, sys := range s.Systems() {
		for _, st := range sys.Staves() {
			c, declared := st.Clef()
			clefs = append(clefs, clef{c, declared})
		}
	}
	want := []clef{
		{"bass", true}, {"treble", false},
		{"bass", false}, {"alto", true},
		{"bass", false}, {"alto", false},
	}
	if diff := cmp.Diff(want, clefs); diff != "" {
		t.Errorf("unexpected clefs (-want +got):\n%s", diff)
	}
	ts, declared := s.Systems()[2].Staves()[0].TimeSignature()
	assert.Equal(t, "3/4", ts.String())
	assert.False(t, declared)
	ts, _ = s.Systems()[2].Staves()[1].TimeSignature()
	assert.Equal(t, "4/4", ts.String())
}

func TestConnectors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	s := parseScore(t, `<vf-score systemsPerLine="2">
		<vf-system connector="brace"><vf-stave><vf-voice>C4/w</vf-voice></vf-stave></vf-system>
		<vf-system connector="bracket"><vf-stave><vf-voice>C4/w</vf-voice></vf-stave></vf-system>
		<vf-system connector="wiggly"><vf-stave><vf-voice>C4/w</vf-voice></vf-stave></vf-system>
	</vf-score>`)
	r, err := await(t, s)
	require.NotNil(t, r)
	var cerr *attr.ConfigError
	require.True(t, errors.As(err, &cerr), "expected configuration error, have %v", err)
	assert.Equal(t, "connector", cerr.Attr)
	assert.False(t, cerr.Fatal)
	systems := s.Systems()
	assert.Equal(t, 25.0, systems[0].Artifact().X, "brace offset applies to first in line")
	assert.Equal(t, 10+244.0, systems[1].Artifact().X, "bracket offset applies to first in line only")
	assert.Equal(t, 10.0, systems[2].Artifact().X)
	assert.Equal(t, []notation.Connector{notation.Brace, notation.SingleRight, notation.SingleLeft},
		systems[0].Artifact().Connectors())
	assert.Equal(t, []notation.Connector{notation.Bracket, notation.SingleRight},
		systems[1].Artifact().Connectors())
	assert.Equal(t, []notation.Connector{notation.SingleRight, notation.SingleLeft},
		systems[2].Artifact().Connectors())
}

func TestFatalConfiguration(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	for _, markup := range []string{
		`<vf-score><vf-system><vf-stave clef="banjo"></vf-stave></vf-system></vf-score>`,
		`<vf-score><vf-curve from="a"></vf-curve></vf-score>`,
	} {
		doc, err := dom.ParseMarkup(strings.NewReader(markup))
		require.NoError(t, err)
		_, err = Build(doc)
		var cerr *attr.ConfigError
		if assert.True(t, errors.As(err, &cerr), "expected configuration error, have %v", err) {
			assert.True(t, cerr.Fatal)
		}
	}
	_, err := Build(dom.NewElement(dom.KindVoice, nil))
	assert.ErrorIs(t, err, dom.ErrNoScore)
}

func TestDefaultsFromConfiguration(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	conf := testconfig.Conf{
		"engrave.width":          "800",
		"engrave.systemsPerLine": "2",
		"engrave.renderer":       "canvas",
	}
	d := DefaultsFrom(conf)
	assert.Equal(t, Defaults{Width: 800, SystemsPerLine: 2, Renderer: render.Canvas}, d)
	assert.Equal(t, StandardDefaults, DefaultsFrom(nil))
	s := parseScore(t, `<vf-score width="300"><vf-system><vf-stave><vf-voice>C4/w</vf-voice></vf-stave></vf-system></vf-score>`,
		WithConfig(conf))
	assert.Equal(t, 300, s.conf.Width, "declared width overrides configuration")
	assert.Equal(t, 2, s.conf.SystemsPerLine)
	assert.Equal(t, render.Canvas, s.conf.Renderer)
}

func TestNonFatalStaveAttributes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	s := parseScore(t, `<vf-score width="wide"><vf-system><vf-stave timeSig="5/x" keySig="H">
		<vf-voice stem="sideways" autoBeam>C4/8, D4, E4, F4</vf-voice>
	</vf-stave></vf-system></vf-score>`)
	r, err := await(t, s)
	require.NotNil(t, r)
	require.Error(t, err)
	t.Logf("non-fatal errors: %v", err)
	for _, key := range []string{"width", "timeSig", "keySig", "stem"} {
		assert.Contains(t, err.Error(), key)
	}
	assert.Equal(t, 500, r.Width)
	assert.Equal(t, 2, r.Stats.Beams, "expected auto-beaming in groups of a quarter")
	ts, _ := s.Systems()[0].Staves()[0].TimeSignature()
	assert.Equal(t, "4/4", ts.String())
}

func TestBlankVoiceText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	doc, err := dom.ParseYAML(strings.NewReader(`
score:
  systems:
    - staves:
        - voices:
            - content:
                - "C4/q, D4/q"
                - tuplet: "E4/8, F4, G4"
                - "   "
`))
	require.NoError(t, err)
	s, err := Build(doc)
	require.NoError(t, err)
	r, err := await(t, s)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 5, r.Stats.Notes)
	voice := s.Systems()[0].Staves()[0].Voices()[0]
	require.NotNil(t, voice.Artifact())
	assert.Len(t, voice.Artifact().Notes(), 5)
	// a voice made of blank text only is empty, not stalled
	blank := dom.NewElement(dom.KindScore, nil).Append(
		dom.NewElement(dom.KindSystem, nil).Append(
			dom.NewElement(dom.KindStave, nil).Append(
				dom.NewElement(dom.KindVoice, nil).Append(dom.NewText(" \n\t ")))))
	s, err = Build(blank)
	require.NoError(t, err)
	r, err = await(t, s)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Stats.Notes)
}

func TestWidthOutOfRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	s := parseScore(t, `<vf-score width="40000" height="99999"><vf-system><vf-stave>
		<vf-voice>C4/q, D4, E4, F4</vf-voice>
	</vf-stave></vf-system></vf-score>`)
	r, err := await(t, s)
	require.NotNil(t, r)
	require.Error(t, err)
	var cerr *attr.ConfigError
	require.True(t, errors.As(err, &cerr), "expected configuration error, have %v", err)
	assert.Contains(t, err.Error(), "out of range")
	assert.Equal(t, 500, r.Width)
	assert.Greater(t, r.Height, 0)
	assert.Less(t, r.Height, 1000, "height must fall back to the layout")
}

func TestDetachSubtree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.score")
	defer teardown()
	//
	for name, detach := range map[string]func(*Score){
		"voice":  func(s *Score) { s.Systems()[0].Staves()[1].Voices()[0].Detach() },
		"stave":  func(s *Score) { s.Systems()[0].Staves()[1].Detach() },
		"system": func(s *Score) { s.Systems()[0].Detach() },
	} {
		q := &Queue{}
		s := parseScore(t, wellFormed, WithDispatcher(q))
		require.NoError(t, s.Attach())
		task, _ := q.Next()
		task()
		detach(s)
		r, err := await(t, s)
		assert.Nil(t, r, name)
		assert.ErrorIs(t, err, ErrStalled, name)
		assert.Equal(t, 0, s.Commits(), name)
		assert.Nil(t, s.Systems()[0].Staves()[1].Voices()[0].Artifact(), name)
		require.NotNil(t, s.Context(), "detaching a subtree keeps the render context")
	}
}
