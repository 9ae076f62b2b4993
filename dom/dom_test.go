package dom

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoSystems = `
<vf-score width="600" systemsPerLine="2">
  <vf-system connector="brace">
    <vf-stave clef="bass" timeSig="3/4">
      <vf-voice autoBeam>
        C3/q, B2
        <vf-tuplet beamed>B2/8, A2, G2</vf-tuplet>
        <vf-beam>C3/16, D3, E3, F3</vf-beam>
      </vf-voice>
    </vf-stave>
  </vf-system>
  <vf-system>
    <vf-stave><vf-voice>C4/w</vf-voice></vf-stave>
  </vf-system>
  <vf-curve from="a" to="b"></vf-curve>
</vf-score>
`

func TestParseMarkup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.dom")
	defer teardown()
	//
	score, err := ParseMarkup(strings.NewReader(twoSystems))
	require.NoError(t, err)
	assert.Equal(t, KindScore, score.Kind())
	assert.Nil(t, score.ParentElement())
	w, ok := score.Attr("systemsPerLine")
	assert.True(t, ok)
	assert.Equal(t, "2", w)
	systems := score.ElementsOf(KindSystem)
	require.Len(t, systems, 2)
	assert.Len(t, score.ElementsOf(KindCurve), 1)
	voice := systems[0].Elements()[0].Elements()[0]
	require.Equal(t, KindVoice, voice.Kind())
	_, autoBeam := voice.Attr("autobeam")
	assert.True(t, autoBeam)
	kinds := []Kind{}
	for _, ch := range voice.Elements() {
		kinds = append(kinds, ch.Kind())
	}
	assert.Equal(t, []Kind{KindText, KindTuplet, KindBeam}, kinds)
	assert.Equal(t, "B2/8, A2, G2", voice.Elements()[1].TextContent())
	assert.Equal(t, voice, voice.Elements()[2].ParentElement())
}

func TestParseMarkupWithoutScore(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.dom")
	defer teardown()
	//
	_, err := ParseMarkup(strings.NewReader("<p>no music</p>"))
	assert.ErrorIs(t, err, ErrNoScore)
}

const yamlDoc = `
score:
  width: 600
  systems:
    - connector: bracket
      staves:
        - clef: treble
          voices:
            - autoBeam: true
              stem: down
              content:
                - "C5/q, B4"
                - tuplet: "B4/8, A4, G4"
                  beamed: true
                - beam: "C4/16, D4, E4, F4"
  curves:
    - from: n1
      to: n2
`

func TestParseYAML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.dom")
	defer teardown()
	//
	score, err := ParseYAML(strings.NewReader(yamlDoc))
	require.NoError(t, err)
	width, _ := score.Attr("width")
	assert.Equal(t, "600", width)
	_, ok := score.Attr("systems")
	assert.False(t, ok, "nested collections must not become attributes")
	system := score.ElementsOf(KindSystem)[0]
	conn, _ := system.Attr("connector")
	assert.Equal(t, "bracket", conn)
	voice := system.Elements()[0].Elements()[0]
	autoBeam, _ := voice.Attr("autoBeam")
	assert.Equal(t, "true", autoBeam)
	children := voice.Elements()
	require.Len(t, children, 3)
	assert.Equal(t, KindText, children[0].Kind())
	assert.Equal(t, KindTuplet, children[1].Kind())
	beamed, _ := children[1].Attr("beamed")
	assert.Equal(t, "true", beamed)
	_, ok = children[1].Attr("tuplet")
	assert.False(t, ok)
	assert.Equal(t, "C4/16, D4, E4, F4", children[2].TextContent())
	curve := score.ElementsOf(KindCurve)[0]
	from, _ := curve.Attr("from")
	assert.Equal(t, "n1", from)
}

func TestParseYAMLBlankContent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.dom")
	defer teardown()
	//
	score, err := ParseYAML(strings.NewReader(`
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
	voice := score.ElementsOf(KindSystem)[0].Elements()[0].Elements()[0]
	require.Equal(t, KindVoice, voice.Kind())
	children := voice.Elements()
	require.Len(t, children, 3)
	assert.Equal(t, KindTuplet, children[1].Kind())
	assert.Equal(t, KindText, children[2].Kind())
	assert.Empty(t, strings.TrimSpace(children[2].Text()))
}

func TestParseYAMLErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.dom")
	defer teardown()
	//
	_, err := ParseYAML(strings.NewReader("title: nothing"))
	assert.ErrorIs(t, err, ErrNoScore)
	bad := `
score:
  systems:
    - staves:
        - voices:
            - content:
                - slur: "C4"
`
	_, err = ParseYAML(strings.NewReader(bad))
	assert.Error(t, err)
}

func TestElementAttributesCaseInsensitive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.dom")
	defer teardown()
	//
	e := NewElement(KindStave, map[string]string{"timeSig": "3/4"})
	v, ok := e.Attr("TIMESIG")
	assert.True(t, ok)
	assert.Equal(t, "3/4", v)
	e.SetAttr("Clef", "alto")
	assert.Equal(t, `vf-stave clef="alto" timesig="3/4"`, e.String())
	assert.Equal(t, KindTuplet, KindFromTag(" VF-Tuplet "))
	assert.Equal(t, KindUnknown, KindFromTag("div"))
}

func TestTextContent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.dom")
	defer teardown()
	//
	voice := NewElement(KindVoice, nil).Append(
		NewText("C4, "),
		NewElement(KindBeam, nil).Append(NewText("D4, E4")),
	)
	assert.Equal(t, "C4, D4, E4", voice.TextContent())
	score, err := FindScore(NewElement(KindUnknown, nil).Append(NewElement(KindScore, nil)))
	require.NoError(t, err)
	assert.Equal(t, KindScore, score.Kind())
}
