package domdbg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/engrave/dom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func buildDoc() *dom.Element {
	return dom.NewElement(dom.KindScore, map[string]string{"width": "400"}).Append(
		dom.NewElement(dom.KindSystem, nil).Append(
			dom.NewElement(dom.KindStave, map[string]string{"clef": "bass"}).Append(
				dom.NewElement(dom.KindVoice, nil).Append(
					dom.NewText("C3/q, D3, E3, F3"),
				),
			),
		),
	)
}

func TestDump(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.dom")
	defer teardown()
	//
	out := Dump(buildDoc())
	t.Logf("\n%s", out)
	assert.Contains(t, out, `vf-score width="400"`)
	assert.Contains(t, out, `vf-stave clef="bass"`)
	assert.Contains(t, out, `"C3/q, D3, E3, F3"`)
	assert.Equal(t, "<empty>", Dump(nil))
}

func TestGraphViz(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "engrave.dom")
	defer teardown()
	//
	var buf bytes.Buffer
	ToGraphViz(buildDoc(), &buf, true)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "digraph g {"))
	assert.Contains(t, out, `node00001 -> node00002`)
	assert.Contains(t, out, `node00001_attrs`)
	assert.Contains(t, out, `<td>400</td>`)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}
