/*
Package domdbg implements helpers to debug a score document.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>


*/
package domdbg

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
	"text/template"

	"github.com/npillmayer/engrave/dom"
	"github.com/npillmayer/engrave/tree"
	"github.com/xlab/treeprint"
)

// Dump returns an indented text representation of a document tree.
func Dump(doc *dom.Element) string {
	if doc == nil {
		return "<empty>"
	}
	t := treeprint.New()
	dump(doc, t.AddBranch(label(doc)))
	return t.String()
}

func dump(e *dom.Element, t treeprint.Tree) {
	for _, ch := range e.Elements() {
		if len(ch.Elements()) == 0 {
			t.AddNode(label(ch))
			continue
		}
		dump(ch, t.AddBranch(label(ch)))
	}
}

func label(e *dom.Element) string {
	if e.Kind() == dom.KindText {
		return fmt.Sprintf("%q", strings.TrimSpace(e.Text()))
	}
	return e.String()
}

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname  string
	NodeTmpl  *template.Template
	EdgeTmpl  *template.Template
	AttrTmpl  *template.Template
	AttrEdge  *template.Template
	WithAttrs bool
}

// ToGraphViz outputs a diagram for a document tree. The diagram is in
// GraphViz (DOT) format. Clients have to provide the root element of
// the document and a Writer. If withAttrs is set, every element will be
// connected to a table of its attributes.
func ToGraphViz(doc *dom.Element, w io.Writer, withAttrs bool) {
	tmpl, err := template.New("dom").Parse(graphHeadTmpl)
	if err != nil {
		panic(err)
	}
	gparams := graphParamsType{Fontname: "Helvetica", WithAttrs: withAttrs}
	gparams.NodeTmpl, _ = template.New("domnode").Funcs(
		template.FuncMap{
			"shortstring": shortText,
		}).Parse(domNodeTmpl)
	gparams.EdgeTmpl = template.Must(template.New("domedge").Parse(domEdgeTmpl))
	gparams.AttrTmpl = template.Must(template.New("attrs").Parse(attrTableTmpl))
	gparams.AttrEdge = template.Must(template.New("attredge").Parse(attrEdgeTmpl))
	err = tmpl.Execute(w, gparams)
	if err != nil {
		panic(err)
	}
	dict := make(map[*dom.Element]string, 256)
	root := &doc.Node
	tree.TopDown(root, func(n, parent *tree.Node[*dom.Element], _ int) (*tree.Node[*dom.Element], error) {
		domNode(dom.Node(n), w, dict, &gparams)
		if n != root && parent != nil {
			domEdge(dom.Node(parent), dom.Node(n), w, dict, &gparams)
		}
		return nil, nil
	})
	w.Write([]byte("}\n"))
}

// Dotty is a helper for testing. Given a document element and a testing.T,
// it will create a Graphiviz image of the tree under `doc` and write it to
// a file in the current folder, choosing a unique file name.
// The image is in SVG format.
//
// If an error occurs, t.Error(…) will be set, causing the test to fail.
func Dotty(doc *dom.Element, t *testing.T) {
	tmpfile, err := os.CreateTemp(".", "score.*.dot")
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name()) // clean up
	}()
	t.Logf("writing score digraph to %s\n", tmpfile.Name())
	ToGraphViz(doc, tmpfile, true)
	outOption := fmt.Sprintf("-o%s.svg", tmpfile.Name())
	cmd := exec.Command("dot", "-Tsvg", outOption, tmpfile.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	t.Logf("writing score tree image to %s.svg\n", tmpfile.Name())
	if err := cmd.Run(); err != nil {
		t.Error(err.Error())
	}
}

type node struct {
	E    *dom.Element
	Name string
}

func domNode(e *dom.Element, w io.Writer, dict map[*dom.Element]string, gparams *graphParamsType) {
	name := dict[e]
	if name == "" {
		l := len(dict) + 1
		name = fmt.Sprintf("node%05d", l)
		dict[e] = name
	}
	if err := gparams.NodeTmpl.Execute(w, &node{e, name}); err != nil {
		panic(err)
	}
	if gparams.WithAttrs && len(e.Attributes()) > 0 {
		if err := gparams.AttrTmpl.Execute(w, &node{e, name}); err != nil {
			panic(err)
		}
		if err := gparams.AttrEdge.Execute(w, &node{e, name}); err != nil {
			panic(err)
		}
	}
}

type edge struct {
	N1, N2 node
}

func domEdge(e1 *dom.Element, e2 *dom.Element, w io.Writer, dict map[*dom.Element]string,
	gparams *graphParamsType) {
	//
	e := edge{node{e1, dict[e1]}, node{e2, dict[e2]}}
	if err := gparams.EdgeTmpl.Execute(w, e); err != nil {
		panic(err)
	}
}

func shortText(e *dom.Element) string {
	text := strings.TrimSpace(e.Text())
	s := "\"\\\""
	if len(text) > 10 {
		s += text[:10] + "...\\\"\""
	} else {
		s += text + "\\\"\""
	}
	s = strings.Replace(s, "\n", `\\n`, -1)
	s = strings.Replace(s, "\t", `\\t`, -1)
	s = strings.Replace(s, " ", "␣", -1)
	return s
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const domNodeTmpl = `{{ if eq .E.Kind.String "#text" }}
{{ .Name }}	[ label={{ shortstring .E }} shape=box style=filled fillcolor=grey95 fontname="Courier" fontsize=11.0 ] ;
{{ else }}
{{ .Name }}	[ label={{ printf "%q" .E.Kind.String }} shape=ellipse style=filled fillcolor=lightblue3 ] ;
{{ end }}
`

const attrTableTmpl = `{{ .Name }}_attrs [ style="filled" penwidth=1 fillcolor="ivory3" shape="Mrecord" fontsize=12
    label=<<table border="0" cellborder="0" cellpadding="2" cellspacing="0" bgcolor="ivory3">
      {{ range .E.Attributes }}
      <tr><td align="right">{{ .Key }}:</td><td>{{ .Value }}</td></tr>
      {{ end }}
    </table>> ] ;
`

const domEdgeTmpl = `{{ .N1.Name }} -> {{ .N2.Name }} [weight=1] ;
`

const attrEdgeTmpl = `{{ .Name }} -> {{ .Name }}_attrs [dir=none weight=1 style="dashed"] ;
`
