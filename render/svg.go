package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo/float"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/recording"
	"github.com/gogpu/gg/text"
)

// defaultFontSize is used for text played back without a font face.
const defaultFontSize = 12

func init() {
	if !recording.IsRegistered(string(SVG)) {
		recording.Register(string(SVG), func() recording.Backend {
			return &svgBackend{}
		})
	}
}

// svgBackend plays back recordings as an SVG document. Recorded paths and
// rectangles are already in device space, so transforms are not replayed.
type svgBackend struct {
	buf    bytes.Buffer
	doc    *svg.SVG
	groups []int // open clip groups, per saved state
	clips  int
}

var _ recording.WriterBackend = (*svgBackend)(nil)

func (b *svgBackend) Begin(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("svg: invalid size %dx%d", width, height)
	}
	b.buf.Reset()
	b.doc = svg.New(&b.buf)
	b.groups = []int{0}
	b.doc.Start(float64(width), float64(height))
	return nil
}

func (b *svgBackend) End() error {
	for len(b.groups) > 0 {
		b.Restore()
	}
	b.doc.End()
	return nil
}

func (b *svgBackend) Save() {
	b.groups = append(b.groups, 0)
}

func (b *svgBackend) Restore() {
	if len(b.groups) == 0 {
		return
	}
	top := len(b.groups) - 1
	for i := 0; i < b.groups[top]; i++ {
		b.doc.Gend()
	}
	b.groups = b.groups[:top]
}

func (b *svgBackend) SetTransform(m recording.Matrix) {}

func (b *svgBackend) SetClip(path *gg.Path, rule recording.FillRule) {
	if path == nil || len(b.groups) == 0 {
		return
	}
	b.clips++
	id := "clip" + strconv.Itoa(b.clips)
	b.doc.ClipPath(`id="` + id + `"`)
	b.doc.Path(pathData(path), "clip-rule:"+fillRule(rule))
	b.doc.ClipEnd()
	b.doc.Group(`clip-path="url(#` + id + `)"`)
	b.groups[len(b.groups)-1]++
}

func (b *svgBackend) ClearClip() {
	if len(b.groups) == 0 {
		return
	}
	top := len(b.groups) - 1
	for ; b.groups[top] > 0; b.groups[top]-- {
		b.doc.Gend()
	}
}

func (b *svgBackend) FillPath(path *gg.Path, brush recording.Brush, rule recording.FillRule) {
	if path == nil || len(path.Elements()) == 0 {
		return
	}
	b.doc.Path(pathData(path), paint("fill", brush)+";fill-rule:"+fillRule(rule)+";stroke:none")
}

func (b *svgBackend) StrokePath(path *gg.Path, brush recording.Brush, stroke recording.Stroke) {
	if path == nil || len(path.Elements()) == 0 {
		return
	}
	style := []string{
		"fill:none",
		paint("stroke", brush),
		"stroke-width:" + num(stroke.Width),
		"stroke-linecap:" + [...]string{"butt", "round", "square"}[stroke.Cap%3],
		"stroke-linejoin:" + [...]string{"miter", "round", "bevel"}[stroke.Join%3],
	}
	if len(stroke.DashPattern) > 0 {
		dashes := make([]string, len(stroke.DashPattern))
		for i, d := range stroke.DashPattern {
			dashes[i] = num(d)
		}
		style = append(style, "stroke-dasharray:"+strings.Join(dashes, ","))
		if stroke.DashOffset != 0 {
			style = append(style, "stroke-dashoffset:"+num(stroke.DashOffset))
		}
	}
	b.doc.Path(pathData(path), strings.Join(style, ";"))
}

func (b *svgBackend) FillRect(rect recording.Rect, brush recording.Brush) {
	b.doc.Rect(rect.MinX, rect.MinY, rect.Width(), rect.Height(), paint("fill", brush)+";stroke:none")
}

func (b *svgBackend) DrawImage(img image.Image, src, dst recording.Rect, opts recording.ImageOptions) {
	if img == nil {
		return
	}
	var enc bytes.Buffer
	if err := png.Encode(&enc, img); err != nil {
		tracer().Errorf("svg: cannot embed image: %v", err)
		return
	}
	link := "data:image/png;base64," + base64.StdEncoding.EncodeToString(enc.Bytes())
	w, h := int(math.Round(dst.Width())), int(math.Round(dst.Height()))
	if opts.Alpha > 0 && opts.Alpha < 1 {
		b.doc.Image(dst.MinX, dst.MinY, w, h, link, "opacity:"+num(opts.Alpha))
		return
	}
	b.doc.Image(dst.MinX, dst.MinY, w, h, link)
}

func (b *svgBackend) DrawText(s string, x, y float64, face text.Face, brush recording.Brush) {
	size := float64(defaultFontSize)
	if face != nil {
		size = face.Size()
	}
	b.doc.Text(x, y, s, "font-family:serif;font-size:"+num(size)+"px;"+paint("fill", brush))
}

func (b *svgBackend) WriteTo(w io.Writer) (int64, error) {
	return io.Copy(w, bytes.NewReader(b.buf.Bytes()))
}

// pathData renders the elements of a path as SVG path data.
func pathData(path *gg.Path) string {
	var d strings.Builder
	for _, elem := range path.Elements() {
		if d.Len() > 0 {
			d.WriteByte(' ')
		}
		switch e := elem.(type) {
		case gg.MoveTo:
			d.WriteString("M" + num(e.Point.X) + " " + num(e.Point.Y))
		case gg.LineTo:
			d.WriteString("L" + num(e.Point.X) + " " + num(e.Point.Y))
		case gg.QuadTo:
			d.WriteString("Q" + num(e.Control.X) + " " + num(e.Control.Y) + " " +
				num(e.Point.X) + " " + num(e.Point.Y))
		case gg.CubicTo:
			d.WriteString("C" + num(e.Control1.X) + " " + num(e.Control1.Y) + " " +
				num(e.Control2.X) + " " + num(e.Control2.Y) + " " +
				num(e.Point.X) + " " + num(e.Point.Y))
		case gg.Close:
			d.WriteString("Z")
		}
	}
	return d.String()
}

// paint is a style declaration for property prop ("fill" or "stroke").
// Brushes other than solid colors are painted black.
func paint(prop string, brush recording.Brush) string {
	c := gg.Black
	switch br := brush.(type) {
	case recording.SolidBrush:
		c = br.Color
	case *recording.SolidBrush:
		c = br.Color
	case nil:
	default:
		tracer().Debugf("svg: painting %T as solid black", brush)
	}
	decl := fmt.Sprintf("%s:#%02x%02x%02x", prop, channel(c.R), channel(c.G), channel(c.B))
	if c.A < 1 {
		decl += ";" + prop + "-opacity:" + num(math.Max(0, c.A))
	}
	return decl
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

func fillRule(rule recording.FillRule) string {
	if rule == recording.FillRuleEvenOdd {
		return "evenodd"
	}
	return "nonzero"
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
