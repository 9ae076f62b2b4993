package notation

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/gg/recording"
)

const (
	headRadiusX = 5.5
	headRadiusY = 4
	stemLength  = 35
	beamWidth   = 5
)

func (f *Factory) drawSystem(sys *System, rc *recording.Recorder) {
	f.stats.Systems++
	for _, st := range sys.staves {
		drawStave(st, rc)
		f.stats.Staves++
		for _, v := range st.voices {
			for _, n := range v.notes {
				drawNote(n, rc)
				f.stats.Notes++
			}
		}
	}
	for _, c := range sys.connectors {
		drawConnector(sys, c, rc)
		f.stats.Connectors++
	}
}

// drawText draws s with its baseline at y, in a font of the given size.
func drawText(rc *recording.Recorder, x, y, size float64, s string) {
	rc.SetFontSize(size)
	rc.DrawString(s, x, y)
}

func drawStave(st *Stave, rc *recording.Recorder) {
	rc.SetLineWidth(1)
	for i := 0; i < 5; i++ {
		y := st.TopLineY() + float64(i*LineSpacing)
		rc.MoveTo(st.X, y)
		rc.LineTo(st.X+st.Width, y)
	}
	if st.opts.LeftBar {
		rc.MoveTo(st.X, st.TopLineY())
		rc.LineTo(st.X, st.BottomLineY())
	}
	if st.opts.RightBar {
		rc.MoveTo(st.X+st.Width, st.TopLineY())
		rc.LineTo(st.X+st.Width, st.BottomLineY())
	}
	rc.Stroke()
	x := st.X + padding
	if st.drawClef {
		drawText(rc, x, st.BottomLineY()-LineSpacing, 4*LineSpacing, clefGlyph(st.Clef()))
		x += clefWidth
	}
	if n, ok := KeySharps(st.keySig); ok && n != 0 {
		glyph := "#"
		if n < 0 {
			glyph = "b"
		}
		drawText(rc, x, st.TopLineY()+LineSpacing, 1.5*LineSpacing, strings.Repeat(glyph, abs(n)))
		x += float64(abs(n) * accidentalWidth)
	}
	if st.drawTime {
		ts := st.TimeSignature()
		if ts.Symbol != "" {
			drawText(rc, x, st.TopLineY()+3*LineSpacing, 2*LineSpacing, ts.Symbol)
		} else {
			drawText(rc, x, st.TopLineY()+2*LineSpacing, 2*LineSpacing, fmt.Sprint(ts.Beats))
			drawText(rc, x, st.BottomLineY(), 2*LineSpacing, fmt.Sprint(ts.Value))
		}
	}
}

// headYs returns the y-coordinates of the note heads of n, top to bottom.
func headYs(n *Note) (top, bottom float64) {
	top, bottom = math.Inf(1), math.Inf(-1)
	for _, k := range n.keys {
		y := n.stave.yForLine(k.Line())
		top = math.Min(top, y)
		bottom = math.Max(bottom, y)
	}
	return
}

// stemX is the x-coordinate of the stem of n.
func stemX(n *Note) float64 {
	if n.stem == StemDown {
		return n.x - headRadiusX
	}
	return n.x + headRadiusX
}

// stemTip is the y-coordinate of the free end of the stem of n.
func stemTip(n *Note) float64 {
	if n.beam != nil {
		return n.beam.yAt(stemX(n))
	}
	return freeStemTip(n)
}

func freeStemTip(n *Note) float64 {
	top, bottom := headYs(n)
	if n.stem == StemDown {
		return bottom + stemLength
	}
	return top - stemLength
}

func drawNote(n *Note, rc *recording.Recorder) {
	if n.stave == nil {
		return
	}
	if n.rest {
		mid := n.stave.TopLineY() + 2*LineSpacing
		rc.DrawRectangle(n.x-4, mid-LineSpacing/2, 8, LineSpacing)
		rc.Fill()
		return
	}
	hollow := n.duration == "1" || n.duration == "2"
	for _, k := range n.keys {
		y := n.stave.yForLine(k.Line())
		drawLedgerLines(n, k, rc)
		rc.DrawEllipse(n.x, y, headRadiusX, headRadiusY)
		if hollow {
			rc.SetLineWidth(1.5)
			rc.Stroke()
		} else {
			rc.Fill()
		}
		if k.Accidental != "" {
			drawText(rc, n.x-3*headRadiusX, y+headRadiusY, 1.5*LineSpacing, k.Accidental)
		}
		for d := 0; d < n.dots; d++ {
			rc.DrawEllipse(n.x+2*headRadiusX+float64(d*4), y, 1.5, 1.5)
			rc.Fill()
		}
	}
	if n.duration == "1" {
		return
	}
	top, bottom := headYs(n)
	rc.SetLineWidth(1)
	x := stemX(n)
	if n.stem == StemDown {
		rc.MoveTo(x, top)
	} else {
		rc.MoveTo(x, bottom)
	}
	tip := stemTip(n)
	rc.LineTo(x, tip)
	if n.beam == nil && n.Beamable() {
		// flag
		rc.LineTo(x+8, tip+float64(n.stem)*12)
	}
	rc.Stroke()
}

func drawLedgerLines(n *Note, k Pitch, rc *recording.Recorder) {
	top := clefTopLine[n.stave.Clef()]
	line := k.Line()
	rc.SetLineWidth(1)
	for l := top + 2; l <= line; l += 2 {
		y := n.stave.yForLine(l)
		rc.MoveTo(n.x-1.6*headRadiusX, y)
		rc.LineTo(n.x+1.6*headRadiusX, y)
	}
	for l := top - 10; l >= line; l -= 2 {
		y := n.stave.yForLine(l)
		rc.MoveTo(n.x-1.6*headRadiusX, y)
		rc.LineTo(n.x+1.6*headRadiusX, y)
	}
	rc.Stroke()
}

// yAt is the y-coordinate of the beam line at x.
func (b *Beam) yAt(x float64) float64 {
	first, last := b.notes[0], b.notes[len(b.notes)-1]
	x1, y1 := stemX(first), freeStemTip(first)
	x2, y2 := stemX(last), freeStemTip(last)
	if first.stem == StemDown {
		y1, y2 = math.Max(y1, y2), math.Max(y1, y2)
	} else {
		y1, y2 = math.Min(y1, y2), math.Min(y1, y2)
	}
	if x2 == x1 {
		return y1
	}
	return y1 + (y2-y1)*(x-x1)/(x2-x1)
}

func (b *Beam) draw(rc *recording.Recorder) {
	if len(b.notes) < 2 || b.notes[0].stave == nil {
		return
	}
	first, last := b.notes[0], b.notes[len(b.notes)-1]
	x1, x2 := stemX(first), stemX(last)
	y1, y2 := b.yAt(x1), b.yAt(x2)
	d := float64(beamWidth)
	if first.stem == StemDown {
		d = -d
	}
	rc.MoveTo(x1, y1)
	rc.LineTo(x2, y2)
	rc.LineTo(x2, y2+d)
	rc.LineTo(x1, y1+d)
	rc.ClosePath()
	rc.Fill()
}

func (t *Tuplet) draw(rc *recording.Recorder) {
	if len(t.notes) == 0 || t.notes[0].stave == nil {
		return
	}
	first, last := t.notes[0], t.notes[len(t.notes)-1]
	above := t.opts.Location >= 0
	y := math.Inf(1)
	if !above {
		y = math.Inf(-1)
	}
	for _, n := range t.notes {
		top, bottom := headYs(n)
		tip := stemTip(n)
		if above {
			y = math.Min(y, math.Min(top, tip)-LineSpacing)
		} else {
			y = math.Max(y, math.Max(bottom, tip)+LineSpacing)
		}
	}
	label := fmt.Sprint(t.opts.NumNotes)
	if t.opts.Ratioed {
		label = fmt.Sprintf("%d:%d", t.opts.NumNotes, t.opts.NotesOccupied)
	}
	x1, x2 := first.x-headRadiusX, last.x+headRadiusX
	if t.opts.Bracketed {
		hook := 5.0
		if !above {
			hook = -5
		}
		rc.SetLineWidth(1)
		rc.MoveTo(x1, y+hook)
		rc.LineTo(x1, y)
		rc.LineTo(x2, y)
		rc.LineTo(x2, y+hook)
		rc.Stroke()
	}
	drawText(rc, (x1+x2)/2-4, y-2, 1.2*LineSpacing, label)
}

func (c *Curve) draw(rc *recording.Recorder) {
	if c.from == nil || c.to == nil || c.from.stave == nil || c.to.stave == nil {
		tracer().Debugf("curve with unformatted end point not drawn")
		return
	}
	_, fb := headYs(c.from)
	_, tb := headYs(c.to)
	x1, y1 := c.from.x, fb+headRadiusY+2
	x2, y2 := c.to.x, tb+headRadiusY+2
	bend := 12.0
	rc.SetLineWidth(1.5)
	rc.MoveTo(x1, y1)
	rc.CubicTo(x1+(x2-x1)/3, y1+bend, x2-(x2-x1)/3, y2+bend, x2, y2)
	rc.Stroke()
}

func drawConnector(sys *System, c Connector, rc *recording.Recorder) {
	if len(sys.staves) == 0 {
		return
	}
	top := sys.staves[0].TopLineY()
	bottom := sys.staves[len(sys.staves)-1].BottomLineY()
	left, right := sys.X, sys.X+sys.Width
	vline := func(x, w float64) {
		rc.SetLineWidth(w)
		rc.MoveTo(x, top)
		rc.LineTo(x, bottom)
		rc.Stroke()
	}
	switch c {
	case SingleLeft, Single:
		vline(left, 1)
	case SingleRight:
		vline(right, 1)
	case Double, ThinDouble:
		vline(left, 1)
		vline(left+3, 1)
	case BoldDoubleLeft:
		vline(left, 3)
		vline(left+5, 1)
	case BoldDoubleRight:
		vline(right-5, 1)
		vline(right, 3)
	case Bracket:
		vline(left-5, 3)
		rc.SetLineWidth(1.5)
		rc.MoveTo(left-6, top-2)
		rc.LineTo(left+4, top-6)
		rc.MoveTo(left-6, bottom+2)
		rc.LineTo(left+4, bottom+6)
		rc.Stroke()
	case Brace:
		mid := (top + bottom) / 2
		x := left - 12
		rc.SetLineWidth(2)
		rc.MoveTo(left-2, top)
		rc.CubicTo(x-4, top, x+6, mid, x-2, mid)
		rc.CubicTo(x+6, mid, x-4, bottom, left-2, bottom)
		rc.Stroke()
	}
}
