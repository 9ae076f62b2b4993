package score

import (
	"github.com/npillmayer/engrave/notation"
)

// slot is the geometry assigned to a system by the line layout.
type slot struct {
	x, y   float64
	width  float64
	height int  // height of the line
	first  bool // first system in its line
}

// layoutLines distributes systems over lines of conf.SystemsPerLine systems.
// staves holds the stave count of every system.
//
// Every line but the last divides the available width evenly over
// SystemsPerLine systems. The systems of the last line share the full
// available width. Lines are stacked, each line as high as its tallest system.
func layoutLines(conf ScoreConfig, staves []int) []slot {
	total := len(staves)
	if total == 0 {
		return nil
	}
	perLine := conf.SystemsPerLine
	if perLine < 1 {
		perLine = 1
	}
	available := conf.Width - conf.X - 1
	lines := (total + perLine - 1) / perLine
	width := available / perLine
	slots := make([]slot, 0, total)
	y := float64(conf.Y)
	lastLineAdjusted := false
	for line := 0; line < lines; line++ {
		start := line * perLine
		end := min(start+perLine, total)
		count := end - start
		if line == lines-1 && count < perLine && !lastLineAdjusted {
			width = available / count
			lastLineAdjusted = true
		}
		height := 0
		for _, n := range staves[start:end] {
			height = max(height, max(n, 1)*notation.StaveSpacing)
		}
		for k := 0; k < count; k++ {
			slots = append(slots, slot{
				x:      float64(conf.X + k*width),
				y:      y,
				width:  float64(width),
				height: height,
				first:  k == 0,
			})
		}
		tracer().Debugf("line %d: %d systems of width %d at y=%.0f", line+1, count, width, y)
		y += float64(height)
	}
	return slots
}
