package notation

import (
	"sort"
)

// Widths of stave modifiers, in device units.
const (
	clefWidth       = 30
	timeSigWidth    = 20
	accidentalWidth = 10
	padding         = 10
)

// modifierWidth is the horizontal space taken by drawn clef, key and time
// signature at the start of a stave.
func (s *Stave) modifierWidth() float64 {
	w := float64(padding)
	if s.drawClef {
		w += clefWidth
	}
	if n, ok := KeySharps(s.keySig); ok {
		w += float64(abs(n) * accidentalWidth)
	}
	if s.drawTime {
		w += timeSigWidth
	}
	return w
}

// formatSystem assigns x-positions to the notes of all voices of a system.
// Notes starting at the same tick are aligned across staves; the horizontal
// position is proportional to the tick offset.
func formatSystem(sys *System) {
	if len(sys.staves) == 0 {
		return
	}
	start := 0.0
	total := Ticks(0)
	for _, s := range sys.staves {
		if w := s.modifierWidth(); w > start {
			start = w
		}
		for _, v := range s.voices {
			if t := v.TotalTicks(); t.Cmp(total) > 0 {
				total = t
			}
		}
	}
	if total.IsZero() {
		return
	}
	left := sys.X + start
	usable := sys.X + sys.Width - padding - left
	ticks := collectTicks(sys)
	xOf := func(offset Fraction) float64 {
		return left + usable*offset.Float()/total.Float()
	}
	for _, s := range sys.staves {
		for _, v := range s.voices {
			offset := Ticks(0)
			for _, n := range v.notes {
				n.stave = s
				n.x = xOf(offset)
				offset = offset.Add(n.ticks)
			}
		}
	}
	tracer().Debugf("formatted system at (%.0f,%.0f): %d distinct onsets over %s ticks",
		sys.X, sys.Y, len(ticks), total)
}

// collectTicks returns the distinct note onsets of a system, sorted.
func collectTicks(sys *System) []Fraction {
	seen := map[Fraction]bool{}
	var onsets []Fraction
	for _, s := range sys.staves {
		for _, v := range s.voices {
			offset := Ticks(0)
			for _, n := range v.notes {
				key := offset.norm()
				if !seen[key] {
					seen[key] = true
					onsets = append(onsets, key)
				}
				offset = offset.Add(n.ticks)
			}
		}
	}
	sort.Slice(onsets, func(i, j int) bool { return onsets[i].Cmp(onsets[j]) < 0 })
	return onsets
}
