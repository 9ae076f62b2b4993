package score

import (
	"fmt"

	"github.com/npillmayer/engrave/attr"
	"github.com/npillmayer/engrave/dom"
)

// builder creates score nodes from document elements, wiring every node to
// its structural parent. It collects configuration errors on the way.
type builder struct {
	fatal    []error
	warnings []error
}

// parse parses the configuration of an element and sorts its errors.
func parse[C any](b *builder, e *dom.Element, parser func(*dom.Element) (C, attr.Errors)) C {
	c, errs := parser(e)
	for _, err := range errs {
		wrapped := fmt.Errorf("%s: %w", e.Kind(), err)
		if err.Fatal {
			b.fatal = append(b.fatal, wrapped)
		} else {
			b.warnings = append(b.warnings, wrapped)
		}
	}
	return c
}

func (b *builder) system(s *Score, e *dom.Element, index int) *System {
	sys := &System{elem: e, score: s, index: index, conf: parse(b, e, parseSystemConfig)}
	for _, ch := range e.ElementsOf(dom.KindStave) {
		sys.staves = append(sys.staves, b.stave(sys, ch, len(sys.staves)))
	}
	return sys
}

func (b *builder) stave(sys *System, e *dom.Element, index int) *Stave {
	st := &Stave{elem: e, system: sys, index: index, conf: parse(b, e, parseStaveConfig)}
	for _, ch := range e.ElementsOf(dom.KindVoice) {
		st.voices = append(st.voices, b.voice(st, ch))
	}
	return st
}

func (b *builder) voice(st *Stave, e *dom.Element) *Voice {
	v := &Voice{elem: e, stave: st, conf: parse(b, e, parseVoiceConfig)}
	for _, ch := range e.Elements() {
		switch ch.Kind() {
		case dom.KindText:
		case dom.KindTuplet:
			v.leaves = append(v.leaves, &Tuplet{leaf: leaf{elem: ch, voice: v},
				conf: parse(b, ch, parseTupletConfig)})
		case dom.KindBeam:
			v.leaves = append(v.leaves, &Beam{leaf: leaf{elem: ch, voice: v},
				conf: parse(b, ch, parseBeamConfig)})
		default:
			tracer().Infof("ignoring %s as child of voice", ch.Kind())
		}
	}
	return v
}
