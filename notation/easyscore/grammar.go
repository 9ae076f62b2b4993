package easyscore

import (
	"fmt"
	"strings"

	"github.com/npillmayer/engrave/notation"
)

// Spec is a parsed note, before it is turned into a note by a factory.
type Spec struct {
	Keys     []notation.Pitch
	Duration string
	Dots     int
	Rest     bool
	Options  map[string]string
}

type parser struct {
	text   string
	pos    int
	octave int
	dur    string
}

// Parse parses note text into note specs.
func Parse(text string) ([]Spec, error) {
	p := &parser{text: text, octave: 4, dur: "8"}
	var specs []Spec
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("empty note text")
	}
	for {
		spec, err := p.note()
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
		p.skipSpace()
		if p.eof() {
			break
		}
		if !p.accept(',') {
			return nil, p.errorf("expected ',' between notes")
		}
		p.skipSpace()
	}
	return specs, nil
}

// note := (pitch | '(' pitch+ ')') ['/' duration] ['/' type] dots opts
func (p *parser) note() (Spec, error) {
	var spec Spec
	if p.accept('(') {
		for {
			p.skipSpace()
			if p.accept(')') {
				break
			}
			if p.eof() {
				return spec, p.errorf("unterminated chord")
			}
			k, err := p.pitch()
			if err != nil {
				return spec, err
			}
			spec.Keys = append(spec.Keys, k)
		}
		if len(spec.Keys) == 0 {
			return spec, p.errorf("empty chord")
		}
	} else {
		k, err := p.pitch()
		if err != nil {
			return spec, err
		}
		spec.Keys = []notation.Pitch{k}
	}
	spec.Duration = p.dur
	if p.accept('/') {
		d := p.token("0123456789whq")
		if c, ok := notation.CanonicalDuration(d); ok {
			spec.Duration = c
			p.dur = c
		} else if d == "" && (p.peek() == 'r' || p.peek() == 'n') {
			p.pos-- // type without duration, re-read '/'
		} else {
			return spec, p.errorf("invalid duration %q", d)
		}
	}
	if p.accept('/') {
		switch {
		case p.accept('r'):
			spec.Rest = true
		case p.accept('n'):
		default:
			return spec, p.errorf("invalid note type")
		}
	}
	for p.accept('.') {
		spec.Dots++
	}
	if p.accept('[') {
		opts, err := p.options()
		if err != nil {
			return spec, err
		}
		spec.Options = opts
	}
	return spec, nil
}

// pitch := [A-Ga-g] accidental? octave?
func (p *parser) pitch() (notation.Pitch, error) {
	var k notation.Pitch
	if p.eof() {
		return k, p.errorf("expected note name")
	}
	c := p.text[p.pos]
	step := strings.ToUpper(string(c))
	if !strings.Contains("ABCDEFG", step) || step == "" {
		return k, p.errorf("invalid note name %q", c)
	}
	p.pos++
	k.Step = step[0]
	switch {
	case p.acceptString("##"):
		k.Accidental = "##"
	case p.acceptString("bb"):
		k.Accidental = "bb"
	case p.accept('#'):
		k.Accidental = "#"
	case p.accept('b'):
		k.Accidental = "b"
	case p.accept('n'):
		k.Accidental = "n"
	}
	if o := p.token("0123456789"); o != "" {
		if len(o) > 1 {
			return k, p.errorf("invalid octave %q", o)
		}
		p.octave = int(o[0] - '0')
	}
	k.Octave = p.octave
	return k, nil
}

// opts := '[' key '=' quoted (',' key '=' quoted)* ']'
func (p *parser) options() (map[string]string, error) {
	opts := make(map[string]string)
	for {
		p.skipSpace()
		key := p.token("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_-")
		if key == "" {
			return nil, p.errorf("expected option name")
		}
		p.skipSpace()
		if !p.accept('=') {
			return nil, p.errorf("expected '=' after option %s", key)
		}
		p.skipSpace()
		quote := p.peek()
		if quote != '"' && quote != '\'' {
			return nil, p.errorf("expected quoted value for option %s", key)
		}
		p.pos++
		end := strings.IndexByte(p.text[p.pos:], quote)
		if end < 0 {
			return nil, p.errorf("unterminated value for option %s", key)
		}
		opts[key] = p.text[p.pos : p.pos+end]
		p.pos += end + 1
		p.skipSpace()
		if p.accept(']') {
			return opts, nil
		}
		if !p.accept(',') {
			return nil, p.errorf("expected ',' or ']' in options")
		}
	}
}

// --- Scanner helpers -------------------------------------------------------

func (p *parser) eof() bool {
	return p.pos >= len(p.text)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.text[p.pos]
}

func (p *parser) accept(c byte) bool {
	if p.peek() == c && !p.eof() {
		p.pos++
		return true
	}
	return false
}

func (p *parser) acceptString(s string) bool {
	if strings.HasPrefix(p.text[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *parser) token(charset string) string {
	start := p.pos
	for !p.eof() && strings.IndexByte(charset, p.text[p.pos]) >= 0 {
		p.pos++
	}
	return p.text[start:p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() && strings.IndexByte(" \t\r\n", p.text[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...interface{}) *ParseError {
	err := &ParseError{Text: p.text, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
	tracer().Debugf("%s", err)
	return err
}
