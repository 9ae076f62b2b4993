package easyscore

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strings"
	"time"

	"github.com/npillmayer/engrave/notation"
	"github.com/patrickmn/go-cache"
)

// parseCache holds parse results by note text. Entries are read-only.
var parseCache = cache.New(30*time.Minute, time.Hour)

func parseCached(text string) ([]Spec, error) {
	if specs, found := parseCache.Get(text); found {
		return specs.([]Spec), nil
	}
	specs, err := Parse(text)
	if err != nil {
		return nil, err
	}
	parseCache.Set(text, specs, cache.DefaultExpiration)
	return specs, nil
}

// Resolver turns note text into notes, using a factory. A resolver carries
// the clef and time signature in effect for a stave.
type Resolver struct {
	factory *notation.Factory
	clef    string
	time    notation.TimeSig
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClef sets the clef in effect.
func WithClef(clef string) Option {
	return func(r *Resolver) {
		r.clef = clef
	}
}

// WithTime sets the time signature in effect.
func WithTime(ts notation.TimeSig) Option {
	return func(r *Resolver) {
		r.time = ts
	}
}

// New creates a resolver creating notes with factory f.
func New(f *notation.Factory, opts ...Option) *Resolver {
	r := &Resolver{
		factory: f,
		clef:    notation.DefaultClef,
		time:    notation.TimeSig{Beats: 4, Value: 4},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Clef returns the clef in effect.
func (r *Resolver) Clef() string {
	return r.clef
}

// Time returns the time signature in effect.
func (r *Resolver) Time() notation.TimeSig {
	return r.time
}

// Notes parses text and creates the notes, with stem as the default stem
// direction. Malformed text results in a *ParseError, and no note of text
// is registered.
func (r *Resolver) Notes(text string, stem notation.Stem) ([]*notation.Note, error) {
	text = strings.TrimSpace(text)
	specs, err := parseCached(text)
	if err != nil {
		return nil, err
	}
	nss := make([]notation.NoteStruct, len(specs))
	for i, spec := range specs {
		nss[i] = notation.NoteStruct{
			ID:       spec.Options["id"],
			Keys:     spec.Keys,
			Duration: spec.Duration,
			Dots:     spec.Dots,
			Rest:     spec.Rest,
			Stem:     stem,
		}
		if s, ok := spec.Options["stem"]; ok {
			if nss[i].Stem, ok = notation.ParseStem(s); !ok {
				return nil, &ParseError{Text: text, Msg: fmt.Sprintf("note %d: invalid stem %q", i+1, s)}
			}
		}
	}
	notes, err := r.factory.StaveNotes(nss)
	if err != nil {
		return nil, &ParseError{Text: text, Msg: err.Error()}
	}
	tracer().Debugf("resolved %d notes from %q", len(notes), text)
	return notes, nil
}

// Beam creates a single beam over notes.
func (r *Resolver) Beam(notes []*notation.Note) *notation.Beam {
	return r.factory.Beam(notes)
}

// AutoBeams creates beams over notes, grouped according to the time
// signature in effect.
func (r *Resolver) AutoBeams(notes []*notation.Note) []*notation.Beam {
	return r.factory.AutoBeams(notes, notation.BeamGroupsFor(r.time))
}

// Tuplet creates a tuplet over notes.
func (r *Resolver) Tuplet(notes []*notation.Note, opts notation.TupletOptions) *notation.Tuplet {
	return r.factory.Tuplet(notes, opts)
}
