package score

import (
	"github.com/npillmayer/engrave/attr"
	"github.com/npillmayer/engrave/dom"
	"github.com/npillmayer/engrave/notation"
	"github.com/npillmayer/engrave/render"
	"github.com/npillmayer/schuko"
)

// Defaults are document-wide fallbacks for score attributes.
type Defaults struct {
	Width          int // width in device units
	Height         int // height in device units, 0 for auto
	SystemsPerLine int
	Renderer       render.Backend
}

// StandardDefaults are used if no application configuration is present.
var StandardDefaults = Defaults{
	Width:          500,
	SystemsPerLine: 1,
	Renderer:       render.SVG,
}

// DefaultsFrom reads score defaults from an application configuration.
// It recognizes
//
//	engrave.width
//	engrave.height
//	engrave.systemsPerLine
//	engrave.renderer
//
// Keys not set fall back to StandardDefaults.
func DefaultsFrom(conf schuko.Configuration) Defaults {
	d := StandardDefaults
	if conf == nil {
		return d
	}
	if conf.IsSet("engrave.width") && conf.GetInt("engrave.width") > 0 {
		d.Width = conf.GetInt("engrave.width")
	}
	if conf.IsSet("engrave.height") && conf.GetInt("engrave.height") >= 0 {
		d.Height = conf.GetInt("engrave.height")
	}
	if conf.IsSet("engrave.systemsPerLine") && conf.GetInt("engrave.systemsPerLine") > 0 {
		d.SystemsPerLine = conf.GetInt("engrave.systemsPerLine")
	}
	if conf.IsSet("engrave.renderer") {
		if b, ok := render.ParseBackend(conf.GetString("engrave.renderer")); ok {
			d.Renderer = b
		} else {
			tracer().Infof("unknown renderer %q in configuration, using %s",
				conf.GetString("engrave.renderer"), d.Renderer)
		}
	}
	return d
}

// ScoreConfig is the typed configuration of a score.
type ScoreConfig struct {
	X, Y           int
	Width          int
	Height         attr.Dimen // Auto: accumulated from the layout
	SystemsPerLine int
	Renderer       render.Backend
}

func parseScoreConfig(e *dom.Element, d Defaults) (ScoreConfig, attr.Errors) {
	var errs attr.Errors
	var err *attr.ConfigError
	c := ScoreConfig{}
	c.X, err = attr.Int(e, "x", 10)
	errs.Add(err)
	c.Y, err = attr.Int(e, "y", 0)
	errs.Add(err)
	w, err := attr.Dimension(e, "width")
	errs.Add(err)
	c.Width = w.UnitsOr(d.Width)
	c.Height, err = attr.Dimension(e, "height")
	errs.Add(err)
	if c.Height.IsAuto() && d.Height > 0 {
		c.Height = attr.Units(d.Height)
	}
	c.SystemsPerLine, err = attr.PositiveInt(e, "systemsPerLine", d.SystemsPerLine)
	errs.Add(err)
	c.Renderer = d.Renderer
	if r := attr.String(e, "renderer", ""); r != "" {
		if b, ok := render.ParseBackend(r); ok {
			c.Renderer = b
		} else {
			errs.Add(&attr.ConfigError{Attr: "renderer", Value: r, Reason: "unknown renderer",
				Default: string(d.Renderer)})
		}
	}
	return c, errs
}

// SystemConfig is the typed configuration of a system.
type SystemConfig struct {
	Connector notation.Connector
}

// connectorOffset is the left offset of a system with a connector, to keep
// the connector from being clipped.
func (c SystemConfig) connectorOffset() float64 {
	switch c.Connector {
	case notation.Bracket:
		return 5
	case notation.Brace:
		return 15
	}
	return 0
}

func parseSystemConfig(e *dom.Element) (SystemConfig, attr.Errors) {
	var errs attr.Errors
	conn, err := attr.Enum(e, "connector", notation.Connectors, string(notation.NoConnector))
	errs.Add(err)
	return SystemConfig{Connector: notation.Connector(conn)}, errs
}

// StaveConfig is the typed configuration of a stave. Clef and time signature
// are inherited from previous systems if not declared.
type StaveConfig struct {
	Clef   attr.Option[string]
	Time   attr.Option[notation.TimeSig]
	KeySig attr.Option[string]
}

func parseStaveConfig(e *dom.Element) (StaveConfig, attr.Errors) {
	var errs attr.Errors
	var err *attr.ConfigError
	c := StaveConfig{}
	c.Clef, err = attr.EnumOption(e, "clef", notation.Clefs)
	errs.Add(err)
	c.Time = attr.Nothing[notation.TimeSig]()
	if ts := attr.String(e, "timeSig", ""); ts != "" {
		if sig, perr := notation.ParseTimeSig(ts); perr == nil {
			c.Time = attr.Just(sig)
		} else {
			errs.Add(&attr.ConfigError{Attr: "timeSig", Value: ts, Reason: perr.Error(),
				Default: notation.DefaultTimeSig})
		}
	}
	c.KeySig = attr.Nothing[string]()
	if key := attr.String(e, "keySig", ""); key != "" {
		if _, ok := notation.KeySharps(key); ok {
			c.KeySig = attr.Just(key)
		} else {
			errs.Add(&attr.ConfigError{Attr: "keySig", Value: key, Reason: "unknown key signature",
				Default: "none"})
		}
	}
	return c, errs
}

// VoiceConfig is the typed configuration of a voice.
type VoiceConfig struct {
	Stem     notation.Stem
	AutoBeam bool
}

func parseVoiceConfig(e *dom.Element) (VoiceConfig, attr.Errors) {
	var errs attr.Errors
	c := VoiceConfig{}
	c.Stem, errs = parseStem(e, notation.StemUp, errs)
	ab, err := attr.Bool(e, "autoBeam", false)
	errs.Add(err)
	c.AutoBeam = ab
	return c, errs
}

func parseStem(e *dom.Element, def notation.Stem, errs attr.Errors) (notation.Stem, attr.Errors) {
	s, err := attr.Enum(e, "stem", notation.StemDirections, def.String())
	errs.Add(err)
	stem, _ := notation.ParseStem(s)
	return stem, errs
}

func parseStemOption(e *dom.Element, errs attr.Errors) (attr.Option[notation.Stem], attr.Errors) {
	if _, ok := e.Attr("stem"); !ok {
		return attr.Nothing[notation.Stem](), errs
	}
	s, err := attr.EnumOption(e, "stem", notation.StemDirections)
	if err != nil {
		err.Fatal = false
		err.Default = "stem of voice"
		errs.Add(err)
		return attr.Nothing[notation.Stem](), errs
	}
	return attr.Map(func(s string) notation.Stem {
		stem, _ := notation.ParseStem(s)
		return stem
	}, s), errs
}

// TupletConfig is the typed configuration of a tuplet.
type TupletConfig struct {
	Beamed        bool
	Location      int // 1 above, -1 below
	NumNotes      attr.Option[int]
	NotesOccupied attr.Option[int]
	Ratioed       attr.Option[bool]
	Stem          attr.Option[notation.Stem] // Nothing: ask the voice
}

// Options derives the tuplet options for a tuplet over count notes.
func (c TupletConfig) Options(count int) notation.TupletOptions {
	opts := notation.TupletOptions{
		NumNotes:      c.NumNotes.WithDefault(count),
		NotesOccupied: c.NotesOccupied.WithDefault(2),
		Location:      c.Location,
		Bracketed:     !c.Beamed,
	}
	if opts.Location == 0 {
		opts.Location = 1
	}
	opts.Ratioed = c.Ratioed.WithDefault(opts.NumNotes-opts.NotesOccupied > 1)
	return opts
}

func parseTupletConfig(e *dom.Element) (TupletConfig, attr.Errors) {
	var errs attr.Errors
	var err *attr.ConfigError
	c := TupletConfig{Location: 1}
	c.Beamed, err = attr.Bool(e, "beamed", false)
	errs.Add(err)
	loc, err := attr.Enum(e, "location", []string{"above", "below"}, "above")
	errs.Add(err)
	if loc == "below" {
		c.Location = -1
	}
	c.NumNotes, err = positiveOption(e, "numNotes")
	errs.Add(err)
	c.NotesOccupied, err = positiveOption(e, "notesOccupied")
	errs.Add(err)
	c.Ratioed, err = attr.BoolOption(e, "ratioed")
	errs.Add(err)
	c.Stem, errs = parseStemOption(e, errs)
	return c, errs
}

func positiveOption(e *dom.Element, key string) (attr.Option[int], *attr.ConfigError) {
	n, err := attr.IntOption(e, key)
	if err != nil {
		return n, err
	}
	if v := n.WithDefault(1); v < 1 {
		s, _ := e.Attr(key)
		return attr.Nothing[int](), &attr.ConfigError{Attr: key, Value: s,
			Reason: "must be positive", Default: "default"}
	}
	return n, nil
}

// BeamConfig is the typed configuration of a beam.
type BeamConfig struct {
	Stem attr.Option[notation.Stem] // Nothing: ask the voice
}

func parseBeamConfig(e *dom.Element) (BeamConfig, attr.Errors) {
	var errs attr.Errors
	c := BeamConfig{}
	c.Stem, errs = parseStemOption(e, errs)
	return c, errs
}

// CurveConfig is the typed configuration of a curve. Both endpoints are
// required.
type CurveConfig struct {
	From, To string
}

func parseCurveConfig(e *dom.Element) (CurveConfig, attr.Errors) {
	var errs attr.Errors
	c := CurveConfig{
		From: attr.String(e, "from", ""),
		To:   attr.String(e, "to", ""),
	}
	for _, end := range []struct{ key, v string }{{"from", c.From}, {"to", c.To}} {
		if end.v == "" {
			errs.Add(&attr.ConfigError{Attr: end.key, Reason: "curve endpoint missing", Fatal: true})
		}
	}
	return c, errs
}
