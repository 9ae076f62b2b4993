package score

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"context"
	"errors"
	"fmt"

	"github.com/npillmayer/engrave/attr"
	"github.com/npillmayer/engrave/dom"
	"github.com/npillmayer/engrave/join"
	"github.com/npillmayer/engrave/notation"
	"github.com/npillmayer/schuko"
)

// Score is the root of a score tree. It owns the render context, lays out
// its systems into lines, and commits the factory once all systems have
// been assembled.
type Score struct {
	elem        *dom.Element
	conf        ScoreConfig
	dispatcher  Dispatcher
	systems     []*System
	curves      []*Curve
	rc          *RenderContext
	join        *join.Join[*dom.Element, *notation.System]
	layout      []slot
	isSetup     bool
	detached    bool
	commits     int
	rendering   *notation.Rendering
	commitErr   error
	diagnostics []error // non-fatal errors
}

// Option configures the building of a score.
type Option func(*buildOptions)

type buildOptions struct {
	dispatcher Dispatcher
	defaults   Defaults
}

// WithDispatcher sets the dispatcher for assembly tasks. The default is a
// FIFO Queue.
func WithDispatcher(d Dispatcher) Option {
	return func(o *buildOptions) {
		o.dispatcher = d
	}
}

// WithDefaults sets document-wide defaults for score attributes.
func WithDefaults(d Defaults) Option {
	return func(o *buildOptions) {
		o.defaults = d
	}
}

// WithConfig reads document-wide defaults from an application configuration,
// see DefaultsFrom.
func WithConfig(conf schuko.Configuration) Option {
	return WithDefaults(DefaultsFrom(conf))
}

// Build creates a score tree from a document. The document has to be rooted
// in a score element. Configuration errors which cannot be substituted by a
// default fail the build; the others are reported by Await.
func Build(doc *dom.Element, opts ...Option) (*Score, error) {
	options := buildOptions{defaults: StandardDefaults}
	for _, opt := range opts {
		opt(&options)
	}
	if options.dispatcher == nil {
		options.dispatcher = &Queue{}
	}
	elem, err := dom.FindScore(doc)
	if err != nil {
		return nil, err
	}
	b := &builder{}
	s := &Score{elem: elem, dispatcher: options.dispatcher}
	s.conf = parse(b, elem, func(e *dom.Element) (ScoreConfig, attr.Errors) {
		return parseScoreConfig(e, options.defaults)
	})
	for _, ch := range elem.Elements() {
		switch ch.Kind() {
		case dom.KindSystem:
			s.systems = append(s.systems, b.system(s, ch, len(s.systems)))
		case dom.KindCurve:
			s.curves = append(s.curves, &Curve{elem: ch, conf: parse(b, ch, parseCurveConfig)})
		default:
			tracer().Infof("ignoring %s as child of score", ch.Kind())
		}
	}
	if len(b.fatal) > 0 {
		return nil, fmt.Errorf("cannot build score: %w", errors.Join(b.fatal...))
	}
	s.diagnostics = b.warnings
	tracer().Infof("built score with %d systems and %d curves", len(s.systems), len(s.curves))
	return s, nil
}

// Attach attaches the score and all of its descendants. On the first call,
// the score creates its render context. Subsequent calls have no effect.
func (s *Score) Attach() error {
	if s.detached {
		return ErrDetached
	}
	if s.isSetup {
		tracer().Debugf("score already attached")
		return nil
	}
	s.isSetup = true
	registry := notation.NewRegistry()
	s.rc = &RenderContext{
		Registry: registry,
		Factory:  notation.NewFactory(registry, s.conf.Renderer, s.conf.Width, s.conf.Height.UnitsOr(0)),
		dispatch: s.dispatcher,
		report:   s.report,
	}
	s.join = join.New[*dom.Element, *notation.System]("score", s.systemsReady)
	tracer().Infof("score attached, renderer %s, width %d", s.conf.Renderer, s.conf.Width)
	s.rc.post(s.register)
	for _, sys := range s.systems {
		sys.attach()
	}
	return nil
}

// contextRequest answers a request for the render context. It returns nil
// if the score is not attached.
func (s *Score) contextRequest() *RenderContext {
	return s.rc
}

// register is the registration step of the score: it expects all systems,
// lays them out into lines and seals.
func (s *Score) register() {
	if s.rc == nil {
		return
	}
	for _, sys := range s.systems {
		s.join.Expect(sys.elem)
	}
	staves := make([]int, len(s.systems))
	for i, sys := range s.systems {
		staves[i] = len(sys.staves)
	}
	s.layout = layoutLines(s.conf, staves)
	for i, sys := range s.systems {
		sl := s.layout[i]
		sys.setupSystem(sl.x, sl.y, sl.width, sl.first)
	}
	s.join.Seal()
}

// systemReady is called by a system once it has been assembled.
func (s *Score) systemReady(sys *System, artifact *notation.System) {
	if s.rc == nil {
		return
	}
	tracer().P("system", sys.index).Debugf("system ready")
	s.join.Complete(sys.elem, artifact)
}

// systemsReady decorates the systems, attaches curves and commits.
func (s *Score) systemsReady(systems []*notation.System) {
	for i, sys := range systems {
		sys.AddConnector(notation.SingleRight)
		if s.layout[i].first {
			sys.AddConnector(notation.SingleLeft)
		}
	}
	for _, c := range s.curves {
		if err := c.attach(s.rc); err != nil {
			s.report(err)
		}
	}
	height := max(s.conf.Height.UnitsOr(s.accumulatedHeight()), 1)
	s.rc.Factory.Resize(s.conf.Width, height)
	s.commits++
	s.rendering, s.commitErr = s.rc.Factory.Commit()
	if s.commitErr != nil {
		tracer().Errorf("commit failed: %v", s.commitErr)
	}
}

func (s *Score) accumulatedHeight() int {
	h := s.conf.Y
	for _, sl := range s.layout {
		if bottom := int(sl.y) + sl.height; bottom > h {
			h = bottom
		}
	}
	return h
}

// report records an error of a builder.
func (s *Score) report(err error) {
	tracer().Errorf("%v", err)
	s.diagnostics = append(s.diagnostics, err)
}

// Await runs assembly tasks until the score has been committed. It returns
// the rendering together with all non-fatal errors reported on the way.
// If assembly comes to rest without a commit, Await returns ErrStalled,
// joined with the errors causing it. Await attaches the score if necessary.
func (s *Score) Await(ctx context.Context) (*notation.Rendering, error) {
	if err := s.Attach(); err != nil {
		return nil, err
	}
	for s.commits == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		task, ok := s.dispatcher.Next()
		if !ok {
			return nil, errors.Join(append([]error{ErrStalled}, s.diagnostics...)...)
		}
		task()
		if s.detached {
			return nil, ErrDetached
		}
	}
	if s.commitErr != nil {
		return nil, errors.Join(append([]error{s.commitErr}, s.diagnostics...)...)
	}
	return s.rendering, errors.Join(s.diagnostics...)
}

// Detach detaches the score and all of its descendants. Pending assembly
// tasks will have no effect and the score will never be committed.
// A detached score cannot be attached again.
func (s *Score) Detach() {
	if s.detached {
		return
	}
	for _, sys := range s.systems {
		sys.detach()
	}
	if s.join != nil {
		s.join.Cancel()
	}
	s.rc = nil
	s.detached = true
	tracer().Infof("score detached")
}

// Commits returns the number of commits issued. It is at most 1.
func (s *Score) Commits() int {
	return s.commits
}

// Context returns the render context, or nil if the score is not attached.
func (s *Score) Context() *RenderContext {
	return s.rc
}

// Systems returns the system nodes of a score in declaration order.
func (s *Score) Systems() []*System {
	return s.systems
}

// previousClef returns the clef in effect for the stave at staveIndex in
// the system preceding the system at sysIndex.
func (s *Score) previousClef(sysIndex, staveIndex int) string {
	for i := sysIndex - 1; i >= 0 && i < len(s.systems); i-- {
		if staveIndex < len(s.systems[i].staves) {
			conf := s.systems[i].staves[staveIndex].conf
			if !conf.Clef.IsNothing() {
				return conf.Clef.WithDefault(notation.DefaultClef)
			}
		}
	}
	return notation.DefaultClef
}

// previousTime returns the time signature in effect for the stave at
// staveIndex in the system preceding the system at sysIndex.
func (s *Score) previousTime(sysIndex, staveIndex int) notation.TimeSig {
	for i := sysIndex - 1; i >= 0 && i < len(s.systems); i-- {
		if staveIndex < len(s.systems[i].staves) {
			conf := s.systems[i].staves[staveIndex].conf
			if !conf.Time.IsNothing() {
				return conf.Time.WithDefault(defaultTime)
			}
		}
	}
	return defaultTime
}

var defaultTime, _ = notation.ParseTimeSig(notation.DefaultTimeSig)
