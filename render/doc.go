/*
Package render plays back recorded drawings of engraved scores.

Artifacts are drawn onto a recording.Recorder of github.com/gogpu/gg. The
finished recording is played back to a named recording backend: "canvas"
rasterizes with the gg raster backend and encodes to PNG, "svg" writes an
SVG document.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gogpu/gg/recording"
	_ "github.com/gogpu/gg/recording/backends/raster" // registers "raster"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'engrave.render'.
func tracer() tracing.Trace {
	return tracing.Select("engrave.render")
}

// Backend selects a drawing backend.
type Backend string

// Available backends.
const (
	Canvas Backend = "canvas"
	SVG    Backend = "svg"
)

// Backends lists the names of all available backends.
var Backends = []string{string(Canvas), string(SVG)}

// ParseBackend maps a backend name to a Backend.
func ParseBackend(name string) (Backend, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "canvas", "png", "raster":
		return Canvas, true
	case "svg":
		return SVG, true
	}
	return SVG, false
}

// recordingName is the name b is registered with in package recording.
func (b Backend) recordingName() string {
	if b == Canvas {
		return "raster"
	}
	return string(b)
}

// NewRecorder creates a recorder for a drawing of width × height device
// units. The drawing starts with a white background and black ink.
func NewRecorder(width, height int) (*recording.Recorder, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("cannot record a drawing of size %dx%d", width, height)
	}
	tracer().Debugf("recording drawing %dx%d", width, height)
	rec := recording.NewRecorder(width, height)
	rec.SetFillRGB(1, 1, 1)
	rec.FillRectangle(0, 0, float64(width), float64(height))
	rec.SetFillRGB(0, 0, 0)
	rec.SetStrokeRGB(0, 0, 0)
	rec.SetLineWidth(1)
	return rec, nil
}

// Play plays a recording back to backend b and returns the encoded document.
func Play(rec *recording.Recording, b Backend) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("no recording to play back")
	}
	target, err := recording.NewBackend(b.recordingName())
	if err != nil {
		return nil, fmt.Errorf("backend %q: %w", b, err)
	}
	tracer().Debugf("playing back %d commands to %s", len(rec.Commands()), b)
	if err := rec.Playback(target); err != nil {
		return nil, fmt.Errorf("%s playback: %w", b, err)
	}
	w, ok := target.(recording.WriterBackend)
	if !ok {
		return nil, fmt.Errorf("backend %q cannot encode its output", b)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%s encoding: %w", b, err)
	}
	return buf.Bytes(), nil
}
