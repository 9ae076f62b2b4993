/*
Package easyscore resolves note text into notes.

Note text is a comma separated list of notes:

    C#5/q, B4, (C4 E4 G4)/h, A4/8/r, D5/8.[id="n1", stem="down"]

Every note is a pitch or a parenthesized chord, optionally followed by a
duration (1, 2, 4, 8, 16, 32, 64 or w, h, q), a type ("r" for rests, "n"
for notes), dots and a list of options. Octave and duration default to
those of the previous note; the first note defaults to octave 4 and an
eighth.

Parsing is deterministic, so parse results are cached by text.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package easyscore

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'engrave.easyscore'.
func tracer() tracing.Trace {
	return tracing.Select("engrave.easyscore")
}

// ParseError is returned for malformed note text.
type ParseError struct {
	Text string // complete note text
	Pos  int    // byte offset of the error
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("note text %q, position %d: %s", e.Text, e.Pos, e.Msg)
}
