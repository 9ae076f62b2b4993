/*
Package notation holds the engraving artifacts of a score and the factory
creating them.

Artifacts (notes, beams, tuplets, staves, systems, connectors and curves) are
owned by a Factory once created. Clients hold references for ordering
purposes only. A Registry maps note ids to notes, which allows curves to
reference their end points by id.

A Factory collects artifacts in a render queue. A single call to Commit
formats all systems, records every artifact as a drawing and plays the
recording back to the factory's backend, returning the encoded result. A Factory commits at most once.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package notation

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'engrave.notation'.
func tracer() tracing.Trace {
	return tracing.Select("engrave.notation")
}

// ErrCommitted is returned by Commit if a factory has already been committed.
var ErrCommitted = errors.New("factory has already been committed")

// ErrDuplicateID is returned if a note id is registered twice.
var ErrDuplicateID = errors.New("duplicate note id")

// LookupError is returned if an id is not present in the registry.
type LookupError struct {
	ID string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no note with id %q", e.ID)
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("notation: "+msg, msgargs...)
		panic(msg)
	}
}
