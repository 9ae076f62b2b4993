/*
Package join implements an ordered join: "wait for N named children, in order".

An aggregating node creates a Join, registers the children it expects to hear
from (Expect), marks the end of registration (Seal) and receives one completion
per child (Complete). The join fires exactly once, as soon as

    - registration is sealed,
    - every registered child has completed, and
    - every hold placed on the join has been released.

Completions may arrive in any order, even before the child has been registered.
The pending counter may therefore become negative for a while; the sealed flag,
not the counter, decides about readiness. Once fired, Ordered returns the
artifacts of all children in registration order, regardless of the order in
which completions arrived.

Violations of the protocol (duplicate registration, duplicate completion,
completion by a child which is never registered) are coordination bugs. They
panic with a *ProtocolError.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package join

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'engrave.join'.
func tracer() tracing.Trace {
	return tracing.Select("engrave.join")
}

// ProtocolError is raised (by panicking) whenever a join is used in a way
// which violates the join protocol.
type ProtocolError struct {
	Join  string // name of the join
	Child string // child involved, if any
	Msg   string
}

func (e *ProtocolError) Error() string {
	if e.Child == "" {
		return fmt.Sprintf("join %s: protocol violation: %s", e.Join, e.Msg)
	}
	return fmt.Sprintf("join %s: protocol violation for child %s: %s", e.Join, e.Child, e.Msg)
}

func protocolViolation(join string, child interface{}, msg string, args ...interface{}) {
	var ch string
	if child != nil {
		ch = fmt.Sprintf("%v", child)
	}
	err := &ProtocolError{Join: join, Child: ch, Msg: fmt.Sprintf(msg, args...)}
	tracer().Errorf("%s", err)
	panic(err)
}
