/*
Package watch notifies about changes of a score file.

Editors tend to save a file in several steps, therefore events are debounced:
a burst of events results in a single notification.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package watch

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'engrave.watch'.
func tracer() tracing.Trace {
	return tracing.Select("engrave.watch")
}
