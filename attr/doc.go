/*
Package attr parses declared attributes into typed configuration values.

Declarations carry string-typed attributes. Components parse them once,
at construction time, into typed configuration structs. Package attr
provides the building blocks: option types for values which may or may
not be declared (Option, Dimen), and parsers which substitute a default
for malformed input, reporting a non-fatal *ConfigError, or fail with a
fatal *ConfigError if no sane default exists.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package attr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'engrave.attr'.
func tracer() tracing.Trace {
	return tracing.Select("engrave.attr")
}
