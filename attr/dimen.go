package attr

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/tyse/core/dimen"
)

// MaxUnits is the largest dimension in device units.
const MaxUnits = dimen.Infinity / int(dimen.PX)

const (
	dimenNone     uint32 = 0
	dimenAbsolute uint32 = 0x0001
	dimenAuto     uint32 = 0x0002
)

// Dimen is an option type for declared dimensions.
// A dimension is either Auto, i.e. computed by the layout, or has a fixed value.
//
// Declarations state dimensions in device units (pixels) or in one of the
// units px, pt, mm, cm and in. We store them as dimen.DU, with one device
// unit mapped to a PDF big point.
type Dimen struct {
	d     dimen.DU
	flags uint32
}

/*
type Dimen
	= Auto
	| JustDimen dimen
*/

// Auto creates a dimension to be computed by the layout.
func Auto() Dimen {
	return Dimen{flags: dimenAuto}
}

// JustDimen creates a dimension with a fixed value of x.
func JustDimen(x dimen.DU) Dimen {
	return Dimen{d: x, flags: dimenAbsolute}
}

// Units creates a dimension with a fixed value of n device units.
// n is clamped to [0…MaxUnits].
func Units(n int) Dimen {
	n = max(0, min(n, MaxUnits))
	return JustDimen(dimen.DU(n) * dimen.PX)
}

// IsAuto is true for auto dimensions and for the zero value.
func (d Dimen) IsAuto() bool {
	return d.flags&dimenAbsolute == 0
}

// UnitsOr returns the fixed value of d in device units, or def if d is Auto.
func (d Dimen) UnitsOr(def int) int {
	if d.IsAuto() {
		return def
	}
	return int(math.Round(float64(d.d) / float64(dimen.PX)))
}

func (d Dimen) String() string {
	if d.IsAuto() {
		return "auto"
	}
	return fmt.Sprintf("%dpx", d.UnitsOr(0))
}

// Match starts a match expression over d.
func (d Dimen) Match() *DimenMatcher {
	return &DimenMatcher{dimen: d}
}

// DimenMatcher is a helper type for switch-based matching of dimensions.
type DimenMatcher struct {
	dimen Dimen
}

// Auto matches auto dimensions.
func (m *DimenMatcher) Auto() *DimenMatcher {
	if m.dimen.IsAuto() {
		return m
	}
	return nil
}

// Just matches fixed dimensions and extracts their value.
func (m *DimenMatcher) Just(du *dimen.DU) *DimenMatcher {
	if m.dimen.flags&dimenAbsolute > 0 {
		if du != nil {
			*du = m.dimen.d
		}
		return m
	}
	return nil
}

var unitScale = map[string]dimen.DU{
	"px": dimen.PX,
	"pt": dimen.PT,
	"mm": dimen.MM,
	"cm": dimen.CM,
	"in": dimen.IN,
}

// parseDimen parses a non-negative dimension with an optional unit, which
// defaults to px. Values not representable as dimen.DU are out of range.
func parseDimen(v string) (dimen.DU, string) {
	num, unit := v, "px"
	if len(v) > 2 {
		if _, ok := unitScale[strings.ToLower(v[len(v)-2:])]; ok {
			num, unit = strings.TrimSpace(v[:len(v)-2]), strings.ToLower(v[len(v)-2:])
		}
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 0 {
		return 0, "not a dimension"
	}
	if n > dimen.Infinity/int(unitScale[unit]) {
		return 0, "dimension out of range"
	}
	du, _, err := dimen.Parse(strconv.Itoa(n) + unit)
	if err != nil {
		return 0, "not a dimension"
	}
	return du, ""
}
