package notation

import (
	"fmt"
	"strconv"
)

// Resolution is the number of ticks per whole note.
const Resolution = 16384

// Fraction is a non-negative rational number.
// Tuplets make note durations fractional in ticks.
type Fraction struct {
	Num, Den int
}

// Frac creates a fraction n/d in lowest terms. d must not be zero.
func Frac(n, d int) Fraction {
	assertThat(d != 0, "fraction with zero denominator")
	if d < 0 {
		n, d = -n, -d
	}
	g := gcd(abs(n), d)
	if g == 0 {
		return Fraction{0, 1}
	}
	return Fraction{n / g, d / g}
}

// Ticks creates a whole number of ticks.
func Ticks(n int) Fraction {
	return Fraction{n, 1}
}

func (f Fraction) norm() Fraction {
	if f.Den == 0 {
		return Fraction{0, 1}
	}
	return Frac(f.Num, f.Den)
}

// Add returns f+g.
func (f Fraction) Add(g Fraction) Fraction {
	f, g = f.norm(), g.norm()
	return Frac(f.Num*g.Den+g.Num*f.Den, f.Den*g.Den)
}

// Sub returns f-g.
func (f Fraction) Sub(g Fraction) Fraction {
	g = g.norm()
	return f.Add(Fraction{-g.Num, g.Den})
}

// Mul returns f*g.
func (f Fraction) Mul(g Fraction) Fraction {
	f, g = f.norm(), g.norm()
	return Frac(f.Num*g.Num, f.Den*g.Den)
}

// Cmp compares f and g and returns -1, 0 or +1.
func (f Fraction) Cmp(g Fraction) int {
	f, g = f.norm(), g.norm()
	l, r := f.Num*g.Den, g.Num*f.Den
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

// IsZero is true for 0/n.
func (f Fraction) IsZero() bool {
	return f.Num == 0
}

// Float returns f as a floating point value.
func (f Fraction) Float() float64 {
	f = f.norm()
	return float64(f.Num) / float64(f.Den)
}

func (f Fraction) String() string {
	f = f.norm()
	if f.Den == 1 {
		return fmt.Sprintf("%d", f.Num)
	}
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Durations lists the canonical duration tokens, longest first.
var Durations = []string{"1", "2", "4", "8", "16", "32", "64"}

var durationAliases = map[string]string{
	"w": "1",
	"h": "2",
	"q": "4",
}

// CanonicalDuration maps duration tokens and their aliases (w, h, q) to a
// canonical duration token.
func CanonicalDuration(d string) (string, bool) {
	if c, ok := durationAliases[d]; ok {
		return c, true
	}
	for _, c := range Durations {
		if c == d {
			return c, true
		}
	}
	return "", false
}

// DurationTicks returns the ticks of a canonical duration with a number of dots.
func DurationTicks(duration string, dots int) (Fraction, error) {
	d, ok := CanonicalDuration(duration)
	if !ok {
		return Fraction{}, fmt.Errorf("invalid duration %q", duration)
	}
	value, _ := strconv.Atoi(d)
	base := Resolution / value
	ticks, add := base, base
	for i := 0; i < dots; i++ {
		add /= 2
		ticks += add
	}
	return Ticks(ticks), nil
}
