// Package pattern implements the core value-level pattern algebra: exact
// rational time, half-open arcs, tagged values, timed events (Haps), and
// the Pattern combinators used to compose them.
package pattern

import (
	"fmt"
	"math"
	"math/bits"
)

// Rational is an exact numerator/denominator pair, always kept in reduced
// form with a positive denominator. All pattern-time arithmetic uses
// Rational instead of float64 to avoid drift across thousands of cycles.
type Rational struct {
	num, den int64
}

// Zero, One and Half are commonly used constants.
var (
	Zero = Rational{0, 1}
	One  = Rational{1, 1}
	Half = Rational{1, 2}
)

// NewRational builds a reduced Rational from a numerator/denominator pair.
// It panics if den is zero.
func NewRational(num, den int64) Rational {
	if den == 0 {
		panic("pattern: rational with zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs64(num), den)
	if g > 1 {
		num /= g
		den /= g
	}
	return Rational{num, den}
}

// FromInt builds a whole-number Rational.
func FromInt(n int64) Rational { return Rational{n, 1} }

// FromFloat approximates a float64 as a Rational with a bounded
// denominator; used at boundaries where a host passes a float tempo/time.
func FromFloat(f float64) Rational {
	if f == math.Trunc(f) {
		return FromInt(int64(f))
	}
	const denom = 1 << 20
	return NewRational(int64(math.Round(f*denom)), denom)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// overflow-checked helpers. Pattern-time arithmetic panics on overflow
// rather than silently wrapping; a 64-bit overflow here means a pattern
// has run for an astronomically large number of cycles or been given a
// degenerate rational, either of which is a programming error.

func mulChecked(a, b int64) int64 {
	hi, lo := bits.Mul64(uint64(abs64(a)), uint64(abs64(b)))
	if hi != 0 || lo > math.MaxInt64 {
		panic(fmt.Sprintf("pattern: rational overflow multiplying %d*%d", a, b))
	}
	res := int64(lo)
	if (a < 0) != (b < 0) {
		res = -res
	}
	return res
}

func addChecked(a, b int64) int64 {
	r := a + b
	if (b > 0 && r < a) || (b < 0 && r > a) {
		panic(fmt.Sprintf("pattern: rational overflow adding %d+%d", a, b))
	}
	return r
}

// Add returns r + o.
func (r Rational) Add(o Rational) Rational {
	num := addChecked(mulChecked(r.num, o.den), mulChecked(o.num, r.den))
	den := mulChecked(r.den, o.den)
	return NewRational(num, den)
}

// Sub returns r - o.
func (r Rational) Sub(o Rational) Rational {
	return r.Add(o.Neg())
}

// Neg returns -r.
func (r Rational) Neg() Rational {
	return Rational{-r.num, r.den}
}

// Mul returns r * o.
func (r Rational) Mul(o Rational) Rational {
	return NewRational(mulChecked(r.num, o.num), mulChecked(r.den, o.den))
}

// Div returns r / o. Panics if o is zero.
func (r Rational) Div(o Rational) Rational {
	if o.num == 0 {
		panic("pattern: division by zero rational")
	}
	return NewRational(mulChecked(r.num, o.den), mulChecked(r.den, o.num))
}

// Mod returns r mod o, result in [0, o) for positive o. Used for cyclic
// (per-cycle) positions.
func (r Rational) Mod(o Rational) Rational {
	q := r.Div(o)
	f := q.Floor()
	return r.Sub(o.Mul(FromInt(f)))
}

// Cmp returns -1, 0, or 1 as r is less than, equal to, or greater than o.
func (r Rational) Cmp(o Rational) int {
	lhs := mulChecked(r.num, o.den)
	rhs := mulChecked(o.num, r.den)
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

func (r Rational) Lt(o Rational) bool  { return r.Cmp(o) < 0 }
func (r Rational) Lte(o Rational) bool { return r.Cmp(o) <= 0 }
func (r Rational) Gt(o Rational) bool  { return r.Cmp(o) > 0 }
func (r Rational) Gte(o Rational) bool { return r.Cmp(o) >= 0 }
func (r Rational) Eq(o Rational) bool  { return r.num == o.num && r.den == o.den }

// Floor returns the greatest integer <= r.
func (r Rational) Floor() int64 {
	q := r.num / r.den
	if r.num%r.den != 0 && (r.num < 0) != (r.den < 0) {
		q--
	}
	return q
}

// Ceil returns the least integer >= r.
func (r Rational) Ceil() int64 {
	f := r.Floor()
	if FromInt(f).Eq(r) {
		return f
	}
	return f + 1
}

// Sam returns the cycle index containing r: floor(r) as a Rational. Named
// after the Strudel original's "sam" (start of cycle).
func (r Rational) Sam() Rational { return FromInt(r.Floor()) }

// NextSam returns the start of the next cycle after r.
func (r Rational) NextSam() Rational { return FromInt(r.Floor() + 1) }

// CyclePos returns r's position within its cycle, in [0, 1).
func (r Rational) CyclePos() Rational { return r.Sub(r.Sam()) }

// Min returns the smaller of r and o.
func (r Rational) Min(o Rational) Rational {
	if r.Lte(o) {
		return r
	}
	return o
}

// Max returns the larger of r and o.
func (r Rational) Max(o Rational) Rational {
	if r.Gte(o) {
		return r
	}
	return o
}

// Float64 converts to an approximate float64, used only at the boundary
// with host clocks and analog sampling math (e.g. sine).
func (r Rational) Float64() float64 {
	return float64(r.num) / float64(r.den)
}

// Int returns the integer value of r if it is a whole number.
func (r Rational) Int() (int64, bool) {
	if r.den == 1 {
		return r.num, true
	}
	return 0, false
}

// Trunc truncates r towards zero to an int64, for callers (mini-notation
// operand sampling) that need a plain integer out of a value that may not
// be an exact whole number.
func (r Rational) Trunc() int64 {
	return r.num / r.den
}

func (r Rational) String() string {
	if r.den == 1 {
		return fmt.Sprintf("%d", r.num)
	}
	return fmt.Sprintf("%d/%d", r.num, r.den)
}
