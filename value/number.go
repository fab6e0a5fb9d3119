package value

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"lukechampine.com/uint128"
)

// ErrDivisionByZero is returned by Number.Div for a zero divisor.
var ErrDivisionByZero = errors.New("division by zero")

// Number is an exact rational kept in lowest terms. Numerator and
// denominator are clamped to 64 bits by halving both whenever a result
// would not fit, so very large or very precise values lose precision.
type Number struct {
	num uint128.Uint128
	den uint128.Uint128
	neg bool
}

func newNumber(num, den uint128.Uint128, neg bool) Number {
	n := Number{num: num, den: den, neg: neg}
	n.simplify()
	return n
}

// NewNumber returns the integer x.
func NewNumber(x int64) Number {
	if x < 0 {
		// -math.MinInt64 overflows int64 but not uint64.
		return newNumber(uint128.From64(uint64(-(x+1))+1), uint128.From64(1), true)
	}
	return newNumber(uint128.From64(uint64(x)), uint128.From64(1), false)
}

// NewRatio returns num/den. den must not be zero.
func NewRatio(num, den int64) (Number, error) {
	if den == 0 {
		return Number{}, ErrDivisionByZero
	}
	return NewNumber(num).Div(NewNumber(den))
}

// ParseNumber parses a decimal literal such as "12", "25.3" or "-0.5".
func ParseNumber(s string) (Number, error) {
	body := strings.TrimPrefix(s, "-")
	if body == "" || strings.Count(body, ".") > 1 || strings.Trim(body, "0123456789.") != "" || body == "." {
		return Number{}, fmt.Errorf("invalid number literal %q", s)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Number{}, fmt.Errorf("invalid number literal %q", s)
	}
	num := new(big.Int).Abs(r.Num())
	den := new(big.Int).Set(r.Denom())
	for num.BitLen() > 128 || den.BitLen() > 128 {
		num.Rsh(num, 1)
		den.Rsh(den, 1)
	}
	if den.Sign() == 0 {
		den.SetInt64(1)
	}
	return newNumber(uint128.FromBig(num), uint128.FromBig(den), r.Sign() < 0), nil
}

// MustParseNumber is like ParseNumber but panics on malformed input.
func MustParseNumber(s string) Number {
	n, err := ParseNumber(s)
	if err != nil {
		panic(err)
	}
	return n
}

// d treats the zero Number's unset denominator as 1.
func (n Number) d() uint128.Uint128 {
	if n.den.IsZero() {
		return uint128.From64(1)
	}
	return n.den
}

func (n *Number) simplify() {
	if n.den.IsZero() {
		n.den = uint128.From64(1)
	}
	for {
		if n.num.IsZero() {
			n.den = uint128.From64(1)
			n.neg = false
			return
		}
		g := gcd(n.num, n.den)
		n.num = n.num.Div(g)
		n.den = n.den.Div(g)
		if n.num.Hi == 0 && n.den.Hi == 0 {
			return
		}
		for n.num.Hi != 0 || n.den.Hi != 0 {
			if n.den.Equals64(1) {
				// integers beyond 64 bits saturate
				n.num = uint128.From64(math.MaxUint64)
				return
			}
			n.num = n.num.Rsh(1)
			n.den = n.den.Rsh(1)
		}
	}
}

func gcd(x, y uint128.Uint128) uint128.Uint128 {
	if x.Cmp(y) < 0 {
		x, y = y, x
	}
	for !y.IsZero() {
		x, y = y, x.Mod(y)
	}
	return x
}

// common scales both magnitudes to their least common denominator.
func common(a, b Number) (lhs, rhs, den uint128.Uint128) {
	ad, bd := a.d(), b.d()
	g := gcd(ad, bd)
	lcm := ad.Div(g).Mul(bd)
	lhs = a.num.Mul(lcm.Div(ad))
	rhs = b.num.Mul(lcm.Div(bd))
	return lhs, rhs, lcm
}

// Add returns n+o.
func (n Number) Add(o Number) Number {
	lhs, rhs, den := common(n, o)
	if lhs.Hi>>63 != 0 || rhs.Hi>>63 != 0 {
		lhs, rhs, den = lhs.Rsh(1), rhs.Rsh(1), den.Rsh(1)
	}
	switch {
	case n.neg == o.neg:
		return newNumber(lhs.Add(rhs), den, n.neg)
	case lhs.Cmp(rhs) >= 0:
		return newNumber(lhs.Sub(rhs), den, n.neg)
	default:
		return newNumber(rhs.Sub(lhs), den, o.neg)
	}
}

// Sub returns n-o.
func (n Number) Sub(o Number) Number {
	return n.Add(o.Neg())
}

// Mul returns n*o.
func (n Number) Mul(o Number) Number {
	return newNumber(n.num.Mul(o.num), n.d().Mul(o.d()), n.neg != o.neg)
}

// Div returns n/o, or ErrDivisionByZero when o is zero.
func (n Number) Div(o Number) (Number, error) {
	if o.IsZero() {
		return Number{}, ErrDivisionByZero
	}
	return newNumber(n.num.Mul(o.d()), n.d().Mul(o.num), n.neg != o.neg), nil
}

// Neg returns -n. Zero stays non-negative.
func (n Number) Neg() Number {
	if n.IsZero() {
		return n
	}
	return Number{num: n.num, den: n.den, neg: !n.neg}
}

// Cmp returns -1, 0 or +1 as n is less than, equal to or greater than o.
func (n Number) Cmp(o Number) int {
	switch {
	case n.neg && !o.neg:
		return -1
	case !n.neg && o.neg:
		return 1
	}
	lhs, rhs, _ := common(n, o)
	if n.neg {
		return rhs.Cmp(lhs)
	}
	return lhs.Cmp(rhs)
}

// Equal reports whether n and o denote the same rational.
func (n Number) Equal(o Number) bool { return n.Cmp(o) == 0 }

func (n Number) IsZero() bool     { return n.num.IsZero() }
func (n Number) IsNegative() bool { return n.neg }
func (n Number) IsInteger() bool  { return n.d().Equals64(1) }

// Float64 approximates n.
func (n Number) Float64() float64 {
	f := toFloat(n.num) / toFloat(n.d())
	if n.neg {
		return -f
	}
	return f
}

func toFloat(u uint128.Uint128) float64 {
	return float64(u.Hi)*math.Exp2(64) + float64(u.Lo)
}

// String renders integers exactly and other values as the shortest
// decimal that round-trips through float64.
func (n Number) String() string {
	if n.IsInteger() {
		if n.neg {
			return "-" + n.num.String()
		}
		return n.num.String()
	}
	return strconv.FormatFloat(n.Float64(), 'f', -1, 64)
}

// Ratio renders n as numerator/denominator.
func (n Number) Ratio() string {
	sign := ""
	if n.neg {
		sign = "-"
	}
	return fmt.Sprintf("%s%s/%s", sign, n.num, n.d())
}
