package bytesize

import (
	"math/big"

	"github.com/pkg/errors"
)

// Errors returned by Parse. Every failure wraps one of these, so
// callers can tell them apart with errors.Is.
var (
	// ErrSyntax means the input was not a number with an optional
	// size suffix.
	ErrSyntax = errors.New("invalid size syntax")
	// ErrOverflow means the size does not fit in 64 bits.
	ErrOverflow = errors.New("size overflows 64 bits")
)

// Parse turns a string into a Size. It accepts a decimal number
// followed by an optional k|M|G|T|P|E|Z|Y suffix in either case, with
// "i" after the prefix selecting the binary (1024 based) multiplier
// and an optional trailing "b" or "B". Blanks between the number and
// the suffix are ignored, so "2gi", "1.5 MiB" and "103 k" all parse.
//
// The arithmetic is exact: the number is kept as a pair of integers
// and combined with the multiplier in a single division, rounding any
// fraction of a byte half to even. Results beyond 64 bits return
// ErrOverflow rather than wrapping, which also makes the zetta and
// yotta prefixes usable with small enough numbers.
func Parse(s string) (Size, error) {
	if s == "" {
		return 0, errors.Wrap(ErrSyntax, "empty string")
	}

	// Scan the number, recording the decimal point.
	point := -1
	ndigits := 0
	end := 0
scan:
	for ; end < len(s); end++ {
		switch c := s[end]; {
		case c >= '0' && c <= '9':
			ndigits++
		case c == '.':
			if point >= 0 {
				return 0, errors.Wrapf(ErrSyntax, "bad number %q", s)
			}
			point = end
		default:
			break scan
		}
	}
	if ndigits == 0 {
		return 0, errors.Wrapf(ErrSyntax, "bad number %q", s)
	}
	num, units := s[:end], s[end:]
	for len(units) > 0 && (units[0] == ' ' || units[0] == '\t') {
		units = units[1:]
	}

	// Parse the units, dropping the byte marker first.
	binary := false
	exp := 0
	if n := len(units); n > 0 && (units[n-1] == 'b' || units[n-1] == 'B') {
		units = units[:n-1]
	}
	if len(units) > 0 {
		switch rest := units[1:]; {
		case len(rest) == 0:
		case len(rest) == 1 && (rest[0] == 'i' || rest[0] == 'I'):
			binary = true
		default:
			return 0, errors.Wrapf(ErrSyntax, "bad suffix %q", units)
		}
		if exp = prefixExponent(units[0]); exp == 0 {
			return 0, errors.Wrapf(ErrSyntax, "bad suffix %q", units)
		}
	}

	// The number with the point removed is the numerator; frac counts
	// the digits after the point.
	frac := 0
	mantissa := num
	if point >= 0 {
		frac = len(num) - point - 1
		mantissa = num[:point] + num[point+1:]
	}
	v, ok := new(big.Int).SetString(mantissa, 10)
	if !ok {
		return 0, errors.Wrapf(ErrSyntax, "bad number %q", s)
	}
	if exp > 0 {
		m := prefixes[exp-1].Decimal
		if binary {
			m = prefixes[exp-1].Binary
		}
		v.Mul(v, m)
	}
	if frac > 0 {
		den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(frac)), nil)
		rem := new(big.Int)
		v.QuoRem(v, den, rem)
		// Round half to even on the exact remainder.
		rem.Lsh(rem, 1)
		if c := rem.Cmp(den); c > 0 || (c == 0 && v.Bit(0) == 1) {
			v.Add(v, big.NewInt(1))
		}
	}
	if !v.IsUint64() {
		return 0, errors.Wrapf(ErrOverflow, "parsing %q", s)
	}
	return Size(v.Uint64()), nil
}

// prefixExponent maps a prefix letter of either case to its power of
// 1000 (or of 1024 for binary units), or 0 if the letter is not an SI
// prefix.
func prefixExponent(c byte) int {
	for i := range prefixes {
		if c|0x20 == prefixes[i].Symbol|0x20 {
			return i + 1
		}
	}
	return 0
}
