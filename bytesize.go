// Package bytesize renders byte counts as short human-readable strings
// using decimal SI prefixes, and parses them back.
package bytesize

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strconv"
)

// Size is a byte count with a friendly way of printing and parsing
type Size uint64

// Common multipliers for Size
const (
	Byte Size = 1

	// Decimal (SI) multipliers
	Kilo = 1000 * Byte
	Mega = 1000 * Kilo
	Giga = 1000 * Mega
	Tera = 1000 * Giga
	Peta = 1000 * Tera
	Exa  = 1000 * Peta

	// Binary (IEC) multipliers
	Kibi = 1024 * Byte
	Mebi = 1024 * Kibi
	Gibi = 1024 * Mebi
	Tebi = 1024 * Gibi
	Pebi = 1024 * Tebi
	Exbi = 1024 * Pebi
)

// One entry per SI magnitude, kilo through yotta. The multipliers are
// big.Ints because zetta and yotta exceed 64 bits in both bases.
var prefixes = []struct {
	Symbol  byte
	Decimal *big.Int // 1000^n
	Binary  *big.Int // 1024^n
}{
	{Symbol: 'k'},
	{Symbol: 'M'},
	{Symbol: 'G'},
	{Symbol: 'T'},
	{Symbol: 'P'},
	{Symbol: 'E'},
	{Symbol: 'Z'},
	{Symbol: 'Y'},
}

func init() {
	for i := range prefixes {
		n := big.NewInt(int64(i + 1))
		prefixes[i].Decimal = new(big.Int).Exp(big.NewInt(1000), n, nil)
		prefixes[i].Binary = new(big.Int).Exp(big.NewInt(1024), n, nil)
	}
}

// Turn Size into a three significant digit mantissa and an SI prefix,
// leaving the caller to append the unit. Sizes under 1000 come back
// as plain digits with an empty prefix.
//
// The rounding is half to even on the exact value: ties are detected
// with integer arithmetic only, so 999.5 k is promoted to 1.00 M while
// 952.5 M stays at 952 M.
func (x Size) string() (string, string) {
	if x < 1000 {
		return strconv.FormatUint(uint64(x), 10), ""
	}

	// Divide down until the leading slice is under 1000. After the
	// loop the value is (units + millis/1000) * 1000^(p+1), with
	// exact recording whether the digits below millis were all zero.
	units := uint64(x)
	var millis uint64
	p := 0
	exact := true
	for {
		millis = units % 1000
		units /= 1000
		if units < 1000 || p == len(prefixes)-1 {
			break
		}
		if millis > 0 {
			exact = false
		}
		p++
	}
	sym := string(prefixes[p].Symbol)

	switch {
	case units < 10:
		// Two digits after the point.
		frac := millis / 10
		rem := millis % 10
		if rem > 5 || (rem == 5 && (frac&1 != 0 || !exact)) {
			frac++
			if frac == 100 {
				frac = 0
				units++
				if units == 10 {
					return "10.0", sym
				}
			}
		}
		return fmt.Sprintf("%d.%02d", units, frac), sym
	case units < 100:
		// One digit after the point.
		frac := millis / 100
		rem := millis % 100
		if rem > 50 || (rem == 50 && (frac&1 != 0 || !exact)) {
			frac++
			if frac == 10 {
				frac = 0
				units++
				if units == 100 {
					return "100", sym
				}
			}
		}
		return fmt.Sprintf("%d.%d", units, frac), sym
	default:
		// No digits after the point.
		if millis > 500 || (millis == 500 && (units&1 != 0 || !exact)) {
			units++
		}
		if units >= 1000 && p+1 < len(prefixes) {
			return "1.00", string(prefixes[p+1].Symbol)
		}
		return strconv.FormatUint(units, 10), sym
	}
}

// String turns Size into a string with a byte unit, "1.00 kB" style,
// using three significant digits and a decimal SI prefix. Sizes under
// 1000 print as plain bytes with no decimal point, "999 B" style.
func (x Size) String() string {
	val, prefix := x.string()
	return val + " " + prefix + "B"
}

// Set a Size from a string. It is part of the flag.Value and
// pflag.Value interfaces.
func (x *Size) Set(s string) error {
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*x = v
	return nil
}

// Type of the value
func (x Size) Type() string {
	return "Size"
}

// Scan implements the fmt.Scanner interface
func (x *Size) Scan(s fmt.ScanState, ch rune) error {
	token, err := s.Token(true, nil)
	if err != nil {
		return err
	}
	return x.Set(string(token))
}

// UnmarshalJSON makes sure the value can be parsed as a string or
// integer in JSON
func (x *Size) UnmarshalJSON(in []byte) error {
	// Try to parse as string first
	var s string
	err := json.Unmarshal(in, &s)
	if err == nil {
		return x.Set(s)
	}
	// If that fails parse as integer
	var i uint64
	err = json.Unmarshal(in, &i)
	if err != nil {
		return err
	}
	*x = Size(i)
	return nil
}

// SizeList is a slice of Size values
type SizeList []Size

func (l SizeList) Len() int           { return len(l) }
func (l SizeList) Swap(i, j int)      { l[i], l[j] = l[j], l[i] }
func (l SizeList) Less(i, j int) bool { return l[i] < l[j] }

// Sort sorts the list
func (l SizeList) Sort() {
	sort.Sort(l)
}
