package word

import (
	"fmt"
	"math"
	"strconv"
)

// octalFloatBias is the exponent bias of the OctalFloat format.
const octalFloatBias = 8

// OctalFloat is the 8-bit custom floating point format used by the addf
// opcode: 1 sign bit, 3-bit biased exponent (bias 8), 4-bit unsigned
// mantissa.
type OctalFloat struct {
	sign      uint8 // 0 or 1
	expBiased uint8 // 0-7
	mantissa  uint8 // 0-15
}

// NewOctalFloatFromHex parses a two-character hex byte into its OctalFloat
// bit fields.
func NewOctalFloatFromHex(hexStr string) (OctalFloat, error) {
	v, err := strconv.ParseUint(hexStr, 16, 8)
	if err != nil {
		return OctalFloat{}, fmt.Errorf("word: invalid OctalFloat hex %q: %w", hexStr, err)
	}
	return NewOctalFloatFromByte(uint8(v)), nil
}

// NewOctalFloatFromByte decodes a raw byte into its OctalFloat bit fields.
func NewOctalFloatFromByte(b uint8) OctalFloat {
	return OctalFloat{
		sign:      b >> 7,
		expBiased: (b >> 4) & 0x7,
		mantissa:  b & 0xF,
	}
}

// Byte repacks the bit fields into their raw 8-bit encoding.
func (f OctalFloat) Byte() uint8 {
	return (f.sign << 7) | (f.expBiased << 4) | f.mantissa
}

// Hex renders the raw encoding as two upper-case hex digits.
func (f OctalFloat) Hex() string {
	return fmt.Sprintf("%02X", f.Byte())
}

// Int returns the underlying 8-bit integer encoding (not the floating
// value) — this is what addf writes back into a register.
func (f OctalFloat) Int() int {
	return int(f.Byte())
}

// Exponent returns the unbiased exponent.
func (f OctalFloat) Exponent() int {
	return int(f.expBiased) - octalFloatBias
}

func (f OctalFloat) signValue() int {
	if f.sign == 1 {
		return -1
	}
	return 1
}

// Float64 converts the OctalFloat to its real numeric value:
// (-1)^sign * mantissa * 2^(exponent).
func (f OctalFloat) Float64() float64 {
	return float64(f.signValue()) * float64(f.mantissa) * math.Pow(2, float64(f.Exponent()))
}

// RightShift4 aligns a 4-bit mantissa by shifting it right y positions,
// discarding the low-order bits that fall off. y is clamped to 0..4.
func RightShift4(mantissa uint8, y int) uint8 {
	if y <= 0 {
		return mantissa & 0xF
	}
	if y >= 4 {
		return 0
	}
	return (mantissa & 0xF) >> uint(y)
}

// Add computes f + other following the documented alignment algorithm:
// the operand with the smaller exponent has its mantissa right-shifted by
// the exponent difference, the aligned magnitudes are summed as signed
// integers, and the result is re-packed with the larger exponent. Overflow
// of the signed sum truncates to the low 4 bits of the magnitude; this is
// the intended pedagogical behavior, not a bug to guard against.
func (f OctalFloat) Add(other OctalFloat) OctalFloat {
	diff := other.Exponent() - f.Exponent()

	var operatedMantissa uint8
	var operatedSign, operandMantissa, operandSign int
	if diff >= 0 {
		operatedMantissa = RightShift4(f.mantissa, diff)
		operatedSign = f.signValue()
		operandMantissa = int(other.mantissa)
		operandSign = other.signValue()
	} else {
		operatedMantissa = RightShift4(other.mantissa, -diff)
		operatedSign = other.signValue()
		operandMantissa = int(f.mantissa)
		operandSign = f.signValue()
	}

	whole := int(operatedMantissa)*operatedSign + operandMantissa*operandSign

	newSign := uint8(0)
	magnitude := whole
	if whole < 0 {
		newSign = 1
		magnitude = -whole
	}

	resultExponent := f.Exponent()
	if other.Exponent() > resultExponent {
		resultExponent = other.Exponent()
	}

	return OctalFloat{
		sign:      newSign,
		expBiased: uint8(resultExponent+octalFloatBias) & 0x7,
		mantissa:  uint8(magnitude) & 0xF,
	}
}
