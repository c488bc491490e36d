// Package word implements the 8-bit storage primitives of the SASVM
// machine: the wrap-on-overflow Cell, fixed-size Memory and Registers, and
// the 8-bit OctalFloat numeral format used by the addf opcode.
package word

import (
	"fmt"
	"strconv"
)

// Cell is an 8-bit word. The zero value is a cleared cell.
type Cell uint8

// wrap reduces an arbitrary integer into the 0..255 range the way a Cell
// write does, including for negative inputs.
func wrap(v int) uint8 {
	v %= 256
	if v < 0 {
		v += 256
	}
	return uint8(v)
}

// NewCell builds a Cell from an integer, wrapping modulo 256.
func NewCell(v int) Cell {
	return Cell(wrap(v))
}

// NewCellFromHex builds a Cell from a two-character hexadecimal string.
func NewCellFromHex(hexStr string) (Cell, error) {
	v, err := strconv.ParseInt(hexStr, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("word: invalid hex cell %q: %w", hexStr, err)
	}
	return NewCell(int(v)), nil
}

// Value returns the cell's value, 0-255.
func (c Cell) Value() int {
	return int(uint8(c))
}

// SetInt overwrites the cell with an integer value, wrapping modulo 256.
func (c *Cell) SetInt(v int) {
	*c = Cell(wrap(v))
}

// SetHex overwrites the cell from a two-character hexadecimal string.
func (c *Cell) SetHex(hexStr string) error {
	n, err := NewCellFromHex(hexStr)
	if err != nil {
		return err
	}
	*c = n
	return nil
}

// BinaryValue renders the cell as an 8-character "0"/"1" string.
func (c Cell) BinaryValue() string {
	return fmt.Sprintf("%08b", uint8(c))
}

// Hex renders the cell as two upper-case hex digits, zero-padded.
func (c Cell) Hex() string {
	return fmt.Sprintf("%02X", uint8(c))
}

func (c Cell) String() string {
	return c.Hex()
}
