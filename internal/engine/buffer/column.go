package buffer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// ColumnUnit names the unit a host editor uses for Point.Column.
type ColumnUnit uint8

const (
	// ColumnUTF16 counts UTF-16 code units (LSP and most GUI editors).
	ColumnUTF16 ColumnUnit = iota

	// ColumnBytes counts UTF-8 bytes.
	ColumnBytes

	// ColumnRunes counts Unicode code points.
	ColumnRunes

	// ColumnGraphemes counts user-perceived characters (grapheme clusters).
	ColumnGraphemes
)

// String returns the configuration name of the unit.
func (u ColumnUnit) String() string {
	switch u {
	case ColumnUTF16:
		return "utf16"
	case ColumnBytes:
		return "bytes"
	case ColumnRunes:
		return "runes"
	case ColumnGraphemes:
		return "graphemes"
	default:
		return "unknown"
	}
}

// ParseColumnUnit parses a unit name as used in configuration files.
// An empty string selects ColumnUTF16.
func ParseColumnUnit(s string) (ColumnUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf16", "utf-16":
		return ColumnUTF16, nil
	case "bytes", "byte", "utf8", "utf-8":
		return ColumnBytes, nil
	case "runes", "rune", "codepoints":
		return ColumnRunes, nil
	case "graphemes", "grapheme", "clusters":
		return ColumnGraphemes, nil
	default:
		return ColumnUTF16, fmt.Errorf("unknown column unit %q", s)
	}
}

// Width returns the length of s measured in this unit.
func (u ColumnUnit) Width(s string) uint32 {
	switch u {
	case ColumnBytes:
		return uint32(len(s))
	case ColumnRunes:
		return uint32(utf8.RuneCountInString(s))
	case ColumnGraphemes:
		return uint32(uniseg.GraphemeClusterCount(s))
	default:
		return utf16Width(s)
	}
}

// utf16Width counts UTF-16 code units in a string.
func utf16Width(s string) uint32 {
	var col uint32
	for _, r := range s {
		if r >= 0x10000 {
			col += 2 // Surrogate pair
		} else {
			col++
		}
	}
	return col
}
