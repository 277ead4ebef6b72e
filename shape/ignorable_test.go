package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIgnorable(t *testing.T) {
	cases := []struct {
		cp   rune
		want bool
	}{
		{0x00AD, true},  // soft hyphen
		{0x00AC, false},
		{0x00AE, false},
		{0x0041, false}, // 'A'
		{0x034F, true},  // combining grapheme joiner
		{0x034E, false},
		{0x0350, false},
		{0x061C, true}, // Arabic letter mark
		{0x17B3, false},
		{0x17B4, true},
		{0x17B5, true},
		{0x17B6, false},
		{0x180A, false},
		{0x180B, true},
		{0x180E, true},
		{0x180F, false},
		{0x200A, false},
		{0x200B, true}, // zero width space
		{0x200F, true},
		{0x2010, false},
		{0x2029, false},
		{0x202A, true},
		{0x202E, true},
		{0x202F, false},
		{0x205F, false},
		{0x2060, true},
		{0x206F, true},
		{0x2070, false},
		{0xFDFF, false},
		{0xFE00, true}, // variation selectors
		{0xFE0F, true},
		{0xFE10, false},
		{0xFEFF, true}, // BOM / zero width no-break space
		{0xFFEF, false},
		{0xFFF0, true},
		{0xFFF8, true},
		{0xFFF9, false},
		{0x1BC9F, false},
		{0x1BCA0, true},
		{0x1BCA3, true},
		{0x1BCA4, false},
		{0x1D172, false},
		{0x1D173, true},
		{0x1D17A, true},
		{0x1D17B, false},
		{0xDFFFF, false},
		{0xE0000, true}, // tag characters
		{0xE0001, true},
		{0xE0FFF, true},
		{0xE1000, false},
		// Hangul fillers are deliberately NOT ignorable here
		{0x115F, false},
		{0x1160, false},
		{0x3164, false},
		{0xFFA0, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsDefaultIgnorable(c.cp), "codepoint U+%04X", c.cp)
	}
}
