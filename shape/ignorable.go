package shape

// IsDefaultIgnorable reports whether cp should render with zero visible
// width even though it has a resolvable glyph.
//
// The classification deliberately diverges from the Unicode
// Default_Ignorable_Code_Point property by excluding the Hangul filler
// characters U+115F, U+1160, U+3164 and U+FFA0, matching established
// shaping-engine convention.
func IsDefaultIgnorable(cp rune) bool {
	switch cp >> 16 { // plane
	case 0:
		switch (cp >> 8) & 0xff {
		case 0x00:
			return cp == 0x00AD
		case 0x03:
			return cp == 0x034F
		case 0x06:
			return cp == 0x061C
		case 0x17:
			return cp >= 0x17B4 && cp <= 0x17B5
		case 0x18:
			return cp >= 0x180B && cp <= 0x180E
		case 0x20:
			return (cp >= 0x200B && cp <= 0x200F) ||
				(cp >= 0x202A && cp <= 0x202E) ||
				(cp >= 0x2060 && cp <= 0x206F)
		case 0xFE:
			return (cp >= 0xFE00 && cp <= 0xFE0F) || cp == 0xFEFF
		case 0xFF:
			return cp >= 0xFFF0 && cp <= 0xFFF8
		}
		return false
	case 1:
		return (cp >= 0x1BCA0 && cp <= 0x1BCA3) ||
			(cp >= 0x1D173 && cp <= 0x1D17A)
	case 0x0E:
		return cp >= 0xE0000 && cp <= 0xE0FFF
	}
	return false
}
