package shape

import (
	"github.com/npillmayer/glyphrun/font"
)

// Surrogate halves and variation-selector ranges, per the Unicode standard.
const (
	surrHighMin = 0xD800
	surrHighMax = 0xDBFF
	surrLowMin  = 0xDC00
	surrLowMax  = 0xDFFF

	vsBMPMin   = 0xFE00
	vsBMPMax   = 0xFE0F
	vsPlaneMin = 0xE0100
	vsPlaneMax = 0xE01EF
)

// IsVariationSelector reports whether cp selects an alternate glyph form
// for a preceding base codepoint.
func IsVariationSelector(cp rune) bool {
	return (cp >= vsBMPMin && cp <= vsBMPMax) || (cp >= vsPlaneMin && cp <= vsPlaneMax)
}

// decodeUnit decodes the codepoint starting at text[i], combining a high
// surrogate with an immediately following low surrogate. An unpaired
// surrogate is tolerated and returned as its own scalar value.
func decodeUnit(text []uint16, i int) (cp rune, width int) {
	u := text[i]
	if u >= surrHighMin && u <= surrHighMax && i+1 < len(text) {
		if lo := text[i+1]; lo >= surrLowMin && lo <= surrLowMax {
			cp = 0x10000 + (rune(u)-surrHighMin)<<10 + (rune(lo) - surrLowMin)
			return cp, 2
		}
	}
	return rune(u), 1
}

// BuildClusters scans UTF-16 encoded text left to right and emits one
// GlyphUnit per cluster, resolving glyph IDs through the font's codepoint
// map. A base codepoint followed by a variation selector forms a single
// two-codepoint unit, resolved through the variant lookup; every other
// codepoint forms a unit of its own. Offsets are code-unit offsets of the
// cluster start.
func BuildClusters(f font.Font, text []uint16) []GlyphUnit {
	if len(text) == 0 {
		return nil
	}
	units := make([]GlyphUnit, 0, len(text))
	pending := false // a scanned base codepoint waiting for a variation selector
	var pendingCP rune
	var pendingOff int
	i := 0
	for {
		if i >= len(text) { // extra iteration: flush a final pending base
			if pending {
				units = append(units, GlyphUnit{
					GID:        f.GlyphIndex(pendingCP),
					Codepoints: []rune{pendingCP},
					Offset:     pendingOff,
				})
			}
			break
		}
		cp, width := decodeUnit(text, i)
		if pending && IsVariationSelector(cp) {
			units = append(units, GlyphUnit{
				GID:        f.GlyphVariant(pendingCP, cp),
				Codepoints: []rune{pendingCP, cp},
				Offset:     pendingOff,
			})
			pending = false
			i += width
			continue
		}
		if pending {
			units = append(units, GlyphUnit{
				GID:        f.GlyphIndex(pendingCP),
				Codepoints: []rune{pendingCP},
				Offset:     pendingOff,
			})
		}
		pending, pendingCP, pendingOff = true, cp, i
		i += width
	}
	return units
}
