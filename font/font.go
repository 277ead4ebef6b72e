/*
Package font declares the font collaborator contract consumed by the
glyph-run layout engine.

The engine never parses font binaries itself; it talks to a [Font] value
that answers codepoint-to-glyph lookups, glyph metrics, and capability
questions about the shaping tables the font carries. Concrete
implementations live in the module root (an sfnt-backed font) or may be
supplied by clients.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package font

// GlyphID is a glyph index in a font. By convention glyph 0 is the
// font's "undefined glyph" (.notdef) and is a valid, renderable fallback.
type GlyphID uint16

// Undefined is the glyph ID for the .notdef glyph.
const Undefined = GlyphID(0)

// --- Tag -------------------------------------------------------------------

// Tag is a 4-byte identifier as used by font formats for tables, scripts,
// languages and layout features ("kern", "liga", …).
type Tag uint32

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate.
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(uint32(t[0])<<24 | uint32(t[1])<<16 | uint32(t[2])<<8 | uint32(t[3]))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// KernTag is the feature tag for pairwise kerning. The layout engine
// consults this tag when deciding whether to run the legacy kern fallback.
var KernTag = T("kern")

// --- Glyph -----------------------------------------------------------------

// BBox is a glyph bounding box in font design units, y growing upwards.
type BBox struct {
	MinX, MinY int32
	MaxX, MaxY int32
}

// Glyph is a renderable glyph together with its intrinsic metrics, in font
// design units.
type Glyph struct {
	GID     GlyphID
	Advance int32 // horizontal advance
	Bounds  BBox  // ink box; zero for blank glyphs
}

// --- Font contract ---------------------------------------------------------

// Font is the narrow contract the layout engine requires from a font.
//
// Implementations must be safe for concurrent read access after
// construction; the engine treats a Font as immutable.
type Font interface {
	// GlyphIndex resolves a codepoint through the font's codepoint map.
	// Unmapped codepoints resolve to [Undefined], never to an error.
	GlyphIndex(r rune) GlyphID

	// GlyphVariant resolves a base codepoint plus a variation selector.
	// Fonts without variant mappings fall back to GlyphIndex(base).
	GlyphVariant(base, selector rune) GlyphID

	// Glyph returns the renderable glyph with metrics for a glyph ID.
	Glyph(gid GlyphID) Glyph

	// HasStateMachineShaping reports presence of a state-machine shaping
	// table (AAT morx/mort class of formats).
	HasStateMachineShaping() bool

	// HasRuleShaping reports presence of rule-table substitution or
	// positioning (OpenType GSUB/GPOS class of formats); either table
	// alone is sufficient.
	HasRuleShaping() bool

	// HasKernTable reports presence of a legacy pairwise kern table.
	HasKernTable() bool

	// RunesForGlyph enumerates all codepoints the codepoint map resolves
	// to the given glyph ID. May be empty for glyphs only reachable
	// through substitution.
	RunesForGlyph(gid GlyphID) []rune
}

// PairKerner is the legacy kern table collaborator: a pairwise
// glyph-advance adjustment lookup in font design units.
//
// A Font implementation with a kern table will usually implement
// PairKerner as well; the engine probes for it with a type assertion.
type PairKerner interface {
	// KernPair returns the advance adjustment for the left glyph of the
	// pair, 0 if the pair is not kerned.
	KernPair(left, right GlyphID) int32
}
