package shape

import (
	"github.com/npillmayer/glyphrun/font"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// GlyphUnit is one glyph-input item of a run: a resolved glyph ID together
// with the codepoint(s) that produced it and the UTF-16 code-unit offset of
// its cluster in the source text.
//
// Codepoints holds one or two entries; a second entry is always a variation
// selector trailing the base codepoint. Units are created by the cluster
// builder and may be freely inserted, removed or reordered by a backend's
// substitution phase.
type GlyphUnit struct {
	GID        font.GlyphID
	Codepoints []rune
	Offset     int
}

// GlyphPosition carries placement data for one glyph, in font design units.
// Positions are mutated in place by the positioning phases and stay aligned
// with the glyph sequence; they are never reordered independently.
type GlyphPosition struct {
	XAdvance, YAdvance int32
	XOffset, YOffset   int32
	KernedLegacy       bool // legacy pairwise kerning adjusted this glyph
}

// GlyphRun is the call-scoped shaping state. A run is exclusively owned by
// one layout call; backends mutate it in place.
//
// Alignment rule: after the positioning phase, len(Positions) equals
// len(Glyphs); after the final mapping step, len(Offsets) equals the final
// glyph count.
type GlyphRun struct {
	Script    language.Script
	Language  language.Tag
	Direction bidi.Direction

	// Features maps a feature tag to enabled/disabled. Absent tags count
	// as enabled. Only the kern tag is consulted by the engine itself;
	// everything else is passed through to the backend.
	Features map[font.Tag]bool

	Glyphs    []GlyphUnit
	Positions []GlyphPosition
	Offsets   []int

	// AppliedKerning records that the legacy kern processor ran for this
	// call (or that the backend reported kerning as handled).
	AppliedKerning bool

	// Scratch is backend-private per-call state, opaque to the engine.
	Scratch any
}

// Len returns the current glyph length of the run.
func (run *GlyphRun) Len() int {
	if run == nil {
		return 0
	}
	return len(run.Glyphs)
}

// EnsurePositions aligns position storage with the glyph sequence,
// preserving existing entries where indices overlap.
func (run *GlyphRun) EnsurePositions() {
	if run == nil || len(run.Positions) == len(run.Glyphs) {
		return
	}
	pos := make([]GlyphPosition, len(run.Glyphs))
	copy(pos, run.Positions)
	run.Positions = pos
}

// FeatureEnabled reports whether a feature tag is enabled for this run.
// Tags without an explicit entry default to enabled.
func (run *GlyphRun) FeatureEnabled(tag font.Tag) bool {
	if run == nil || run.Features == nil {
		return true
	}
	if on, ok := run.Features[tag]; ok {
		return on
	}
	return true
}

// ShapedGlyph is one output triple of a layout call: a renderable glyph
// with metrics, its final position, and the source-text offset (in UTF-16
// code units) of the cluster that produced it.
type ShapedGlyph struct {
	Glyph  font.Glyph
	Pos    GlyphPosition
	Offset int
}

// Params collects layout parameters for one call.
//
// All fields are optional: a zero Script is auto-detected from the text's
// dominant Unicode script, a zero Language stays unset, and a Neutral
// direction is resolved from the script.
type Params struct {
	Script    language.Script // 4-letter ISO 15924 script identifier
	Language  language.Tag    // BCP 47 language tag
	Direction bidi.Direction  // writing direction; bidi.Neutral = auto
	Features  map[font.Tag]bool
}
