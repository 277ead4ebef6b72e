package shape

import (
	"unicode"

	"github.com/npillmayer/glyphrun/font"
	"golang.org/x/text/unicode/norm"
)

// MarkPositioner adjusts combining-mark offsets in place when the backend
// does not position marks (or asks for supplementary positioning).
type MarkPositioner interface {
	PositionMarks(run *GlyphRun)
}

// KernProcessor adjusts advances in place from pairwise kerning lookups.
type KernProcessor interface {
	Kern(run *GlyphRun)
}

// Canonical combining classes for attachment below/above the base.
const (
	cccBelow = 220
	cccAbove = 230
)

// unicodeMarkPositioner is the default fallback: nonspacing marks are
// zero-advanced and centered over the ink of the preceding base glyph,
// shifted vertically for below- and above-attaching combining classes.
type unicodeMarkPositioner struct {
	font font.Font
}

func (mp *unicodeMarkPositioner) PositionMarks(run *GlyphRun) {
	lastBase := -1
	for i := range run.Glyphs {
		cp := run.Glyphs[i].Codepoints[0]
		if !unicode.Is(unicode.Mn, cp) || lastBase < 0 {
			lastBase = i
			continue
		}
		base := mp.font.Glyph(run.Glyphs[lastBase].GID)
		mark := mp.font.Glyph(run.Glyphs[i].GID)
		pos := &run.Positions[i]
		pos.XOffset = -run.Positions[lastBase].XAdvance + (base.Advance-mark.Advance)/2
		pos.XAdvance = 0
		switch norm.NFD.PropertiesString(string(cp)).CCC() {
		case cccBelow:
			if d := mark.Bounds.MaxY - base.Bounds.MinY; d > 0 {
				pos.YOffset -= d
			}
		case cccAbove:
			if d := base.Bounds.MaxY - mark.Bounds.MinY; d > 0 {
				pos.YOffset += d
			}
		}
	}
}

// pairKernProcessor is the default legacy kern fallback, driven by the
// font's pairwise lookup. Adjusted glyphs get their position flagged.
type pairKernProcessor struct {
	pairs font.PairKerner
}

func (kp *pairKernProcessor) Kern(run *GlyphRun) {
	for i := 1; i < len(run.Glyphs); i++ {
		adj := kp.pairs.KernPair(run.Glyphs[i-1].GID, run.Glyphs[i].GID)
		if adj == 0 {
			continue
		}
		run.Positions[i-1].XAdvance += adj
		run.Positions[i-1].KernedLegacy = true
	}
}
