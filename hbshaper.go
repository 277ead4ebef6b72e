package glyphrun

import (
	"bytes"
	"encoding/binary"
	"unicode"

	hbtt "github.com/benoitkugler/textlayout/fonts/truetype"
	hb "github.com/benoitkugler/textlayout/harfbuzz"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/npillmayer/glyphrun/font"
	"github.com/npillmayer/glyphrun/shape"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// HarfBuzzShaper is the rule-table collaborator: it interprets a font's
// substitution/positioning rule tables through the HarfBuzz port of
// package textlayout.
//
// The port shapes substitution and positioning in one pass, so Substitute
// runs the full shape and parks the shaped buffer as per-call scratch;
// Position then installs the buffered placements. The port applies
// kerning itself, which Position reports to the engine.
type HarfBuzzShaper struct {
	font *hb.Font
}

var _ shape.RuleShaper = (*HarfBuzzShaper)(nil)
var _ shape.RunCleanup = (*HarfBuzzShaper)(nil)

// NewHarfBuzzShaper parses raw font bytes into a shaping font.
func NewHarfBuzzShaper(fbytes []byte) (*HarfBuzzShaper, error) {
	face, err := hbtt.Parse(bytes.NewReader(fbytes), true)
	if err != nil {
		return nil, err
	}
	return &HarfBuzzShaper{font: hb.NewFont(face)}, nil
}

// Substitute shapes the run's codepoint stream and replaces the glyph
// sequence, mapping every output glyph back to the source offset of the
// cluster it came from.
func (s *HarfBuzzShaper) Substitute(run *shape.GlyphRun) {
	runes, offsets := runeStream(run)
	if len(runes) == 0 {
		return
	}
	buf := hb.NewBuffer()
	buf.Props = segmentProperties(run)
	buf.AddRunes(runes, 0, len(runes))
	buf.Shape(s.font, runFeatures(run, len(runes)))

	glyphs := make([]shape.GlyphUnit, len(buf.Info))
	for i, info := range buf.Info {
		cluster := info.Cluster
		if cluster < 0 || cluster >= len(runes) {
			cluster = 0
		}
		glyphs[i] = shape.GlyphUnit{
			GID:        font.GlyphID(info.Glyph),
			Codepoints: []rune{runes[cluster]},
			Offset:     offsets[cluster],
		}
	}
	run.Glyphs = glyphs
	run.Scratch = buf
}

// Position installs the placements shaped during Substitute. Without a
// shaped buffer it asks the engine for supplementary fallback positioning.
func (s *HarfBuzzShaper) Position(run *shape.GlyphRun) ([]font.Tag, bool) {
	buf, ok := run.Scratch.(*hb.Buffer)
	if !ok || len(buf.Pos) != run.Len() {
		return nil, true
	}
	run.EnsurePositions()
	for i := range buf.Pos {
		run.Positions[i] = shape.GlyphPosition{
			XAdvance: int32(buf.Pos[i].XAdvance),
			YAdvance: int32(buf.Pos[i].YAdvance),
			XOffset:  int32(buf.Pos[i].XOffset),
			YOffset:  int32(buf.Pos[i].YOffset),
		}
	}
	return []font.Tag{font.KernTag}, false
}

// Cleanup drops the per-call scratch buffer.
func (s *HarfBuzzShaper) Cleanup(run *shape.GlyphRun) {
	run.Scratch = nil
}

// runeStream flattens the run's glyph units into the rune stream to shape,
// with a parallel source-offset entry per rune.
func runeStream(run *shape.GlyphRun) (runes []rune, offsets []int) {
	runes = make([]rune, 0, len(run.Glyphs))
	offsets = make([]int, 0, len(run.Glyphs))
	for _, g := range run.Glyphs {
		for _, cp := range g.Codepoints {
			runes = append(runes, cp)
			offsets = append(offsets, g.Offset)
		}
	}
	return runes, offsets
}

func segmentProperties(run *shape.GlyphRun) hb.SegmentProperties {
	var props hb.SegmentProperties
	props.Direction = directionForHB(run.Direction)
	var none language.Script
	if run.Script != none {
		props.Script = scriptForHB(run.Script)
	}
	if run.Language != language.Und {
		props.Language = hblang.NewLanguage(run.Language.String())
	}
	return props
}

func runFeatures(run *shape.GlyphRun, length int) []hb.Feature {
	if len(run.Features) == 0 {
		return nil
	}
	feats := make([]hb.Feature, 0, len(run.Features))
	for tag, on := range run.Features {
		f := hb.Feature{Tag: hbtt.Tag(tag), Start: 0, End: length}
		if on {
			f.Value = 1
		}
		feats = append(feats, f)
	}
	return feats
}

func directionForHB(d bidi.Direction) hb.Direction {
	if d == bidi.RightToLeft {
		return hb.RightToLeft
	}
	return hb.LeftToRight
}

// scriptForHB converts an ISO 15924 script to HarfBuzz's representation,
// which keeps the tag bytes with a lowercased first letter.
func scriptForHB(s language.Script) hblang.Script {
	b := []byte(s.String())
	b[0] = byte(unicode.ToLower(rune(b[0])))
	return hblang.Script(binary.BigEndian.Uint32(b))
}
