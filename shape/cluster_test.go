package shape

import (
	"testing"
	"unicode/utf16"

	"github.com/npillmayer/glyphrun/font"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

// fakeFont is a deterministic in-memory font: every codepoint maps to a
// glyph ID equal to its low 16 bits, base+selector pairs resolve through
// an explicit variant map, and every glyph has advance 10 unless
// configured otherwise.
type fakeFont struct {
	machine  bool
	rules    bool
	kern     bool
	variants map[[2]rune]font.GlyphID
	pairs    map[[2]font.GlyphID]int32
	advances map[font.GlyphID]int32
	bounds   map[font.GlyphID]font.BBox
}

func (f *fakeFont) GlyphIndex(r rune) font.GlyphID {
	return font.GlyphID(uint16(r))
}

func (f *fakeFont) GlyphVariant(base, selector rune) font.GlyphID {
	if gid, ok := f.variants[[2]rune{base, selector}]; ok {
		return gid
	}
	return f.GlyphIndex(base)
}

func (f *fakeFont) Glyph(gid font.GlyphID) font.Glyph {
	g := font.Glyph{GID: gid, Advance: 10}
	if adv, ok := f.advances[gid]; ok {
		g.Advance = adv
	}
	if box, ok := f.bounds[gid]; ok {
		g.Bounds = box
	}
	return g
}

func (f *fakeFont) HasStateMachineShaping() bool { return f.machine }
func (f *fakeFont) HasRuleShaping() bool         { return f.rules }
func (f *fakeFont) HasKernTable() bool           { return f.kern }

func (f *fakeFont) KernPair(left, right font.GlyphID) int32 {
	return f.pairs[[2]font.GlyphID{left, right}]
}

func (f *fakeFont) RunesForGlyph(gid font.GlyphID) []rune {
	return []rune{rune(gid)}
}

func u16(text string) []uint16 {
	return utf16.Encode([]rune(text))
}

func TestClusterVariationSelector(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphrun.shape")
	defer teardown()
	f := &fakeFont{variants: map[[2]rune]font.GlyphID{
		{'A', 0xFE0F}: 900,
	}}
	units := BuildClusters(f, u16("A️B"))
	assert.Len(t, units, 2, "base + VS must form a single unit")
	assert.Equal(t, []rune{'A', 0xFE0F}, units[0].Codepoints)
	assert.Equal(t, font.GlyphID(900), units[0].GID, "variant lookup expected")
	assert.Equal(t, 0, units[0].Offset)
	assert.Equal(t, []rune{'B'}, units[1].Codepoints)
	assert.Equal(t, 2, units[1].Offset, "offset is in code units")
}

func TestClusterSupplementaryVariationSelector(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphrun.shape")
	defer teardown()
	f := &fakeFont{}
	units := BuildClusters(f, u16("一\U000E0100")) // base + VS17
	assert.Len(t, units, 1)
	assert.Equal(t, []rune{0x4E00, 0xE0100}, units[0].Codepoints)
}

func TestClusterOrdinaryPair(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphrun.shape")
	defer teardown()
	units := BuildClusters(&fakeFont{}, u16("AB"))
	assert.Len(t, units, 2, "ordinary codepoints must stay separate units")
	for _, u := range units {
		assert.Len(t, u.Codepoints, 1)
	}
}

func TestClusterSurrogatePair(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphrun.shape")
	defer teardown()
	units := BuildClusters(&fakeFont{}, u16("\U0001F600A")) // emoji + A
	assert.Len(t, units, 2)
	assert.Equal(t, rune(0x1F600), units[0].Codepoints[0])
	assert.Equal(t, 0, units[0].Offset)
	assert.Equal(t, 2, units[1].Offset, "surrogate pair occupies two code units")
}

func TestClusterLoneSurrogate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphrun.shape")
	defer teardown()
	units := BuildClusters(&fakeFont{}, []uint16{0xD83D, 'A'}) // unpaired high surrogate
	assert.Len(t, units, 2, "lone surrogate is its own scalar, not an error")
	assert.Equal(t, rune(0xD83D), units[0].Codepoints[0])
	assert.Equal(t, rune('A'), units[1].Codepoints[0])
}

func TestClusterEmpty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphrun.shape")
	defer teardown()
	assert.Empty(t, BuildClusters(&fakeFont{}, nil))
}

func TestClusterLeadingVariationSelector(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphrun.shape")
	defer teardown()
	units := BuildClusters(&fakeFont{}, u16("️A")) // VS with no base
	assert.Len(t, units, 2, "a selector without base becomes its own unit")
	assert.Equal(t, []rune{0xFE0F}, units[0].Codepoints)
}
