package glyphrun

import (
	"encoding/binary"
	"os"
	"sync"

	"github.com/npillmayer/glyphrun/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// SFNTFont implements the font collaborator contract on top of an SFNT
// container (TTF or OTF), parsed by golang.org/x/image/font/sfnt.
//
// Capability flags are derived from the container's table directory; glyph
// resolution and metrics go through the sfnt glyph APIs. sfnt has no
// format-14 cmap access, so variant lookups fall back to the base
// codepoint's mapping.
type SFNTFont struct {
	Fontname string
	Binary   []byte // raw data
	SFNT     *sfnt.Font

	hasMachine bool // morx/mort
	hasRules   bool // GSUB/GPOS
	hasKern    bool // kern

	mu  sync.Mutex // sfnt.Buffer is not safe for concurrent use
	buf sfnt.Buffer

	revOnce sync.Once
	reverse map[font.GlyphID][]rune
}

var _ font.Font = (*SFNTFont)(nil)
var _ font.PairKerner = (*SFNTFont)(nil)

// LoadFont loads an OpenType font (TTF or OTF) from a file.
func LoadFont(fontfile string) (*SFNTFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	return ParseFont(bytez)
}

// ParseFont loads an OpenType font (TTF or OTF) from memory. The input
// must not change afterwards for the font to stay usable.
func ParseFont(fbytes []byte) (*SFNTFont, error) {
	sf, err := sfnt.Parse(fbytes)
	if err != nil {
		return nil, err
	}
	f := &SFNTFont{Binary: fbytes, SFNT: sf}
	if name, err := sf.Name(nil, sfnt.NameIDFull); err == nil {
		f.Fontname = name
	}
	for _, tag := range tableDirectoryTags(fbytes) {
		switch tag {
		case "morx", "mort":
			f.hasMachine = true
		case "GSUB", "GPOS":
			f.hasRules = true
		case "kern":
			f.hasKern = true
		}
	}
	tracer().Debugf("loaded and parsed SFNT %s (machine=%v rules=%v kern=%v)",
		f.Fontname, f.hasMachine, f.hasRules, f.hasKern)
	return f, nil
}

// tableDirectoryTags lists the table tags of the (first) font in an SFNT
// stream. This is a directory walk only; table contents are never touched.
func tableDirectoryTags(data []byte) []string {
	if len(data) < 12 {
		return nil
	}
	base := uint32(0)
	if string(data[0:4]) == "ttcf" { // collection: use the first font
		if len(data) < 16 {
			return nil
		}
		base = binary.BigEndian.Uint32(data[12:16])
		if uint64(base)+12 > uint64(len(data)) {
			return nil
		}
	}
	n := int(binary.BigEndian.Uint16(data[base+4 : base+6]))
	tags := make([]string, 0, n)
	for i := 0; i < n; i++ {
		off := uint64(base) + 12 + uint64(i)*16
		if off+4 > uint64(len(data)) {
			break
		}
		tags = append(tags, string(data[off:off+4]))
	}
	return tags
}

// upm returns the font's units-per-em as the metric scale argument.
func (f *SFNTFont) upm() fixed.Int26_6 {
	return fixed.Int26_6(f.SFNT.UnitsPerEm())
}

// GlyphIndex resolves a codepoint through the font's cmap. Unmapped
// codepoints resolve to the undefined glyph.
func (f *SFNTFont) GlyphIndex(r rune) font.GlyphID {
	f.mu.Lock()
	defer f.mu.Unlock()
	gid, err := f.SFNT.GlyphIndex(&f.buf, r)
	if err != nil {
		return font.Undefined
	}
	return font.GlyphID(gid)
}

// GlyphVariant resolves a base plus variation selector. sfnt exposes no
// variant cmap, so this falls back to the base mapping.
func (f *SFNTFont) GlyphVariant(base, selector rune) font.GlyphID {
	return f.GlyphIndex(base)
}

// Glyph returns the renderable glyph with advance and ink box in design
// units.
func (f *SFNTFont) Glyph(gid font.GlyphID) font.Glyph {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := font.Glyph{GID: gid}
	if adv, err := f.SFNT.GlyphAdvance(&f.buf, sfnt.GlyphIndex(gid), f.upm(), xfont.HintingNone); err == nil {
		g.Advance = int32(adv)
	}
	if bounds, _, err := f.SFNT.GlyphBounds(&f.buf, sfnt.GlyphIndex(gid), f.upm(), xfont.HintingNone); err == nil {
		g.Bounds = font.BBox{
			MinX: int32(bounds.Min.X),
			MinY: int32(-bounds.Max.Y), // sfnt y grows downwards
			MaxX: int32(bounds.Max.X),
			MaxY: int32(-bounds.Min.Y),
		}
	}
	return g
}

// HasStateMachineShaping reports a morx/mort table in the directory.
func (f *SFNTFont) HasStateMachineShaping() bool { return f.hasMachine }

// HasRuleShaping reports a GSUB or GPOS table in the directory.
func (f *SFNTFont) HasRuleShaping() bool { return f.hasRules }

// HasKernTable reports a legacy kern table in the directory.
func (f *SFNTFont) HasKernTable() bool { return f.hasKern }

// KernPair looks up the pairwise advance adjustment for two glyphs.
func (f *SFNTFont) KernPair(left, right font.GlyphID) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	adj, err := f.SFNT.Kern(&f.buf, sfnt.GlyphIndex(left), sfnt.GlyphIndex(right), f.upm(), xfont.HintingNone)
	if err != nil {
		return 0
	}
	return int32(adj)
}

// RunesForGlyph enumerates the codepoints mapping to a glyph. The reverse
// cmap is built lazily on first use by scanning the assigned planes, and
// cached for the font's lifetime.
func (f *SFNTFont) RunesForGlyph(gid font.GlyphID) []rune {
	f.revOnce.Do(f.buildReverseCMap)
	return f.reverse[gid]
}

func (f *SFNTFont) buildReverseCMap() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reverse = make(map[font.GlyphID][]rune)
	// Planes 0 to 3, plane 14 (tags, variation selector supplement) and the
	// private-use planes. Planes 4 to 13 are unassigned and never mapped.
	spans := [][2]rune{
		{0x0020, 0xFFFD},
		{0x10000, 0x3FFFF},
		{0xE0000, 0xE01EF},
		{0xF0000, 0x10FFFD},
	}
	for _, span := range spans {
		for r := span[0]; r <= span[1]; r++ {
			if r >= 0xD800 && r <= 0xDFFF {
				continue
			}
			gid, err := f.SFNT.GlyphIndex(&f.buf, r)
			if err != nil || gid == 0 {
				continue
			}
			f.reverse[font.GlyphID(gid)] = append(f.reverse[font.GlyphID(gid)], r)
		}
	}
	tracer().Debugf("reverse codepoint map for %s holds %d glyphs", f.Fontname, len(f.reverse))
}
