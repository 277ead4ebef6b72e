package shape

import (
	"github.com/npillmayer/glyphrun/font"
	"golang.org/x/text/language"
)

// uniqueList collects items preserving insertion order while rejecting
// repeats.
type uniqueList[T comparable] struct {
	items []T
	seen  map[T]bool
}

func (ul *uniqueList[T]) add(item T) {
	if ul.seen[item] {
		return
	}
	if ul.seen == nil {
		ul.seen = make(map[T]bool)
	}
	ul.seen[item] = true
	ul.items = append(ul.items, item)
}

// Features enumerates the feature tags available for a script/language:
// the backend's tags in backend order, with a synthetic kern tag appended
// when the font carries a legacy kern table and the backend did not
// already report it. The result never contains duplicates.
func (e *Engine) Features(script language.Script, lang language.Tag) []font.Tag {
	var list uniqueList[font.Tag]
	if e.backend.Capabilities().Has(CanQueryFeatures) {
		for _, tag := range e.backend.AvailableFeatures(script, lang) {
			list.add(tag)
		}
	}
	if e.font.HasKernTable() {
		list.add(font.KernTag)
	}
	return list.items
}

// TextForGlyph returns the deduplicated textual origins of a glyph: every
// codepoint the font's codepoint map resolves to it, plus any origins the
// backend reports for substitution-only glyphs. Order is not significant.
func (e *Engine) TextForGlyph(gid font.GlyphID) []string {
	var list uniqueList[string]
	for _, r := range e.font.RunesForGlyph(gid) {
		list.add(string(r))
	}
	if e.backend.Capabilities().Has(CanMapGlyphsBack) {
		for _, s := range e.backend.StringsForGlyph(gid) {
			list.add(s)
		}
	}
	return list.items
}
