package shape

import (
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// scriptEntry binds a Unicode script range table to its ISO 15924 code.
// The list covers the scripts shaping clients realistically hand us; text
// outside of it counts as undetermined and resolves to Latin.
type scriptEntry struct {
	ranges *unicode.RangeTable
	code   string
}

var scriptTable = []scriptEntry{
	{unicode.Latin, "Latn"},
	{unicode.Greek, "Grek"},
	{unicode.Cyrillic, "Cyrl"},
	{unicode.Armenian, "Armn"},
	{unicode.Hebrew, "Hebr"},
	{unicode.Arabic, "Arab"},
	{unicode.Syriac, "Syrc"},
	{unicode.Thaana, "Thaa"},
	{unicode.Devanagari, "Deva"},
	{unicode.Bengali, "Beng"},
	{unicode.Gurmukhi, "Guru"},
	{unicode.Gujarati, "Gujr"},
	{unicode.Oriya, "Orya"},
	{unicode.Tamil, "Taml"},
	{unicode.Telugu, "Telu"},
	{unicode.Kannada, "Knda"},
	{unicode.Malayalam, "Mlym"},
	{unicode.Sinhala, "Sinh"},
	{unicode.Thai, "Thai"},
	{unicode.Lao, "Laoo"},
	{unicode.Tibetan, "Tibt"},
	{unicode.Myanmar, "Mymr"},
	{unicode.Georgian, "Geor"},
	{unicode.Hangul, "Hang"},
	{unicode.Ethiopic, "Ethi"},
	{unicode.Cherokee, "Cher"},
	{unicode.Khmer, "Khmr"},
	{unicode.Mongolian, "Mong"},
	{unicode.Hiragana, "Hira"},
	{unicode.Katakana, "Kana"},
	{unicode.Han, "Hani"},
}

// zeroScript is the unset script value callers use to request detection.
func zeroScript() language.Script {
	var none language.Script
	return none
}

// DetectScript returns the dominant Unicode script of text, ignoring
// codepoints with Common or Inherited script. Undetermined text resolves
// to Latin.
func DetectScript(text string) language.Script {
	return detectScript([]rune(text))
}

// DetectScriptUTF16 is DetectScript over UTF-16 encoded text.
func DetectScriptUTF16(text []uint16) language.Script {
	runes := make([]rune, 0, len(text))
	for i := 0; i < len(text); {
		cp, width := decodeUnit(text, i)
		runes = append(runes, cp)
		i += width
	}
	return detectScript(runes)
}

func detectScript(runes []rune) language.Script {
	counts := make([]int, len(scriptTable))
	for _, r := range runes {
		if unicode.In(r, unicode.Common, unicode.Inherited) {
			continue
		}
		for k := range scriptTable {
			if unicode.Is(scriptTable[k].ranges, r) {
				counts[k]++
				break
			}
		}
	}
	best, bestCount := -1, 0
	for k, n := range counts {
		if n > bestCount {
			best, bestCount = k, n
		}
	}
	if best < 0 {
		return language.MustParseScript("Latn")
	}
	return language.MustParseScript(scriptTable[best].code)
}

// rtlScripts lists the horizontally right-to-left scripts of scriptTable.
var rtlScripts = map[string]bool{
	"Arab": true,
	"Hebr": true,
	"Syrc": true,
	"Thaa": true,
}

// directionForScript resolves an auto direction from a script tag.
func directionForScript(script language.Script) bidi.Direction {
	if rtlScripts[script.String()] {
		return bidi.RightToLeft
	}
	return bidi.LeftToRight
}
