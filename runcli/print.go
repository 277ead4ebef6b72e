package main

import (
	"fmt"

	"github.com/npillmayer/glyphrun/shape"
	"github.com/pterm/pterm"
)

// printRun prints one row per output triple of a layout call.
func printRun(glyphs []shape.ShapedGlyph) {
	pterm.Printf("run has %d glyphs\n", len(glyphs))
	rows := pterm.TableData{
		{"#", "GID", "x-advance", "x-offset", "y-offset", "kerned", "offset"},
	}
	for i, g := range glyphs {
		kerned := ""
		if g.Pos.KernedLegacy {
			kerned = "kern"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", g.Glyph.GID),
			fmt.Sprintf("%d", g.Pos.XAdvance),
			fmt.Sprintf("%d", g.Pos.XOffset),
			fmt.Sprintf("%d", g.Pos.YOffset),
			kerned,
			fmt.Sprintf("%d", g.Offset),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		pterm.Error.Println(err.Error())
	}
}
