/*
Package glyphrun converts Unicode text into positioned glyph runs.

The heavy lifting lives in the sub-packages:

▪︎ Package font declares the narrow contract a font has to fulfill for
layout: codepoint-to-glyph lookup, glyph metrics, and capability flags for
the shaping table formats it carries.

▪︎ Package shape implements the layout engine: cluster building, shaping
backend selection and the fixed phase pipeline, with layered fallbacks for
mark positioning and legacy pairwise kerning.

This root package wires concrete collaborators to those contracts: an
sfnt-backed font implementation, a rule-table shaper backed by the
HarfBuzz port of package textlayout, and convenience entry points for the
common one-font one-run case.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package glyphrun

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer returns a trace sink for the glyphrun package namespace.
func tracer() tracing.Trace {
	return tracing.Select("glyphrun")
}

// errFont produces user level errors for font handling.
func errFont(message string) error {
	return fmt.Errorf("glyphrun font: %s", message)
}
