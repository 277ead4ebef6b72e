/*
Package shape turns Unicode text into positioned glyph runs.

The package API is centered around [Engine] and [NewEngine]:
  - an engine is constructed once per font and selects a shaping backend
    from the font's capability flags,
  - [Engine.Layout] runs the fixed phase pipeline (setup, substitution,
    positioning, default-ignorable hiding, cleanup) and returns one
    (glyph, position, source offset) triple per output glyph,
  - fallback mark positioning and legacy pairwise kerning run when the
    selected backend leaves those concerns uncovered.

Backends are a closed set of variants — a state-machine shaping table, a
rule-table format, or none at all — dispatched through the [Backend]
interface with an explicit capability descriptor. Concrete rule
interpreters are external collaborators reached through the
[StateMachineShaper] and [RuleShaper] interfaces.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package shape

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer returns a trace sink for the shape package namespace.
func tracer() tracing.Trace {
	return tracing.Select("glyphrun.shape")
}

// assertInvariant panics when condition is false.
func assertInvariant(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
