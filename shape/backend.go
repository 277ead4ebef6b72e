package shape

import (
	"github.com/npillmayer/glyphrun/font"
	"golang.org/x/text/language"
)

// Capability describes which operations a backend actually implements.
// The engine consults the descriptor once per phase instead of doing
// ad hoc existence checks.
type Capability uint8

const (
	CanSetup Capability = 1 << iota
	CanSubstitute
	CanPosition
	CanCleanup
	CanQueryFeatures
	CanMapGlyphsBack
)

// Has reports whether all capabilities in mask are present.
func (c Capability) Has(mask Capability) bool {
	return c&mask == mask
}

// Backend is the shaping backend contract. A backend is selected once per
// engine, immutably, and must be safe for concurrent use on independent
// runs. All operations except Name and Capabilities are optional; callers
// gate each invocation on the capability descriptor.
type Backend interface {
	Name() string
	Capabilities() Capability

	// Setup prepares per-call state before substitution.
	Setup(run *GlyphRun)

	// Substitute mutates the glyph sequence in place; arbitrary length
	// change is allowed, but every surviving or inserted unit must keep a
	// derivable source offset.
	Substitute(run *GlyphRun)

	// Position mutates run.Positions and returns the feature tags it
	// handled. A true supplement return asks the engine to run fallback
	// mark positioning on top.
	Position(run *GlyphRun) (applied []font.Tag, supplement bool)

	// Cleanup releases per-call state after positioning.
	Cleanup(run *GlyphRun)

	// AvailableFeatures returns the feature tags the backend can apply
	// for a script/language, in backend order.
	AvailableFeatures(script language.Script, lang language.Tag) []font.Tag

	// StringsForGlyph returns textual origins of a glyph that are not
	// visible in the font's codepoint map (ligatures, contextual forms).
	StringsForGlyph(gid font.GlyphID) []string
}

// NoopBackend implements every optional Backend operation as a no-op.
// Concrete backends embed it and override what they support.
type NoopBackend struct{}

func (NoopBackend) Setup(*GlyphRun)      {}
func (NoopBackend) Substitute(*GlyphRun) {}
func (NoopBackend) Position(*GlyphRun) ([]font.Tag, bool) {
	return nil, true
}
func (NoopBackend) Cleanup(*GlyphRun) {}
func (NoopBackend) AvailableFeatures(language.Script, language.Tag) []font.Tag {
	return nil
}
func (NoopBackend) StringsForGlyph(font.GlyphID) []string {
	return nil
}

// --- Collaborator contracts ------------------------------------------------

// StateMachineShaper drives a font-embedded finite-state shaping table.
// It substitutes glyphs only; positioning stays with the engine fallbacks.
type StateMachineShaper interface {
	Substitute(run *GlyphRun)
}

// RuleShaper applies declarative substitution/positioning rule tables.
type RuleShaper interface {
	Substitute(run *GlyphRun)
	Position(run *GlyphRun) (applied []font.Tag, supplement bool)
}

// RunSetup is an optional collaborator extension for per-call setup.
type RunSetup interface {
	Setup(run *GlyphRun)
}

// RunCleanup is an optional collaborator extension for per-call cleanup.
type RunCleanup interface {
	Cleanup(run *GlyphRun)
}

// FeatureSource is an optional collaborator extension enumerating the
// feature tags available for a script/language.
type FeatureSource interface {
	AvailableFeatures(script language.Script, lang language.Tag) []font.Tag
}

// GlyphOrigins is an optional collaborator extension reporting textual
// origins of glyphs reached through substitution.
type GlyphOrigins interface {
	StringsForGlyph(gid font.GlyphID) []string
}

// --- None variant ----------------------------------------------------------

// noneBackend is the degraded mode for fonts without shaping tables:
// codepoint-mapped glyphs with fallback-only positioning.
type noneBackend struct {
	NoopBackend
}

func (noneBackend) Name() string             { return "none" }
func (noneBackend) Capabilities() Capability { return 0 }

// --- State-machine variant -------------------------------------------------

// stateMachineBackend adapts a StateMachineShaper collaborator. The table
// format embeds shaping logic in the font, so it is preferred over rule
// tables when both are present.
type stateMachineBackend struct {
	NoopBackend
	machine  StateMachineShaper
	setup    RunSetup
	cleanup  RunCleanup
	features FeatureSource
	origins  GlyphOrigins
}

func newStateMachineBackend(f font.Font, machine StateMachineShaper) *stateMachineBackend {
	b := &stateMachineBackend{machine: machine}
	if b.machine == nil {
		b.machine, _ = f.(StateMachineShaper)
	}
	b.setup, b.cleanup, b.features, b.origins = probeExtensions(b.machine, f)
	return b
}

func (b *stateMachineBackend) Name() string { return "statemachine" }

func (b *stateMachineBackend) Capabilities() Capability {
	var c Capability
	if b.machine != nil {
		c |= CanSubstitute
	}
	if b.setup != nil {
		c |= CanSetup
	}
	if b.cleanup != nil {
		c |= CanCleanup
	}
	if b.features != nil {
		c |= CanQueryFeatures
	}
	if b.origins != nil {
		c |= CanMapGlyphsBack
	}
	return c
}

func (b *stateMachineBackend) Setup(run *GlyphRun)      { b.setup.Setup(run) }
func (b *stateMachineBackend) Substitute(run *GlyphRun) { b.machine.Substitute(run) }
func (b *stateMachineBackend) Cleanup(run *GlyphRun)    { b.cleanup.Cleanup(run) }

func (b *stateMachineBackend) AvailableFeatures(script language.Script, lang language.Tag) []font.Tag {
	return b.features.AvailableFeatures(script, lang)
}

func (b *stateMachineBackend) StringsForGlyph(gid font.GlyphID) []string {
	return b.origins.StringsForGlyph(gid)
}

// --- Rule-table variant ----------------------------------------------------

// ruleTableBackend adapts a RuleShaper collaborator for fonts carrying
// substitution and/or positioning rule tables.
type ruleTableBackend struct {
	NoopBackend
	rules    RuleShaper
	setup    RunSetup
	cleanup  RunCleanup
	features FeatureSource
	origins  GlyphOrigins
}

func newRuleTableBackend(f font.Font, rules RuleShaper) *ruleTableBackend {
	b := &ruleTableBackend{rules: rules}
	if b.rules == nil {
		b.rules, _ = f.(RuleShaper)
	}
	b.setup, b.cleanup, b.features, b.origins = probeExtensions(b.rules, f)
	return b
}

func (b *ruleTableBackend) Name() string { return "ruletable" }

func (b *ruleTableBackend) Capabilities() Capability {
	var c Capability
	if b.rules != nil {
		c |= CanSubstitute | CanPosition
	}
	if b.setup != nil {
		c |= CanSetup
	}
	if b.cleanup != nil {
		c |= CanCleanup
	}
	if b.features != nil {
		c |= CanQueryFeatures
	}
	if b.origins != nil {
		c |= CanMapGlyphsBack
	}
	return c
}

func (b *ruleTableBackend) Setup(run *GlyphRun)      { b.setup.Setup(run) }
func (b *ruleTableBackend) Substitute(run *GlyphRun) { b.rules.Substitute(run) }
func (b *ruleTableBackend) Cleanup(run *GlyphRun)    { b.cleanup.Cleanup(run) }

func (b *ruleTableBackend) Position(run *GlyphRun) ([]font.Tag, bool) {
	return b.rules.Position(run)
}

func (b *ruleTableBackend) AvailableFeatures(script language.Script, lang language.Tag) []font.Tag {
	return b.features.AvailableFeatures(script, lang)
}

func (b *ruleTableBackend) StringsForGlyph(gid font.GlyphID) []string {
	return b.origins.StringsForGlyph(gid)
}

// probeExtensions resolves the optional per-call and query extensions from
// the collaborator first, then from the font value itself.
func probeExtensions(candidates ...any) (s RunSetup, c RunCleanup, f FeatureSource, o GlyphOrigins) {
	for _, cand := range candidates {
		if cand == nil {
			continue
		}
		if s == nil {
			s, _ = cand.(RunSetup)
		}
		if c == nil {
			c, _ = cand.(RunCleanup)
		}
		if f == nil {
			f, _ = cand.(FeatureSource)
		}
		if o == nil {
			o, _ = cand.(GlyphOrigins)
		}
	}
	return
}
