package shape

import (
	"errors"
	"sync"
	"unicode/utf16"

	"github.com/npillmayer/glyphrun/font"
	"golang.org/x/text/unicode/bidi"
)

var (
	// ErrNilFont indicates that no font collaborator was supplied.
	ErrNilFont = errors.New("glyphrun: nil font")
)

// Engine lays out text runs for one font. The backend is selected once at
// construction from the font's capability flags and never changes.
//
// An engine is safe for concurrent use on independent inputs: the font and
// backend are read-only after construction and the fallback components are
// initialized behind sync.Once.
type Engine struct {
	font    font.Font
	backend Backend

	markOnce sync.Once
	marks    MarkPositioner
	kernOnce sync.Once
	kerner   KernProcessor

	opts engineOptions
}

type engineOptions struct {
	machine StateMachineShaper
	rules   RuleShaper
	marks   MarkPositioner
	kerner  KernProcessor
}

// Option configures engine construction.
type Option func(*engineOptions)

// WithStateMachineShaper injects the interpreter for a font-embedded
// state-machine shaping table.
func WithStateMachineShaper(m StateMachineShaper) Option {
	return func(o *engineOptions) { o.machine = m }
}

// WithRuleShaper injects the interpreter for substitution/positioning rule
// tables.
func WithRuleShaper(r RuleShaper) Option {
	return func(o *engineOptions) { o.rules = r }
}

// WithMarkPositioner overrides the fallback mark positioner.
func WithMarkPositioner(mp MarkPositioner) Option {
	return func(o *engineOptions) { o.marks = mp }
}

// WithKernProcessor overrides the legacy kern processor.
func WithKernProcessor(kp KernProcessor) Option {
	return func(o *engineOptions) { o.kerner = kp }
}

// NewEngine creates a layout engine for a font.
//
// Backend selection is fixed: a state-machine shaping table wins over rule
// tables, and a font without either gets the none backend, which is a
// valid degraded mode rather than an error.
func NewEngine(f font.Font, opts ...Option) (*Engine, error) {
	if f == nil {
		return nil, ErrNilFont
	}
	e := &Engine{font: f}
	for _, opt := range opts {
		opt(&e.opts)
	}
	switch {
	case f.HasStateMachineShaping():
		e.backend = newStateMachineBackend(f, e.opts.machine)
	case f.HasRuleShaping():
		e.backend = newRuleTableBackend(f, e.opts.rules)
	default:
		e.backend = noneBackend{}
	}
	tracer().Infof("layout engine uses %q backend", e.backend.Name())
	return e, nil
}

// Backend returns the immutably selected shaping backend.
func (e *Engine) Backend() Backend {
	return e.backend
}

// markPositioner lazily initializes the fallback mark positioner.
func (e *Engine) markPositioner() MarkPositioner {
	e.markOnce.Do(func() {
		e.marks = e.opts.marks
		if e.marks == nil {
			e.marks = &unicodeMarkPositioner{font: e.font}
		}
	})
	return e.marks
}

// kernProcessor lazily initializes the legacy kern processor. It returns
// nil if the font supplies no pair lookup and no override was given.
func (e *Engine) kernProcessor() KernProcessor {
	e.kernOnce.Do(func() {
		e.kerner = e.opts.kerner
		if e.kerner == nil {
			if pairs, ok := e.font.(font.PairKerner); ok {
				e.kerner = &pairKernProcessor{pairs: pairs}
			}
		}
	})
	return e.kerner
}

// Layout shapes a Go string. The string is encoded to UTF-16 first, so all
// reported offsets are code-unit offsets, as text storage APIs expect.
func (e *Engine) Layout(text string, params Params) ([]ShapedGlyph, error) {
	return e.LayoutUTF16(utf16.Encode([]rune(text)), params)
}

// LayoutUTF16 shapes UTF-16 encoded text and returns one triple per output
// glyph. Empty input yields an empty result without invoking any backend
// phase.
func (e *Engine) LayoutUTF16(text []uint16, params Params) ([]ShapedGlyph, error) {
	run, err := e.LayoutRun(text, params)
	if err != nil {
		return nil, err
	}
	out := make([]ShapedGlyph, run.Len())
	for i, g := range run.Glyphs {
		out[i] = ShapedGlyph{
			Glyph:  e.font.Glyph(g.GID),
			Pos:    run.Positions[i],
			Offset: run.Offsets[i],
		}
	}
	return out, nil
}

// LayoutRun is the lower-level pipeline entry: it returns the full
// call-scoped run with glyph, position and offset sequences. The run is
// exclusively owned by the caller afterwards.
func (e *Engine) LayoutRun(text []uint16, params Params) (*GlyphRun, error) {
	if e == nil || e.font == nil {
		return nil, ErrNilFont
	}
	run := &GlyphRun{
		Script:    params.Script,
		Language:  params.Language,
		Direction: params.Direction,
		Features:  params.Features,
	}
	if len(text) == 0 {
		run.Positions = []GlyphPosition{}
		run.Offsets = []int{}
		return run, nil
	}
	resolveRunContext(run, text)

	run.Glyphs = BuildClusters(e.font, text)
	tracer().Debugf("layout of %d code units as %d clusters, script %s",
		len(text), len(run.Glyphs), run.Script)

	caps := e.backend.Capabilities()
	if caps.Has(CanSetup) {
		e.backend.Setup(run)
	}
	if caps.Has(CanSubstitute) {
		e.backend.Substitute(run)
	}

	e.position(run, caps)
	assertInvariant(len(run.Glyphs) == len(run.Positions), "glyph/position sequences out of sync")

	e.hideDefaultIgnorables(run)

	if caps.Has(CanCleanup) {
		e.backend.Cleanup(run)
	}

	run.Offsets = make([]int, len(run.Glyphs))
	for i, g := range run.Glyphs {
		run.Offsets[i] = g.Offset
	}
	return run, nil
}

// position runs the positioning phase: intrinsic advances first, then the
// backend's position operation if present, then the two independently
// gated fallbacks (mark positioning and legacy kerning).
func (e *Engine) position(run *GlyphRun, caps Capability) {
	run.Positions = make([]GlyphPosition, len(run.Glyphs))
	for i := range run.Glyphs {
		run.Positions[i].XAdvance = e.font.Glyph(run.Glyphs[i].GID).Advance
	}

	var applied []font.Tag
	needMarkFallback := true
	if caps.Has(CanPosition) {
		applied, needMarkFallback = e.backend.Position(run)
		run.EnsurePositions()
	}
	if needMarkFallback {
		e.markPositioner().PositionMarks(run)
	}

	// Legacy kerning is gated independently of mark positioning: a backend
	// may position marks yet leave kerning to the legacy table.
	if containsTag(applied, font.KernTag) {
		run.AppliedKerning = true
		return
	}
	if !run.FeatureEnabled(font.KernTag) || !e.font.HasKernTable() {
		return
	}
	if kp := e.kernProcessor(); kp != nil {
		kp.Kern(run)
		run.AppliedKerning = true
	}
}

// hideDefaultIgnorables overwrites invisible-but-present characters with
// the font's space glyph at zero advance, keeping offsets and source-index
// associations intact.
func (e *Engine) hideDefaultIgnorables(run *GlyphRun) {
	var spaceGID font.GlyphID
	haveSpace := false
	for i := range run.Glyphs {
		if !IsDefaultIgnorable(run.Glyphs[i].Codepoints[0]) {
			continue
		}
		if !haveSpace {
			spaceGID = e.font.GlyphIndex(' ')
			haveSpace = true
		}
		run.Glyphs[i].GID = spaceGID
		run.Positions[i].XAdvance = 0
		run.Positions[i].YAdvance = 0
	}
}

func containsTag(tags []font.Tag, tag font.Tag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// resolveRunContext fills in auto-detected script and direction for a run
// that did not specify them.
func resolveRunContext(run *GlyphRun, text []uint16) {
	if run.Script == zeroScript() {
		run.Script = DetectScriptUTF16(text)
	}
	if run.Direction == bidi.Neutral {
		run.Direction = directionForScript(run.Script)
	}
}
