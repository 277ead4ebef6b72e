package shape

import (
	"testing"

	"github.com/npillmayer/glyphrun/font"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// --- Test doubles ----------------------------------------------------------

// fakeRules is a scripted rule-table collaborator recording phase calls.
type fakeRules struct {
	subCalls   int
	posCalls   int
	applied    []font.Tag
	supplement bool
	substitute func(run *GlyphRun)
}

func (r *fakeRules) Substitute(run *GlyphRun) {
	r.subCalls++
	if r.substitute != nil {
		r.substitute(run)
	}
}

func (r *fakeRules) Position(run *GlyphRun) ([]font.Tag, bool) {
	r.posCalls++
	return r.applied, r.supplement
}

// fakeMachine is a scripted state-machine collaborator.
type fakeMachine struct {
	subCalls   int
	substitute func(run *GlyphRun)
}

func (m *fakeMachine) Substitute(run *GlyphRun) {
	m.subCalls++
	if m.substitute != nil {
		m.substitute(run)
	}
}

// countingKerner wraps the kern fallback contract and counts invocations.
type countingKerner struct {
	calls int
	inner KernProcessor
}

func (k *countingKerner) Kern(run *GlyphRun) {
	k.calls++
	if k.inner != nil {
		k.inner.Kern(run)
	}
}

// --- Test Suite Preparation ------------------------------------------------

type EngineTestEnviron struct {
	suite.Suite
}

// listen for 'go test' command --> run test methods
func TestEngineFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphrun.shape")
	defer teardown()
	suite.Run(t, new(EngineTestEnviron))
}

// --- Tests -----------------------------------------------------------------

func (env *EngineTestEnviron) TestBackendSelection() {
	cases := []struct {
		machine, rules bool
		backend        string
	}{
		{true, true, "statemachine"}, // state machine wins over rule tables
		{true, false, "statemachine"},
		{false, true, "ruletable"},
		{false, false, "none"},
	}
	for _, c := range cases {
		e, err := NewEngine(&fakeFont{machine: c.machine, rules: c.rules})
		env.Require().NoError(err)
		env.Equal(c.backend, e.Backend().Name())
	}
}

func (env *EngineTestEnviron) TestNilFont() {
	_, err := NewEngine(nil)
	env.ErrorIs(err, ErrNilFont)
}

func (env *EngineTestEnviron) TestEmptyInputShortCircuits() {
	rules := &fakeRules{}
	e, err := NewEngine(&fakeFont{rules: true}, WithRuleShaper(rules))
	env.Require().NoError(err)
	out, err := e.Layout("", Params{})
	env.Require().NoError(err)
	env.Empty(out)
	env.Zero(rules.subCalls, "no backend phase may run for empty input")
	env.Zero(rules.posCalls, "no backend phase may run for empty input")
}

func (env *EngineTestEnviron) TestLengthInvariants() {
	rules := &fakeRules{
		supplement: true,
		substitute: func(run *GlyphRun) {
			// ligate the first two units and insert a synthetic glyph
			lig := GlyphUnit{GID: 900, Codepoints: run.Glyphs[0].Codepoints, Offset: run.Glyphs[0].Offset}
			rest := run.Glyphs[2:]
			run.Glyphs = append([]GlyphUnit{lig, {GID: 901, Codepoints: []rune{0}, Offset: lig.Offset}}, rest...)
		},
	}
	e, err := NewEngine(&fakeFont{rules: true}, WithRuleShaper(rules))
	env.Require().NoError(err)
	run, err := e.LayoutRun(u16("ABCD"), Params{})
	env.Require().NoError(err)
	env.Equal(4, run.Len(), "4 units - 2 ligated + 1 ligature + 1 inserted")
	env.Len(run.Positions, run.Len())
	env.Len(run.Offsets, run.Len())
}

func (env *EngineTestEnviron) TestInitialAdvances() {
	f := &fakeFont{advances: map[font.GlyphID]int32{'A': 42}}
	e, err := NewEngine(f)
	env.Require().NoError(err)
	run, err := e.LayoutRun(u16("AB"), Params{})
	env.Require().NoError(err)
	env.EqualValues(42, run.Positions[0].XAdvance)
	env.EqualValues(10, run.Positions[1].XAdvance)
}

func (env *EngineTestEnviron) TestKernFallbackRuns() {
	f := &fakeFont{kern: true, pairs: map[[2]font.GlyphID]int32{
		{'A', 'B'}: -2,
	}}
	kerner := &countingKerner{inner: &pairKernProcessor{pairs: f}}
	e, err := NewEngine(f, WithKernProcessor(kerner))
	env.Require().NoError(err)
	run, err := e.LayoutRun(u16("AB"), Params{})
	env.Require().NoError(err)
	env.Equal(1, kerner.calls, "legacy kerning must run exactly once per call")
	env.True(run.AppliedKerning)
	env.EqualValues(8, run.Positions[0].XAdvance)
	env.True(run.Positions[0].KernedLegacy)
	env.False(run.Positions[1].KernedLegacy)
}

func (env *EngineTestEnviron) TestBackendKernSuppressesLegacy() {
	f := &fakeFont{rules: true, kern: true}
	kerner := &countingKerner{}
	rules := &fakeRules{applied: []font.Tag{font.KernTag}}
	e, err := NewEngine(f, WithRuleShaper(rules), WithKernProcessor(kerner))
	env.Require().NoError(err)
	run, err := e.LayoutRun(u16("AB"), Params{})
	env.Require().NoError(err)
	env.Zero(kerner.calls, "backend handled kerning; legacy pass must not run")
	env.True(run.AppliedKerning)
}

func (env *EngineTestEnviron) TestCallerDisablesKern() {
	f := &fakeFont{kern: true, pairs: map[[2]font.GlyphID]int32{{'A', 'B'}: -2}}
	kerner := &countingKerner{}
	e, err := NewEngine(f, WithKernProcessor(kerner))
	env.Require().NoError(err)
	run, err := e.LayoutRun(u16("AB"), Params{
		Features: map[font.Tag]bool{font.KernTag: false},
	})
	env.Require().NoError(err)
	env.Zero(kerner.calls)
	env.False(run.AppliedKerning)
}

func (env *EngineTestEnviron) TestBothFallbacksAfterBackendPositioning() {
	// A backend may position and still ask for supplementary mark handling,
	// while kerning stays gated on the applied-tag set alone.
	f := &fakeFont{rules: true, kern: true, pairs: map[[2]font.GlyphID]int32{{'A', 'B'}: -3}}
	kerner := &countingKerner{inner: &pairKernProcessor{pairs: f}}
	rules := &fakeRules{applied: []font.Tag{font.T("mark")}, supplement: true}
	e, err := NewEngine(f, WithRuleShaper(rules), WithKernProcessor(kerner))
	env.Require().NoError(err)
	run, err := e.LayoutRun(u16("AB"), Params{})
	env.Require().NoError(err)
	env.Equal(1, rules.posCalls)
	env.Equal(1, kerner.calls, "kerning gates independently of backend positioning")
	env.True(run.AppliedKerning)
	env.EqualValues(7, run.Positions[0].XAdvance)
}

func (env *EngineTestEnviron) TestMarkFallbackPositioning() {
	e, err := NewEngine(&fakeFont{})
	env.Require().NoError(err)
	run, err := e.LayoutRun(u16("Á"), Params{}) // A + combining acute
	env.Require().NoError(err)
	env.Require().Equal(2, run.Len())
	env.EqualValues(0, run.Positions[1].XAdvance, "marks are zero-advanced")
	env.EqualValues(-10, run.Positions[1].XOffset, "mark pulled back over base")
}

func (env *EngineTestEnviron) TestIgnorableHiding() {
	e, err := NewEngine(&fakeFont{})
	env.Require().NoError(err)
	run, err := e.LayoutRun(u16("A­B"), Params{}) // soft hyphen
	env.Require().NoError(err)
	env.Require().Equal(3, run.Len())
	env.Equal(font.GlyphID(' '), run.Glyphs[1].GID, "hidden glyphs show the space glyph")
	env.EqualValues(0, run.Positions[1].XAdvance)
	env.EqualValues(0, run.Positions[1].YAdvance)
	env.Equal(1, run.Offsets[1], "source-index association stays intact")
}

func (env *EngineTestEnviron) TestStateMachineSubstitution() {
	machine := &fakeMachine{}
	e, err := NewEngine(&fakeFont{machine: true}, WithStateMachineShaper(machine))
	env.Require().NoError(err)
	_, err = e.LayoutRun(u16("AB"), Params{})
	env.Require().NoError(err)
	env.Equal(1, machine.subCalls)
}

func (env *EngineTestEnviron) TestOffsetsFollowClusters() {
	e, err := NewEngine(&fakeFont{})
	env.Require().NoError(err)
	run, err := e.LayoutRun(u16("\U0001F600A️"), Params{})
	env.Require().NoError(err)
	env.Equal([]int{0, 2}, run.Offsets)
}

func (env *EngineTestEnviron) TestRunContextResolution() {
	e, err := NewEngine(&fakeFont{})
	env.Require().NoError(err)
	run, err := e.LayoutRun(u16("עברית"), Params{Direction: bidi.Neutral})
	env.Require().NoError(err)
	env.Equal(language.MustParseScript("Hebr"), run.Script)
	env.Equal(bidi.RightToLeft, run.Direction)
}
