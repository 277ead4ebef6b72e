package glyphrun

import (
	"os"

	"github.com/npillmayer/glyphrun/shape"
)

// NewEngine assembles a layout engine for raw font bytes, wiring the
// HarfBuzz rule-table collaborator when the font carries rule tables.
//
// Fonts with a state-machine shaping table get the state-machine backend
// selected, but without an injected interpreter its substitution degrades
// to the identity; clients with a state-machine interpreter should build
// the engine through [shape.NewEngine] directly.
func NewEngine(fbytes []byte) (*shape.Engine, error) {
	f, err := ParseFont(fbytes)
	if err != nil {
		return nil, err
	}
	var opts []shape.Option
	if !f.HasStateMachineShaping() && f.HasRuleShaping() {
		rules, err := NewHarfBuzzShaper(fbytes)
		if err != nil {
			return nil, errFont(err.Error())
		}
		opts = append(opts, shape.WithRuleShaper(rules))
	}
	return shape.NewEngine(f, opts...)
}

// LayoutFile is a convenience API for the very common use-case of laying
// out one short piece of text with one font file: script and direction are
// auto-detected and all features stay at their defaults.
//
// Clients who need more control over shaping, such as shaping multiple
// runs or toggling features, need to use package shape directly.
func LayoutFile(fontfile string, text string) ([]shape.ShapedGlyph, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	engine, err := NewEngine(bytez)
	if err != nil {
		return nil, err
	}
	return engine.Layout(text, shape.Params{})
}
