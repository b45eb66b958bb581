// Package preset maps a door classification (category x subtype x option) to
// the fixed offset values associated with it. The table is data-driven so the
// geometry engine stays classification-agnostic: it only consumes the
// resolved Overrides value.
package preset

import (
	"errors"
	"fmt"

	"github.com/framecut/framecut/internal/model"
)

// ErrInvalidClassification is returned when the classification is malformed
// or the option does not belong to the variant vocabulary of the category.
var ErrInvalidClassification = errors.New("invalid door classification")

// HalfClamp selects which glass margin is replaced by half the inner height.
type HalfClamp int

const (
	ClampNone        HalfClamp = iota
	ClampBottomToMid           // glass occupies the upper half (TopFixed)
	ClampTopToMid              // glass occupies the lower half (BottomFixed)
)

// GlassPreset holds the fixed margins of a glass cutout, in mm from the
// inner opening edges.
type GlassPreset struct {
	SideMargin   float64   `yaml:"side_margin" json:"side_margin"`
	TopMargin    float64   `yaml:"top_margin" json:"top_margin"`
	BottomMargin float64   `yaml:"bottom_margin" json:"bottom_margin"`
	Clamp        HalfClamp `yaml:"clamp" json:"clamp"`
	// PanelsPerLeaf is 1 for a single panel or 2 for stacked panels with a
	// fixed waist between them (the four-glass variants).
	PanelsPerLeaf int `yaml:"panels_per_leaf" json:"panels_per_leaf"`
}

// Overrides is the resolved preset for a classification. A nil Overrides
// means the classification carries no preset (plain normal doors use the
// user-supplied dimensions verbatim).
type Overrides struct {
	Name   string       `yaml:"name" json:"name"`
	Glass  *GlassPreset `yaml:"glass,omitempty" json:"glass,omitempty"`
	Keybox bool         `yaml:"keybox" json:"keybox"`
}

// Entry binds a classification to its overrides.
type Entry struct {
	Category  model.Category `yaml:"category" json:"category"`
	Subtype   model.Subtype  `yaml:"subtype" json:"subtype"`
	Option    model.Option   `yaml:"option" json:"option"`
	Overrides Overrides      `yaml:"overrides" json:"overrides"`
}

// Table resolves classifications to overrides.
type Table struct {
	entries map[key]Overrides
}

type key struct {
	category model.Category
	subtype  model.Subtype
	option   model.Option
}

// optionVocabulary lists the variant set each category exposes. The two
// vocabularies are not interchangeable: a single-only option used with a
// double door is an input error.
var optionVocabulary = map[model.Category]map[model.Option]bool{
	model.CategorySingle: {
		model.OptionStandard:    true,
		model.OptionTopFixed:    true,
		model.OptionBottomFixed: true,
		model.OptionFourGlass:   true,
	},
	model.CategoryDouble: {
		model.OptionStandard:       true,
		model.OptionStandardDouble: true,
		model.OptionFourGlass:      true,
	},
}

// optionRequired reports whether a subtype carries a sub-variant.
func optionRequired(sub model.Subtype) bool {
	return sub == model.SubtypeFire || sub == model.SubtypeGlass
}

// NewTable builds a resolver from explicit entries. Later entries replace
// earlier ones with the same classification.
func NewTable(entries []Entry) *Table {
	t := &Table{entries: make(map[key]Overrides, len(entries))}
	for _, e := range entries {
		t.entries[key{e.Category, e.Subtype, e.Option}] = e.Overrides
	}
	return t
}

// Resolve looks up the preset for a classification. It returns nil (and no
// error) when the classification is valid but carries no preset, and
// ErrInvalidClassification when the category is unknown, the option is not a
// member of the category's variant set, or an option is supplied for a
// subtype that takes none.
func (t *Table) Resolve(cat model.Category, sub model.Subtype, opt model.Option) (*Overrides, error) {
	vocab, ok := optionVocabulary[cat]
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidClassification, cat)
	}

	if !optionRequired(sub) {
		if opt != model.OptionNone {
			return nil, fmt.Errorf("%w: subtype %q takes no option, got %q", ErrInvalidClassification, sub, opt)
		}
		if ov, found := t.entries[key{cat, sub, model.OptionNone}]; found {
			copied := ov
			return &copied, nil
		}
		return nil, nil
	}

	// An omitted option defaults to the standard variant.
	if opt == model.OptionNone {
		opt = model.OptionStandard
	}
	if !vocab[opt] {
		return nil, fmt.Errorf("%w: option %q is not valid for category %q", ErrInvalidClassification, opt, cat)
	}

	if ov, found := t.entries[key{cat, sub, opt}]; found {
		copied := ov
		return &copied, nil
	}
	return nil, nil
}

// Entries returns the table contents in no particular order, for diagnostics
// and config export.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for k, ov := range t.entries {
		out = append(out, Entry{Category: k.category, Subtype: k.subtype, Option: k.option, Overrides: ov})
	}
	return out
}

// Fire-door glass margin presets, mm. These are the shop's standing values
// ("LR 190 / Top 170 / Bottom 240"); site-specific tables can replace them
// via the YAML preset file.
const (
	fireSideMargin      = 190.0
	fireTopMargin       = 170.0
	fireBottomMargin    = 240.0
	fireTopMarginDouble = 220.0
)

// builtinEntries is the default classification table.
var builtinEntries = []Entry{
	// Single fire doors
	{model.CategorySingle, model.SubtypeFire, model.OptionStandard, Overrides{
		Name:   "Single Fire Standard",
		Glass:  &GlassPreset{SideMargin: fireSideMargin, TopMargin: fireTopMargin, BottomMargin: fireBottomMargin, PanelsPerLeaf: 1},
		Keybox: true,
	}},
	{model.CategorySingle, model.SubtypeFire, model.OptionTopFixed, Overrides{
		Name:   "Single Fire Top-Fixed",
		Glass:  &GlassPreset{SideMargin: fireSideMargin, TopMargin: fireTopMargin, BottomMargin: fireBottomMargin, Clamp: ClampBottomToMid, PanelsPerLeaf: 1},
		Keybox: true,
	}},
	{model.CategorySingle, model.SubtypeFire, model.OptionBottomFixed, Overrides{
		Name:   "Single Fire Bottom-Fixed",
		Glass:  &GlassPreset{SideMargin: fireSideMargin, TopMargin: fireTopMargin, BottomMargin: fireBottomMargin, Clamp: ClampTopToMid, PanelsPerLeaf: 1},
		Keybox: true,
	}},
	{model.CategorySingle, model.SubtypeFire, model.OptionFourGlass, Overrides{
		Name:   "Single Fire Four-Glass",
		Glass:  &GlassPreset{SideMargin: fireSideMargin, TopMargin: fireTopMargin, BottomMargin: fireBottomMargin, PanelsPerLeaf: 2},
		Keybox: true,
	}},

	// Double fire doors
	{model.CategoryDouble, model.SubtypeFire, model.OptionStandard, Overrides{
		Name:   "Double Fire Standard",
		Glass:  &GlassPreset{SideMargin: fireSideMargin, TopMargin: fireTopMargin, BottomMargin: fireBottomMargin, PanelsPerLeaf: 1},
		Keybox: true,
	}},
	{model.CategoryDouble, model.SubtypeFire, model.OptionStandardDouble, Overrides{
		Name:   "Double Fire Standard-Double",
		Glass:  &GlassPreset{SideMargin: fireSideMargin, TopMargin: fireTopMarginDouble, BottomMargin: fireBottomMargin, PanelsPerLeaf: 1},
		Keybox: true,
	}},
	{model.CategoryDouble, model.SubtypeFire, model.OptionFourGlass, Overrides{
		Name:   "Double Fire Four-Glass",
		Glass:  &GlassPreset{SideMargin: fireSideMargin, TopMargin: fireTopMargin, BottomMargin: fireBottomMargin, PanelsPerLeaf: 2},
		Keybox: true,
	}},

	// Glass doors share the fire margins but have no keybox
	{model.CategorySingle, model.SubtypeGlass, model.OptionStandard, Overrides{
		Name:  "Single Glass Standard",
		Glass: &GlassPreset{SideMargin: fireSideMargin, TopMargin: fireTopMargin, BottomMargin: fireBottomMargin, PanelsPerLeaf: 1},
	}},
	{model.CategorySingle, model.SubtypeGlass, model.OptionTopFixed, Overrides{
		Name:  "Single Glass Top-Fixed",
		Glass: &GlassPreset{SideMargin: fireSideMargin, TopMargin: fireTopMargin, BottomMargin: fireBottomMargin, Clamp: ClampBottomToMid, PanelsPerLeaf: 1},
	}},
	{model.CategorySingle, model.SubtypeGlass, model.OptionBottomFixed, Overrides{
		Name:  "Single Glass Bottom-Fixed",
		Glass: &GlassPreset{SideMargin: fireSideMargin, TopMargin: fireTopMargin, BottomMargin: fireBottomMargin, Clamp: ClampTopToMid, PanelsPerLeaf: 1},
	}},
	{model.CategorySingle, model.SubtypeGlass, model.OptionFourGlass, Overrides{
		Name:  "Single Glass Four-Glass",
		Glass: &GlassPreset{SideMargin: fireSideMargin, TopMargin: fireTopMargin, BottomMargin: fireBottomMargin, PanelsPerLeaf: 2},
	}},
	{model.CategoryDouble, model.SubtypeGlass, model.OptionStandard, Overrides{
		Name:  "Double Glass Standard",
		Glass: &GlassPreset{SideMargin: fireSideMargin, TopMargin: fireTopMargin, BottomMargin: fireBottomMargin, PanelsPerLeaf: 1},
	}},
	{model.CategoryDouble, model.SubtypeGlass, model.OptionStandardDouble, Overrides{
		Name:  "Double Glass Standard-Double",
		Glass: &GlassPreset{SideMargin: fireSideMargin, TopMargin: fireTopMarginDouble, BottomMargin: fireBottomMargin, PanelsPerLeaf: 1},
	}},
	{model.CategoryDouble, model.SubtypeGlass, model.OptionFourGlass, Overrides{
		Name:  "Double Glass Four-Glass",
		Glass: &GlassPreset{SideMargin: fireSideMargin, TopMargin: fireTopMargin, BottomMargin: fireBottomMargin, PanelsPerLeaf: 2},
	}},
}

// BuiltinTable returns the default resolver table.
func BuiltinTable() *Table {
	return NewTable(builtinEntries)
}

// ParseCategory converts free-form input (spreadsheet cells, request fields)
// to a Category.
func ParseCategory(s string) (model.Category, error) {
	switch normalize(s) {
	case "", "single":
		return model.CategorySingle, nil
	case "double":
		return model.CategoryDouble, nil
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidClassification, s)
}

// ParseSubtype converts free-form input to a Subtype.
func ParseSubtype(s string) (model.Subtype, error) {
	switch normalize(s) {
	case "", "normal":
		return model.SubtypeNormal, nil
	case "fire":
		return model.SubtypeFire, nil
	case "glass":
		return model.SubtypeGlass, nil
	}
	return "", fmt.Errorf("%w: unknown subtype %q", ErrInvalidClassification, s)
}

// ParseOption converts free-form input to an Option. Legacy spreadsheet
// spellings ("option 1", "topfixed", "4glass", ...) are accepted.
func ParseOption(s string) (model.Option, error) {
	switch normalize(s) {
	case "":
		return model.OptionNone, nil
	case "option1", "1", "standard":
		return model.OptionStandard, nil
	case "option2", "2", "topfixed":
		return model.OptionTopFixed, nil
	case "option3", "3", "bottomfixed":
		return model.OptionBottomFixed, nil
	case "option4", "4", "standarddouble":
		return model.OptionStandardDouble, nil
	case "option5", "5", "fourglass", "4glass":
		return model.OptionFourGlass, nil
	}
	return "", fmt.Errorf("%w: unknown option %q", ErrInvalidClassification, s)
}
