package model

// Category distinguishes single-leaf and double-leaf doors.
type Category string

const (
	CategorySingle Category = "Single"
	CategoryDouble Category = "Double"
)

// Subtype is the manufacturing variant of a door.
type Subtype string

const (
	SubtypeNormal Subtype = "Normal"
	SubtypeFire   Subtype = "Fire"
	SubtypeGlass  Subtype = "Glass"
)

// Option is a sub-variant identifier, valid only for subtypes that require
// one (fire and glass doors). The variant vocabulary differs per category:
// single and double doors each expose their own restricted set.
type Option string

const (
	OptionNone           Option = ""
	OptionStandard       Option = "Standard"
	OptionTopFixed       Option = "TopFixed"       // single only
	OptionBottomFixed    Option = "BottomFixed"    // single only
	OptionStandardDouble Option = "StandardDouble" // double only
	OptionFourGlass      Option = "FourGlass"
)

// DoorSpec classifies a door and selects placement presets.
type DoorSpec struct {
	Category Category `json:"category"`
	Subtype  Subtype  `json:"subtype"`
	Option   Option   `json:"option,omitempty"`
	// HoleOffset is an enumerated hinge-hole placement preset in the form
	// "<top>x<left>" (e.g. "150x40"). Empty selects the configured defaults.
	HoleOffset string `json:"hole_offset,omitempty"`
	// UseDefaultAllowance replaces user-supplied per-side allowances with the
	// configured default allowance value on every side.
	UseDefaultAllowance bool `json:"use_default_allowance"`
}

// IsDouble reports whether the door has two leaves.
func (s DoorSpec) IsDouble() bool {
	return s.Category == CategoryDouble
}

// Dimensions holds the nominal opening size and per-side allowances, mm.
type Dimensions struct {
	WidthMeasurement  float64 `json:"width_measurement"`
	HeightMeasurement float64 `json:"height_measurement"`

	LeftAllowanceWidth    float64 `json:"left_allowance_width"`
	RightAllowanceWidth   float64 `json:"right_allowance_width"`
	TopAllowanceHeight    float64 `json:"top_allowance_height"`
	BottomAllowanceHeight float64 `json:"bottom_allowance_height"`
}

// FrameTotalWidth is the allowance-expanded frame width.
func (d Dimensions) FrameTotalWidth() float64 {
	return d.WidthMeasurement + d.LeftAllowanceWidth + d.RightAllowanceWidth
}

// FrameTotalHeight is the allowance-expanded frame height.
func (d Dimensions) FrameTotalHeight() float64 {
	return d.HeightMeasurement + d.TopAllowanceHeight + d.BottomAllowanceHeight
}

// WithUniformAllowance returns a copy with every side allowance set to v.
func (d Dimensions) WithUniformAllowance(v float64) Dimensions {
	d.LeftAllowanceWidth = v
	d.RightAllowanceWidth = v
	d.TopAllowanceHeight = v
	d.BottomAllowanceHeight = v
	return d
}

// ManufacturingDefaults holds the deductions and bend allowances applied
// when deriving the inner opening and outer sheet from the expanded frame.
type ManufacturingDefaults struct {
	DoorMinusWidth  float64 `json:"door_minus_width"`  // deduction to inner width
	DoorMinusHeight float64 `json:"door_minus_height"` // deduction to inner height
	BendingWidth    float64 `json:"bending_width"`     // bend allowance added to outer width
	BendingHeight   float64 `json:"bending_height"`    // bend allowance on the inner frame
}

// DefaultManufacturing returns the shop's standard deduction set.
func DefaultManufacturing() ManufacturingDefaults {
	return ManufacturingDefaults{
		DoorMinusWidth:  68.0,
		DoorMinusHeight: 70.0,
		BendingWidth:    31.0,
		BendingHeight:   24.0,
	}
}
