package model

// GeometryConfig collects the fixed placement constants used by the geometry
// engine. It is a single immutable value injected into the engine so tests
// and alternative shop presets can swap the whole set at once.
type GeometryConfig struct {
	BendAdjust float64 `json:"bend_adjust"` // inner frame offset correction

	// Center latch box
	BoxGap    float64 `json:"box_gap"`
	BoxWidth  float64 `json:"box_width"`
	BoxHeight float64 `json:"box_height"`

	// Hinge holes
	CircleRadius     float64 `json:"circle_radius"`
	LeftCircleOffset float64 `json:"left_circle_offset"`
	TopCircleOffset  float64 `json:"top_circle_offset"`

	// Dimension rendering
	DimTextHeight       float64 `json:"dim_text_height"`
	DimArrowSize        float64 `json:"dim_arrow_size"`
	HorizontalDimOffset float64 `json:"horizontal_dim_offset"` // visual separation, not geometric
	VerticalDimOffset   float64 `json:"vertical_dim_offset"`

	// Double doors
	DoubleDoorGap      float64 `json:"double_door_gap"`      // gap between leaves
	BendingWidthDouble float64 `json:"bending_width_double"` // outer bend of the left leaf

	// Glass cutouts
	GlassCornerRadius float64 `json:"glass_corner_radius"`
	GlassSegments     int     `json:"glass_segments"`

	// Fire-door keybox
	KeyboxWidth        float64 `json:"keybox_width"`
	KeyboxHeight       float64 `json:"keybox_height"`
	KeyboxBottomOffset float64 `json:"keybox_bottom_offset"`

	// Allowance applied on all sides when DoorSpec.UseDefaultAllowance is set
	DefaultAllowance float64 `json:"default_allowance"`
}

// DefaultGeometryConfig returns the standard constant set.
func DefaultGeometryConfig() GeometryConfig {
	return GeometryConfig{
		BendAdjust:          12.0,
		BoxGap:              30.0,
		BoxWidth:            22.0,
		BoxHeight:           112.0,
		CircleRadius:        5.0,
		LeftCircleOffset:    40.0,
		TopCircleOffset:     150.0,
		DimTextHeight:       8.0,
		DimArrowSize:        6.0,
		HorizontalDimOffset: 20.0,
		VerticalDimOffset:   40.0,
		DoubleDoorGap:       4.0,
		BendingWidthDouble:  31.0,
		GlassCornerRadius:   20.0,
		GlassSegments:       8,
		KeyboxWidth:         70.0,
		KeyboxHeight:        40.0,
		KeyboxBottomOffset:  50.0,
		DefaultAllowance:    25.0,
	}
}

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	Defaults ManufacturingDefaults `json:"defaults"`
	Geometry GeometryConfig        `json:"geometry"`

	// Nesting
	SheetWidth  float64 `json:"sheet_width"` // stock sheet size for batch nesting, mm
	SheetHeight float64 `json:"sheet_height"`
	NestingGap  float64 `json:"nesting_gap"` // clearance between nested doors, mm

	OutputDir  string `json:"output_dir"`
	PresetFile string `json:"preset_file"` // optional YAML preset table override
}

// DefaultAppConfig returns an AppConfig populated with the shop defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Defaults:    DefaultManufacturing(),
		Geometry:    DefaultGeometryConfig(),
		SheetWidth:  1250.0,
		SheetHeight: 2500.0,
		NestingGap:  10.0,
		OutputDir:   "output",
	}
}
