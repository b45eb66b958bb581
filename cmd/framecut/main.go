// framecut: parametric door frame drawing generator
//
// Generates sheet-metal door frame drawings (DXF, PDF, JSON preview) from
// opening measurements, nests batch orders onto stock sheets, and serves
// the same pipeline over HTTP.
//
// Build:
//
//	go build -o framecut ./cmd/framecut
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/framecut/framecut/internal/api"
	"github.com/framecut/framecut/internal/batch"
	"github.com/framecut/framecut/internal/config"
	"github.com/framecut/framecut/internal/document"
	"github.com/framecut/framecut/internal/export"
	"github.com/framecut/framecut/internal/geometry"
	"github.com/framecut/framecut/internal/importer"
	"github.com/framecut/framecut/internal/model"
	"github.com/framecut/framecut/internal/preset"
)

var (
	version = "1.2.0"

	configPath string
	outputDir  string

	// generate flags
	genTemplate   string
	genSaveTpl    string
	genLabel      string
	genCategory   string
	genSubtype    string
	genOption     string
	genHoleOffset string
	genWidth      float64
	genHeight     float64
	genAllowances []float64
	genDefaultAll bool
	genNoAnnotate bool
	genRotate     bool
	genPDF        bool
	genPreview    bool

	// batch flags
	batchZip      string
	batchLabels   bool
	batchCutSheet bool
	batchWorkers  int
	batchOptimize bool
	batchCompare  bool
	batchStock    string

	// serve flags
	serveAddr string

	rootCmd = &cobra.Command{
		Use:     "framecut",
		Short:   "framecut - parametric sheet-metal door frame drawings",
		Version: version,
	}

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate a single door frame drawing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, table, err := loadSettings()
			if err != nil {
				return err
			}

			var spec model.DoorSpec
			var dims model.Dimensions
			if genTemplate != "" {
				store, err := config.LoadTemplates(config.DefaultTemplatePath())
				if err != nil {
					return err
				}
				tpl, ok := store.Find(genTemplate)
				if !ok {
					return fmt.Errorf("unknown template %q", genTemplate)
				}
				spec, dims = tpl.Spec, tpl.Dims
			} else {
				if genWidth <= 0 || genHeight <= 0 {
					return fmt.Errorf("--width and --height are required without --template")
				}
				if spec, err = parseSpec(); err != nil {
					return err
				}
				if dims, err = parseDims(); err != nil {
					return err
				}
			}
			overrides, err := table.Resolve(spec.Category, spec.Subtype, spec.Option)
			if err != nil {
				return err
			}

			if genSaveTpl != "" {
				tplPath := config.DefaultTemplatePath()
				store, err := config.LoadTemplates(tplPath)
				if err != nil {
					return err
				}
				store.Upsert(config.DoorTemplate{Name: genSaveTpl, Spec: spec, Dims: dims})
				if err := config.SaveTemplates(tplPath, store); err != nil {
					return err
				}
				fmt.Println("saved template", genSaveTpl)
			}

			eng := geometry.NewEngine(cfg.Geometry)
			doc, err := eng.Build(geometry.BuildRequest{
				Spec:      spec,
				Dims:      dims,
				Mfg:       cfg.Defaults,
				Overrides: overrides,
				Label:     genLabel,
				FileName:  genLabel + ".dxf",
				Annotate:  !genNoAnnotate,
				Rotate:    genRotate,
			})
			if err != nil {
				return err
			}

			dir := outputDir
			if dir == "" {
				dir = cfg.OutputDir
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("cannot create output directory: %w", err)
			}

			builder := document.NewBuilder(cfg.Geometry)
			dxfPath := filepath.Join(dir, doc.Metadata.FileName)
			if err := export.SaveDXF(dxfPath, builder.CAD(doc)); err != nil {
				return err
			}
			fmt.Println("wrote", dxfPath)

			if genPDF {
				pdfPath := strings.TrimSuffix(dxfPath, ".dxf") + ".pdf"
				if err := export.ExportPDF(pdfPath, []*model.GeometryDocument{doc}, cfg.Geometry); err != nil {
					return err
				}
				fmt.Println("wrote", pdfPath)
			}
			if genPreview {
				jsonPath := strings.TrimSuffix(dxfPath, ".dxf") + ".json"
				f, err := os.Create(jsonPath)
				if err != nil {
					return fmt.Errorf("cannot create preview file: %w", err)
				}
				if err := document.EncodePreview(f, doc); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Println("wrote", jsonPath)
			}
			return nil
		},
	}

	batchCmd = &cobra.Command{
		Use:   "batch <orders.xlsx>",
		Short: "Generate nested stock sheets from an order workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, table, err := loadSettings()
			if err != nil {
				return err
			}

			imported := importer.ImportExcel(args[0])
			for _, w := range imported.Warnings {
				fmt.Fprintln(os.Stderr, "warning:", w)
			}
			for _, e := range imported.Errors {
				fmt.Fprintln(os.Stderr, "error:", e)
			}
			if len(imported.Rows) == 0 {
				return fmt.Errorf("no usable rows in %s", args[0])
			}

			if batchStock != "" {
				inv, err := config.LoadInventory(config.DefaultInventoryPath())
				if err != nil {
					return err
				}
				stock, ok := inv.Find(batchStock)
				if !ok {
					return fmt.Errorf("unknown stock sheet %q", batchStock)
				}
				cfg.SheetWidth = stock.Width
				cfg.SheetHeight = stock.Height
			}

			runner := batch.NewRunner(cfg, table)
			runner.Workers = batchWorkers
			runner.Optimize = batchOptimize

			if batchCompare {
				for _, res := range runner.Compare(cmd.Context(), imported.Rows) {
					fmt.Printf("%-18s sheets=%d waste=%.1f%% unplaced=%d\n",
						res.Strategy.Name, res.SheetsUsed, res.WastePercent, res.UnplacedCount)
				}
			}

			out, err := runner.Run(cmd.Context(), imported.Rows)
			if err != nil {
				return err
			}

			dir := outputDir
			if dir == "" {
				dir = cfg.OutputDir
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("cannot create output directory: %w", err)
			}

			zipPath := batchZip
			if zipPath == "" {
				zipPath = filepath.Join(dir, "framecut_batch.zip")
			}
			f, err := os.Create(zipPath)
			if err != nil {
				return fmt.Errorf("cannot create archive: %w", err)
			}
			if err := runner.WriteZip(f, out); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d sheets, %d doors, %d failures)\n",
				zipPath, len(out.Summary.Sheets), len(out.Summary.Doors), len(out.Summary.Failures))
			for _, fail := range out.Summary.Failures {
				fmt.Fprintf(os.Stderr, "failed: %s: %s\n", fail.Name, fail.Error)
			}

			if batchCutSheet && len(out.Sheets) > 0 {
				pdfPath := filepath.Join(dir, "cut_sheets.pdf")
				if err := export.ExportPDF(pdfPath, out.Sheets, cfg.Geometry); err != nil {
					return err
				}
				fmt.Println("wrote", pdfPath)
			}
			if batchLabels && len(out.Doors) > 0 {
				labelPath := filepath.Join(dir, "labels.pdf")
				if err := export.ExportLabels(labelPath, out.Doors); err != nil {
					return err
				}
				fmt.Println("wrote", labelPath)
			}
			return nil
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the drawing generator over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, table, err := loadSettings()
			if err != nil {
				return err
			}
			e := api.NewServer(api.NewHandlers(cfg, table))
			return e.Start(serveAddr)
		},
	}

	stockCmd = &cobra.Command{
		Use:   "stock",
		Short: "List the stock sheet catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := config.LoadInventory(config.DefaultInventoryPath())
			if err != nil {
				return err
			}
			for _, s := range inv.Stocks {
				fmt.Printf("%-12s %-20s %g x %g mm  qty %d\n", s.ID, s.Label, s.Width, s.Height, s.Quantity)
			}
			return nil
		},
	}

	settingsExportCmd = &cobra.Command{
		Use:   "export <backup.json>",
		Short: "Export config and presets to a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, table, err := loadSettings()
			if err != nil {
				return err
			}
			if err := config.ExportAllData(args[0], cfg, table); err != nil {
				return err
			}
			fmt.Println("wrote", args[0])
			return nil
		},
	}

	settingsImportCmd = &cobra.Command{
		Use:   "import <backup.json>",
		Short: "Import config and presets from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := config.ImportAllData(args[0])
			if err != nil {
				return err
			}
			path := configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if err := config.SaveAppConfig(path, backup.Config); err != nil {
				return err
			}
			if len(backup.Presets) > 0 {
				presetPath := backup.Config.PresetFile
				if presetPath == "" {
					presetPath = filepath.Join(config.DefaultConfigDir(), "presets.yaml")
				}
				if err := config.SavePresetTable(presetPath, preset.NewTable(backup.Presets)); err != nil {
					return err
				}
			}
			fmt.Println("imported settings from", args[0])
			return nil
		},
	}

	settingsCmd = &cobra.Command{
		Use:   "settings",
		Short: "Back up or restore the shop settings",
	}

	presetsCmd = &cobra.Command{
		Use:   "presets",
		Short: "List the resolved preset table",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, table, err := loadSettings()
			if err != nil {
				return err
			}
			for _, e := range table.Entries() {
				fmt.Printf("%-7s %-6s %-15s %s\n", e.Category, e.Subtype, e.Option, e.Overrides.Name)
			}
			return nil
		},
	}
)

// loadSettings reads the app config and the preset table it points at.
// A missing config file falls back to shop defaults.
func loadSettings() (model.AppConfig, *preset.Table, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadAppConfig(path)
	if err != nil {
		return model.AppConfig{}, nil, err
	}
	table, err := config.LoadPresetTable(cfg.PresetFile)
	if err != nil {
		return model.AppConfig{}, nil, err
	}
	return cfg, table, nil
}

// parseSpec builds the door classification from the generate flags.
func parseSpec() (model.DoorSpec, error) {
	category, err := preset.ParseCategory(genCategory)
	if err != nil {
		return model.DoorSpec{}, err
	}
	subtype, err := preset.ParseSubtype(genSubtype)
	if err != nil {
		return model.DoorSpec{}, err
	}
	option, err := preset.ParseOption(genOption)
	if err != nil {
		return model.DoorSpec{}, err
	}
	return model.DoorSpec{
		Category:            category,
		Subtype:             subtype,
		Option:              option,
		HoleOffset:          genHoleOffset,
		UseDefaultAllowance: genDefaultAll,
	}, nil
}

// parseDims builds the measurement set from the generate flags. The
// --allowance flag takes one value for all sides or four values in
// left,right,top,bottom order.
func parseDims() (model.Dimensions, error) {
	d := model.Dimensions{
		WidthMeasurement:  genWidth,
		HeightMeasurement: genHeight,
	}
	switch len(genAllowances) {
	case 0:
	case 1:
		d.LeftAllowanceWidth = genAllowances[0]
		d.RightAllowanceWidth = genAllowances[0]
		d.TopAllowanceHeight = genAllowances[0]
		d.BottomAllowanceHeight = genAllowances[0]
	case 4:
		d.LeftAllowanceWidth = genAllowances[0]
		d.RightAllowanceWidth = genAllowances[1]
		d.TopAllowanceHeight = genAllowances[2]
		d.BottomAllowanceHeight = genAllowances[3]
	default:
		return model.Dimensions{}, fmt.Errorf("--allowance takes 1 or 4 values, got %d", len(genAllowances))
	}
	return d, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.framecut/config.json)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "out", "o", "", "output directory (default from config)")

	generateCmd.Flags().StringVar(&genTemplate, "template", "", "generate from a saved door template")
	generateCmd.Flags().StringVar(&genSaveTpl, "save-template", "", "save this order as a named template")
	generateCmd.Flags().StringVar(&genLabel, "label", "door", "door label written onto the drawing")
	generateCmd.Flags().StringVar(&genCategory, "category", "single", "door category (single, double)")
	generateCmd.Flags().StringVar(&genSubtype, "subtype", "normal", "door subtype (normal, fire, glass)")
	generateCmd.Flags().StringVar(&genOption, "option", "", "preset option for fire and glass doors")
	generateCmd.Flags().StringVar(&genHoleOffset, "hole-offset", "", `hinge hole placement as "<top>x<left>"`)
	generateCmd.Flags().Float64Var(&genWidth, "width", 0, "opening width measurement, mm")
	generateCmd.Flags().Float64Var(&genHeight, "height", 0, "opening height measurement, mm")
	generateCmd.Flags().Float64SliceVar(&genAllowances, "allowance", nil, "allowance per side, mm (one value or left,right,top,bottom)")
	generateCmd.Flags().BoolVar(&genDefaultAll, "default-allowance", false, "use the configured default allowance on all sides")
	generateCmd.Flags().BoolVar(&genNoAnnotate, "no-annotate", false, "omit dimension annotations")
	generateCmd.Flags().BoolVar(&genRotate, "rotate", false, "rotate the drawing 90 degrees")
	generateCmd.Flags().BoolVar(&genPDF, "pdf", false, "also write a PDF cut sheet")
	generateCmd.Flags().BoolVar(&genPreview, "preview", false, "also write the JSON preview document")

	batchCmd.Flags().StringVar(&batchZip, "zip", "", "archive path (default <out>/framecut_batch.zip)")
	batchCmd.Flags().BoolVar(&batchLabels, "labels", false, "also write an Avery label sheet PDF")
	batchCmd.Flags().BoolVar(&batchCutSheet, "cutsheet", false, "also write a PDF with one page per stock sheet")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent geometry builds (0 = one per CPU)")
	batchCmd.Flags().BoolVar(&batchOptimize, "optimize", false, "search layouts with the genetic nester")
	batchCmd.Flags().BoolVar(&batchCompare, "compare", false, "print a nesting strategy comparison before generating")
	batchCmd.Flags().StringVar(&batchStock, "stock", "", "stock sheet ID from the inventory catalog")

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")

	settingsCmd.AddCommand(settingsExportCmd)
	settingsCmd.AddCommand(settingsImportCmd)

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(stockCmd)
	rootCmd.AddCommand(settingsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
