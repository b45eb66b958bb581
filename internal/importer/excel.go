// Package importer reads door order spreadsheets for batch generation.
// It supports flexible column mapping with case-insensitive header
// recognition, and reports problems per row so one bad order never sinks
// the rest of the sheet.
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/framecut/framecut/internal/model"
	"github.com/framecut/framecut/internal/preset"
)

// Row is one door order parsed from a spreadsheet.
type Row struct {
	Name string
	Spec model.DoorSpec
	Dims model.Dimensions
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Rows     []Row
	Errors   []string
	Warnings []string
}

// columnMapping maps semantic column roles to their indices in the data.
// -1 marks an absent column.
type columnMapping struct {
	name       int
	category   int
	subtype    int
	option     int
	holeOffset int
	width      int
	height     int
	left       int
	right      int
	top        int
	bottom     int
	run        int
}

// headerAliases maps canonical column names to their accepted aliases (all
// lowercase, spacing ignored).
var headerAliases = map[string][]string{
	"name":       {"name", "door", "door name", "label", "order", "item"},
	"category":   {"category", "door category", "single/double", "leafs", "leaves"},
	"subtype":    {"subtype", "type", "door type", "variant"},
	"option":     {"option", "door option", "glass option", "sub option"},
	"holeoffset": {"hole offset", "holes", "hinge offset", "hinge holes"},
	"width":      {"width", "w", "width measurement", "opening width"},
	"height":     {"height", "h", "height measurement", "opening height"},
	"left":       {"left allowance", "left", "allowance left"},
	"right":      {"right allowance", "right", "allowance right"},
	"top":        {"top allowance", "top", "allowance top"},
	"bottom":     {"bottom allowance", "bottom", "allowance bottom"},
	"run":        {"run required", "run", "generate", "include"},
}

// detectColumns matches a header row against the known aliases. It reports
// whether the row looks like a header at all.
func detectColumns(row []string) (columnMapping, bool) {
	m := columnMapping{
		name: -1, category: -1, subtype: -1, option: -1, holeOffset: -1,
		width: -1, height: -1, left: -1, right: -1, top: -1, bottom: -1, run: -1,
	}
	set := func(role string, i int) {
		target := map[string]*int{
			"name": &m.name, "category": &m.category, "subtype": &m.subtype,
			"option": &m.option, "holeoffset": &m.holeOffset,
			"width": &m.width, "height": &m.height,
			"left": &m.left, "right": &m.right, "top": &m.top, "bottom": &m.bottom,
			"run": &m.run,
		}[role]
		if *target == -1 {
			*target = i
		}
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					set(role, i)
				}
			}
		}
	}
	return m, isHeader
}

// ImportExcel reads door orders from the first sheet of an xlsx file.
func ImportExcel(path string) ImportResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("cannot open spreadsheet: %v", err)}}
	}
	defer f.Close()
	return importWorkbook(f)
}

// ImportExcelReader reads door orders from xlsx content, e.g. an upload.
func ImportExcelReader(r io.Reader) ImportResult {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("cannot read spreadsheet: %v", err)}}
	}
	defer f.Close()
	return importWorkbook(f)
}

func importWorkbook(f *excelize.File) ImportResult {
	result := ImportResult{}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "workbook has no sheets")
		return result
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot read sheet %q: %v", sheets[0], err))
		return result
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "sheet is empty")
		return result
	}

	mapping, ok := detectColumns(rows[0])
	if !ok {
		result.Errors = append(result.Errors, "no recognizable header row")
		return result
	}
	if mapping.width == -1 || mapping.height == -1 {
		result.Errors = append(result.Errors, "header is missing width or height columns")
		return result
	}

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		if emptyRow(row) {
			continue
		}
		if mapping.run != -1 && !runRequired(cell(row, mapping.run)) {
			continue
		}

		parsed, err := parseRow(row, mapping, rowNum)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Rows = append(result.Rows, parsed)
	}

	if len(result.Rows) == 0 && len(result.Errors) == 0 {
		result.Warnings = append(result.Warnings, "no rows marked to run")
	}
	return result
}

func parseRow(row []string, m columnMapping, rowNum int) (Row, error) {
	out := Row{Name: cell(row, m.name)}
	if out.Name == "" {
		out.Name = fmt.Sprintf("row %d", rowNum)
	}

	category, err := preset.ParseCategory(cell(row, m.category))
	if err != nil {
		return Row{}, fmt.Errorf("row %d (%s): %v", rowNum, out.Name, err)
	}
	subtype, err := preset.ParseSubtype(cell(row, m.subtype))
	if err != nil {
		return Row{}, fmt.Errorf("row %d (%s): %v", rowNum, out.Name, err)
	}
	option, err := preset.ParseOption(cell(row, m.option))
	if err != nil {
		return Row{}, fmt.Errorf("row %d (%s): %v", rowNum, out.Name, err)
	}
	out.Spec = model.DoorSpec{
		Category:   category,
		Subtype:    subtype,
		Option:     option,
		HoleOffset: cell(row, m.holeOffset),
	}

	out.Dims.WidthMeasurement, err = numericCell(row, m.width)
	if err != nil {
		return Row{}, fmt.Errorf("row %d (%s): width: %v", rowNum, out.Name, err)
	}
	out.Dims.HeightMeasurement, err = numericCell(row, m.height)
	if err != nil {
		return Row{}, fmt.Errorf("row %d (%s): height: %v", rowNum, out.Name, err)
	}

	// Allowance columns are optional as a group: when none are present the
	// shop default allowance applies on every side.
	if m.left == -1 && m.right == -1 && m.top == -1 && m.bottom == -1 {
		out.Spec.UseDefaultAllowance = true
		return out, nil
	}
	for _, side := range []struct {
		idx  int
		dst  *float64
		name string
	}{
		{m.left, &out.Dims.LeftAllowanceWidth, "left allowance"},
		{m.right, &out.Dims.RightAllowanceWidth, "right allowance"},
		{m.top, &out.Dims.TopAllowanceHeight, "top allowance"},
		{m.bottom, &out.Dims.BottomAllowanceHeight, "bottom allowance"},
	} {
		if side.idx == -1 || cell(row, side.idx) == "" {
			continue
		}
		*side.dst, err = numericCell(row, side.idx)
		if err != nil {
			return Row{}, fmt.Errorf("row %d (%s): %s: %v", rowNum, out.Name, side.name, err)
		}
	}
	return out, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func numericCell(row []string, idx int) (float64, error) {
	s := cell(row, idx)
	if s == "" {
		return 0, fmt.Errorf("empty cell")
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}

// runRequired interprets the Run Required flag column.
func runRequired(v string) bool {
	switch strings.ToLower(v) {
	case "y", "yes", "true", "1", "x":
		return true
	}
	return false
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
