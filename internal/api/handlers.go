package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/framecut/framecut/internal/batch"
	"github.com/framecut/framecut/internal/document"
	"github.com/framecut/framecut/internal/export"
	"github.com/framecut/framecut/internal/geometry"
	"github.com/framecut/framecut/internal/importer"
	"github.com/framecut/framecut/internal/model"
	"github.com/framecut/framecut/internal/preset"
)

// Handlers holds the engine dependencies shared by all routes.
type Handlers struct {
	cfg     model.AppConfig
	table   *preset.Table
	engine  *geometry.Engine
	builder *document.Builder
}

// NewHandlers creates the API handler set.
func NewHandlers(cfg model.AppConfig, table *preset.Table) *Handlers {
	return &Handlers{
		cfg:     cfg,
		table:   table,
		engine:  geometry.NewEngine(cfg.Geometry),
		builder: document.NewBuilder(cfg.Geometry),
	}
}

// GenerateRequest is the JSON body of the single-door endpoints.
type GenerateRequest struct {
	Label      string `json:"label"`
	Category   string `json:"category"`
	Subtype    string `json:"subtype"`
	Option     string `json:"option"`
	HoleOffset string `json:"hole_offset"`

	Dims model.Dimensions `json:"dims"`

	UseDefaultAllowance bool  `json:"use_default_allowance"`
	Annotate            *bool `json:"annotate"`
	Rotate              bool  `json:"rotate"`
}

// buildDocument parses, resolves and builds a single door from a request.
func (h *Handlers) buildDocument(req GenerateRequest) (*model.GeometryDocument, error) {
	category, err := preset.ParseCategory(req.Category)
	if err != nil {
		return nil, err
	}
	subtype, err := preset.ParseSubtype(req.Subtype)
	if err != nil {
		return nil, err
	}
	option, err := preset.ParseOption(req.Option)
	if err != nil {
		return nil, err
	}

	overrides, err := h.table.Resolve(category, subtype, option)
	if err != nil {
		return nil, err
	}

	annotate := true
	if req.Annotate != nil {
		annotate = *req.Annotate
	}
	label := req.Label
	if label == "" {
		label = "door"
	}

	return h.engine.Build(geometry.BuildRequest{
		Spec: model.DoorSpec{
			Category:            category,
			Subtype:             subtype,
			Option:              option,
			HoleOffset:          req.HoleOffset,
			UseDefaultAllowance: req.UseDefaultAllowance,
		},
		Dims:      req.Dims,
		Mfg:       h.cfg.Defaults,
		Overrides: overrides,
		Label:     label,
		FileName:  label + ".dxf",
		Annotate:  annotate,
		Rotate:    req.Rotate,
	})
}

// HandleGenerateDXF renders one door drawing and returns it as a DXF
// attachment.
func (h *Handlers) HandleGenerateDXF(c echo.Context) error {
	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err.Error())
	}

	doc, err := h.buildDocument(req)
	if err != nil {
		return mapDomainError(err)
	}

	var buf bytes.Buffer
	if err := export.WriteDXF(&buf, h.builder.CAD(doc)); err != nil {
		return mapDomainError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, doc.Metadata.FileName))
	return c.Blob(http.StatusOK, "application/dxf", buf.Bytes())
}

// HandleGeneratePreview returns the geometry document in the JSON preview
// format used by the web drawing viewer.
func (h *Handlers) HandleGeneratePreview(c echo.Context) error {
	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err.Error())
	}

	doc, err := h.buildDocument(req)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, document.Preview(doc))
}

// HandleGenerateBatch accepts an order workbook as multipart upload and
// responds with a zip of nested stock-sheet DXFs plus a summary manifest.
// Row-level failures do not fail the request; they are listed in the
// summary.
func (h *Handlers) HandleGenerateBatch(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("missing workbook upload", `expected a multipart field named "file"`)
	}
	src, err := fh.Open()
	if err != nil {
		return NewBadRequestError("unreadable workbook upload", err.Error())
	}
	defer src.Close()

	imported := importer.ImportExcelReader(src)
	if len(imported.Rows) == 0 {
		details := "workbook contains no orders"
		if len(imported.Errors) > 0 {
			details = imported.Errors[0]
		}
		return NewBadRequestError("no usable rows in workbook", details)
	}

	runner := batch.NewRunner(h.cfg, h.table)
	out, err := runner.Run(c.Request().Context(), imported.Rows)
	if err != nil {
		return mapDomainError(err)
	}
	for _, msg := range imported.Errors {
		out.Summary.Failures = append(out.Summary.Failures, export.RowFailure{Name: "import", Error: msg})
	}

	var buf bytes.Buffer
	if err := runner.WriteZip(&buf, out); err != nil {
		return mapDomainError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="framecut_batch.zip"`)
	return c.Blob(http.StatusOK, "application/zip", buf.Bytes())
}

// HandleHealth reports service liveness.
func (h *Handlers) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
