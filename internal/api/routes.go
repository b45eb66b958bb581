package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewServer builds a fully wired echo instance.
func NewServer(h *Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler
	SetupMiddleware(e)
	RegisterRoutes(e, h)
	return e
}

// SetupMiddleware attaches the standard middleware stack.
func SetupMiddleware(e *echo.Echo) {
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: `{"time":"${time_rfc3339}","method":"${method}","uri":"${uri}","status":${status},"latency":"${latency_human}"}` + "\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
	}))
	// Workbooks stay small; this guards against runaway uploads.
	e.Use(middleware.BodyLimit("16M"))
}

// RegisterRoutes binds all endpoints.
func RegisterRoutes(e *echo.Echo, h *Handlers) {
	e.GET("/health", h.HandleHealth)

	g := e.Group("/api")
	g.POST("/generate/dxf", h.HandleGenerateDXF)
	g.POST("/generate/preview", h.HandleGeneratePreview)
	g.POST("/generate/batch", h.HandleGenerateBatch)
}
