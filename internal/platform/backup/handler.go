package backup

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cabmed/cabmed/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/backup", auth.RequireRole("admin", "docteur"))
	g.GET("/export", h.Export)
	g.POST("/import", h.Import)
	g.POST("/reset", h.Reset)
}

func (h *Handler) Export(c echo.Context) error {
	f, err := h.svc.Export(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="cabinet-backup.json"`)
	return c.JSON(http.StatusOK, f)
}

// Import accepts either a raw JSON body or a multipart upload under
// the "file" field.
func (h *Handler) Import(c echo.Context) error {
	var data []byte
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		defer f.Close()
		data, err = io.ReadAll(f)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	} else {
		var err error
		data, err = io.ReadAll(c.Request().Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	f, err := h.svc.Import(c.Request().Context(), data)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{
		"patients":     len(f.Patients),
		"appointments": len(f.Appointments),
	})
}

func (h *Handler) Reset(c echo.Context) error {
	if err := h.svc.Reset(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
