package listsection

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
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
	g := api.Group("/lists", auth.RequireRole("docteur", "secretaire"))
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.CreateSection)
	g.PUT("/:id", h.Rename)
	g.DELETE("/:id", h.DeleteSection)
	g.POST("/import", h.Import)
	g.POST("/:id/items", h.AddItem)
	g.PUT("/:id/items/:itemId", h.UpdateItem)
	g.DELETE("/:id/items/:itemId", h.DeleteItem)
}

func (h *Handler) List(c echo.Context) error {
	sections, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sections)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	section, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "section not found")
	}
	return c.JSON(http.StatusOK, section)
}

type sectionRequest struct {
	Title string `json:"title"`
}

func (h *Handler) CreateSection(c echo.Context) error {
	var req sectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	section, err := h.svc.CreateSection(c.Request().Context(), req.Title)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, section)
}

func (h *Handler) Rename(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req sectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	section, err := h.svc.Rename(c.Request().Context(), id, req.Title)
	if err != nil {
		if errors.Is(err, ErrSectionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "section not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, section)
}

func (h *Handler) DeleteSection(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteSection(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrSectionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "section not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// Import accepts a multipart upload under the "file" field.
func (h *Handler) Import(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file upload")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer f.Close()

	result, err := h.svc.ImportXLSX(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

type itemRequest struct {
	Value string `json:"value"`
}

func (h *Handler) AddItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item, err := h.svc.AddItem(c.Request().Context(), id, req.Value)
	if err != nil {
		if errors.Is(err, ErrSectionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "section not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdateItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}
	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item, err := h.svc.UpdateItem(c.Request().Context(), id, itemID, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, ErrSectionNotFound), errors.Is(err, ErrItemNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}
	if err := h.svc.DeleteItem(c.Request().Context(), id, itemID); err != nil {
		switch {
		case errors.Is(err, ErrSectionNotFound), errors.Is(err, ErrItemNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
