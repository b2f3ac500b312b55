package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dkotenko/snipvault/internal/middleware/auth"
	"github.com/dkotenko/snipvault/internal/repo"
)

type TagHandler struct {
	Repo *repo.Repo
}

func (h *TagHandler) List(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	tags, err := h.Repo.ListTags(c.Request().Context(), ident.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list tags")
	}
	return c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) Create(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "tag name is required")
	}

	tag, err := h.Repo.CreateTag(c.Request().Context(), ident.ID, req.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create tag")
	}
	return c.JSON(http.StatusCreated, tag)
}
