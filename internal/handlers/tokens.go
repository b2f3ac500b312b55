package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dkotenko/snipvault/internal/middleware/auth"
	"github.com/dkotenko/snipvault/internal/service"
)

type TokenHandler struct {
	Tokens *service.TokenService
}

func (h *TokenHandler) List(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	list, err := h.Tokens.List(c.Request().Context(), ident.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list tokens")
	}
	return c.JSON(http.StatusOK, list)
}

// Create mints a token and returns the plaintext exactly once. Every later
// read of this token shows metadata only.
func (h *TokenHandler) Create(c echo.Context) error {
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

	raw, record, err := h.Tokens.Issue(c.Request().Context(), ident.ID, req.Name)
	if errors.Is(err, service.ErrTokenNameRequired) {
		return echo.NewHTTPError(http.StatusBadRequest, "token name is required")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create token")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":         record.ID,
		"name":       record.Name,
		"token":      raw,
		"created_at": record.CreatedAt,
	})
}

func (h *TokenHandler) Delete(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid token id")
	}

	if err := h.Tokens.Revoke(c.Request().Context(), ident.ID, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot revoke token")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
