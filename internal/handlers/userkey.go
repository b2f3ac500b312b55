package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dkotenko/snipvault/internal/middleware/auth"
	"github.com/dkotenko/snipvault/internal/repo"
)

const providerKeyPrefix = "sk-"

type UserKeyHandler struct {
	Repo *repo.Repo
}

// maskKey renders a stored key as prefix + bullets + last four characters.
// The full key never leaves the server after it is stored.
func maskKey(key string) string {
	last := key
	if len(key) > 4 {
		last = key[len(key)-4:]
	}
	return providerKeyPrefix + "••••••••••••" + last
}

func (h *UserKeyHandler) Set(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		Key string `json:"key"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	key := strings.TrimSpace(req.Key)
	if key == "" || !strings.HasPrefix(key, providerKeyPrefix) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid API key")
	}

	if err := h.Repo.UpdateUserAPIKey(c.Request().Context(), ident.ID, &key); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save key")
	}
	return c.JSON(http.StatusOK, echo.Map{"masked": maskKey(key)})
}

func (h *UserKeyHandler) Get(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := h.Repo.FindUserByID(c.Request().Context(), ident.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load account")
	}
	if user.APIKey == nil || *user.APIKey == "" {
		return c.JSON(http.StatusOK, echo.Map{"masked": nil})
	}
	return c.JSON(http.StatusOK, echo.Map{"masked": maskKey(*user.APIKey)})
}

func (h *UserKeyHandler) Delete(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.Repo.UpdateUserAPIKey(c.Request().Context(), ident.ID, nil); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot remove key")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
