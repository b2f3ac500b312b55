package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dkotenko/snipvault/internal/logging"
	"github.com/dkotenko/snipvault/internal/middleware/auth"
	"github.com/dkotenko/snipvault/internal/repo"
	"github.com/dkotenko/snipvault/internal/service"
)

type EnhanceHandler struct {
	Quota    *service.QuotaService
	Enhancer service.Enhancer
	Repo     *repo.Repo
}

type enhanceRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// Enhance runs the metered enhancement path. The quota slot is consumed
// before the provider call; a provider failure still burns the slot, which
// keeps the gate a single atomic operation instead of a reserve/refund pair.
func (h *EnhanceHandler) Enhance(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req enhanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Code) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no code provided")
	}

	ctx := c.Request().Context()
	allowed, remaining, err := h.Quota.CheckAndIncrement(ctx, ident.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "quota check failed")
	}
	if !allowed {
		return echo.NewHTTPError(http.StatusTooManyRequests,
			"Daily limit reached. You can enhance up to 10 snippets per day.")
	}

	result, err := h.Enhancer.Enhance(ctx, req.Code, req.Language)
	if err != nil {
		logging.FromContext(ctx).Error("enhancement failed", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway,
			"Enhancement failed. You can fill in the details manually.")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"title":        result.Title,
		"description":  result.Description,
		"improvedCode": result.ImprovedCode,
		"tags":         result.Tags,
		"language":     result.Language,
		"remaining":    remaining,
	})
}

// Usage reports today's consumption without touching the counter.
func (h *EnhanceHandler) Usage(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	usage, err := h.Quota.Usage(c.Request().Context(), ident.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read usage")
	}
	return c.JSON(http.StatusOK, usage)
}

// EnhanceWithUserKey is the unmetered path: the caller's stored provider key
// pays for the call, so the daily counter is not involved.
func (h *EnhanceHandler) EnhanceWithUserKey(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	ctx := c.Request().Context()
	user, err := h.Repo.FindUserByID(ctx, ident.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load account")
	}
	if user.APIKey == nil || *user.APIKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest,
			"No API key found. Add your key in Settings.")
	}

	var req enhanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Code) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no code provided")
	}

	result, err := h.Enhancer.EnhanceWithKey(ctx, *user.APIKey, req.Code, req.Language)
	if err != nil {
		logging.FromContext(ctx).Error("enhancement failed", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway,
			"Enhancement failed. You can fill in the details manually.")
	}

	return c.JSON(http.StatusOK, result)
}
