package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dkotenko/snipvault/internal/event"
	"github.com/dkotenko/snipvault/internal/logging"
	"github.com/dkotenko/snipvault/internal/repo"
	"github.com/dkotenko/snipvault/internal/service"
	"github.com/dkotenko/snipvault/internal/session"
)

type AuthHandler struct {
	Auth     *service.AuthService
	Sessions *session.Manager
	Producer *event.Producer
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.Auth.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrMissingFields):
		return echo.NewHTTPError(http.StatusBadRequest, "name, email and password are required")
	case errors.Is(err, service.ErrPasswordTooShort):
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	case errors.Is(err, repo.ErrDuplicateEmail):
		return echo.NewHTTPError(http.StatusConflict, "email already registered")
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, "registration failed")
	}

	h.publish(c, event.TopicUserEvents, user.ID.String(), echo.Map{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	})

	// Registration does not log the user in; the client follows with /login.
	return c.JSON(http.StatusCreated, service.IdentityOf(user))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.Auth.Authenticate(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	raw, exp, err := h.Sessions.Issue(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}
	c.SetCookie(session.Cookie(raw, exp))

	h.publish(c, event.TopicUserEvents, user.ID.String(), echo.Map{
		"type":    "user_logged_in",
		"user_id": user.ID,
	})

	return c.JSON(http.StatusOK, service.IdentityOf(user))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(session.ExpiredCookie())
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// publish sends a best-effort event; delivery failure is logged, never
// surfaced to the client.
func (h *AuthHandler) publish(c echo.Context, topic, key string, payload echo.Map) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Producer.PublishEvent(ctx, topic, key, payload); err != nil {
		logging.FromContext(c.Request().Context()).Warn("event publish failed",
			"topic", topic, "error", err)
	}
}
