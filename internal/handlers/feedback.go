package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dkotenko/snipvault/internal/middleware/auth"
	"github.com/dkotenko/snipvault/internal/models"
	"github.com/dkotenko/snipvault/internal/repo"
)

type FeedbackHandler struct {
	Repo *repo.Repo
}

func (h *FeedbackHandler) Create(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Type == "" || strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "type and message are required")
	}

	entry := &models.Feedback{
		UserID:  ident.ID,
		Type:    req.Type,
		Message: strings.TrimSpace(req.Message),
		Status:  models.FeedbackStatusOpen,
	}
	if err := h.Repo.CreateFeedback(c.Request().Context(), entry); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save feedback")
	}
	return c.JSON(http.StatusCreated, entry)
}

// AdminList returns every feedback entry with its author attached.
func (h *FeedbackHandler) AdminList(c echo.Context) error {
	entries, err := h.Repo.ListFeedback(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list feedback")
	}

	type author struct {
		ID    uuid.UUID `json:"id"`
		Name  string    `json:"name"`
		Email string    `json:"email"`
	}
	type entryWithAuthor struct {
		models.Feedback
		Author author `json:"user"`
	}

	out := make([]entryWithAuthor, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryWithAuthor{
			Feedback: e,
			Author:   author{ID: e.User.ID, Name: e.User.Name, Email: e.User.Email},
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FeedbackHandler) AdminUpdate(c echo.Context) error {
	var req struct {
		ID     string  `json:"id"`
		Status string  `json:"status"`
		Reply  *string `json:"reply"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "feedback id is required")
	}

	status := req.Status
	if status == "" {
		status = models.FeedbackStatusReplied
	}
	switch status {
	case models.FeedbackStatusOpen, models.FeedbackStatusReplied, models.FeedbackStatusClosed:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown status")
	}

	entry, err := h.Repo.UpdateFeedback(c.Request().Context(), id, status, req.Reply)
	if errors.Is(err, repo.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "feedback not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update feedback")
	}
	return c.JSON(http.StatusOK, entry)
}
