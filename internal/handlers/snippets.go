package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dkotenko/snipvault/internal/event"
	"github.com/dkotenko/snipvault/internal/logging"
	"github.com/dkotenko/snipvault/internal/middleware/auth"
	"github.com/dkotenko/snipvault/internal/models"
	"github.com/dkotenko/snipvault/internal/repo"
	"github.com/dkotenko/snipvault/internal/service/search"
)

type SnippetHandler struct {
	Repo     *repo.Repo
	ES       *elasticsearch.Client
	ESIndex  string
	Producer *event.Producer
}

type snippetRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Language    string   `json:"language"`
	IsPublic    bool     `json:"is_public"`
	Tags        []string `json:"tags"`
}

func (h *SnippetHandler) List(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	snippets, err := h.Repo.ListSnippets(c.Request().Context(), ident.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list snippets")
	}
	return c.JSON(http.StatusOK, snippets)
}

func (h *SnippetHandler) Get(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid snippet id")
	}

	snippet, err := h.Repo.GetSnippet(c.Request().Context(), ident.ID, id)
	if errors.Is(err, repo.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "snippet not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load snippet")
	}
	return c.JSON(http.StatusOK, snippet)
}

func (h *SnippetHandler) Create(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req snippetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Code) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and code are required")
	}

	ctx := c.Request().Context()
	snippet := &models.Snippet{
		UserID:      ident.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Code:        req.Code,
		Language:    strings.ToLower(strings.TrimSpace(req.Language)),
		IsPublic:    req.IsPublic,
	}
	if err := h.Repo.CreateSnippet(ctx, snippet); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create snippet")
	}
	if err := h.applyTags(ctx, ident.ID, snippet, req.Tags); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save tags")
	}

	h.index(c, snippet)
	h.publish(c, snippet.ID, echo.Map{
		"type":       "snippet_created",
		"snippet_id": snippet.ID,
		"user_id":    ident.ID,
	})

	return c.JSON(http.StatusCreated, snippet)
}

func (h *SnippetHandler) Update(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid snippet id")
	}

	var req snippetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Code) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and code are required")
	}

	ctx := c.Request().Context()
	snippet, err := h.Repo.UpdateSnippet(ctx, ident.ID, id, repo.SnippetUpdate{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Code:        req.Code,
		Language:    strings.ToLower(strings.TrimSpace(req.Language)),
		IsPublic:    req.IsPublic,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "snippet not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update snippet")
	}
	if req.Tags != nil {
		if err := h.applyTags(ctx, ident.ID, snippet, req.Tags); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot save tags")
		}
	}

	h.index(c, snippet)
	h.publish(c, snippet.ID, echo.Map{
		"type":       "snippet_updated",
		"snippet_id": snippet.ID,
		"user_id":    ident.ID,
	})

	return c.JSON(http.StatusOK, snippet)
}

func (h *SnippetHandler) Delete(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid snippet id")
	}

	if err := h.Repo.DeleteSnippet(c.Request().Context(), ident.ID, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete snippet")
	}

	if h.ES != nil {
		if err := search.DeleteSnippet(c.Request().Context(), h.ES, h.ESIndex, id); err != nil {
			logging.FromContext(c.Request().Context()).Warn("search delete failed", "error", err)
		}
	}
	h.publish(c, id, echo.Map{
		"type":       "snippet_deleted",
		"snippet_id": id,
		"user_id":    ident.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *SnippetHandler) applyTags(ctx context.Context, userID uuid.UUID, snippet *models.Snippet, names []string) error {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		tag, err := h.Repo.CreateTag(ctx, userID, name)
		if err != nil {
			return err
		}
		tags = append(tags, *tag)
	}
	if err := h.Repo.SetSnippetTags(ctx, snippet, tags); err != nil {
		return err
	}
	snippet.Tags = tags
	return nil
}

// index mirrors the snippet into the search index. Search lags a failed write
// rather than failing it.
func (h *SnippetHandler) index(c echo.Context, snippet *models.Snippet) {
	if h.ES == nil {
		return
	}
	if err := search.IndexSnippet(c.Request().Context(), h.ES, h.ESIndex, snippet); err != nil {
		logging.FromContext(c.Request().Context()).Warn("search index failed",
			"snippet_id", snippet.ID, "error", err)
	}
}

func (h *SnippetHandler) publish(c echo.Context, key uuid.UUID, payload echo.Map) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Producer.PublishEvent(ctx, event.TopicSnippetEvents, key.String(), payload); err != nil {
		logging.FromContext(c.Request().Context()).Warn("event publish failed",
			"topic", event.TopicSnippetEvents, "error", err)
	}
}
