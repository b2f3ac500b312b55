package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotenko/snipvault/internal/models"
)

func TestFeedbackCreate(t *testing.T) {
	r := testDB(t)
	user := seedHandlerUser(t, r, "kim@example.com")
	h := &FeedbackHandler{Repo: r}

	c, rec := jsonContext(t, http.MethodPost, "/api/v1/feedback", map[string]string{
		"type":    "bug",
		"message": "  search misses new snippets  ",
	}, identOf(user))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var entry models.Feedback
	decodeBody(t, rec, &entry)
	assert.Equal(t, models.FeedbackStatusOpen, entry.Status)
	assert.Equal(t, "search misses new snippets", entry.Message)
	assert.Nil(t, entry.Reply)
}

func TestFeedbackCreateValidation(t *testing.T) {
	r := testDB(t)
	user := seedHandlerUser(t, r, "kim@example.com")
	h := &FeedbackHandler{Repo: r}

	c, _ := jsonContext(t, http.MethodPost, "/api/v1/feedback", map[string]string{
		"type": "bug",
	}, identOf(user))
	err := h.Create(c)
	assert.Equal(t, http.StatusBadRequest, httpError(t, err).Code)
}

func TestFeedbackAdminListIncludesAuthor(t *testing.T) {
	r := testDB(t)
	user := seedHandlerUser(t, r, "kim@example.com")
	h := &FeedbackHandler{Repo: r}

	c, _ := jsonContext(t, http.MethodPost, "/api/v1/feedback", map[string]string{
		"type":    "idea",
		"message": "dark mode",
	}, identOf(user))
	require.NoError(t, h.Create(c))

	list, rec := jsonContext(t, http.MethodGet, "/api/v1/admin/feedback", nil, nil)
	require.NoError(t, h.AdminList(list))
	assert.Equal(t, http.StatusOK, rec.Code)

	var entries []struct {
		Message string `json:"message"`
		User    struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeBody(t, rec, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "dark mode", entries[0].Message)
	assert.Equal(t, "kim@example.com", entries[0].User.Email)
}

func TestFeedbackAdminReply(t *testing.T) {
	r := testDB(t)
	user := seedHandlerUser(t, r, "kim@example.com")
	h := &FeedbackHandler{Repo: r}

	c, rec := jsonContext(t, http.MethodPost, "/api/v1/feedback", map[string]string{
		"type":    "bug",
		"message": "login loops",
	}, identOf(user))
	require.NoError(t, h.Create(c))
	var created models.Feedback
	decodeBody(t, rec, &created)

	// Status defaults to replied when a reply is sent without one.
	patch, patchRec := jsonContext(t, http.MethodPatch, "/api/v1/admin/feedback", map[string]any{
		"id":    created.ID.String(),
		"reply": "fixed in the next deploy",
	}, nil)
	require.NoError(t, h.AdminUpdate(patch))
	assert.Equal(t, http.StatusOK, patchRec.Code)

	var updated models.Feedback
	decodeBody(t, patchRec, &updated)
	assert.Equal(t, models.FeedbackStatusReplied, updated.Status)
	require.NotNil(t, updated.Reply)
	assert.Equal(t, "fixed in the next deploy", *updated.Reply)
	assert.NotNil(t, updated.RepliedAt)
}

func TestFeedbackAdminUpdateUnknownID(t *testing.T) {
	r := testDB(t)
	h := &FeedbackHandler{Repo: r}

	patch, _ := jsonContext(t, http.MethodPatch, "/api/v1/admin/feedback", map[string]any{
		"id":     uuid.NewString(),
		"status": models.FeedbackStatusClosed,
	}, nil)
	err := h.AdminUpdate(patch)
	assert.Equal(t, http.StatusNotFound, httpError(t, err).Code)
}
