package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotenko/snipvault/internal/event"
	"github.com/dkotenko/snipvault/internal/models"
	"github.com/dkotenko/snipvault/internal/repo"
)

func testSnippetHandler(t *testing.T) (*SnippetHandler, *repo.Repo) {
	t.Helper()
	r := testDB(t)
	return &SnippetHandler{Repo: r, Producer: &event.Producer{}}, r
}

func TestSnippetCreateAndGet(t *testing.T) {
	h, r := testSnippetHandler(t)
	user := seedHandlerUser(t, r, "kim@example.com")

	c, rec := jsonContext(t, http.MethodPost, "/api/v1/snippets", map[string]any{
		"title":    "Debounce",
		"code":     "function debounce() {}",
		"language": "JavaScript",
		"tags":     []string{"JS", "utility", ""},
	}, identOf(user))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created models.Snippet
	decodeBody(t, rec, &created)
	assert.Equal(t, "javascript", created.Language)
	require.Len(t, created.Tags, 2)
	assert.Equal(t, "js", created.Tags[0].Name)

	get, getRec := jsonContext(t, http.MethodGet, "/api/v1/snippets/"+created.ID.String(), nil, identOf(user))
	get.SetParamNames("id")
	get.SetParamValues(created.ID.String())
	require.NoError(t, h.Get(get))
	assert.Equal(t, http.StatusOK, getRec.Code)
}

func TestSnippetCreateValidation(t *testing.T) {
	h, r := testSnippetHandler(t)
	user := seedHandlerUser(t, r, "kim@example.com")

	c, _ := jsonContext(t, http.MethodPost, "/api/v1/snippets", map[string]any{
		"title": "no code",
	}, identOf(user))
	err := h.Create(c)
	assert.Equal(t, http.StatusBadRequest, httpError(t, err).Code)
}

func TestSnippetGetIsOwnerScoped(t *testing.T) {
	h, r := testSnippetHandler(t)
	owner := seedHandlerUser(t, r, "kim@example.com")
	other := seedHandlerUser(t, r, "other@example.com")

	c, rec := jsonContext(t, http.MethodPost, "/api/v1/snippets", map[string]any{
		"title": "Private",
		"code":  "secret()",
	}, identOf(owner))
	require.NoError(t, h.Create(c))
	var created models.Snippet
	decodeBody(t, rec, &created)

	get, _ := jsonContext(t, http.MethodGet, "/api/v1/snippets/"+created.ID.String(), nil, identOf(other))
	get.SetParamNames("id")
	get.SetParamValues(created.ID.String())
	err := h.Get(get)
	assert.Equal(t, http.StatusNotFound, httpError(t, err).Code)
}

func TestSnippetUpdateAndDelete(t *testing.T) {
	h, r := testSnippetHandler(t)
	user := seedHandlerUser(t, r, "kim@example.com")

	c, rec := jsonContext(t, http.MethodPost, "/api/v1/snippets", map[string]any{
		"title": "Old title",
		"code":  "x = 1",
	}, identOf(user))
	require.NoError(t, h.Create(c))
	var created models.Snippet
	decodeBody(t, rec, &created)

	require.False(t, created.IsPublic)

	upd, updRec := jsonContext(t, http.MethodPut, "/api/v1/snippets/"+created.ID.String(), map[string]any{
		"title":     "New title",
		"code":      "x = 2",
		"is_public": true,
	}, identOf(user))
	upd.SetParamNames("id")
	upd.SetParamValues(created.ID.String())
	require.NoError(t, h.Update(upd))
	assert.Equal(t, http.StatusOK, updRec.Code)

	var updated models.Snippet
	decodeBody(t, updRec, &updated)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "x = 2", updated.Code)
	assert.True(t, updated.IsPublic)

	// Omitting the flag on a later update makes it private again; the PUT
	// body is the full document, not a patch.
	back, backRec := jsonContext(t, http.MethodPut, "/api/v1/snippets/"+created.ID.String(), map[string]any{
		"title": "New title",
		"code":  "x = 2",
	}, identOf(user))
	back.SetParamNames("id")
	back.SetParamValues(created.ID.String())
	require.NoError(t, h.Update(back))
	var reverted models.Snippet
	decodeBody(t, backRec, &reverted)
	assert.False(t, reverted.IsPublic)

	del, delRec := jsonContext(t, http.MethodDelete, "/api/v1/snippets/"+created.ID.String(), nil, identOf(user))
	del.SetParamNames("id")
	del.SetParamValues(created.ID.String())
	require.NoError(t, h.Delete(del))
	assert.Equal(t, http.StatusOK, delRec.Code)

	get, _ := jsonContext(t, http.MethodGet, "/api/v1/snippets/"+created.ID.String(), nil, identOf(user))
	get.SetParamNames("id")
	get.SetParamValues(created.ID.String())
	err := h.Get(get)
	assert.Equal(t, http.StatusNotFound, httpError(t, err).Code)
}
