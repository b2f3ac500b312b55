package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotenko/snipvault/internal/models"
	"github.com/dkotenko/snipvault/internal/service"
)

func TestTokenCreateReturnsPlaintextOnce(t *testing.T) {
	r := testDB(t)
	user := seedHandlerUser(t, r, "kim@example.com")
	h := &TokenHandler{Tokens: &service.TokenService{Repo: r}}

	c, rec := jsonContext(t, http.MethodPost, "/api/v1/tokens", map[string]string{"name": "macbook"}, identOf(user))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Name  string `json:"name"`
		Token string `json:"token"`
	}
	decodeBody(t, rec, &created)
	assert.Equal(t, "macbook", created.Name)
	assert.True(t, strings.HasPrefix(created.Token, service.TokenPrefix))

	// The list view exposes metadata only.
	list, listRec := jsonContext(t, http.MethodGet, "/api/v1/tokens", nil, identOf(user))
	require.NoError(t, h.List(list))
	assert.Equal(t, http.StatusOK, listRec.Code)

	var tokens []models.CLIToken
	decodeBody(t, listRec, &tokens)
	require.Len(t, tokens, 1)
	assert.NotContains(t, listRec.Body.String(), created.Token)
	assert.NotContains(t, listRec.Body.String(), "token_digest")
}

func TestTokenCreateRequiresName(t *testing.T) {
	r := testDB(t)
	user := seedHandlerUser(t, r, "kim@example.com")
	h := &TokenHandler{Tokens: &service.TokenService{Repo: r}}

	c, _ := jsonContext(t, http.MethodPost, "/api/v1/tokens", map[string]string{"name": "  "}, identOf(user))
	err := h.Create(c)
	assert.Equal(t, http.StatusBadRequest, httpError(t, err).Code)
}

func TestTokenDeleteIsOwnerScoped(t *testing.T) {
	r := testDB(t)
	owner := seedHandlerUser(t, r, "kim@example.com")
	other := seedHandlerUser(t, r, "other@example.com")
	h := &TokenHandler{Tokens: &service.TokenService{Repo: r}}

	c, rec := jsonContext(t, http.MethodPost, "/api/v1/tokens", map[string]string{"name": "macbook"}, identOf(owner))
	require.NoError(t, h.Create(c))
	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &created)

	// A different user deleting the same id is a no-op.
	del, delRec := jsonContext(t, http.MethodDelete, "/api/v1/tokens/"+created.ID, nil, identOf(other))
	del.SetParamNames("id")
	del.SetParamValues(created.ID)
	require.NoError(t, h.Delete(del))
	assert.Equal(t, http.StatusOK, delRec.Code)

	list, listRec := jsonContext(t, http.MethodGet, "/api/v1/tokens", nil, identOf(owner))
	require.NoError(t, h.List(list))
	var tokens []models.CLIToken
	decodeBody(t, listRec, &tokens)
	assert.Len(t, tokens, 1)
}
