package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserKeyLifecycle(t *testing.T) {
	r := testDB(t)
	user := seedHandlerUser(t, r, "kim@example.com")
	h := &UserKeyHandler{Repo: r}

	// Nothing stored yet.
	get, getRec := jsonContext(t, http.MethodGet, "/api/v1/user/key", nil, identOf(user))
	require.NoError(t, h.Get(get))
	var empty struct {
		Masked *string `json:"masked"`
	}
	decodeBody(t, getRec, &empty)
	assert.Nil(t, empty.Masked)

	set, setRec := jsonContext(t, http.MethodPost, "/api/v1/user/key", map[string]string{
		"key": "sk-test-secret-abcd1234",
	}, identOf(user))
	require.NoError(t, h.Set(set))
	assert.Equal(t, http.StatusOK, setRec.Code)

	var masked struct {
		Masked string `json:"masked"`
	}
	decodeBody(t, setRec, &masked)
	assert.Equal(t, "sk-••••••••••••1234", masked.Masked)
	assert.NotContains(t, setRec.Body.String(), "sk-test-secret-abcd1234")

	// Reads keep returning the mask, never the key.
	get2, get2Rec := jsonContext(t, http.MethodGet, "/api/v1/user/key", nil, identOf(user))
	require.NoError(t, h.Get(get2))
	assert.Contains(t, get2Rec.Body.String(), "••••")
	assert.NotContains(t, get2Rec.Body.String(), "secret")

	del, delRec := jsonContext(t, http.MethodDelete, "/api/v1/user/key", nil, identOf(user))
	require.NoError(t, h.Delete(del))
	assert.Equal(t, http.StatusOK, delRec.Code)

	get3, get3Rec := jsonContext(t, http.MethodGet, "/api/v1/user/key", nil, identOf(user))
	require.NoError(t, h.Get(get3))
	decodeBody(t, get3Rec, &empty)
	assert.Nil(t, empty.Masked)
}

func TestUserKeyRejectsWrongPrefix(t *testing.T) {
	r := testDB(t)
	user := seedHandlerUser(t, r, "kim@example.com")
	h := &UserKeyHandler{Repo: r}

	c, _ := jsonContext(t, http.MethodPost, "/api/v1/user/key", map[string]string{
		"key": "not-a-provider-key",
	}, identOf(user))
	err := h.Set(c)
	assert.Equal(t, http.StatusBadRequest, httpError(t, err).Code)
}
