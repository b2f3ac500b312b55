package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dkotenko/snipvault/internal/middleware/auth"
	"github.com/dkotenko/snipvault/internal/models"
	"github.com/dkotenko/snipvault/internal/repo"
	"github.com/dkotenko/snipvault/internal/service"
	"github.com/dkotenko/snipvault/internal/session"
)

func testDB(t *testing.T) *repo.Repo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return repo.New(db)
}

func testSessions() *session.Manager {
	return session.NewManager([]byte("handler-test-secret"), time.Hour)
}

func seedHandlerUser(t *testing.T, r *repo.Repo, email string) *models.User {
	t.Helper()

	svc := &service.AuthService{Repo: r}
	user, err := svc.Register(t.Context(), "Kim", email, "hunter2-hunter2")
	require.NoError(t, err)
	return user
}

// jsonContext builds an echo context carrying a JSON body, optionally
// pre-authenticated with ident the way the route guards would.
func jsonContext(t *testing.T, method, target string, body any, ident *service.Identity) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if ident != nil {
		auth.SetIdentity(c, *ident)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func httpError(t *testing.T, err error) *echo.HTTPError {
	t.Helper()

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	return httpErr
}

func identOf(u *models.User) *service.Identity {
	ident := service.IdentityOf(u)
	return &ident
}
