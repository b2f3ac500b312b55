package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dkotenko/snipvault/internal/models"
	"github.com/dkotenko/snipvault/internal/repo"
)

func testRepo(t *testing.T) *repo.Repo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return repo.New(db)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := &AuthService{Repo: testRepo(t)}
	ctx := context.Background()

	user, err := svc.Register(ctx, "Kim", "kim@x.com", "password123")
	require.NoError(t, err)
	require.Equal(t, "Kim", user.Name)
	require.NotNil(t, user.PasswordHash)
	require.NotEqual(t, "password123", *user.PasswordHash)

	got, err := svc.Authenticate(ctx, "kim@x.com", "password123")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	// Any other password on the same email fails.
	_, err = svc.Authenticate(ctx, "kim@x.com", "password124")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUniformFailure(t *testing.T) {
	svc := &AuthService{Repo: testRepo(t)}
	ctx := context.Background()

	_, err := svc.Register(ctx, "Kim", "kim@x.com", "password123")
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(ctx, "kim@x.com", "nope-nope")
	_, noSuchUser := svc.Authenticate(ctx, "ghost@x.com", "password123")

	// No enumeration: both failures are indistinguishable.
	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, noSuchUser, ErrInvalidCredentials)
	require.Equal(t, wrongPassword.Error(), noSuchUser.Error())
}

func TestAuthenticatePasswordlessAccount(t *testing.T) {
	r := testRepo(t)
	svc := &AuthService{Repo: r}
	ctx := context.Background()

	user := &models.User{Name: "SSO Only", Email: "sso@x.com"}
	require.NoError(t, r.CreateUser(ctx, user))

	_, err := svc.Authenticate(ctx, "sso@x.com", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	svc := &AuthService{Repo: testRepo(t)}
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "kim@x.com", "password123")
	require.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Register(ctx, "Kim", "", "password123")
	require.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Register(ctx, "Kim", "kim@x.com", "short")
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := &AuthService{Repo: testRepo(t)}
	ctx := context.Background()

	_, err := svc.Register(ctx, "Kim", "kim@x.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other Kim", "kim@x.com", "password456")
	require.ErrorIs(t, err, repo.ErrDuplicateEmail)
}
