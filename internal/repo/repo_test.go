package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dkotenko/snipvault/internal/hash"
	"github.com/dkotenko/snipvault/internal/models"
)

func testRepo(t *testing.T) *Repo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return New(db)
}

func seedUser(t *testing.T, r *Repo, email string) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: &pwHash,
	}
	require.NoError(t, r.CreateUser(context.Background(), user))
	return user
}
