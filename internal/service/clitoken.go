package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/dkotenko/snipvault/internal/hash"
	"github.com/dkotenko/snipvault/internal/models"
	"github.com/dkotenko/snipvault/internal/repo"
)

// TokenPrefix makes issued tokens visually distinguishable from other
// credentials.
const TokenPrefix = "snp_"

const tokenEntropyBytes = 32

var ErrTokenNameRequired = errors.New("token name is required")

type TokenService struct {
	Repo *repo.Repo
}

// Issue mints a token for ownerID and persists only its digest. The returned
// plaintext is shown to the caller exactly once and cannot be read back.
func (s *TokenService) Issue(ctx context.Context, ownerID uuid.UUID, name string) (string, *models.CLIToken, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, ErrTokenNameRequired
	}

	buf := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, err
	}
	plaintext := TokenPrefix + hex.EncodeToString(buf)

	token := &models.CLIToken{
		UserID:      ownerID,
		Name:        name,
		TokenDigest: hash.DigestToken(plaintext),
	}
	if err := s.Repo.CreateToken(ctx, token); err != nil {
		return "", nil, err
	}
	return plaintext, token, nil
}

func (s *TokenService) List(ctx context.Context, ownerID uuid.UUID) ([]models.CLIToken, error) {
	return s.Repo.ListTokens(ctx, ownerID)
}

// Revoke deletes the token, scoped to ownerID. Unknown or foreign ids are a
// silent no-op.
func (s *TokenService) Revoke(ctx context.Context, ownerID, tokenID uuid.UUID) error {
	return s.Repo.DeleteToken(ctx, ownerID, tokenID)
}
