// Package auth resolves inbound requests to a caller identity and provides
// the route guards built on top of it.
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dkotenko/snipvault/internal/hash"
	"github.com/dkotenko/snipvault/internal/logging"
	"github.com/dkotenko/snipvault/internal/repo"
	"github.com/dkotenko/snipvault/internal/service"
	"github.com/dkotenko/snipvault/internal/session"
)

const identityKey = "identity"

const bearerPrefix = "Bearer "

type Resolver struct {
	Repo     *repo.Repo
	Sessions *session.Manager
}

// Resolve maps a request to an identity, or to nil when unauthenticated.
// Bearer credentials are tried first and are terminal: a request that
// explicitly presents a token is a CLI call, and an invalid token is never
// rescued by a session that happens to ride the same transport.
func (r *Resolver) Resolve(c echo.Context) (*service.Identity, error) {
	ctx := c.Request().Context()

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, bearerPrefix) {
		raw := strings.TrimPrefix(header, bearerPrefix)

		token, err := r.Repo.FindTokenByDigest(ctx, hash.DigestToken(raw))
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		// Advisory bookkeeping; a failure here must not fail the request.
		if err := r.Repo.TouchTokenLastUsed(ctx, token.ID, time.Now().UTC()); err != nil {
			logging.FromContext(ctx).Warn("token last-used update failed", "error", err)
		}

		user, err := r.Repo.FindUserByID(ctx, token.UserID)
		if errors.Is(err, repo.ErrNotFound) {
			// Cascade-delete should make this impossible; handled anyway.
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		ident := service.IdentityOf(user)
		return &ident, nil
	}

	cookie, err := c.Cookie(session.CookieName)
	if err != nil {
		return nil, nil
	}
	userID, err := r.Sessions.Verify(cookie.Value)
	if err != nil {
		return nil, nil
	}

	user, err := r.Repo.FindUserByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ident := service.IdentityOf(user)
	return &ident, nil
}

// RequireUser turns a failed resolution into a 401.
func (r *Resolver) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, err := r.Resolve(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "authentication failed")
		}
		if ident == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		c.Set(identityKey, *ident)
		return next(c)
	}
}

// RequireSession accepts only the interactive session credential. Token
// management stays a browser-only surface: a bearer token cannot mint or
// revoke tokens.
func (r *Resolver) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(session.CookieName)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		userID, err := r.Sessions.Verify(cookie.Value)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}

		user, err := r.Repo.FindUserByID(c.Request().Context(), userID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		c.Set(identityKey, service.IdentityOf(user))
		return next(c)
	}
}

// RequireAdmin re-fetches the admin flag on every call rather than trusting
// whatever a long-lived session was issued with.
func (r *Resolver) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, ok := CurrentIdentity(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}

		user, err := r.Repo.FindUserByID(c.Request().Context(), ident.ID)
		if err != nil || !user.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}

// CurrentIdentity reads the identity placed by the guards.
func CurrentIdentity(c echo.Context) (service.Identity, bool) {
	ident, ok := c.Get(identityKey).(service.Identity)
	return ident, ok
}

// SetIdentity exists for handler tests that bypass the middleware.
func SetIdentity(c echo.Context, ident service.Identity) {
	c.Set(identityKey, ident)
}
