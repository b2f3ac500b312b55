package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/dkotenko/snipvault/internal/handlers"
	"github.com/dkotenko/snipvault/internal/middleware/auth"
)

type Deps struct {
	Resolver        *auth.Resolver
	AuthHandler     *handlers.AuthHandler
	TokenHandler    *handlers.TokenHandler
	SnippetHandler  *handlers.SnippetHandler
	TagHandler      *handlers.TagHandler
	SearchHandler   *handlers.SearchHandler
	EnhanceHandler  *handlers.EnhanceHandler
	UserKeyHandler  *handlers.UserKeyHandler
	FeedbackHandler *handlers.FeedbackHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)

	// Token management is interactive-only: the session guard keeps a leaked
	// bearer token from minting more tokens.
	tokens := v1.Group("/tokens", d.Resolver.RequireSession)
	tokens.GET("", d.TokenHandler.List)
	tokens.POST("", d.TokenHandler.Create)
	tokens.DELETE("/:id", d.TokenHandler.Delete)

	api := v1.Group("", d.Resolver.RequireUser)

	api.GET("/snippets", d.SnippetHandler.List)
	api.POST("/snippets", d.SnippetHandler.Create)
	api.GET("/snippets/:id", d.SnippetHandler.Get)
	api.PUT("/snippets/:id", d.SnippetHandler.Update)
	api.DELETE("/snippets/:id", d.SnippetHandler.Delete)

	api.GET("/tags", d.TagHandler.List)
	api.POST("/tags", d.TagHandler.Create)

	api.GET("/search", d.SearchHandler.Search)

	api.POST("/ai/enhance", d.EnhanceHandler.Enhance)
	api.GET("/ai/usage", d.EnhanceHandler.Usage)
	api.POST("/user/enhance", d.EnhanceHandler.EnhanceWithUserKey)

	api.GET("/user/key", d.UserKeyHandler.Get)
	api.POST("/user/key", d.UserKeyHandler.Set)
	api.DELETE("/user/key", d.UserKeyHandler.Delete)

	api.POST("/feedback", d.FeedbackHandler.Create)

	admin := v1.Group("/admin", d.Resolver.RequireUser, d.Resolver.RequireAdmin)
	admin.GET("/feedback", d.FeedbackHandler.AdminList)
	admin.PATCH("/feedback", d.FeedbackHandler.AdminUpdate)
}
