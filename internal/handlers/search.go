package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/dkotenko/snipvault/internal/middleware/auth"
	"github.com/dkotenko/snipvault/internal/service/search"
	"github.com/dkotenko/snipvault/internal/util"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

// Search queries the caller's own snippets only; the index is shared but
// every query carries a user filter.
func (h *SearchHandler) Search(c echo.Context) error {
	ident, ok := auth.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	// Elasticsearch is an optional deployment; without it the route degrades
	// instead of the server panicking.
	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search unavailable")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, limit := util.Calculate(page, size)

	total, hits, err := search.Search(c.Request().Context(), h.ES, h.Index, ident.ID, query, from, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total":   total,
		"results": hits,
	})
}
