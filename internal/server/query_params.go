package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	inventorydomain "github.com/smallbiznis/appinventory/internal/inventory/domain"
	obscontext "github.com/smallbiznis/appinventory/internal/observability/context"
)

type browseQuery struct {
	Scope    string `form:"scope"`
	Facet    string `form:"facet"`
	Value    string `form:"value"`
	Search   string `form:"q"`
	Selected string `form:"selected"`
}

// sessionState builds the per-request browsing state from the query string
// and the authenticated viewer.
func sessionState(c *gin.Context) (inventorydomain.SessionState, error) {
	var query browseQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return inventorydomain.SessionState{}, invalidRequestError()
	}

	scope, err := inventorydomain.ParseScope(query.Scope)
	if err != nil {
		return inventorydomain.SessionState{}, err
	}
	c.Request = c.Request.WithContext(obscontext.WithScope(c.Request.Context(), string(scope)))

	facet, err := inventorydomain.ParseFacet(query.Facet)
	if err != nil {
		return inventorydomain.SessionState{}, err
	}

	return inventorydomain.SessionState{
		Scope:       scope,
		Facet:       facet,
		FacetValue:  strings.TrimSpace(query.Value),
		Search:      strings.TrimSpace(query.Search),
		SelectedApp: strings.TrimSpace(query.Selected),
		Viewer:      viewerFromContext(c),
	}, nil
}

func requiredLocation(c *gin.Context) (string, error) {
	location := strings.TrimSpace(c.Query("location"))
	if location == "" {
		return "", newValidationError("location", "required", "location is required")
	}
	return location, nil
}
