package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	inventorydomain "github.com/smallbiznis/appinventory/internal/inventory/domain"
	obscontext "github.com/smallbiznis/appinventory/internal/observability/context"
)

const (
	defaultViewerHeader = "X-Forwarded-User"
	contextViewerKey    = "viewer_login"
)

// ViewerRequired reads the viewer login from the header set by the SSO
// proxy in front of the service.
func (s *Server) ViewerRequired() gin.HandlerFunc {
	header := strings.TrimSpace(s.cfg.Browse.ViewerHeader)
	if header == "" {
		header = defaultViewerHeader
	}
	return func(c *gin.Context) {
		login := strings.TrimSpace(c.GetHeader(header))
		if login == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextViewerKey, login)
		c.Request = c.Request.WithContext(obscontext.WithViewer(c.Request.Context(), login))
		c.Next()
	}
}

func viewerFromContext(c *gin.Context) inventorydomain.Viewer {
	return inventorydomain.Viewer{Login: c.GetString(contextViewerKey)}
}
