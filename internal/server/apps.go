package server

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/jszwec/csvutil"
	inventorydomain "github.com/smallbiznis/appinventory/internal/inventory/domain"
	"github.com/smallbiznis/appinventory/internal/observability/logger"
	"go.uber.org/zap"
)

type saveMetadataRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Status      string `json:"status"`
}

func (s *Server) BrowseApps(c *gin.Context) {
	state, err := sessionState(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	view, err := s.inventorySvc.Browse(c.Request.Context(), state)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) ListFacetOptions(c *gin.Context) {
	state, err := sessionState(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	facet, err := inventorydomain.ParseFacet(c.Param("facet"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	state.Facet = facet

	resp, err := s.inventorySvc.FacetOptions(c.Request.Context(), state)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ExportApps returns the filtered table as CSV. The file is encoded in full
// before anything is written, so an encoding failure is still a JSON error.
func (s *Server) ExportApps(c *gin.Context) {
	state, err := sessionState(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rows, err := s.inventorySvc.Export(c.Request.Context(), state)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	body, err := encodeCSV(rows, inventorydomain.WorkingRow{})
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("failed to encode csv export", zap.Int("rows", len(rows)), zap.Error(err))
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(state)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

// encodeCSV encodes rows with a header line. An empty slice yields the
// header taken from the zero value of the row type.
func encodeCSV[T any](rows []T, zero T) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	enc := csvutil.NewEncoder(w)

	var err error
	if len(rows) == 0 {
		err = enc.EncodeHeader(zero)
	} else {
		err = enc.Encode(rows)
	}
	if err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Server) GetAppDetail(c *gin.Context) {
	state, err := sessionState(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	location, err := requiredLocation(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.inventorySvc.Detail(c.Request.Context(), state, location)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SaveAppMetadata(c *gin.Context) {
	state, err := sessionState(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	location, err := requiredLocation(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req saveMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.inventorySvc.SaveMetadata(c.Request.Context(), inventorydomain.SaveMetadataRequest{
		Scope:       state.Scope,
		Viewer:      state.Viewer,
		Location:    location,
		Description: req.Description,
		Category:    strings.TrimSpace(req.Category),
		Status:      strings.TrimSpace(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SummarizeApp(c *gin.Context) {
	state, err := sessionState(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	location, err := requiredLocation(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.inventorySvc.Summarize(c.Request.Context(), inventorydomain.SummarizeRequest{
		Scope:    state.Scope,
		Viewer:   state.Viewer,
		Location: location,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetDraft(c *gin.Context) {
	location, err := requiredLocation(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	draft, err := s.inventorySvc.GetDraft(c.Request.Context(), viewerFromContext(c), location)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if draft == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": draft})
}

func (s *Server) DiscardDraft(c *gin.Context) {
	location, err := requiredLocation(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.inventorySvc.DiscardDraft(c.Request.Context(), viewerFromContext(c), location); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ClearCache(c *gin.Context) {
	if err := s.inventorySvc.ClearCache(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"categories": s.catalog.Categories(),
		"statuses":   s.catalog.Statuses(),
		"facets":     inventorydomain.Facets,
	}})
}

func exportFilename(state inventorydomain.SessionState) string {
	parts := []string{"apps", string(state.Scope), string(state.Facet)}
	if state.FacetValue != "" {
		parts = append(parts, state.FacetValue)
	}
	if state.Search != "" {
		parts = append(parts, state.Search)
	}
	return slug.Make(strings.Join(parts, " ")) + ".csv"
}
