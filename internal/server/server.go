package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/appinventory/internal/config"
	inventorydomain "github.com/smallbiznis/appinventory/internal/inventory/domain"
	metadatadomain "github.com/smallbiznis/appinventory/internal/metadata/domain"
	"github.com/smallbiznis/appinventory/internal/observability"
	obsmiddleware "github.com/smallbiznis/appinventory/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/appinventory/internal/observability/metrics"
	obstracing "github.com/smallbiznis/appinventory/internal/observability/tracing"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, m *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, m *obsmetrics.Metrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, m)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	addr := cfg.HTTPAddr
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	inventorySvc inventorydomain.Service
	catalog      metadatadomain.Catalog
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	InventorySvc inventorydomain.Service
	Catalog      metadatadomain.Catalog
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		inventorySvc: p.InventorySvc,
		catalog:      p.Catalog,
	}
	svc.registerAPIRoutes()
	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.ViewerRequired())

	api.GET("/catalog", s.GetCatalog)

	// -------- Apps --------
	api.GET("/apps", s.BrowseApps)
	api.GET("/apps/facets/:facet", s.ListFacetOptions)
	api.GET("/apps/export.csv", s.ExportApps)
	api.GET("/apps/detail", s.GetAppDetail)
	api.PUT("/apps/metadata", s.SaveAppMetadata)
	api.POST("/apps/summary", s.SummarizeApp)

	// -------- Drafts --------
	api.GET("/drafts", s.GetDraft)
	api.DELETE("/drafts", s.DiscardDraft)

	// -------- Cache --------
	api.POST("/cache/clear", s.ClearCache)
}
