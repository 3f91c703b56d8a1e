// Package server exposes the HTTP API for the snapshot, adjustment and
// flow rule engines.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	adjustmentdomain "github.com/sitebooks/sitebooks/internal/adjustment/domain"
	auditdomain "github.com/sitebooks/sitebooks/internal/audit/domain"
	"github.com/sitebooks/sitebooks/internal/auditcontext"
	"github.com/sitebooks/sitebooks/internal/config"
	flowruledomain "github.com/sitebooks/sitebooks/internal/flowrule/domain"
	obscontext "github.com/sitebooks/sitebooks/internal/observability/context"
	"github.com/sitebooks/sitebooks/internal/observability/logger"
	"github.com/sitebooks/sitebooks/internal/observability/metrics"
	projectdomain "github.com/sitebooks/sitebooks/internal/project/domain"
	snapshotdomain "github.com/sitebooks/sitebooks/internal/snapshot/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const actorIDHeader = "X-User-Id"

type ServerParam struct {
	fx.In

	Config        config.Config
	DB            *gorm.DB
	Log           *zap.Logger
	SnapshotSvc   snapshotdomain.Service
	AdjustmentSvc adjustmentdomain.Service
	FlowRuleSvc   flowruledomain.Service
	ProjectSvc    projectdomain.Service
	AuditSvc      auditdomain.Service `optional:"true"`
}

type Server struct {
	cfg           config.Config
	db            *gorm.DB
	log           *zap.Logger
	snapshotSvc   snapshotdomain.Service
	adjustmentSvc adjustmentdomain.Service
	flowRuleSvc   flowruledomain.Service
	projectSvc    projectdomain.Service
	auditSvc      auditdomain.Service
}

func NewServer(p ServerParam) *Server {
	return &Server{
		cfg:           p.Config,
		db:            p.DB,
		log:           p.Log.Named("server"),
		snapshotSvc:   p.SnapshotSvc,
		adjustmentSvc: p.AdjustmentSvc,
		flowRuleSvc:   p.FlowRuleSvc,
		projectSvc:    p.ProjectSvc,
		auditSvc:      p.AuditSvc,
	}
}

// NewEngine builds the gin engine with the shared middleware stack.
func NewEngine(cfg config.Config, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	engine.Use(metrics.GinMiddleware(httpMetrics))
	engine.Use(actorMiddleware())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return engine
}

// actorMiddleware threads the authenticated user id through the request
// context. Authentication itself happens upstream; the engines only need
// a plain actor id.
func actorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := strings.TrimSpace(c.GetHeader(actorIDHeader))
		if actorID == "" {
			c.Next()
			return
		}
		c.Set("actor_id", actorID)

		ctx := c.Request.Context()
		ctx = obscontext.WithActorID(ctx, actorID)
		ctx = auditcontext.WithActorID(ctx, actorID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (s *Server) actorID(c *gin.Context) string {
	return obscontext.ActorIDFromGin(c)
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
