package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/reclaimhq/reclaim/internal/config"
	invitationdomain "github.com/reclaimhq/reclaim/internal/invitation/domain"
	obslogger "github.com/reclaimhq/reclaim/internal/observability/logger"
	obsmetrics "github.com/reclaimhq/reclaim/internal/observability/metrics"
	signupdomain "github.com/reclaimhq/reclaim/internal/signup/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Log:             log,
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	invitationSvc invitationdomain.Service
	signupSvc     signupdomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	InvitationSvc invitationdomain.Service
	SignupSvc     signupdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		invitationSvc: p.InvitationSvc,
		signupSvc:     p.SignupSvc,
	}

	svc.registerInvitationRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerInvitationRoutes() {
	invitations := s.engine.Group("/invitations")

	invitations.POST("/send", s.AccountContextRequired(), s.SendInvitations)
	invitations.POST("/validate-token", s.ValidateInvitationToken)
	invitations.POST("/validate", s.ValidateInvitation)
	invitations.POST("/complete-signup", s.CompleteSignup)
}

func run(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    ":" + s.cfg.HTTPPort,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
