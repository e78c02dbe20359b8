// Package api exposes DocFlow over HTTP: the Telegram webhook, static
// Mini-App assets, the remote-store REST endpoints, document generation and
// the signed download and signing links.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dharsanguruparan/DocFlow/internal/config"
	"github.com/dharsanguruparan/DocFlow/internal/emit"
	"github.com/dharsanguruparan/DocFlow/internal/form"
	"github.com/dharsanguruparan/DocFlow/internal/logger"
	"github.com/dharsanguruparan/DocFlow/internal/model"
	"github.com/dharsanguruparan/DocFlow/internal/quota"
	"github.com/dharsanguruparan/DocFlow/internal/render"
	"github.com/dharsanguruparan/DocFlow/internal/repository"
	"github.com/dharsanguruparan/DocFlow/internal/signing"
	"github.com/dharsanguruparan/DocFlow/internal/state"
	"github.com/dharsanguruparan/DocFlow/internal/storage"
)

// Records is the remote-store repository.
type Records interface {
	SaveRecord(ctx context.Context, userID string, kind repository.Kind, id string, data json.RawMessage, createdAt time.Time) error
	ListRecords(ctx context.Context, userID string, kind repository.Kind) ([]json.RawMessage, error)
	Settings(ctx context.Context, userID string) (*model.Settings, error)
	SaveSettings(ctx context.Context, userID string, s model.Settings) error
	SignRequest(ctx context.Context, id string) (string, model.SignRequest, error)
	UpdateSignRequest(ctx context.Context, id string, status model.SignStatus, pages int) error
}

// Files presigns uploaded sign files.
type Files interface {
	PresignSignFile(ctx context.Context, objectKey string, ttl time.Duration) (string, error)
}

// Artifacts is the short-lived cache behind signed download links.
type Artifacts interface {
	Get(id string) (emit.Artifact, error)
}

// Controllers hands out per-user state controllers; *state.Registry
// implements it.
type Controllers interface {
	Get(ctx context.Context, userID string) (*state.Controller, error)
}

// Deps are the collaborators a Server needs. Records, Files and Webhook are
// optional; their routes answer 503 or are not mounted without them.
type Deps struct {
	Records     Records
	Files       Files
	Artifacts   Artifacts
	Controllers Controllers
	Webhook     http.Handler
	Signer      *signing.Signer
	Log         *zap.Logger
	Now         func() time.Time
}

// Server hosts the HTTP API.
type Server struct {
	cfg  *config.Config
	deps Deps
	log  *zap.Logger
	now  func() time.Time
}

// New constructs a Server.
func New(cfg *config.Config, deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Server{cfg: cfg, deps: deps, log: log.Named("api"), now: now}
}

// Router builds the gin engine with every route mounted.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(Recovery(s.log))
	router.Use(RequestLogger(s.log))
	router.Use(CORS())
	router.Use(RateLimit(s.cfg.Server.RateLimit, s.cfg.Server.RateBurst, s.log))
	router.MaxMultipartMemory = s.cfg.Server.MaxUploadBytes

	router.Use(s.webhook())

	router.GET("/health", s.handleHealth)
	router.GET("/download/:id", s.handleDownload)
	router.GET("/sign/:id", s.handleSignRequest)
	router.POST("/sign/:id", s.handleSign)

	api := router.Group("/api")
	{
		api.POST("/auth/telegram", s.handleTelegramAuth)
		api.POST("/payment/callback", s.handlePaymentCallback)
		api.GET("/contract-types", s.handleContractTypes)
	}

	protected := api.Group("/")
	protected.Use(Identify(s.secret()))
	{
		protected.GET("/contracts", s.handleListRecords(repository.KindContract))
		protected.POST("/contracts", s.handleSaveRecord(repository.KindContract))
		protected.GET("/invoices", s.handleListRecords(repository.KindInvoice))
		protected.POST("/invoices", s.handleSaveRecord(repository.KindInvoice))
		protected.GET("/documents", s.handleListRecords(repository.KindDocument))
		protected.POST("/documents", s.handleSaveRecord(repository.KindDocument))
		protected.GET("/settings", s.handleGetSettings)
		protected.PUT("/settings", s.handlePutSettings)

		protected.GET("/state", s.handleState)
		protected.POST("/generate/contract", s.handleGenerateContract)
		protected.POST("/generate/invoice", s.handleGenerateInvoice)
		protected.POST("/records/:id/regenerate", s.handleRegenerate)
		protected.GET("/records/:id/document", s.handleRecordDocument)
		protected.PUT("/tax-system", s.handleTaxSystem)
		protected.GET("/analytics", s.handleAnalytics)
		protected.GET("/analytics/export", s.handleExport)
		protected.POST("/sign-links", s.handleCreateSignLink)
		protected.GET("/sign-links", s.handlePendingSignatures)
		protected.POST("/create-subscription-link", s.handleSubscriptionLink)
	}

	if dir := s.cfg.Server.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			router.StaticFile("/", filepath.Join(dir, "index.html"))
			router.NoRoute(gin.WrapH(http.FileServer(http.Dir(dir))))
		}
	}
	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Server.Address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		timeout := s.cfg.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()
	s.log.Info("api listening", zap.String("address", s.cfg.Server.Address))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// webhook serves Telegram updates. Bot tokens contain a colon, which the
// router would read as a path parameter, so the path is matched exactly here.
func (s *Server) webhook() gin.HandlerFunc {
	if s.deps.Webhook == nil || s.cfg.Telegram.BotToken == "" {
		return func(c *gin.Context) { c.Next() }
	}
	path := config.WebhookPath(s.cfg.Telegram.BotToken)
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost || c.Request.URL.Path != path {
			c.Next()
			return
		}
		s.deps.Webhook.ServeHTTP(c.Writer, c.Request)
		c.Abort()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) secret() []byte {
	return []byte(s.cfg.Auth.JWTSecret)
}

func (s *Server) controller(c *gin.Context) (*state.Controller, bool) {
	if s.deps.Controllers == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Generation unavailable"})
		return nil, false
	}
	ctrl, err := s.deps.Controllers.Get(c.Request.Context(), GetUserID(c))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return ctrl, true
}

// fail maps package sentinels onto status codes and logs everything else.
func (s *Server) fail(c *gin.Context, err error) {
	var fieldErr *form.FieldError
	switch {
	case errors.Is(err, quota.ErrLimitReached):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Monthly document limit reached", "code": "limit_reached"})
	case errors.Is(err, state.ErrPaidOnly):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Available on paid plans only", "code": "paid_only"})
	case errors.Is(err, render.ErrUnknownType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown document type", "code": "unknown_type"})
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Required fields missing", "fields": fieldErr.Fields})
	case errors.Is(err, state.ErrInvalidPlan), errors.Is(err, state.ErrInvalidTaxSystem):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, state.ErrNotFound), errors.Is(err, repository.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		logger.From(c.Request.Context(), s.log).Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "request_id": GetRequestID(c)})
	}
}
