// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, rate limiting, and query
// normalization.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/job-board-backend/docs"
	"github.com/tbourn/job-board-backend/internal/ats"
	"github.com/tbourn/job-board-backend/internal/config"
	"github.com/tbourn/job-board-backend/internal/domain"
	"github.com/tbourn/job-board-backend/internal/http/handlers"
	"github.com/tbourn/job-board-backend/internal/http/middleware"
	"github.com/tbourn/job-board-backend/internal/repo"
	"github.com/tbourn/job-board-backend/internal/services"
)

// jobRepoShim adapts the repository free functions to the services.JobRepo
// interface expected by the JobService. This keeps services decoupled from
// the concrete repo package while reusing existing functions.
type jobRepoShim struct{}

// GetJob proxies repo.GetJob.
func (jobRepoShim) GetJob(ctx context.Context, db *gorm.DB, id string) (*domain.Job, error) {
	return repo.GetJob(ctx, db, id)
}

// CountJobs proxies repo.CountJobs.
func (jobRepoShim) CountJobs(ctx context.Context, db *gorm.DB, f repo.JobFilter) (int64, error) {
	return repo.CountJobs(ctx, db, f)
}

// ListJobsPage proxies repo.ListJobsPage.
func (jobRepoShim) ListJobsPage(ctx context.Context, db *gorm.DB, f repo.JobFilter, offset, limit int) ([]domain.Job, error) {
	return repo.ListJobsPage(ctx, db, f, offset, limit)
}

// ListJobCandidates proxies repo.ListJobCandidates (ranked search input).
func (jobRepoShim) ListJobCandidates(ctx context.Context, db *gorm.DB, f repo.JobFilter, max int) ([]domain.Job, error) {
	return repo.ListJobCandidates(ctx, db, f, max)
}

// JobsStats proxies repo.JobsStats (ETag support).
func (jobRepoShim) JobsStats(ctx context.Context, db *gorm.DB, f repo.JobFilter) (int64, *time.Time, error) {
	return repo.JobsStats(ctx, db, f)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. atsClient may be nil, in which case live lookups and applications
// answer 503. The admin sync route is mounted only when cfg.AdminToken is set
// and syncer is non-nil.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. ClientID: identify the caller before anything keys on it
//  4. RedactingLogger + Logger: scrubbed access line, request-scoped logger
//  5. Recovery: capture panics after logger
//  6. Body size limiter
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per client/IP, bypass on replay)
//  10. CORS and Security headers
//  11. Query normalizer
func RegisterRoutes(r *gin.Engine, db *gorm.DB, atsClient *ats.Client, syncer *services.SyncService, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2-3) Correlate requests, identify clients
	r.Use(middleware.RequestID())
	r.Use(middleware.ClientID())

	// 4) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))
	r.Use(middleware.Logger())

	// 5) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 6) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, clientID, jobID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, clientID, jobID, key, now)
			if err != nil || rec == nil || rec.Pending() {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per client/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	allowHeaders := []string{
		"Origin", "Content-Type", "Accept", "Authorization",
		middleware.HeaderClientID, middleware.HeaderIdempotencyKey, "If-None-Match",
	}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", "ETag", middleware.HeaderIdempotencyReplayed, "Retry-After"}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist.
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// 11) Sanitized query dictionary for handlers
	r.Use(middleware.NormalizeQuery())

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/ats. A nil *ats.Client must
	// not leak into the interfaces as a typed nil.
	var (
		live services.LiveFetcher
		sub  services.CandidateSubmitter
	)
	if atsClient != nil {
		live, sub = atsClient, atsClient
	}
	jobSvc := services.NewJobService(db, jobRepoShim{}, live, cfg.SearchMaxCandidates)
	metaSvc := services.NewMetadataService(db)
	appSvc := services.NewApplicationService(db, sub, cfg.IdempotencyTTL)

	var syncSvc handlers.SyncService
	if syncer != nil {
		syncSvc = syncer
	}
	h := handlers.New(jobSvc, metaSvc, appSvc, syncSvc)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/api/v1"
	api.Use(gzip.Gzip(gzip.DefaultCompression))
	{
		// Jobs
		api.GET("/jobs", h.ListJobs)
		api.GET("/jobs/:id", h.GetJob)
		api.GET("/jobs/:id/live", h.GetJobLive)

		// Applications
		api.POST("/jobs/:id/applications", h.Apply)

		// Metadata
		api.GET("/metadata/", h.GetMetadata)

		// Admin
		if cfg.AdminToken != "" && syncSvc != nil {
			admin := api.Group("/admin", middleware.RequireAdminToken(cfg.AdminToken))
			admin.POST("/sync", h.TriggerSync)
		}
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
