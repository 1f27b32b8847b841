package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"portfolio-relay/internal/handler"
	"portfolio-relay/pkg/otel"
	"portfolio-relay/pkg/ratelimit"
)

// ReadinessCheck is one dependency probed by /readyz
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Options configures NewRouter. Zero values disable the optional parts.
type Options struct {
	Logger       *zap.Logger
	Limiter      *ratelimit.Limiter
	Checks       []ReadinessCheck
	StaticDir    string
	MaxBodyBytes int64
	Tracing      bool

	// TrustedProxies feed gin's SetTrustedProxies; nil means ClientIP is the socket peer
	TrustedProxies []string
}

type Router struct {
	Engine *gin.Engine
}

func NewRouter(contactHandler *handler.ContactHandler, opts Options) (*Router, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(TraceMiddleware())
	if opts.Tracing {
		r.Use(otel.GinMiddleware())
	}
	r.Use(AccessLogMiddleware(log))

	// Health endpoints
	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	r.GET("/healthz", health)
	r.HEAD("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", health)
	r.HEAD("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		for _, check := range opts.Checks {
			if err := check.Check(ctx); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"status": check.Name + "_not_ready", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Contact relay
	api := r.Group("/api")
	api.Use(contactHandler.Recovery(), BodyLimitMiddleware(opts.MaxBodyBytes))
	if opts.Limiter != nil {
		api.POST("/contact", RateLimitMiddleware(opts.Limiter), contactHandler.Submit)
	} else {
		api.POST("/contact", contactHandler.Submit)
	}

	if opts.StaticDir != "" {
		if _, err := os.Stat(opts.StaticDir); err != nil {
			log.Warn("Static directory not found, site will not be served",
				zap.String("static_dir", opts.StaticDir), zap.Error(err))
		} else {
			files := http.FileServer(http.Dir(opts.StaticDir))
			r.NoRoute(func(c *gin.Context) {
				if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
					c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
					return
				}
				files.ServeHTTP(c.Writer, c.Request)
			})
		}
	}

	return &Router{Engine: r}, nil
}
