package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nguyenvuong1309/glow/internal/domain"
	"github.com/nguyenvuong1309/glow/internal/service/bookings"
	"github.com/nguyenvuong1309/glow/internal/service/catalog"
)

type catalogService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListServices(ctx context.Context, category string) ([]domain.Service, error)
	FilterAvailable(ctx context.Context, in catalog.FilterInput, quickCategory string) ([]domain.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (domain.Service, error)
	ListSlots(ctx context.Context, serviceID uuid.UUID, from, to civil.Date) ([]domain.Slot, error)
}

type bookingsService interface {
	Create(ctx context.Context, in bookings.CreateInput) (domain.Booking, error)
	List(ctx context.Context, userID string) ([]domain.Booking, error)
	Cancel(ctx context.Context, userID string, bookingID uuid.UUID) (domain.Booking, error)
}

type tokenVerifier interface {
	Verify(token string) (string, error)
}

// ReadyCheck is a named dependency probe for /readyz.
type ReadyCheck struct {
	Name  string
	Check func(context.Context) error
}

type Config struct {
	CORSOrigins []string
	// RateLimit is requests per second per client; zero disables limiting.
	RateLimit    float64
	RateBurst    int
	AuthRequired bool
}

type Deps struct {
	Catalog  catalogService
	Bookings bookingsService
	Verifier tokenVerifier
	Ready    []ReadyCheck
	Log      *slog.Logger
}

func NewRouter(cfg Config, deps Deps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "http"))

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !containsWildcard(origins),
		MaxAge:           12 * time.Hour,
	}))

	h := &handlers{
		catalog:            deps.Catalog,
		bookings:           deps.Bookings,
		log:                log,
		allowRequestUserID: !cfg.AuthRequired,
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/readyz", readyHandler(deps.Ready))

	api := r.Group("/v1")
	if cfg.RateLimit > 0 {
		api.Use(newClientLimiter(cfg.RateLimit, cfg.RateBurst).middleware())
	}
	{
		api.GET("/categories", h.listCategories)
		api.GET("/services", h.listServices)
		api.GET("/services/available", h.filterServices)
		api.GET("/services/:id", h.getService)
		api.GET("/services/:id/slots", h.listSlots)
	}

	protected := api.Group("/bookings")
	protected.Use(authMiddleware(deps.Verifier, cfg.AuthRequired))
	{
		protected.POST("", h.createBooking)
		protected.GET("", h.listBookings)
		protected.POST("/:id/cancel", h.cancelBooking)
	}

	return r
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug(
			"http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

func readyHandler(checks []ReadyCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		failures := map[string]string{}
		for _, check := range checks {
			if check.Check == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			err := check.Check(ctx)
			cancel()
			if err != nil {
				name := check.Name
				if name == "" {
					name = "dependency"
				}
				failures[name] = err.Error()
			}
		}
		if len(failures) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "failures": failures})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
