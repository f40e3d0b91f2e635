package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/nguyenvuong1309/glow/internal/auth"
	"github.com/nguyenvuong1309/glow/internal/config"
	"github.com/nguyenvuong1309/glow/internal/events"
	"github.com/nguyenvuong1309/glow/internal/service/bookings"
	"github.com/nguyenvuong1309/glow/internal/service/catalog"
	"github.com/nguyenvuong1309/glow/internal/store"
	"github.com/nguyenvuong1309/glow/internal/store/cache"
	"github.com/nguyenvuong1309/glow/internal/store/postgres"
	"github.com/nguyenvuong1309/glow/internal/telemetry"
	grpcTransport "github.com/nguyenvuong1309/glow/internal/transport/grpc"
	httpTransport "github.com/nguyenvuong1309/glow/internal/transport/http"
)

const serviceName = "glow-server"

type tokenVerifier interface {
	Verify(token string) (string, error)
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", serviceName),
	)
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("service", serviceName),
	)
	slog.SetDefault(log)

	log.Info("starting",
		slog.String("grpc_addr", cfg.GRPCAddr()),
		slog.String("http_addr", cfg.HTTPAddr),
		slog.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:      cfg.OTelEnabled,
		ServiceName:  serviceName,
		OTLPEndpoint: cfg.OTelEndpoint,
		SampleRatio:  cfg.OTelSampleRatio,
	})
	if err != nil {
		log.Error("telemetry setup failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Warn("telemetry shutdown failed", slog.Any("err", err))
		}
	}()

	log.Info("connecting to database", postgres.LogAttrs(cfg.DatabaseURL)...)
	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		args := append([]any{slog.Any("err", err)}, postgres.LogAttrs(cfg.DatabaseURL)...)
		log.Error("database connection failed", args...)
		os.Exit(1)
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()

	ready := []httpTransport.ReadyCheck{
		{Name: "postgres", Check: func(ctx context.Context) error { return postgres.Ping(ctx, db) }},
	}

	var catalogRepo store.CatalogRepository = postgres.NewCatalogRepo(db)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn("redis close failed", slog.Any("err", err))
			}
		}()
		catalogRepo = cache.NewCatalogRepo(catalogRepo, cache.NewRedisKV(rdb), cfg.CacheTTL, log)
		ready = append(ready, httpTransport.ReadyCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
		log.Info("catalog cache enabled", slog.String("redis_addr", cfg.RedisAddr), slog.Duration("ttl", cfg.CacheTTL))
	}

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		brokers := strings.Join(cfg.KafkaBrokers, ",")
		kp, err := events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:        brokers,
			TopicPrefix:    cfg.KafkaTopicPrefix,
			PublishTimeout: cfg.KafkaPublishTimeout,
		})
		if err != nil {
			log.Error("kafka publisher init failed", slog.Any("err", err))
			os.Exit(1)
		}
		defer func() {
			if err := kp.Close(); err != nil {
				log.Warn("kafka writer close failed", slog.Any("err", err))
			}
		}()
		publisher = kp
		ready = append(ready, httpTransport.ReadyCheck{Name: "kafka", Check: events.ReadyCheck(brokers)})
		log.Info("booking events enabled", slog.String("kafka_brokers", brokers))
	}

	// Left as a nil interface when no secret is configured; the transports
	// treat that as "tokens cannot be verified".
	var verifier tokenVerifier
	if cfg.JWTSecret != "" {
		v, err := auth.NewVerifier(cfg.JWTSecret)
		if err != nil {
			log.Error("jwt verifier init failed", slog.Any("err", err))
			os.Exit(1)
		}
		verifier = v
	} else if cfg.AuthRequired {
		log.Error("auth.required is set but auth.jwt_secret is empty")
		os.Exit(1)
	}

	catalogSvc := catalog.NewService(catalogRepo)
	bookingSvc := bookings.NewService(
		postgres.NewBookingRepo(db),
		catalogRepo,
		bookings.WithLocation(cfg.BookingLocation),
		bookings.WithPublisher(publisher),
		bookings.WithLogger(log),
	)

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcTransport.DefaultRequestTimeoutInterceptor(cfg.GRPCRequestTimeout),
			grpcTransport.AuthInterceptor(verifier, cfg.AuthRequired),
		),
	)
	grpcTransport.RegisterCatalogServiceServer(grpcServer, grpcTransport.NewCatalogServer(catalogSvc, log))
	grpcTransport.RegisterBookingsServiceServer(grpcServer, grpcTransport.NewBookingsServer(bookingSvc, log, !cfg.AuthRequired))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(grpcTransport.CatalogServiceName, healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(grpcTransport.BookingsServiceName, healthpb.HealthCheckResponse_SERVING)

	router := httpTransport.NewRouter(httpTransport.Config{
		CORSOrigins:  cfg.HTTPCORSOrigins,
		RateLimit:    cfg.HTTPRateLimit,
		RateBurst:    cfg.HTTPRateBurst,
		AuthRequired: cfg.AuthRequired,
	}, httpTransport.Deps{
		Catalog:  catalogSvc,
		Bookings: bookingSvc,
		Verifier: verifier,
		Ready:    ready,
		Log:      log,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, "glow-http"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Error("grpc listen failed", slog.Any("err", err), slog.String("grpc_addr", cfg.GRPCAddr()))
		os.Exit(1)
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- grpcServer.Serve(lis)
	}()
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info("servers started", slog.String("grpc_addr", cfg.GRPCAddr()), slog.String("http_addr", cfg.HTTPAddr))

	exitCode := 0
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Error("server stopped with error", slog.Any("err", err))
			exitCode = 1
		}
	}

	healthServer.Shutdown()
	drain(log, cfg.ShutdownTimeout, grpcServer, httpServer)

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// drain stops both servers accepting work and gives in-flight calls until
// timeout to finish. gRPC calls still open after that are cut off.
func drain(log *slog.Logger, timeout time.Duration, grpcServer *grpc.Server, httpServer *http.Server) {
	log.Info("draining servers", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Warn("http drain incomplete", slog.Any("err", err))
		}
	}()
	go func() {
		defer wg.Done()
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			log.Warn("grpc drain incomplete, closing open calls")
			grpcServer.Stop()
			<-stopped
		}
	}()
	wg.Wait()

	log.Info("servers stopped")
}
