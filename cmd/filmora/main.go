package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/example/filmora/internal/catalog"
	"github.com/example/filmora/internal/config"
	"github.com/example/filmora/internal/events"
	"github.com/example/filmora/internal/handlers"
	"github.com/example/filmora/internal/omdb"
	"github.com/example/filmora/internal/platform/auth"
	"github.com/example/filmora/internal/platform/db"
	"github.com/example/filmora/internal/platform/httpserver"
	"github.com/example/filmora/internal/platform/logging"
	"github.com/example/filmora/internal/platform/natsconn"
	"github.com/example/filmora/internal/platform/run"
	"github.com/example/filmora/internal/prefs"
	"github.com/example/filmora/internal/uploads"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	var logOpts []logging.Option
	if cfg.Development() {
		logOpts = append(logOpts, logging.WithDevelopment())
	}
	log, err := logging.New(cfg.LogLevel, logOpts...)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Error("run migrations", zap.Error(err))
		run.Exit(1)
	}
	pool, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Error("open database", zap.Error(err))
		run.Exit(1)
	}
	defer pool.Close()

	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		nc, js, err := natsconn.Connect(natsconn.Options{URL: cfg.NATSURL})
		if err != nil {
			log.Error("connect nats", zap.Error(err))
			run.Exit(1)
		}
		defer nc.Close()
		publisher = events.New(js, log)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "omdb",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit-breaker state change",
				zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	gateway := omdb.New(cfg.OMDb.BaseURL, cfg.OMDb.APIKey,
		omdb.WithCircuitBreaker(cb), omdb.WithLogger(log))

	catalogSvc := catalog.NewService(catalog.NewPostgresMovieStore(pool), gateway, publisher, log)
	prefsSvc := prefs.NewService(prefs.NewPostgresStore(pool))
	signer := uploads.NewSigner(cfg.ImageKit.PrivateKey)

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		ReadyFunc: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), db.PingTimeout)
			defer cancel()
			return pool.Ping(ctx)
		},
	})
	r.Use(httpserver.MetricsMiddleware())
	if cfg.HTTP.RateLimitRPS > 0 {
		rl := httpserver.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
		r.Use(rl.Middleware)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	verifier := auth.JWTVerifier{Secret: []byte(cfg.JWTSecret)}
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		handlers.Mount(r, handlers.Deps{
			Catalog: catalogSvc,
			Gateway: gateway,
			Prefs:   prefsSvc,
			Uploads: signer,
			Errors:  &handlers.Errors{Dev: cfg.Development()},
		})
	})

	srv := httpserver.New(httpserver.Options{
		Addr:        cfg.HTTP.Addr,
		ServiceName: "filmora",
		Logger:      log,
		Router:      r,
	})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}
