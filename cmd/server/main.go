package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/food_ordering/internal/config"
	"github.com/Skotchmaster/food_ordering/internal/es"
	"github.com/Skotchmaster/food_ordering/internal/models"
	"github.com/Skotchmaster/food_ordering/internal/mykafka"
	"github.com/Skotchmaster/food_ordering/internal/repo"
	"github.com/Skotchmaster/food_ordering/internal/seed"
	"github.com/Skotchmaster/food_ordering/internal/service"
	httpserver "github.com/Skotchmaster/food_ordering/internal/transport/http"
	pkgdb "github.com/Skotchmaster/food_ordering/pkg/db"
	"github.com/Skotchmaster/food_ordering/pkg/logging"
	authmw "github.com/Skotchmaster/food_ordering/pkg/middleware/auth"
	"github.com/Skotchmaster/food_ordering/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/food_ordering/pkg/middleware/logging"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

func main() {
	config.LoadEnvFile(".env")

	cfg := config.Load()
	cfg.MustValidate()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	ctx := logging.IntoContext(context.Background(), logger)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := pkgdb.Open(openCtx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	r := &repo.GormRepo{DB: db}
	if cfg.SeedOnStart {
		seeded, err := seed.Seed(ctx, r, bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		logger.Info("seed", "applied", seeded)
	}

	var (
		events   service.Publisher = mykafka.Nop{}
		producer *mykafka.Producer
	)
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		events = producer
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS not set")
	}

	searcher, err := newSearcher(ctx, &cfg, r)
	if err != nil {
		log.Fatalf("search: %v", err)
	}

	authSvc := &service.AuthService{
		Repo:          r,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
		Events:        events,
	}
	authHTTP := &httpserver.AuthHTTP{Svc: authSvc}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(echomw.Secure())
	if cfg.CSRFEnabled {
		e.Use(csrf.Middleware(csrf.DefaultConfig()))
	}

	httpserver.Register(e, &httpserver.Deps{
		Auth:    authHTTP,
		Catalog: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r, Searcher: searcher}},
		Orders:  &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r, Events: events}},
		Payment: &httpserver.PaymentHTTP{Svc: &service.PaymentService{Repo: r, Events: events}},
		Users:   &httpserver.UserHTTP{Svc: &service.UserService{Repo: r}},
		Health:  &httpserver.HealthHTTP{DB: db},
		AuthMW:  authmw.NewAuthMiddleware(cfg.JWTAccessSecret, authHTTP.RefreshFunc()),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "err", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_failed", "err", err)
		}
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_failed", "err", err)
	}

	logger.Info("stopped")
}

// newSearcher indexes every restaurant into Elasticsearch when ES_URL is set
// and falls back to the database otherwise.
func newSearcher(ctx context.Context, cfg *config.Config, r *repo.GormRepo) (service.Searcher, error) {
	if cfg.ESURL == "" {
		slog.Warn("es_disabled", "reason", "ES_URL not set")
		return &service.DBSearch{Repo: r}, nil
	}

	client, err := es.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	idx := &es.RestaurantIndex{Client: client, Index: cfg.ESIndex}
	if err := idx.EnsureIndex(ctx); err != nil {
		return nil, err
	}

	rows, err := r.ListRestaurants(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	docs := make([]transport.Restaurant, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row.DTO())
	}
	if err := idx.IndexRestaurants(ctx, docs); err != nil {
		return nil, err
	}
	slog.Info("es_indexed", "index", cfg.ESIndex, "count", len(docs))
	return idx, nil
}
