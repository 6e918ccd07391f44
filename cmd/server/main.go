package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/errgroup"

	"acm/internal/api"
	"acm/internal/config"
	internaldb "acm/internal/db"
	"acm/internal/db/repository"
	"acm/internal/middleware"
	"acm/internal/service"
)

func main() {
	// Load .env file (if present)
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// writeDB: single-connection pool for serialized writes (WAL + txlock=immediate).
	// readDB:  4-connection pool for concurrent reads (WAL, no txlock).
	writeDB, readDB, err := internaldb.OpenSQLitePair(cfg.DBPath, 4)
	if err != nil {
		return err
	}
	defer writeDB.Close()
	defer readDB.Close()

	if err := internaldb.RunMigrations(writeDB); err != nil {
		return err
	}

	// Mutating repositories go on the write pool. The decision engine only
	// reads, so it gets its own repos on the read pool.
	subjectRepo := repository.NewSubjectRepo(writeDB)
	objectRepo := repository.NewObjectRepo(writeDB)
	permissionRepo := repository.NewPermissionRepo(writeDB)
	aceRepo := repository.NewACERepo(writeDB)

	userSvc := service.NewUserService(subjectRepo)
	groupSvc := service.NewGroupService(subjectRepo)
	objectSvc := service.NewObjectService(objectRepo)
	permissionSetSvc := service.NewPermissionSetService(permissionRepo)
	accessSvc := service.NewAccessService(objectRepo, permissionRepo, subjectRepo, aceRepo)
	decisionSvc := service.NewDecisionService(
		repository.NewObjectRepo(readDB),
		repository.NewPermissionRepo(readDB),
		repository.NewSubjectRepo(readDB),
		repository.NewACERepo(readDB),
		logger,
	)

	handler := api.NewHandler(
		userSvc, groupSvc, objectSvc, permissionSetSvc, accessSvc, decisionSvc, logger,
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	auth := middleware.AuthMiddleware(middleware.BasicCredentials{
		User:     cfg.Auth.User,
		Password: cfg.Auth.Password,
	}, []byte(cfg.Auth.JWTSecret))
	r.Group(func(r chi.Router) {
		r.Use(auth)
		handler.Routes(r)
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http api listening", "addr", cfg.ListenAddr, "db", cfg.DBPath)
		var err error
		if cfg.TLSCertFile != "" {
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
