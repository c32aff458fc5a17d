package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/skillswap/internal/api"
	"github.com/vytor/skillswap/internal/config"
	"github.com/vytor/skillswap/internal/db"
	"github.com/vytor/skillswap/internal/logger"
	"github.com/vytor/skillswap/internal/metrics"
	"github.com/vytor/skillswap/internal/repository"
	"github.com/vytor/skillswap/internal/repository/postgrest"
	"github.com/vytor/skillswap/internal/repository/sqlite"
	"github.com/vytor/skillswap/internal/services"
	"github.com/vytor/skillswap/internal/session"
	"github.com/vytor/skillswap/internal/storage"
	"github.com/vytor/skillswap/internal/storage/s3"
	"github.com/vytor/skillswap/internal/supabase"
	"github.com/vytor/skillswap/internal/telemetry"
	"github.com/vytor/skillswap/web"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Default().Error("failed to load configuration: %v", err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
		logger.WithColors(logger.ParseFormat(cfg.LogFormat) == logger.FormatText),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("SkillSwap server starting (version %s)", version)
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("site_url=%s", cfg.SiteURL)
	log.Debug("supabase_url=%s", cfg.SupabaseURL)
	log.Debug("avatar_bucket=%s", cfg.AvatarBucket)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("s3_bucket=%s", cfg.S3Bucket)
	log.Debug("metrics_addr=%s", cfg.MetricsAddr)

	sentryOn, err := telemetry.Init(telemetry.Config{
		DSN:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          version,
		TracesSampleRate: cfg.SentryTracesSampleRate,
	})
	if err != nil {
		log.Warn("error tracking disabled: %v", err)
	} else if sentryOn {
		log.Info("error tracking enabled")
	}
	defer telemetry.Flush(2 * time.Second)

	backend := supabase.New(cfg.SupabaseURL, cfg.SupabaseAnonKey, supabase.WithBucket(cfg.AvatarBucket))

	var (
		profileRepo repository.ProfileRepository
		skillRepo   repository.SkillRepository
	)
	if cfg.UseSQLite() {
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			log.Error("failed to open database: %v", err)
			os.Exit(1)
		}
		defer func() {
			log.Debug("closing database connection")
			database.Close()
		}()
		profileRepo = sqlite.NewProfileRepository(database.DB)
		skillRepo = sqlite.NewSkillRepository(database.DB)
		log.Info("record store: sqlite")
	} else {
		profileRepo = postgrest.NewProfileRepository(backend)
		skillRepo = postgrest.NewSkillRepository(backend)
		log.Info("record store: supabase")
	}

	var blobs storage.BlobStore = backend
	if cfg.UseS3() {
		store, err := s3.New(s3.Config{
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicURL:       cfg.S3PublicURL,
		})
		if err != nil {
			log.Error("failed to configure s3 storage: %v", err)
			os.Exit(1)
		}
		blobs = store
		log.Info("avatar store: s3")
	} else {
		log.Info("avatar store: supabase")
	}

	log.Debug("loading templates")
	tmpl, err := api.LoadTemplates(web.Templates())
	if err != nil {
		log.Error("failed to load templates: %v", err)
		os.Exit(1)
	}

	srv := &api.Server{
		ProfileService: services.NewProfileService(profileRepo, blobs),
		SkillService:   services.NewSkillService(skillRepo),
		Auth:           backend,
		Cookies:        session.CookieConfig{Secure: cfg.CookieSecure},
		Templates:      tmpl,
		Static:         web.Static(),
		SiteURL:        cfg.SiteURL,
	}
	if cfg.SupabaseJWTSecret != "" {
		srv.Verifier = session.NewTokenVerifier(cfg.SupabaseJWTSecret)
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = metrics.NewServer(cfg.MetricsAddr)
		go func() {
			log.Info("metrics server listening on %s", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server error: %v", err)
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Error("metrics server shutdown error: %v", err)
		}
	}

	log.Info("SkillSwap server stopped")
}
