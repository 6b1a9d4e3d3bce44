package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ussd_lms/internal/ai"
	"ussd_lms/internal/config"
	"ussd_lms/internal/flow"
	"ussd_lms/internal/logger"
	"ussd_lms/internal/menu"
	"ussd_lms/internal/notify"
	"ussd_lms/internal/resources"
	"ussd_lms/internal/session"
	"ussd_lms/internal/ussd"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog, err := loadCatalog(cfg.Server.MenuFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("menu catalog failed to load")
	}

	store, cleanup, err := buildStore(ctx, cfg.Session)
	if err != nil {
		logger.Fatal().Err(err).Msg("session store init failed")
	}
	defer cleanup()

	engine := flow.NewEngine(
		catalog,
		buildFinder(cfg.Lookup),
		notify.NewClient(cfg.SMS.APIKey, cfg.SMS.Username, cfg.SMS.URL, cfg.SMS.SenderID, cfg.Lookup.Timeout),
		buildSummarizer(ctx, cfg.Summary),
		cfg.Lookup.Timeout,
	)

	handler := ussd.NewHandler(store, engine)
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler.Routes(),
	}

	go session.NewSweeper(store, cfg.Session.SweepInterval).Run(ctx)

	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Str("backend", cfg.Session.Backend).Msg("ussd gateway listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}
}

func loadCatalog(menuFile string) (*menu.Catalog, error) {
	if menuFile == "" {
		return menu.Default(), nil
	}
	logger.Info().Str("file", menuFile).Msg("loading menu catalog override")
	return menu.LoadFile(menuFile)
}

func buildStore(ctx context.Context, cfg config.SessionConfig) (session.Store, func(), error) {
	switch cfg.Backend {
	case "redis":
		store, err := session.NewRedisStore(ctx, cfg.RedisURL, cfg.TTL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return session.NewMemoryStore(cfg.TTL), func() {}, nil
	}
}

func buildFinder(cfg config.LookupConfig) flow.ResourceFinder {
	if cfg.SupabaseURL == "" {
		logger.Warn().Msg("no SUPABASE_URL set, serving static sample resources")
		return resources.NewStaticFinder()
	}
	return resources.NewSupabaseFinder(cfg.SupabaseURL, cfg.SupabaseKey, cfg.Timeout)
}

func buildSummarizer(ctx context.Context, cfg config.SummaryConfig) flow.Summarizer {
	if cfg.APIKey == "" {
		logger.Warn().Msg("no OPENAI_API_KEY set, serving canned summaries")
		return ai.NewStaticSummarizer()
	}
	summarizer, err := ai.NewSummarizer(ctx, ai.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("summarizer init failed, serving canned summaries")
		return ai.NewStaticSummarizer()
	}
	return summarizer
}
