package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"trendforge/internal/agent"
	"trendforge/internal/db"
	"trendforge/internal/handlers"
	"trendforge/internal/middleware"
	"trendforge/internal/repository"
	"trendforge/internal/research"
	"trendforge/internal/router"
	"trendforge/internal/services"
	"trendforge/internal/utils"
)

const (
	cacheSize       = 1000
	maxSessions     = 1000
	shutdownTimeout = 15 * time.Second
)

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close(conn)
	if err := db.Migrate(conn); err != nil {
		return err
	}

	defs, err := agent.LoadDefinitions(nil)
	if err != nil {
		return err
	}
	feeds := research.NewFeedReader(cfg.RSSFeeds, nil, log)
	if len(feeds.Feeds()) == 0 {
		log.Warn("RSS_FEEDS is empty, trendingHeadlines will fail")
	}
	runner, err := agent.NewGenAIRunner(ctx, cfg.GeminiAPIKey, defs, agent.Options{
		Model:     cfg.AgentModel,
		WebSearch: cfg.AgentWebSearch,
		MaxTurns:  cfg.AgentMaxTurns,
		Tools:     agent.NewToolbox(research.NewArticleFetcher(nil), feeds),
	}, log)
	if err != nil {
		return err
	}

	cache, err := utils.NewCache(cacheSize)
	if err != nil {
		return err
	}
	generations, err := services.NewGenerationService(runner, maxSessions, cfg.AgentTimeout, log)
	if err != nil {
		return err
	}
	library := services.NewLibraryService(
		repository.NewPostRepository(conn),
		repository.NewIdeaRepository(conn),
		cache,
		log,
	)
	users := repository.NewUserRepository(conn)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 3600,
		HttpOnly: true,
		Secure:   !cfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("trendforge_session", store))
	r.Use(middleware.LoadUser(users))

	r.HTMLRender = loadTemplates(cfg.TemplatesDir)
	r.Static("/static", cfg.StaticDir)

	h := router.Handlers{
		Agent:      handlers.NewAgentHandler(runner, log),
		Generation: handlers.NewGenerationHandler(generations, log),
		Library:    handlers.NewLibraryHandler(library, log),
		Pages:      handlers.NewPageHandler(cfg.ContentDir, cache, log),
		SEO:        handlers.NewSEOHandler(cfg.SiteURL),
	}
	if cfg.GoogleClientID != "" {
		oauth := handlers.NewGoogleOAuthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.SiteURL)
		h.Auth = handlers.NewAuthHandler(oauth, users, generations, log)
	} else {
		log.Warn("GOOGLE_CLIENT_ID not set, sign-in disabled")
	}
	router.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("TrendForge server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(srv.Shutdown(shutdownCtx), generations.Shutdown(shutdownCtx))
	})
	return g.Wait()
}
