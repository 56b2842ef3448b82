package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dmreiland/bookrank/internal/api/handlers"
	"github.com/dmreiland/bookrank/internal/api/middleware"
	"github.com/dmreiland/bookrank/internal/config"
	"github.com/dmreiland/bookrank/internal/engine"
	"github.com/dmreiland/bookrank/internal/store"
	"github.com/dmreiland/bookrank/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and ranking scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx := context.Background()

	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN(), cfg.Database.PoolSize)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	loc, err := cfg.Ranking.Location()
	if err != nil {
		return fmt.Errorf("resolving ranking timezone: %w", err)
	}

	eng := engine.NewEngine(st,
		engine.WithLogger(log),
		engine.WithLocation(loc),
	)

	sched, err := engine.NewScheduler(eng, cfg.Schedule.RankingCron, cfg.Schedule.StaleJobAge, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	sched.Start(ctx)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	// Health endpoints.
	health := handlers.NewHealthHandler(st)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)

	// Prometheus metrics.
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("bookrank API", Version))

	handlers.RegisterRankingRoutes(api, handlers.NewRankingsHandler(st))
	handlers.RegisterBookRoutes(api, handlers.NewBooksHandler(st))
	handlers.RegisterReviewRoutes(api, handlers.NewReviewsHandler(st))
	handlers.RegisterNotificationRoutes(api, handlers.NewNotificationsHandler(st))
	handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(st))
	handlers.RegisterRefreshRoutes(api, handlers.NewRefreshHandler(
		eng, cfg.Schedule.RefreshPerMinute, cfg.Schedule.RefreshBurst,
	))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr, "next_ranking_run", sched.NextRun())

	// Start server in a goroutine.
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	// Let a running ranking cycle finish before closing the pool.
	<-sched.Stop().Done()

	log.Info("server stopped")
	return nil
}
