package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/sfutchko/seanpicks-sub001/internal/analyzer"
	"github.com/sfutchko/seanpicks-sub001/internal/cache"
	"github.com/sfutchko/seanpicks-sub001/internal/config"
	"github.com/sfutchko/seanpicks-sub001/internal/consumer"
	"github.com/sfutchko/seanpicks-sub001/internal/dedup"
	"github.com/sfutchko/seanpicks-sub001/internal/factors"
	"github.com/sfutchko/seanpicks-sub001/internal/handlers"
	"github.com/sfutchko/seanpicks-sub001/internal/linehistory"
	"github.com/sfutchko/seanpicks-sub001/internal/metrics"
	"github.com/sfutchko/seanpicks-sub001/internal/publisher"
	"github.com/sfutchko/seanpicks-sub001/internal/rollup"
	"github.com/sfutchko/seanpicks-sub001/internal/store"
	"github.com/sfutchko/seanpicks-sub001/internal/tracker"
)

func main() {
	fmt.Println("=== Sean Picks Engine v1 ===")

	cfg := config.LoadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to Postgres
	pg, err := store.NewPostgres(cfg.Database.URL)
	if err != nil {
		fmt.Printf("❌ Failed to connect to Postgres: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		fmt.Printf("❌ Failed to ensure schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Connected to Postgres")

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.URL,
		Password: cfg.Redis.Password,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Connected to Redis")

	// Open line history
	lines, err := linehistory.NewSQLite(cfg.Engine.LineHistoryPath)
	if err != nil {
		fmt.Printf("❌ Failed to open line history: %v\n", err)
		os.Exit(1)
	}
	defer lines.Close()
	fmt.Printf("✓ Line history at %s\n", cfg.Engine.LineHistoryPath)

	// Build the engine
	engineMetrics := metrics.NewEngineMetrics()
	scorers := factors.DefaultScorers(factors.DefaultConfig())
	engine := analyzer.New(scorers, analyzer.DefaultConfig())
	rollups := rollup.NewManager(pg)
	betTracker := tracker.New(pg, rollups)
	analysisCache := cache.NewRedisWriter(redisClient)
	betPublisher := publisher.NewStreamPublisher(redisClient)
	betDedup := dedup.NewDeduplicator(redisClient, cfg.Engine.DedupTTLMinutes)

	handler := handlers.NewHandler(
		pg, engine, betTracker, rollups, lines,
		analysisCache, betPublisher, betDedup, engineMetrics,
	)

	// Consume final scores for grading
	for _, streamKey := range cfg.Stream.ScoreStreams {
		go consumeScores(ctx, redisClient, streamKey, cfg, betTracker, engineMetrics)
	}

	// Scheduled best-bet snapshots per sport
	scheduler := cron.New()
	for _, sport := range cfg.Engine.Sports {
		sportKey := sport
		_, err := scheduler.AddFunc(cfg.Engine.SnapshotSchedule, func() {
			snapCtx, snapCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer snapCancel()

			snapshot, err := betTracker.CreateSnapshot(snapCtx, sportKey)
			if err != nil {
				fmt.Printf("❌ Snapshot failed for %s: %v\n", sportKey, err)
				return
			}
			fmt.Printf("✓ Snapshot %s captured for %s (%d pending)\n", snapshot.ID, sportKey, snapshot.PendingCount)
		})
		if err != nil {
			fmt.Printf("❌ Failed to schedule snapshots for %s: %v\n", sportKey, err)
			os.Exit(1)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()
	fmt.Printf("✓ Snapshot schedule %q for %v\n", cfg.Engine.SnapshotSchedule, cfg.Engine.Sports)

	// Setup router
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", handler.HealthCheck)
	r.Handle("/metrics", promhttp.HandlerFor(engineMetrics.Registry(), promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		// Analysis
		r.Post("/analyze", handler.AnalyzeGame)
		r.Get("/analysis/{gameID}", handler.GetAnalysis)

		// Grading
		r.Post("/scores", handler.SubmitFinalScore)

		// Tracked bets
		r.Get("/bets/pending", handler.GetPendingBets)
		r.Get("/bets/results", handler.GetRecentResults)

		// Performance
		r.Get("/performance", handler.GetPerformance)
		r.Get("/performance/rollup", handler.GetRollup)
		r.Post("/performance/rollup/recompute", handler.RecomputeRollup)

		// Snapshots
		r.Post("/snapshots", handler.CreateSnapshot)
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("✓ Pick engine listening on %s\n", cfg.Server.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		fmt.Printf("❌ Server error: %v\n", err)
		os.Exit(1)

	case sig := <-shutdown:
		fmt.Printf("\n⚠️  Received signal: %v\n", sig)
		cancel()

		shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutCancel()

		if err := srv.Shutdown(shutCtx); err != nil {
			fmt.Printf("⚠️  Graceful shutdown failed: %v\n", err)
			if err := srv.Close(); err != nil {
				fmt.Printf("❌ Could not stop server: %v\n", err)
			}
		}
	}

	fmt.Println("✓ Shutdown complete")
}

// consumeScores grades tracked bets as final scores arrive on a stream
func consumeScores(ctx context.Context, client *redis.Client, streamKey string, cfg *config.Config, betTracker *tracker.Tracker, m *metrics.EngineMetrics) {
	fmt.Printf("✓ Consuming scores from %s\n", streamKey)

	scoreConsumer := consumer.NewStreamConsumer(client, streamKey, cfg.Stream.ConsumerID, cfg.Stream.ConsumerGroup)
	scores, errs := scoreConsumer.Scores(ctx)

	for {
		select {
		case <-ctx.Done():
			return

		case err, ok := <-errs:
			if !ok {
				return
			}
			fmt.Printf("❌ [%s] Consumer error: %v\n", streamKey, err)

		case score, ok := <-scores:
			if !ok {
				return
			}
			m.ScoreMessages.Inc()

			gradeCtx, gradeCancel := context.WithTimeout(ctx, 10*time.Second)
			graded, err := betTracker.ApplyFinalScore(gradeCtx, &score)
			gradeCancel()

			for _, bet := range graded {
				m.GradedTotal.WithLabelValues(string(bet.Result)).Inc()
				fmt.Printf("✓ Graded %s as %s\n", bet.Pick, bet.Result)
			}
			if err != nil {
				m.UngradableTotal.Inc()
				fmt.Printf("❌ [%s] Grading error for game %s: %v\n", streamKey, score.GameID, err)
			}
		}
	}
}
