package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/cinema-marathon-planner/internal/cache"
	"github.com/iliyamo/cinema-marathon-planner/internal/config"
	"github.com/iliyamo/cinema-marathon-planner/internal/database"
	"github.com/iliyamo/cinema-marathon-planner/internal/handler"
	"github.com/iliyamo/cinema-marathon-planner/internal/logging"
	"github.com/iliyamo/cinema-marathon-planner/internal/planner"
	"github.com/iliyamo/cinema-marathon-planner/internal/queue"
	"github.com/iliyamo/cinema-marathon-planner/internal/repository"
	"github.com/iliyamo/cinema-marathon-planner/internal/router"
	"github.com/iliyamo/cinema-marathon-planner/internal/service"
)

func main() {
	_ = godotenv.Load() // a missing .env is fine; the environment may already be set
	cfg := config.Load()
	log := logging.New(cfg.Log, os.Stdout).With().Str("env", cfg.Env).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}

	rcfg := config.LoadRedisConfig()
	rdb := config.NewRedisClient(rcfg)
	if rdb != nil {
		defer rdb.Close()
		log.Info().Str("redis", rcfg.String()).Msg("redis connected")
	} else {
		log.Warn().Str("redis", rcfg.String()).Msg("redis unreachable; rate limiting and response caching disabled")
	}

	store, closeStore := newItineraryStore(cfg.Planner, rdb, log)
	defer closeStore()

	p := planner.New(plannerConfig(cfg.Planner), store, log)
	cinemas := repository.NewCinemaRepo(db)
	movies := repository.NewMovieRepo(db)

	var publisher handler.EventPublisher
	if cfg.Queue.Enabled {
		publisher = service.NewPublisher(cfg.Queue, log)
	}
	if cfg.Queue.Enabled && cfg.Queue.ConsumerEnabled {
		go func() {
			if err := queue.StartScheduleConsumer(ctx, cfg.Queue, log); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("schedule consumer stopped")
			}
		}()
	}

	e := router.New(router.Deps{
		Schedules:    handler.NewScheduleHandler(p, cinemas, movies, repository.NewScheduleRepo(db), publisher, cfg.Planner, log),
		Public:       handler.NewPublicHandler(cinemas, movies, log),
		Redis:        rdb,
		JWTSecret:    cfg.JWTSecret,
		AllowedRoles: cfg.AllowedRoles,
		RateLimit:    config.LoadRateLimitConfig(),
		Cache:        config.LoadCacheConfig(),
		Log:          log,
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("cache_backend", cfg.Planner.CacheBackend).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// newItineraryStore picks the result cache.  Redis is used only when it was
// requested and the client connected; otherwise itineraries stay in memory.
func newItineraryStore(cfg config.PlannerConfig, rdb *redis.Client, log zerolog.Logger) (cache.Store, func()) {
	if cfg.CacheBackend == "redis" {
		if rdb != nil {
			return cache.NewRedisStore(rdb, cfg.CacheTTL, cfg.CachePrefix), func() {}
		}
		log.Warn().Msg("redis unavailable, keeping itineraries in memory")
	}
	m := cache.NewMemoryStore(cfg.CacheTTL)
	return m, m.Close
}

func plannerConfig(pc config.PlannerConfig) planner.Config {
	c := planner.DefaultConfig()
	c.TopFeasible = pc.TopFeasible
	c.TopScored = pc.TopScored
	c.MaxCombinations = pc.MaxCombinations
	c.DropZeroScore = pc.DropZeroScore
	return c
}
