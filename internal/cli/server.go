package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cricket-stats-game/internal/app"
	"cricket-stats-game/internal/config"
	"cricket-stats-game/internal/infra/memory"
	pgloader "cricket-stats-game/internal/infra/postgres"
	redisstore "cricket-stats-game/internal/infra/redis"
	"cricket-stats-game/internal/infra/sheet"
	transport "cricket-stats-game/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg, opts.port, logger)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config, portFlag string, logger zerolog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		db, err := openBunDB(cfg)
		if err != nil {
			return err
		}
		err = runMigrations(ctx, db, logger)
		db.Close()
		if err != nil {
			return err
		}

		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	loader, err := rosterLoader(cfg, pool)
	if err != nil {
		return err
	}

	rosterTTL := config.TTLDuration(cfg.Roster.TTL, 10*time.Minute)
	var rosters app.RosterRepository
	var sessions app.SessionRepository
	if redisClient != nil {
		rosters = redisstore.NewRosterRepository(redisClient, loader, rosterTTL)
		sessions = redisstore.NewSessionStore(redisClient, sessionTTL)
	} else {
		rosters = memory.NewRosterRepository(loader, rosterTTL)
		sessions = memory.NewSessionStore()
	}

	service := app.NewGameService(sessions, rosters, app.WithLogger(logger))

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     transport.NewRouter(service, logger, cfg.Server.AllowedOrigins),
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info().Str("port", finalPort).Msg("starting cricket stats game")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info().Msg("shutting down server")
	case <-ctx.Done():
		logger.Info().Msg("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// rosterLoader picks the backing roster source: Postgres, then the sheet URL, then a local sheet file.
func rosterLoader(cfg config.Config, pool *pgxpool.Pool) (memory.RosterLoader, error) {
	switch {
	case pool != nil:
		return pgloader.NewRosterLoader(pool), nil
	case cfg.Sheet.URL != "":
		return sheet.NewLoader(cfg.Sheet.URL, config.TTLDuration(cfg.Sheet.Timeout, 10*time.Second)), nil
	case cfg.Sheet.File != "":
		return sheet.NewFileLoader(cfg.Sheet.File), nil
	default:
		return nil, errors.New("no roster source configured: set postgres.url, sheet.url or sheet.file")
	}
}
