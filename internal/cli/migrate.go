package cli

import (
	"context"
	"database/sql"
	"errors"

	"cricket-stats-game/internal/config"
	pgmigrations "cricket-stats-game/internal/infra/postgres/migrations"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

var errNoPostgres = errors.New("postgres url not configured")

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			db, err := openBunDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			return runMigrations(cmd.Context(), db, logger)
		},
	}
}

func openBunDB(cfg config.Config) (*bun.DB, error) {
	if cfg.Postgres.URL == "" {
		return nil, errNoPostgres
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func runMigrations(ctx context.Context, db *bun.DB, logger zerolog.Logger) error {
	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		logger.Info().Msg("no new migrations")
		return nil
	}
	logger.Info().Str("group", group.String()).Msg("migrations applied")
	return nil
}
