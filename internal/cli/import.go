package cli

import (
	"errors"

	"cricket-stats-game/internal/infra/postgres"
	"cricket-stats-game/internal/infra/sheet"
	"github.com/spf13/cobra"
)

// NewImportCmd loads a sheet CSV export into Postgres.
func NewImportCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a sheet CSV export into the players table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			rows, err := sheet.NewFileLoader(file).Rows()
			if err != nil {
				return err
			}

			db, err := openBunDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := runMigrations(cmd.Context(), db, logger); err != nil {
				return err
			}
			n, err := postgres.NewImporter(db).Import(cmd.Context(), rows)
			if err != nil {
				return err
			}
			logger.Info().Str("file", file).Int("rows", len(rows)).Int("imported", n).Msg("sheet imported")
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the sheet CSV export")
	return cmd
}
