package cli

import (
	"fmt"
	"os"
	"strings"

	"cricket-stats-game/internal/config"
	"cricket-stats-game/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type rootOptions struct {
	port       string
	configPath string
	logLevel   string
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	v := viper.New()
	v.SetEnvPrefix("CRICKET")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "cricket-stats",
		Short:         "Daily cricket stat guessing game",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	fs := cmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.StringVar(&opts.port, "port", "", "port to listen on (env: CRICKET_PORT)")
	fs.StringVar(&opts.configPath, "config", "config/config.yaml", "path to YAML config (env: CRICKET_CONFIG)")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level, overrides config (env: CRICKET_LOG_LEVEL)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.AddCommand(NewStartCmd(opts))
	cmd.AddCommand(NewMigrateCmd(opts))
	cmd.AddCommand(NewImportCmd(opts))
	cmd.AddCommand(NewPlayCmd(opts))
	return cmd
}

// load reads the config file (missing is fine) and builds the logger.
func (o *rootOptions) load() (config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return cfg, zerolog.Nop(), fmt.Errorf("load config %s: %w", o.configPath, err)
	}
	level := cfg.Log.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	return cfg, logging.New(os.Stderr, level), nil
}
