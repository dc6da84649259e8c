package admincmd

import (
	"fmt"
	"log/slog"
	"os"

	"dreamdesign/internal/app"
	"dreamdesign/internal/config"
	"dreamdesign/internal/lib/logger/handlers/slogdiscard"
	"dreamdesign/internal/lib/logger/handlers/slogpretty"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type runtime struct {
	configPath string
	verbose    bool

	log  *slog.Logger
	core *app.Core
}

func NewRootCmd() *cobra.Command {
	rt := &runtime{}

	cmd := &cobra.Command{
		Use:   "dreamdesign-admin",
		Short: "Maintain the DreamDesign image catalog and accounts",
		Long: `dreamdesign-admin works directly on the durable storage configured for the
server: replace catalog images, export the catalog as a new seed and grant credits.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&rt.configPath, "config", "", "path to config file (default $CONFIG_PATH)")
	cmd.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "log storage activity")

	cmd.AddCommand(rt.bind(newCatalogCmd(rt)))
	cmd.AddCommand(rt.bind(newAccountsCmd(rt)))

	return cmd
}

// bind opens storage before every subcommand of group and closes it afterwards.
func (rt *runtime) bind(group *cobra.Command) *cobra.Command {
	group.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Load .env file if present (ignore errors)
		_ = godotenv.Load()

		return rt.open(cmd)
	}
	group.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if rt.core == nil {
			return nil
		}
		return rt.core.Close()
	}

	return group
}

func (rt *runtime) open(cmd *cobra.Command) error {
	path := rt.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		return fmt.Errorf("config path is empty: pass --config or set CONFIG_PATH")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	// the CLI never waits on the simulated sign-in delay
	cfg.Accounts.Latency = 0
	cfg.Accounts.GoogleLatency = 0

	rt.log = slogdiscard.NewDiscardLogger()
	if rt.verbose {
		opts := slogpretty.PrettyHandlerOptions{
			SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug},
		}
		rt.log = slog.New(opts.NewPrettyHandler(cmd.ErrOrStderr()))
	}

	rt.core, err = app.NewCore(cmd.Context(), rt.log, cfg)
	return err
}
