package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vi13x/antc-trx/internal/config"
	"github.com/vi13x/antc-trx/internal/logger"
	"github.com/vi13x/antc-trx/internal/service"
)

// skipConfig marks commands that run without loading configuration.
const skipConfig = "skip-config"

type app struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log *logger.Logger
}

// NewRootCmd builds the trxdesk command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "trxdesk",
		Short: "ANTC TRX order desk",
		Long: `trxdesk records storefront orders, alerts Discord webhooks about them
and gives operators an HTTP API, a Telegram bot and a console to triage the ledger.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default: ~/.trxdesk/config.yaml then .trxdesk/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level (debug, info, warning, error)")

	root.AddCommand(
		a.serveCmd(),
		a.botCmd(),
		a.consoleCmd(),
		a.submitCmd(),
		a.listCmd(),
		a.statsCmd(),
		a.exportCmd(),
		a.webhookCmd(),
		a.backupCmd(),
		a.restoreCmd(),
		initCmd(),
		passwdCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute(version string) error {
	root := NewRootCmd()
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipConfig] != "" {
		return nil
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.cfg = cfg
	a.log = logger.New(cmd.ErrOrStderr(), logger.ParseSeverity(level))
	logger.SetDefault(a.log)
	cmd.SetContext(logger.NewContext(cmd.Context(), a.log))
	return nil
}

func (a *app) openDesk() (*service.Desk, error) {
	return service.Open(a.cfg, a.log)
}
