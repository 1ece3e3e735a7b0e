// Package cli implements the history command: a terminal front end for the
// customer's reservation history.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/history"
	"github.com/iliyamo/table-reservation/internal/i18n"
	"github.com/iliyamo/table-reservation/internal/logging"
	"github.com/iliyamo/table-reservation/internal/remote"
)

var (
	flagServer    string
	flagToken     string
	flagLang      string
	flagPageSize  int
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	client *remote.Client
	tr     *i18n.Catalog
)

// NewRootCmd creates the root cobra command for the history CLI.
func NewRootCmd() *cobra.Command {
	defaults := config.LoadClient()

	root := &cobra.Command{
		Use:   "history",
		Short: "Browse and manage your table reservations",
		Long:  "history lists, edits and cancels your reservations on the table reservation service.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLogger(logging.ParseLevel(flagLogLevel), flagLogFormat)
			token := flagToken
			if token == "" {
				token = LoadToken()
			}
			client = remote.NewClient(flagServer, token, logger)
			tr = i18n.New(flagLang)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", defaults.Server, "reservation service URL (or HISTORY_SERVER env)")
	root.PersistentFlags().StringVar(&flagToken, "token", defaults.Token, "access token (or HISTORY_TOKEN env, else the saved login)")
	root.PersistentFlags().StringVar(&flagLang, "lang", defaults.Lang, "message language (en, vi)")
	root.PersistentFlags().IntVar(&flagPageSize, "page-size", defaults.PageSize, "reservations per page")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(),
		newTablesCmd(),
		newListCmd(),
		newEditCmd(),
		newCancelCmd(),
		newBrowseCmd(),
	)

	return root
}

// newView wires a reservation-history view to the configured client.
// Notifications go to the command's stderr.
func newView(cmd *cobra.Command) *history.View {
	return history.NewView(client,
		history.WithNotifier(newNotifier(cmd.ErrOrStderr())),
		history.WithTranslator(tr),
		history.WithLogger(logger),
		history.WithPageSize(flagPageSize),
	)
}
