package cli

import (
	"log/slog"
	"os"

	"bookstore/internal/config"

	"github.com/spf13/cobra"
)

// RootOptions は全コマンド共通の設定
type RootOptions struct {
	LogFormat string // json | text
	Config    config.Config
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "bookstore",
		Short:         "Online bookstore server and admin tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.Config = cfg
			slog.SetDefault(newLogger(opts.LogFormat, cfg.LogLevel))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "json", "log output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewCreateAdminCommand(opts))

	return cmd
}

func newLogger(format string, level slog.Level) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: level}
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, hopts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, hopts))
}
