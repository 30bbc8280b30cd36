package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roaziy/gdg-news-bot/internal/app"
	"github.com/roaziy/gdg-news-bot/internal/config"
	"github.com/roaziy/gdg-news-bot/internal/logging"
)

func main() {
	var (
		configPath string
		logLevel   string
	)

	root := &cobra.Command{
		Use:           "gdgnewsbot",
		Short:         "GDG Ulaanbaatar tech news bot",
		Long:          "Polls tech news feeds, translates headlines to Mongolian, and posts them to Discord on a schedule.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				os.Setenv("GDG_NEWS_CONFIG", configPath)
			}

			cfg := config.Load()
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			logger := logging.New(cfg.Logging.Level)

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return application.Run(ctx)
		},
	}

	root.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	root.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		os.Stderr.WriteString("gdgnewsbot: " + err.Error() + "\n")
		os.Exit(1)
	}
}
