package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/klokku/eventcal/internal/app"
	"github.com/klokku/eventcal/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "eventcal",
	Short:        "Monthly calendar with conflict-aware event scheduling",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, err := app.NewApplication(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		return application.Run(ctx)
	},
}

var exportFormat string
var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every stored event as json, csv or ics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		payload, err := app.ExportEvents(cmd.Context(), cfg, exportFormat)
		if err != nil {
			return err
		}
		if exportOut == "-" {
			_, err = cmd.OutOrStdout().Write(payload.Data)
			return err
		}
		out := exportOut
		if out == "" {
			out = payload.FileName
		}
		if err := os.WriteFile(out, payload.Data, 0o644); err != nil {
			return err
		}
		log.Infof("Exported events to %s", out)
		return nil
	},
}

func init() {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the YAML config file")

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "export format: json, csv or ics")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file, '-' for stdout (default events_<date>.<format>)")

	rootCmd.AddCommand(serveCmd, exportCmd)
}

// loadConfig reads the configuration. log.level applies only when LOG_LEVEL is unset.
func loadConfig() (config.Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Application{}, err
	}
	if os.Getenv("LOG_LEVEL") == "" && cfg.Log.Level != "" {
		logrusLevel, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return config.Application{}, fmt.Errorf("invalid log.level: %w", err)
		}
		log.SetLevel(logrusLevel)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
