package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/nimbus/internal/convert"
	"github.com/ajitpratap0/nimbus/pkg/config"
	"github.com/ajitpratap0/nimbus/pkg/logger"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "nimbus",
		Short: "Nimbus - nested JSON to columnar converter",
		Long: `Nimbus converts semi-structured nested JSON records and their nested
schema declarations into flat columnar output (Apache Parquet or Arrow).`,
	}

	root.AddCommand(versionCommand())
	root.AddCommand(convertCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Nimbus v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func convertCommand() *cobra.Command {
	var configPath string
	cfg := config.New("nimbus")

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert line-delimited JSON records to a columnar file",
		Long: `Convert reads a nested JSON schema document plus line-delimited JSON
records (from a file or stdin), flattens both with the configured separator,
resolves the flat schema to concrete column types in first-seen field order,
and writes the rows as Parquet or Arrow.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := config.Load(configPath, cfg); err != nil {
					return err
				}
			}

			if err := logger.Init(logger.Config{
				Level:       cfg.Logging.Level,
				Development: cfg.Logging.Development,
				Encoding:    cfg.Logging.Encoding,
			}); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			log := logger.With(zap.String("stream", cfg.Name))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := convert.New(cfg, log).Run(ctx)
			if err != nil {
				log.Error("conversion failed", zap.Error(err))
				return err
			}

			log.Info("conversion complete",
				zap.Int64("rows", result.Rows),
				zap.Int("columns", result.Columns),
				zap.String("output", cfg.Output))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&cfg.Name, "name", cfg.Name, "schema/stream name")
	flags.StringVar(&cfg.SchemaPath, "schema", cfg.SchemaPath, "JSON schema document")
	flags.StringVarP(&cfg.Input, "input", "i", cfg.Input, "record input file, - for stdin")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "columnar output file")
	flags.StringVar(&cfg.Format, "format", cfg.Format, "output format: parquet or arrow")
	flags.StringVar(&cfg.Compression, "compression", cfg.Compression, "parquet compression codec")
	flags.StringVar(&cfg.Separator, "separator", cfg.Separator, "flattened key separator")
	flags.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "rows per record batch")
	flags.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "log level")

	return cmd
}
