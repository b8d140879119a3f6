package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"fotos-backend/internal/config"
	"fotos-backend/internal/server"
	"fotos-backend/pkg/logger"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:          "fotos-backend",
		Short:        "Receives image uploads into the fotos directory and lists them",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(".env"); err != nil {
				return err
			}
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	flags.String("host", "", "listen host")
	flags.Int("port", 3000, "listen port")
	flags.String("dir", "fotos", "storage directory, must already exist")
	flags.String("url-prefix", "fotos", "public URL path of the storage directory")
	flags.String("static-root", ".", "directory served as static files")
	flags.Int64("max-upload-bytes", config.DefaultMaxUploadBytes, "maximum image size in bytes")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "", "text or json (default json when env is production, text otherwise)")

	for key, flag := range map[string]string{
		"server.host":              "host",
		"server.port":              "port",
		"storage.dir":              "dir",
		"storage.url_prefix":       "url-prefix",
		"storage.max_upload_bytes": "max-upload-bytes",
		"static.root":              "static-root",
		"log.level":                "log-level",
		"log.format":               "log-format",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s to %s: %v", flag, key, err))
		}
	}

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fotos-backend %s (%s)\n", version, commit)
		},
	}
}

// run serves until SIGINT/SIGTERM, ctx cancellation, or a server error.
func run(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if info, err := os.Stat(cfg.Storage.Dir); err != nil || !info.IsDir() {
		log.Warn("storage directory is missing, uploads and listings will fail until it exists",
			zap.String("dir", cfg.Storage.Dir))
	}

	srv := server.New(server.Config{
		Addr:           cfg.Addr(),
		StorageDir:     cfg.Storage.Dir,
		URLPrefix:      cfg.Storage.URLPrefix,
		StaticRoot:     cfg.Static.Root,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
		Build:          server.BuildInfo{Version: version, Commit: commit},
		Logger:         log,
	})

	// Start the HTTP server in a background goroutine.
	// This allows us to listen for OS signals while the server runs.
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", zap.Error(err))
			return err
		}
		log.Info("shutdown complete")
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			return err
		}
		return nil
	}
}
