package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jonathan/strongpass/internal/server"
	"github.com/spf13/cobra"
)

// EnvPort overrides the default listen port.
const EnvPort = "STRONGPASS_PORT"

var (
	servePort     int
	serveMaxBatch int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start an HTTP server that exposes /check, /fix, /count and /batch JSON endpoints under the resolved policy.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (env "+EnvPort+")")
	serveCmd.Flags().IntVar(&serveMaxBatch, "max-batch", server.DefaultMaxBatch, "Largest number of passwords accepted by /batch")
	rootCmd.AddCommand(serveCmd)
}

// resolvePort prefers an explicit --port, then EnvPort, then the flag default.
func resolvePort(cmd *cobra.Command) (int, error) {
	if cmd.Flags().Changed("port") {
		return servePort, nil
	}
	raw := os.Getenv(EnvPort)
	if raw == "" {
		return servePort, nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port < 0 || port > 65535 {
		return 0, fmt.Errorf("invalid %s %q", EnvPort, raw)
	}
	return port, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	port, err := resolvePort(cmd)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:     port,
		Policy:   settings.PolicyValue(),
		Workers:  settings.Workers,
		MaxBatch: serveMaxBatch,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Start(ctx)
}

