package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sidenav/internal/server"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the headless sidebar HTTP server",
	Long: `Starts the sidebar server with a REST API and a WebSocket endpoint. Pages insert
the sidebar per session, send click, toggle and scroll events, and get the restored
scroll position on the next load.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}
		logger := newLogger(cfg)

		store, closeStore, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("opening scroll store: %w", err)
		}
		defer closeStore()

		if p, ok := store.(interface {
			Prune(context.Context) (int64, error)
		}); ok {
			if n, err := p.Prune(context.Background()); err != nil {
				logger.Warn("pruning scroll store", "err", err)
			} else if n > 0 {
				logger.Info("pruned expired scroll offsets", "count", n)
			}
		}

		registry, err := loadRegistry(cfg, store, logger)
		if err != nil {
			return err
		}

		srv := server.New(server.Config{
			Port:        cfg.Server.Port,
			AllowAll:    cfg.Server.AllowAllOrigins,
			Script:      scriptOptions(cfg),
			SessionIdle: cfg.Store.TTL,
		}, registry, logger)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "sidenav server %s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Variants: %v\n", registry.Names())
		fmt.Fprintf(os.Stderr, "  Scroll store: %s\n", cfg.Store.Driver)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "port to listen on (default: server.port from config)")
	rootCmd.AddCommand(serverCmd)
}
