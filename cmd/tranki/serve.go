package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/juanfelareal/tranki/internal/cli"
	"github.com/juanfelareal/tranki/internal/extract"
	"github.com/juanfelareal/tranki/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Start the REST API that backs the web and mobile clients: categories,
rules, matching, transactions, and image extraction. Clients identify
their tenant with the X-Tenant-ID header.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng := initEngine(store)

			// Image extraction is optional for the server; without a key the
			// /api/ai endpoints report that the feature is not configured.
			var extractor extract.Extractor
			if gx, err := initExtractor(ctx); err == nil {
				extractor = gx
				defer func() { _ = gx.Close() }()
			} else {
				slog.Warn("image extraction disabled", "error", err)
			}

			if addr == "" {
				addr = viper.GetString("server.addr")
			}
			if addr == "" {
				addr = ":8787"
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(store, eng, extractor).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Listening on %s", addr)))

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("failed to shut down server: %w", err)
				}
				return nil
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server failed: %w", err)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, or :8787)")
	return cmd
}
