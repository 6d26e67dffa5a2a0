package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"storyshelf/internal/adapters/api"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog as a JSON API",
		Long: `Starts the JSON API used by the reading app:

  GET    /api/books     facet filters as query parameters, q= for search
  GET    /api/filters   selectable facet values
  DELETE /api/cache     drop the cached catalog
  GET    /healthz`,
		Example: `  # Start server on the default port 8080
  storyshelf serve

  # Start server on a custom port
  storyshelf serve --port 3000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}

			gin.SetMode(gin.ReleaseMode)
			router := api.NewRouter(api.NewHandler(a.catalog))

			addr := fmt.Sprintf(":%d", a.cfg.APIPort)
			server := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Storyshelf API available", "addr", addr, "root_url", a.cfg.OPDSRootURL)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().IntP("port", "p", 0, "port to listen on (SS_PORT)")
	_ = a.v.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}
