package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/chaos-io/logokit/server"
)

func newServeCmd(g *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve logo processing over HTTP",
		Long: `Start an HTTP server exposing

  POST /v1/logo/{clean,strip,recolor}   multipart field "image", returns PNG
  GET  /healthz

Query parameters: threshold, max_size, trim.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !g.verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			logger := g.logger(cmd.ErrOrStderr())
			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(logger, g.compress).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
				logger.Info("shutting down")
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(ctx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envString(envAddr, ":8080"), "listen address")
	return cmd
}
