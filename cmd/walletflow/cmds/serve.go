package cmds

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func (c *Cmd) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serve the json api and keep balances synced",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, ctx := errgroup.WithContext(cmd.Context())

			g.Go(func() error {
				return c.Syncer.Run(ctx)
			})

			g.Go(func() error {
				c.Logger.Info("api server launched", "addr", c.Server.Addr)
				if err := c.Server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}

				return nil
			})

			g.Go(func() error {
				<-ctx.Done()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return c.Server.Shutdown(shutdownCtx)
			})

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			return nil
		},
	}
}
