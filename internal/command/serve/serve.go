package serve

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bornholm/gifparty/internal/command/common"
	"github.com/bornholm/gifparty/internal/server"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Serve() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "address",
			Value:   ":3000",
			Aliases: []string{"a"},
			EnvVars: []string{"GIFPARTY_ADDRESS"},
			Usage:   "The address the server listens on",
		},
		&cli.IntFlag{
			Name:    "max-sessions",
			Value:   server.DefaultMaxSessions,
			EnvVars: []string{"GIFPARTY_MAX_SESSIONS"},
			Usage:   "Maximum number of party pages kept in memory",
		},
	}

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the giphy party page",
		Flags: append(flags, common.GiphyFlags()...),
		Action: func(cliCtx *cli.Context) error {
			address := cliCtx.String("address")
			maxSessions := cliCtx.Int("max-sessions")

			if maxSessions <= 0 {
				return errors.Errorf("max sessions must be positive, got %d", maxSessions)
			}

			client, err := common.NewGiphyClient(cliCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			handler, err := server.New(client, server.WithMaxSessions(maxSessions))
			if err != nil {
				return errors.WithStack(err)
			}

			ctx, stop := signal.NotifyContext(cliCtx.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			httpServer := &http.Server{
				Addr:              address,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errs := make(chan error, 1)

			go func() {
				slog.InfoContext(ctx, "listening", slog.String("address", address))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errs <- errors.WithStack(err)
				}
				close(errs)
			}()

			select {
			case err := <-errs:
				return err
			case <-ctx.Done():
			}

			slog.InfoContext(ctx, "shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return errors.Wrap(err, "could not shutdown server")
			}

			return nil
		},
	}
}
