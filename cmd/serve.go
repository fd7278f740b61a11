package cmd

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/grovetools/carbon/race"
	"github.com/grovetools/carbon/stream"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the headless websocket streaming command.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the race headless and stream frames over websocket",
		Long: `Runs the race without a terminal UI and broadcasts every year as a JSON
frame on /ws, for browser overlays. /frame returns the latest frame.`,
		Example: `carbon serve --addr :8090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d, err := loadDeps(ctx, cmd, "serve")
			if err != nil {
				return err
			}
			defer d.Close()

			if addr == "" {
				addr = d.cfg.Serve.Addr
			}
			hub := stream.NewHub(d.cfg.Serve.PingPeriod.Duration, d.logger)
			engine := race.NewEngine(d.engineOptions())

			srv := &http.Server{
				Addr:              addr,
				Handler:           newServeMux(hub),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return stream.Drive(gctx, engine, d.loader, hub, d.logger)
			})
			g.Go(func() error {
				hub.Run(gctx)
				return nil
			})
			g.Go(func() error {
				d.logger.WithField("addr", addr).Info("Streaming race frames")
				if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			err = g.Wait()
			if ctx.Err() != nil && stderrors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to serve.addr)")
	return cmd
}

func newServeMux(hub *stream.Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/frame", func(w http.ResponseWriter, r *http.Request) {
		frame, ok := hub.Latest()
		if !ok {
			http.Error(w, "race not started", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(frame)
	})
	return mux
}
