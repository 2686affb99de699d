package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhalbert/chainviz/internal/config"
	"github.com/mhalbert/chainviz/internal/server"
	"github.com/mhalbert/chainviz/pkg/cache"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr string // listen address; overrides the config file when set
	data string // document directory; overrides the config file when set
}

// newServeCmd creates the serve command, which runs the HTTP API consumed
// by the viewer front end.
func newServeCmd(configPath *string) *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document listing and graph element API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if opts.addr != "" {
				cfg.Server.Addr = opts.addr
			}
			if opts.data != "" {
				cfg.Source.Kind = config.SourceDir
				cfg.Source.Dir = opts.data
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "listen address (default from config, :8490)")
	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "serve documents from this directory")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	logger := loggerFromContext(ctx)

	src, cleanup, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	store, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(server.Options{
		Source:     src,
		Cache:      store,
		Layout:     cfg.Layout,
		TTL:        cfg.Cache.TTLDuration(),
		SourceName: cfg.Source.Kind,
		Logger:     logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving", "addr", cfg.Server.Addr, "source", cfg.Source.Kind)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// openCache constructs the configured element cache.
func openCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	if cfg.Cache.Kind == config.CacheRedis {
		return cache.NewRedis(ctx, cfg.Cache.Redis)
	}
	return cache.NewMemory(), nil
}
