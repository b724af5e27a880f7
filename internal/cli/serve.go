package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/xyframe/pkg/cache"
	"github.com/matzehuels/xyframe/pkg/pipeline"
	"github.com/matzehuels/xyframe/pkg/server"
)

const shutdownTimeout = 10 * time.Second

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr      string
	redisAddr string
	redisPass string
	redisDB   int
	noCache   bool
	maxFrames int
	timeout   time.Duration
}

// serveCommand creates the serve command, which runs the HTTP frame server.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve frames over HTTP",
		Long: `Serve runs the HTTP frame server. Charts are kept in memory per key;
rendered artifacts and encoded frames go to the local file cache, or to
Redis when --redis is set so several instances can share them.`,
		Example: `  xyframe serve --addr :8080
  xyframe serve --redis localhost:6379 --max-frames 4096`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Redis address for the shared cache")
	cmd.Flags().StringVar(&opts.redisPass, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&opts.maxFrames, "max-frames", server.DefaultMaxFrames, "charts kept in memory")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", server.DefaultTimeout, "request timeout")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	store, err := c.serverCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, nil, logger)
	defer runner.Close()

	srv := server.New(runner,
		server.WithLogger(logger),
		server.WithMaxFrames(opts.maxFrames),
		server.WithTimeout(opts.timeout),
	)
	httpServer := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- httpServer.ListenAndServe()
	}()
	logger.Info("listening", "addr", opts.addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// serverCache picks the server's cache: Redis when configured, otherwise
// the local file cache.
func (c *CLI) serverCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.noCache || opts.redisAddr == "" {
		return newCache(opts.noCache)
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     opts.redisAddr,
		Password: opts.redisPass,
		DB:       opts.redisDB,
		Prefix:   appName + ":",
	})
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using redis cache", "addr", opts.redisAddr)
	return rc, nil
}
