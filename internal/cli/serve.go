package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/plt-rs/plt/pkg/cache"
	"github.com/plt-rs/plt/pkg/pipeline"
	"github.com/plt-rs/plt/pkg/server"
)

const (
	defaultAddr      = ":8080"
	defaultKeyPrefix = appName + ":"
	pingTimeout      = 5 * time.Second
)

type serveOpts struct {
	addr      string
	redis     string
	keyPrefix string // namespaces keys in a shared redis
	noCache   bool
	timeout   time.Duration
	maxBody   int64
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:      defaultAddr,
		keyPrefix: defaultKeyPrefix,
		timeout:   server.DefaultTimeout,
		maxBody:   server.DefaultMaxBodyBytes,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Run the HTTP render service.

Artifacts are cached in Redis when --redis is set, shared between
instances, and in the local cache directory otherwise.`,
		Example: `  plt serve --addr :9000
  plt serve --redis redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "redis address or URL for the shared artifact cache")
	cmd.Flags().StringVar(&opts.keyPrefix, "key-prefix", opts.keyPrefix, "redis key prefix")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "per-request timeout")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", opts.maxBody, "largest accepted description in bytes")
	cmd.MarkFlagsMutuallyExclusive("redis", "no-cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	store, backend, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	var keyer cache.Keyer
	if opts.redis != "" {
		keyer = cache.NewScopedKeyer(nil, opts.keyPrefix)
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	defer runner.Close()

	printInfo("%s", StyleTitle.Render("plt render service"))
	printKeyValue("address", opts.addr)
	printKeyValue("cache", backend)
	printKeyValue("timeout", opts.timeout.String())

	srv := server.New(runner, c.Logger,
		server.WithTimeout(opts.timeout),
		server.WithMaxBodyBytes(opts.maxBody))
	return srv.ListenAndServe(ctx, opts.addr)
}

// serveCache picks the artifact cache and describes it for display.
func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, string, error) {
	if opts.redis == "" {
		store, err := newCache(opts.noCache)
		if err != nil {
			return nil, "", err
		}
		if fc, ok := store.(*cache.FileCache); ok {
			return store, fc.Dir(), nil
		}
		return store, "disabled", nil
	}

	rc, err := cache.NewRedisCache(opts.redis)
	if err != nil {
		return nil, "", err
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		rc.Close()
		return nil, "", err
	}
	c.Logger.Debug("connected to redis", "addr", opts.redis)
	return rc, "redis " + opts.redis, nil
}
