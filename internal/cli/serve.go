package cli

import (
	"context"
	"errors"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/journey/internal/server"
	"github.com/matzehuels/journey/pkg/cache"
	jerrors "github.com/matzehuels/journey/pkg/errors"
	"github.com/matzehuels/journey/pkg/generate"
	metrics "github.com/matzehuels/journey/pkg/observability/prometheus"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		cacheMode   string
		noGenerator bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the journey HTTP API",
		Long: `Serve the journey HTTP API with Prometheus metrics at /metrics.

The store and generator come from the config file and JOURNEY_* environment
variables. With --no-generator only candidate input is accepted.

Generator replies are cached in process memory by default; --cache file
shares the CLI's on-disk cache and --cache none disables caching.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, cacheMode, noGenerator)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&cacheMode, "cache", "memory", "generation cache: memory, file, none")
	cmd.Flags().BoolVar(&noGenerator, "no-generator", false, "disable generation; accept candidates only")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, cacheMode string, noGenerator bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.New(reg).Install()

	st, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	var gen generate.Generator
	if !noGenerator {
		ch, err := serveCache(cacheMode)
		if err != nil {
			return err
		}
		defer ch.Close()
		gen = cachedGenerator(cfg, ch)
	}
	runner := c.newRunner(cfg, gen, st)
	defer runner.Close()

	srv := server.New(runner, cfg,
		server.WithLogger(c.Logger),
		server.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)
	c.Logger.Info("starting server", "addr", cfg.Server.Addr, "store", cfg.Store.String(), "generator", gen != nil)
	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func serveCache(mode string) (cache.Cache, error) {
	switch mode {
	case "memory":
		return cache.NewMemoryCache(), nil
	case "file":
		return newCache(false)
	case "none":
		return cache.NewNullCache(), nil
	}
	return nil, jerrors.New(jerrors.ErrCodeInvalidInput, "invalid cache %q (must be one of: memory, file, none)", mode)
}
