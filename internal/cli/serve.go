package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/globecover/pkg/server"
)

type serveFlags struct {
	addr    string
	texture string
	spots   string
	maxN    int
	noCache bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve coverings and globe payloads over HTTP",
		Long: `Start the HTTP API. Endpoints:

  GET /healthz
  GET /v1/cover?n=500          cover CSV
  GET /v1/cover/summary?n=500  rung and point counts
  GET /v1/rungs?n=500          rung schedule
  GET /v1/globe?n=500          globe payload (needs --texture)
  GET /v1/spots                places JSON (needs --spots)

The server shares the configured cache backend; use the redis backend to
share artifacts between instances. It shuts down gracefully on SIGINT.`,
		Example: `  globecover serve --texture input/texture.png
  globecover serve --addr 127.0.0.1:9000 --max-n 1000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.serverConfig(cmd, flags)
			return c.runServe(cmd.Context(), cmd.OutOrStdout(), cfg, flags.noCache)
		},
	}
	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address (default "+server.DefaultAddr+")")
	cmd.Flags().StringVarP(&flags.texture, "texture", "t", "", "terrain texture enabling /v1/globe")
	cmd.Flags().StringVarP(&flags.spots, "spots", "s", "", "places CSV enabling /v1/spots")
	cmd.Flags().IntVar(&flags.maxN, "max-n", 0, "largest equatorial count served")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	return cmd
}

// serverConfig merges flags over the [server] section and top-level paths.
func (c *CLI) serverConfig(cmd *cobra.Command, flags serveFlags) server.Config {
	fc := c.Config.Server
	cfg := server.Config{
		Addr:               fc.Addr,
		ReadTimeout:        fc.ReadTimeout.Duration,
		WriteTimeout:       fc.WriteTimeout.Duration,
		MaxEquatorialCount: fc.MaxEquatorialCount,
		Texture:            c.Config.Texture,
		Spots:              c.Config.Spots,
	}
	if cmd.Flags().Changed("addr") {
		cfg.Addr = flags.addr
	}
	if cmd.Flags().Changed("texture") {
		cfg.Texture = flags.texture
	}
	if cmd.Flags().Changed("spots") {
		cfg.Spots = flags.spots
	}
	if cmd.Flags().Changed("max-n") {
		cfg.MaxEquatorialCount = flags.maxN
	}
	if cfg.Addr == "" {
		cfg.Addr = server.DefaultAddr
	}
	return cfg
}

func (c *CLI) runServe(ctx context.Context, out io.Writer, cfg server.Config, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv, err := server.New(cfg, runner, loggerFromContext(ctx))
	if err != nil {
		return err
	}

	printSuccess(out, "Serving on %s", cfg.Addr)
	if cfg.Texture == "" {
		printWarning(out, "No texture configured; /v1/globe is disabled")
	}
	return srv.ListenAndServe(ctx)
}
