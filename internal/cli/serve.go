package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/rshade/gridpager/internal/demo"
	"github.com/rshade/gridpager/internal/logging"
	"github.com/rshade/gridpager/internal/render"
	"github.com/rshade/gridpager/internal/server"
	"github.com/rshade/gridpager/internal/source"
	"github.com/rshade/gridpager/internal/telemetry"
)

// newServeCmd runs the HTTP grid server.
func newServeCmd(st *state) *cobra.Command {
	var (
		addr     string
		useDemo  bool
		records  int
		title    string
		template string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the grid over HTTP",
		Long: `Serves a page that renders the grid and pages through it with delegated
clicks. With --demo the server also exposes /data backed by a seeded SQLite
database, and uses it as the grid source when no data_url is configured.
Prometheus metrics are exposed on /metrics.`,
		Example: `  # Serve demo records on :8080
  gridpager serve --demo --addr :8080

  # Serve an existing endpoint with caching enabled
  GRIDPAGER_CACHE_ENABLED=true gridpager serve --url http://api.internal/items`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := st.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Server.Address = addr
			}
			if cmd.Flags().Changed("demo") {
				cfg.Server.Demo = useDemo
			}
			if cmd.Flags().Changed("records") {
				cfg.Server.DemoRecords = records
			}
			if cmd.Flags().Changed("title") {
				cfg.Server.Title = title
			}
			if cmd.Flags().Changed("url") {
				cfg.Grid.DataURL, _ = cmd.Flags().GetString("url")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if template == "" {
				template = cfg.Grid.ItemTemplate
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			log := logging.ComponentLogger(*logging.FromContext(ctx), "server")

			item, err := render.TemplateItem[source.Record](template)
			if err != nil {
				return fmt.Errorf("parsing item template: %w", err)
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics := telemetry.NewMetrics(reg)

			opts, closeFn, err := newGridOptions(ctx, cfg, false, item)
			defer func() {
				if closeErr := closeFn(); closeErr != nil {
					log.Warn().Err(closeErr).Msg("closing page cache")
				}
			}()
			if err != nil {
				return err
			}
			opts.Observer = metrics
			opts.HTTPOptions = cfg.HTTPOptions(metrics.BreakerStateChange)

			srvOpts := server.Options{
				Title:    cfg.Server.Title,
				Grid:     opts,
				Gatherer: reg,
				Logger:   log,
			}

			if cfg.Server.Demo {
				db, err := demo.Open(cfg.Server.Database, log)
				if err != nil {
					return err
				}
				defer func() {
					if err := demo.Close(db); err != nil {
						log.Warn().Err(err).Msg("closing demo database")
					}
				}()

				repo := demo.NewRepository(db)
				if err := repo.Seed(ctx, cfg.Server.DemoRecords); err != nil {
					return err
				}
				srvOpts.Demo = repo
				if cfg.Grid.DataURL == "" {
					srvOpts.Grid.Source = demo.NewRecordSource(repo, demo.Filter{Category: cfg.Grid.Params["category"]})
				}
				log.Info().Int("records", cfg.Server.DemoRecords).Msg("demo data ready")
			}

			srv, err := server.New(srvOpts)
			if err != nil {
				return err
			}
			cmd.Printf("Serving %s on http://%s\n", cfg.Server.Title, cfg.Server.Address)
			return srv.Run(ctx, cfg.Server.Address)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.address)")
	cmd.Flags().BoolVar(&useDemo, "demo", false, "serve seeded demo records on /data")
	cmd.Flags().IntVar(&records, "records", 0, "number of demo records to seed")
	cmd.Flags().StringVar(&title, "title", "", "page title")
	cmd.Flags().StringVar(&template, "template", "", "HTML item template (overrides grid.item_template)")
	cmd.Flags().String("url", "", "data endpoint URL (overrides grid.data_url)")
	return cmd
}
