package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/gridpager/internal/config"
	"github.com/rshade/gridpager/internal/demo"
	"github.com/rshade/gridpager/internal/grid"
	"github.com/rshade/gridpager/internal/logging"
	"github.com/rshade/gridpager/internal/render"
	"github.com/rshade/gridpager/internal/source"
)

// defaultTextTemplate prints every field of a schemaless record on one line.
const defaultTextTemplate = `{{range $k, $v := .}}{{$k}}={{$v}} {{end}}` + "\n"

// gridFlags are the grid settings shared by render and browse.
type gridFlags struct {
	url      string
	method   string
	page     int
	pageSize int
	template string
	demo     bool
}

func (f *gridFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "url", "", "data endpoint URL (overrides grid.data_url)")
	cmd.Flags().StringVar(&f.method, "method", "", "data request method, GET or POST (overrides grid.data_method)")
	cmd.Flags().IntVar(&f.page, "page", 0, "page to show (overrides grid.current_page)")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "records per page (overrides grid.page_size)")
	cmd.Flags().StringVar(&f.template, "template", "", "item template")
	cmd.Flags().BoolVar(&f.demo, "demo", false, "use the built-in demo records instead of an endpoint")
}

// apply overlays explicitly set flags on cfg and revalidates it.
func (f *gridFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("url") {
		cfg.Grid.DataURL = f.url
	}
	if cmd.Flags().Changed("method") {
		cfg.Grid.DataMethod = f.method
	}
	if cmd.Flags().Changed("page") {
		cfg.Grid.CurrentPage = f.page
	}
	if cmd.Flags().Changed("page-size") {
		cfg.Grid.PageSize = f.pageSize
	}
	return cfg.Validate()
}

// newGridOptions assembles grid options from cfg. The returned close function
// releases the store and the demo database and is never nil.
func newGridOptions(
	ctx context.Context,
	cfg *config.Config,
	useDemo bool,
	item render.ItemFunc[source.Record],
) (grid.Options[source.Record], func() error, error) {
	log := logging.FromContext(ctx)

	store, closeStore, err := config.NewStore[source.Record](ctx, cfg)
	if err != nil {
		return grid.Options[source.Record]{}, closeStore, fmt.Errorf("opening page cache: %w", err)
	}
	keyStrategy, err := cfg.KeyStrategy()
	if err != nil {
		return grid.Options[source.Record]{}, closeStore, err
	}

	opts := grid.Options[source.Record]{
		CurrentPage: cfg.Grid.CurrentPage,
		PageSize:    cfg.Grid.PageSize,
		DataURL:     cfg.Grid.DataURL,
		DataMethod:  cfg.Grid.DataMethod,
		Params:      cfg.Grid.ParamValues(),
		RenderItem:  item,
		UseCache:    cfg.Cache.Enabled,
		Store:       store,
		CacheKey:    keyStrategy,
		HTTPOptions: cfg.HTTPOptions(nil),
		OnError: func(err error) {
			log.Warn().Err(err).Msg("grid load failed")
		},
	}
	if !useDemo {
		return opts, closeStore, nil
	}

	db, err := demo.Open(cfg.Server.Database, *log)
	if err != nil {
		return opts, closeStore, err
	}
	closeAll := func() error {
		dbErr := demo.Close(db)
		if err := closeStore(); err != nil {
			return err
		}
		return dbErr
	}

	repo := demo.NewRepository(db)
	if err := repo.Seed(ctx, cfg.Server.DemoRecords); err != nil {
		return opts, closeAll, err
	}
	opts.Source = demo.NewRecordSource(repo, demo.Filter{Category: cfg.Grid.Params["category"]})
	return opts, closeAll, nil
}
