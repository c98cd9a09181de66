package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/fuse"
	"github.com/sells-group/prospect-cli/internal/jobs"
	"github.com/sells-group/prospect-cli/internal/orchestrator"
	"github.com/sells-group/prospect-cli/internal/pipeline"
	"github.com/sells-group/prospect-cli/internal/registry"
	"github.com/sells-group/prospect-cli/internal/store"
	"github.com/sells-group/prospect-cli/pkg/apify"
)

// pipelineEnv holds the initialized store, job service, and pipeline needed
// by the run/batch/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Jobs     *jobs.Service
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			path = "prospect.db"
		}
		return store.NewSQLite(path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initPipeline sets up the store, Apify client, job service, and fuser.
// Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	reg, err := registry.Load()
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	apifyClient := apify.NewClient(cfg.Apify.Token, apify.WithBaseURL(cfg.Apify.BaseURL))

	orch := orchestrator.New(apifyClient,
		orchestrator.WithCache(st, time.Duration(cfg.Pipeline.CacheTTLHours)*time.Hour),
	)

	jobsSvc := jobs.NewService(orch, reg, jobs.Config{
		SearchActor:           cfg.Apify.SearchActor,
		WebScraperActor:       cfg.Apify.WebScraperActor,
		MapsActor:             cfg.Apify.MapsActor,
		SalesNavActor:         cfg.Apify.SalesNavActor,
		SalesNavFallbackActor: cfg.Apify.SalesNavFallback,
		SearchTimeout:         time.Duration(cfg.Apify.SearchTimeoutSecs) * time.Second,
		ScrapeTimeout:         time.Duration(cfg.Apify.ScrapeTimeoutSecs) * time.Second,
		MapsTimeout:           time.Duration(cfg.Apify.MapsTimeoutSecs) * time.Second,
		SalesNavTimeout:       time.Duration(cfg.Apify.SalesNavTimeoutSecs) * time.Second,
		PollInterval:          time.Duration(cfg.Apify.PollIntervalSecs) * time.Second,
		MaxCrawlPages:         cfg.Apify.MaxCrawlPages,
		SalesNavCookieString:  cfg.SalesNav.CookieString,
		SalesNavCookiesJSON:   cfg.SalesNav.CookiesJSON,
		SalesNavSearchURL:     cfg.SalesNav.SearchURL,
		SalesNavPage:          cfg.SalesNav.Page,
	})

	// Timezone resolution is best effort; leads just lack a timezone
	// when the finder cannot load its dataset.
	tz, err := fuse.NewTimezoneFinder()
	if err != nil {
		zap.L().Warn("timezone finder init failed, timezone resolution disabled", zap.Error(err))
		tz = nil
	}

	p := pipeline.New(jobsSvc, fuse.New(reg, tz), st, pipeline.Config{
		MaxResults:       cfg.Pipeline.MaxResults,
		SearchMaxResults: cfg.Pipeline.SearchMaxResults,
		ExportDir:        cfg.Export.Dir,
		ExportFormat:     cfg.Export.Format,
	})

	return &pipelineEnv{
		Store:    st,
		Jobs:     jobsSvc,
		Pipeline: p,
	}, nil
}
