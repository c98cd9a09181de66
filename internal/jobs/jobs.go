// Package jobs builds the actor inputs for each job kind, runs them through
// the orchestrator, and turns raw dataset items into signal bundles for
// fusion.
package jobs

import (
	"strings"
	"time"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/orchestrator"
	"github.com/sells-group/prospect-cli/internal/registry"
)

// Config carries the actor ids, budgets, and sales-navigator auth the job
// builders need.
type Config struct {
	SearchActor           string
	WebScraperActor       string
	MapsActor             string
	SalesNavActor         string
	SalesNavFallbackActor string

	SearchTimeout   time.Duration
	ScrapeTimeout   time.Duration
	MapsTimeout     time.Duration
	SalesNavTimeout time.Duration
	PollInterval    time.Duration

	MaxCrawlPages int

	SalesNavCookieString string
	SalesNavCookiesJSON  string
	SalesNavSearchURL    string
	SalesNavPage         int
}

// Service runs jobs against the execution service.
type Service struct {
	orch *orchestrator.Orchestrator
	reg  *registry.Registry
	cfg  Config
}

// NewService creates a job service.
func NewService(orch *orchestrator.Orchestrator, reg *registry.Registry, cfg Config) *Service {
	if cfg.MaxCrawlPages <= 0 {
		cfg.MaxCrawlPages = 10
	}
	if cfg.SalesNavPage <= 0 {
		cfg.SalesNavPage = 1
	}
	return &Service{orch: orch, reg: reg, cfg: cfg}
}

// HintBundle wraps an externally discovered LinkedIn URL as a hint signal.
func HintBundle(link string) *model.SignalBundle {
	b := model.NewSignalBundle(model.SourceHint)
	b.AddLink(link)
	return b
}

// composeLocation joins the non-empty address parts into a
// "city, region, country" string.
func composeLocation(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
