// Package pipeline runs the full lead flow for one query: search, per-result
// enrichment jobs, signal fusion, export, and run persistence.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/export"
	"github.com/sells-group/prospect-cli/internal/fuse"
	"github.com/sells-group/prospect-cli/internal/jobs"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/store"
)

// Config tunes the pipeline.
type Config struct {
	// MaxResults caps how many search hits become leads.
	MaxResults int
	// SearchMaxResults is how many organic results to request per search.
	SearchMaxResults int
	ExportDir        string
	// ExportFormat is "json" or "xlsx".
	ExportFormat string
}

// Pipeline turns a search query into fused, exported lead records.
type Pipeline struct {
	jobs  *jobs.Service
	fuser *fuse.Fuser
	st    store.Store
	cfg   Config
}

// New creates a Pipeline. The store may be nil for ephemeral runs.
func New(jobsSvc *jobs.Service, fuser *fuse.Fuser, st store.Store, cfg Config) *Pipeline {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}
	if cfg.SearchMaxResults <= 0 {
		cfg.SearchMaxResults = 10
	}
	if cfg.ExportFormat == "" {
		cfg.ExportFormat = "json"
	}
	return &Pipeline{jobs: jobsSvc, fuser: fuser, st: st, cfg: cfg}
}

// Run executes the pipeline for one query, exports the leads, and persists
// the run when a store is configured. The returned run always carries the
// result; a pipeline error is recorded on the run before being returned.
func (p *Pipeline) Run(ctx context.Context, query string) (*model.Run, error) {
	run, err := p.createRun(ctx, query)
	if err != nil {
		return nil, err
	}

	leads, err := p.Leads(ctx, query)
	if err != nil {
		run.Result = &model.RunResult{Error: err.Error()}
		p.saveResult(ctx, run)
		return run, err
	}

	result := &model.RunResult{Leads: leads}
	if len(leads) > 0 {
		path, exportErr := p.exportLeads(leads)
		if exportErr != nil {
			zap.L().Warn("pipeline: export failed", zap.String("query", query), zap.Error(exportErr))
		} else {
			result.ExportFile = path
		}
	}

	run.Result = result
	run.Status = model.RunStatusComplete
	p.saveResult(ctx, run)

	zap.L().Info("pipeline: run complete",
		zap.String("query", query),
		zap.Int("leads", len(leads)),
		zap.String("export", result.ExportFile),
	)
	return run, nil
}

// Leads runs search and per-result enrichment without touching the store.
func (p *Pipeline) Leads(ctx context.Context, query string) ([]model.LeadRecord, error) {
	results, err := p.jobs.Search(ctx, query, p.cfg.SearchMaxResults)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: search %q", query)
	}
	if len(results) > p.cfg.MaxResults {
		results = results[:p.cfg.MaxResults]
	}

	var leads []model.LeadRecord
	for _, r := range results {
		lead, err := p.buildLead(ctx, query, r)
		if err != nil {
			zap.L().Warn("pipeline: lead enrichment failed",
				zap.String("query", query),
				zap.String("url", r.URL),
				zap.Error(err),
			)
			continue
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

// buildLead enriches one search result into a fused record. Maps and
// LinkedIn discovery failures degrade the record instead of failing it.
func (p *Pipeline) buildLead(ctx context.Context, query string, r model.SearchResult) (model.LeadRecord, error) {
	urls := jobs.CandidateURLs(r.URL, r.SiteLinks)
	pages, err := p.jobs.ScrapeSite(ctx, urls)
	if err != nil {
		return model.LeadRecord{}, eris.Wrapf(err, "pipeline: scrape %s", r.URL)
	}

	scrape := p.jobs.ScrapeBundle(pages)
	signals := []*model.SignalBundle{scrape, jobs.SearchBundle([]model.SearchResult{r})}

	companyName := scrape.Field(model.FieldName)
	if companyName == "" {
		companyName = r.Title
	}

	maps, err := p.jobs.MapsLookup(ctx, companyName)
	if err != nil {
		zap.L().Warn("pipeline: maps lookup failed", zap.String("company", companyName), zap.Error(err))
	} else if maps != nil {
		signals = append(signals, maps)
	}

	if link := p.discoverLinkedIn(ctx, companyName); link != "" {
		signals = append(signals, jobs.HintBundle(link))
	}

	return p.fuser.Fuse(query, signals), nil
}

// discoverLinkedIn looks up the company's LinkedIn page through a scoped
// search. Failures are soft.
func (p *Pipeline) discoverLinkedIn(ctx context.Context, companyName string) string {
	if companyName == "" {
		return ""
	}
	results, err := p.jobs.Search(ctx, jobs.LinkedInDiscoveryQuery(companyName), 5)
	if err != nil {
		zap.L().Warn("pipeline: linkedin discovery failed", zap.String("company", companyName), zap.Error(err))
		return ""
	}
	return jobs.PickCompanyLinkedIn(results)
}

func (p *Pipeline) exportLeads(leads []model.LeadRecord) (string, error) {
	name := export.BatchFileName()
	if p.cfg.ExportFormat == "xlsx" {
		return export.WriteXLSX(p.cfg.ExportDir, strings.TrimSuffix(name, ".json")+".xlsx", leads)
	}
	return export.WriteJSON(p.cfg.ExportDir, name, leads)
}

func (p *Pipeline) createRun(ctx context.Context, query string) (*model.Run, error) {
	if p.st == nil {
		now := time.Now().UTC()
		return &model.Run{Query: query, Status: model.RunStatusRunning, CreatedAt: now, UpdatedAt: now}, nil
	}
	run, err := p.st.CreateRun(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	if err := p.st.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning); err != nil {
		zap.L().Warn("pipeline: mark run running failed", zap.String("run_id", run.ID), zap.Error(err))
	}
	run.Status = model.RunStatusRunning
	return run, nil
}

func (p *Pipeline) saveResult(ctx context.Context, run *model.Run) {
	if run.Result != nil && run.Result.Error != "" {
		run.Status = model.RunStatusFailed
	}
	if p.st == nil || run.ID == "" {
		return
	}
	if err := p.st.UpdateRunResult(ctx, run.ID, run.Result); err != nil {
		zap.L().Warn("pipeline: persist run result failed", zap.String("run_id", run.ID), zap.Error(err))
	}
}
