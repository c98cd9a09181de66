package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/prospect"
	"github.com/sells-group/prospect-cli/internal/registry"
	"github.com/sells-group/prospect-cli/pkg/serpapi"
)

var (
	prospectIndustry string
	prospectLocation string
	prospectSize     string
	prospectRevenue  string
	prospectContacts bool
)

// prospectReport is the JSON output of the prospect command.
type prospectReport struct {
	Accepted []model.ValidationOutcome `json:"accepted"`
	Rejected []model.ValidationOutcome `json:"rejected"`
}

var prospectCmd = &cobra.Command{
	Use:   "prospect",
	Short: "Generate and validate company candidates from a completion model",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("prospect"); err != nil {
			return err
		}

		completer, err := prospect.NewCompleter(prospect.Config{
			Provider:       cfg.Prospect.Provider,
			GroqAPIKey:     cfg.Groq.Key,
			GroqModel:      cfg.Groq.Model,
			AnthropicKey:   cfg.Anthropic.Key,
			AnthropicModel: cfg.Anthropic.Model,
			Temperature:    cfg.Prospect.Temperature,
			MaxTokens:      cfg.Prospect.MaxTokens,
		})
		if err != nil {
			return err
		}

		prompt := prospect.BuildCompanyPrompt(prospectIndustry, prospectLocation, prospectSize, prospectRevenue)
		text, err := completer.Complete(ctx, prospect.SystemPrompt, prompt)
		if err != nil {
			return eris.Wrap(err, "generate candidates")
		}

		candidates := prospect.ParseCandidates(text)
		if len(candidates) == 0 {
			zap.L().Warn("no candidates parsed from completion output")
		}

		accepted, rejected := prospect.Validate(candidates, prospect.Ranges{
			EmployeeMin: cfg.Prospect.EmployeeMin,
			EmployeeMax: cfg.Prospect.EmployeeMax,
			RevenueMinM: cfg.Prospect.RevenueMinM,
			RevenueMaxM: cfg.Prospect.RevenueMaxM,
		})

		zap.L().Info("candidates validated",
			zap.Int("parsed", len(candidates)),
			zap.Int("accepted", len(accepted)),
			zap.Int("rejected", len(rejected)),
		)

		if prospectContacts {
			accepted = enrichContacts(ctx, accepted)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(prospectReport{Accepted: accepted, Rejected: rejected})
	},
}

// enrichContacts looks up decision-maker contacts for each accepted company.
// Lookup failures leave the company without contacts.
func enrichContacts(ctx context.Context, accepted []model.ValidationOutcome) []model.ValidationOutcome {
	if cfg.SerpAPI.Key == "" {
		zap.L().Warn("serpapi.key not set, skipping contact discovery")
		return accepted
	}

	reg, err := registry.Load()
	if err != nil {
		zap.L().Warn("registry load failed, skipping contact discovery", zap.Error(err))
		return accepted
	}

	finder := prospect.NewContactFinder(
		serpapi.NewClient(cfg.SerpAPI.Key, serpapi.WithBaseURL(cfg.SerpAPI.BaseURL)),
		reg.RoleFilters,
	)

	for i := range accepted {
		contacts, err := finder.Find(ctx, accepted[i].Candidate.Name)
		if err != nil {
			zap.L().Warn("contact discovery failed",
				zap.String("company", accepted[i].Candidate.Name),
				zap.Error(err),
			)
			continue
		}
		accepted[i].Candidate.Contacts = contacts
	}
	return accepted
}

func init() {
	prospectCmd.Flags().StringVar(&prospectIndustry, "industry", "", "target industry (required)")
	prospectCmd.Flags().StringVar(&prospectLocation, "location", "", "target geography")
	prospectCmd.Flags().StringVar(&prospectSize, "size", "", "employee size range, e.g. \"100-5000 employees\"")
	prospectCmd.Flags().StringVar(&prospectRevenue, "revenue", "", "revenue range constraint")
	prospectCmd.Flags().BoolVar(&prospectContacts, "contacts", false, "discover LinkedIn contacts for accepted companies")
	_ = prospectCmd.MarkFlagRequired("industry")
	rootCmd.AddCommand(prospectCmd)
}
