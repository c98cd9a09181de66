package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/prospect-cli/internal/jobs"
)

var (
	leadsIndustry  string
	leadsSizeMin   int
	leadsSizeMax   int
	leadsCountries []string
	leadsRoles     []string
	leadsJSON      bool
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Filter-based lead search",
}

var leadsSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search companies by firmographic filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("pipeline"); err != nil {
			return err
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		results, err := env.Jobs.FilterSearch(ctx, jobs.Filters{
			IndustryFocus: leadsIndustry,
			SizeMin:       leadsSizeMin,
			SizeMax:       leadsSizeMax,
			Countries:     leadsCountries,
			Roles:         leadsRoles,
		})
		if err != nil {
			return eris.Wrap(err, "filter search")
		}

		if leadsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		if len(results) == 0 {
			fmt.Fprintln(os.Stderr, "No leads found.")
			return nil
		}
		formatFilterLeads(os.Stdout, results)
		return nil
	},
}

func init() {
	leadsSearchCmd.Flags().StringVar(&leadsIndustry, "industry", "", "industry focus keyword")
	leadsSearchCmd.Flags().IntVar(&leadsSizeMin, "size-min", 0, "minimum company size")
	leadsSearchCmd.Flags().IntVar(&leadsSizeMax, "size-max", 0, "maximum company size")
	leadsSearchCmd.Flags().StringSliceVar(&leadsCountries, "country", nil, "country filter (repeatable)")
	leadsSearchCmd.Flags().StringSliceVar(&leadsRoles, "role", nil, "role filter (repeatable)")
	leadsSearchCmd.Flags().BoolVar(&leadsJSON, "json", false, "print raw JSON instead of a table")

	leadsCmd.AddCommand(leadsSearchCmd)
	rootCmd.AddCommand(leadsCmd)
}

// formatFilterLeads writes a tabular list of filter-search leads to w.
func formatFilterLeads(out io.Writer, leads []jobs.FilterLead) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COMPANY\tSIZE\tCOUNTRY\tCITY\tWEBSITE")
	_, _ = fmt.Fprintln(w, "-------\t----\t-------\t----\t-------")

	for _, l := range leads {
		name := l.CompanyName
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			name,
			l.Size(),
			l.Country,
			l.City,
			l.Website,
		)
	}
	_ = w.Flush()
}
