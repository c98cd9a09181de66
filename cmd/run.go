package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

var runCmd = &cobra.Command{
	Use:   "run <query>",
	Short: "Run the lead pipeline for a single search query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := args[0]

		if err := cfg.Validate("pipeline"); err != nil {
			return err
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		run, err := env.Pipeline.Run(ctx, query)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("run complete",
			zap.String("query", query),
			zap.Int("leads", leadCount(run)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

func leadCount(run *model.Run) int {
	if run == nil || run.Result == nil {
		return 0
	}
	return len(run.Result.Leads)
}

func init() {
	rootCmd.AddCommand(runCmd)
}
