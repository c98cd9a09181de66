package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospect-cli/internal/model"
)

var (
	batchFile  string
	batchLimit int
)

var batchCmd = &cobra.Command{
	Use:   "batch [query ...]",
	Short: "Run the lead pipeline for many queries concurrently",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("pipeline"); err != nil {
			return err
		}

		queries := args
		if batchFile != "" {
			fromFile, err := readQueryFile(batchFile)
			if err != nil {
				return err
			}
			queries = append(queries, fromFile...)
		}
		if len(queries) == 0 {
			return eris.New("no queries given: pass them as arguments or via --file")
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		return processBatch(ctx, queries, batchLimit, cfg.Batch.MaxConcurrentQueries, func(ctx context.Context, query string) (*model.Run, error) {
			return env.Pipeline.Run(ctx, query)
		})
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "file with one query per line")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of queries to process (0 = all)")
	rootCmd.AddCommand(batchCmd)
}

// readQueryFile reads one query per line, skipping blanks and # comments.
func readQueryFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open query file %s", path)
	}
	defer f.Close()

	var queries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "read query file %s", path)
	}
	return queries, nil
}

// runFunc is the callback signature for running the pipeline on one query.
type runFunc func(ctx context.Context, query string) (*model.Run, error)

// processBatch applies limit, then processes queries concurrently using the
// given run function. Individual failures do not abort the batch.
func processBatch(ctx context.Context, queries []string, limit, concurrency int, run runFunc) error {
	if limit > 0 && len(queries) > limit {
		queries = queries[:limit]
	}

	zap.L().Info("processing batch",
		zap.Int("queries", len(queries)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, query := range queries {
		g.Go(func() error {
			log := zap.L().With(zap.String("query", query))

			result, err := run(gctx, query)
			if err != nil {
				failed.Add(1)
				log.Error("query failed", zap.Error(err))
				return nil
			}

			succeeded.Add(1)
			log.Info("query complete", zap.Int("leads", leadCount(result)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}
