package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/export"
	"github.com/sells-group/prospect-cli/internal/jobs"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start webhook server for pipeline requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		mux := newServeMux(ctx, env, cfg.Export.Dir)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newServeMux builds the webhook routes. runCtx outlives individual requests
// so asynchronous pipeline runs survive the request returning.
func newServeMux(runCtx context.Context, env *pipelineEnv, exportDir string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/run", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Query == "" {
			http.Error(w, `{"error":"query is required"}`, http.StatusBadRequest)
			return
		}

		// Run the pipeline asynchronously
		go func() {
			run, err := env.Pipeline.Run(runCtx, req.Query)
			if err != nil {
				zap.L().Error("webhook run failed",
					zap.String("query", req.Query),
					zap.Error(err),
				)
				return
			}
			zap.L().Info("webhook run complete",
				zap.String("query", req.Query),
				zap.Int("leads", leadCount(run)),
			)
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "accepted",
			"query":  req.Query,
		})
	})

	mux.HandleFunc("POST /api/leads/search", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Industry  string   `json:"industry"`
			SizeMin   int      `json:"size_min"`
			SizeMax   int      `json:"size_max"`
			Countries []string `json:"countries"`
			Roles     []string `json:"roles"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		results, err := env.Jobs.FilterSearch(r.Context(), jobs.Filters{
			IndustryFocus: req.Industry,
			SizeMin:       req.SizeMin,
			SizeMax:       req.SizeMax,
			Countries:     req.Countries,
			Roles:         req.Roles,
		})
		if err != nil {
			zap.L().Error("webhook filter search failed", zap.Error(err))
			http.Error(w, `{"error":"filter search failed"}`, http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"leads": results})
	})

	mux.HandleFunc("GET /download/{file}", func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("file")
		if !export.SafeDownloadName(name) {
			http.Error(w, `{"error":"invalid file name"}`, http.StatusBadRequest)
			return
		}
		http.ServeFile(w, r, filepath.Join(exportDir, name))
	})

	return mux
}
