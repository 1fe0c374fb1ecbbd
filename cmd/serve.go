package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contract-hub/internal/model"
	"github.com/sells-group/contract-hub/internal/pipeline"
	"github.com/sells-group/contract-hub/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the aggregation API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := newRouter(env.Pipeline, env.Store, cfg.Server.AllowedOrigins)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
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

// newRouter builds the HTTP API. Split out of the command so tests can
// exercise the handlers directly.
func newRouter(p *pipeline.Pipeline, st store.Store, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"X-GCID", "X-Client-ID", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/overview", func(w http.ResponseWriter, req *http.Request) {
		sess := model.Session{
			GCID:     req.Header.Get("X-GCID"),
			ClientID: req.Header.Get("X-Client-ID"),
		}
		if sess.GCID == "" || sess.ClientID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "X-GCID and X-Client-ID headers are required",
			})
			return
		}
		refresh := req.URL.Query().Get("refresh") == "true"

		overview, err := p.Run(req.Context(), sess, refresh)
		if err != nil {
			zap.L().Error("overview request failed", zap.String("gcid", sess.GCID), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "aggregation failed"})
			return
		}

		// Technical failures still return the overview body; the flags
		// tell the portal what to render.
		status := http.StatusOK
		if overview.Flags.TechnicalError() {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, overview)
	})

	r.Get("/api/runs", func(w http.ResponseWriter, req *http.Request) {
		filter := store.RunFilter{
			Status: model.RunStatus(req.URL.Query().Get("status")),
			GCID:   req.URL.Query().Get("gcid"),
		}
		if l := req.URL.Query().Get("limit"); l != "" {
			n, err := strconv.Atoi(l)
			if err != nil || n < 0 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
				return
			}
			filter.Limit = n
		}

		runs, err := st.ListRuns(req.Context(), filter)
		if err != nil {
			zap.L().Error("runs listing failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "listing failed"})
			return
		}
		if runs == nil {
			runs = []model.Run{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
