package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthFunc reports whether the running process is healthy
type HealthFunc func() error

// NewMetricsRouter serves the Prometheus registry on /metrics and a JSON
// health check on /health.
func NewMetricsRouter(runID string, health HealthFunc, logger log.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		status, code := "ok", http.StatusOK
		response := map[string]string{"run_id": runID}
		if err := health(); err != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
			response["message"] = err.Error()
		}
		response["status"] = status

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Error("failed to write health response", "error", err)
		}
	}).Methods(http.MethodGet)
	return router
}

// StartPrometheusServer starts a Prometheus metrics HTTP server on the given port.
// It runs in a background goroutine and logs failures after startup.
func StartPrometheusServer(port int, handler http.Handler, logger log.Logger) *http.Server {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("prometheus server error", "error", err)
		}
	}()

	return server
}

// stopPrometheusServer shuts the server down, waiting at most five seconds
func stopPrometheusServer(server *http.Server) error {
	if server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
