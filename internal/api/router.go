package api

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the mux shared by the HTTP binaries: a hello root, a
// health probe, Prometheus metrics, and the application routes registered
// by the caller.
func NewRouter(healthy func() bool, register func(mux *http.ServeMux)) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Hello World!")
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if !healthy() {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "ok")
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	register(mux)
	return mux
}
