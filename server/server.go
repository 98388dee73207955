package server

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/tetherhq/tether-read/api/auth"
	v1 "github.com/tetherhq/tether-read/api/v1"
	"github.com/tetherhq/tether-read/config"
	"github.com/tetherhq/tether-read/log"
	"github.com/tetherhq/tether-read/storage"
	"github.com/tetherhq/tether-read/store"
	"github.com/tetherhq/tether-read/version"
)

// StartServer starts the HTTP server
func StartServer(ctx context.Context, store *store.Store, objects storage.ObjectStore, verifier auth.Verifier) (*http.Server, error) {
	addr := config.Opts.Host
	port := config.Opts.Port
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", addr, port),
		Handler: setupHandler(store, objects, verifier),
	}

	startHTTPServer(server)

	return server, nil
}

func startHTTPServer(server *http.Server) {
	go func() {
		log.Info("Starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("HTTP server error", zap.Error(err))
			os.Exit(1)
		}
	}()
}

func setupHandler(store *store.Store, objects storage.ObjectStore, verifier auth.Verifier) http.Handler {
	router := mux.NewRouter()

	// Setup the API routes
	v1.Server(router, store, objects, verifier)

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			http.Error(w, "Database Connection Error", http.StatusInternalServerError)
			return
		}

		w.Write([]byte("OK"))
	}).Name("healthcheck")

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(version.GetCurrentVersion()))
	}).Name("version")

	return router
}
