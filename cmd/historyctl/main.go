// Command historyctl runs a WebSocket server exposing a selective
// undo/redo history engine over one or more documents.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xheldon-t/prosemirror-history/pkg/config"
	"github.com/xheldon-t/prosemirror-history/pkg/transport"
)

func main() {
	path := os.Getenv("HISTORY_CONFIG")
	if path == "" {
		path = "historyctl.yaml"
	}
	cfg := config.FromEnv(config.LoadOrDefault(path))

	hub := transport.NewHub()

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	server := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("historyctl listening on %s (ws at /ws?doc=<id>)", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
