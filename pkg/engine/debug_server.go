package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-drift/xilem/pkg/inspect"
	"github.com/go-drift/xilem/pkg/logging"
)

// debugServer serves the inspector endpoints for one runtime.
type debugServer struct {
	server   *http.Server
	listener net.Listener
}

// InspectHandler serves the retained-tree inspector (/tree.json, /tree.html,
// /health) plus the frame trace at /frames.
func (r *Runtime) InspectHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", inspect.Handler(r))
	mux.HandleFunc("/frames", r.handleFrameTimeline)
	return mux
}

func (r *Runtime) handleFrameTimeline(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, err := json.MarshalIndent(r.trace.timeline(), "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// startDebugServer binds addr and serves the inspector in the background.
func (r *Runtime) startDebugServer(addr string) (*debugServer, error) {
	// Bind first to fail fast on port conflicts.
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("debug server listen: %w", err)
	}
	srv := &debugServer{
		server:   &http.Server{Handler: r.InspectHandler(), ReadHeaderTimeout: 5 * time.Second},
		listener: listener,
	}
	go func() {
		if err := srv.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logging.Logger().Warn("debug server stopped", "error", err)
		}
	}()
	logging.Logger().Info("inspector listening", "addr", listener.Addr().String())
	return srv, nil
}

func (s *debugServer) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.server.Shutdown(ctx)
}
