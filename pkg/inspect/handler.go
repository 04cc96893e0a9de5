package inspect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Source supplies the most recent snapshot, or nil before the first frame.
// It is called from HTTP goroutines and must be safe for concurrent use.
type Source interface {
	Snapshot() *Snapshot
}

// SourceFunc adapts a function to Source.
type SourceFunc func() *Snapshot

// Snapshot implements Source.
func (f SourceFunc) Snapshot() *Snapshot { return f() }

// Handler serves /tree.json, /tree.html and /health.
func Handler(src Source) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tree.json", func(w http.ResponseWriter, r *http.Request) {
		s, ok := snapshot(w, r, src)
		if !ok {
			return
		}
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})
	mux.HandleFunc("/tree.html", func(w http.ResponseWriter, r *http.Request) {
		s, ok := snapshot(w, r, src)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := WriteHTML(&buf, s); err != nil {
			http.Error(w, fmt.Sprintf("html render error: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}

func snapshot(w http.ResponseWriter, r *http.Request, src Source) (*Snapshot, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}
	s := src.Snapshot()
	if s == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return nil, false
	}
	return s, true
}
