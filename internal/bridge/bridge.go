// Package bridge exposes a view-model to browser views over HTTP and a
// WebSocket stream of change notifications.
//
//	GET  /state              all property values
//	GET  /commands           command names and whether each can execute
//	POST /command?name=...   execute a command; optional JSON body {"param": ...}
//	GET  /events?since=N     retained changes with sequence > N
//	GET  /ws                 snapshot, then one message per change
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/petervdpas/presentation/command"
	"github.com/petervdpas/presentation/event"
	"github.com/petervdpas/presentation/observable"
)

// Source is the view-model side of the bridge.
type Source interface {
	Subscribe(h observable.Handler) event.ID
	Unsubscribe(id event.ID) bool
	Value(name string) (any, bool)
	Snapshot() map[string]any
	Commands() map[string]command.Command
}

// Change is one change notification with the value read right after it.
type Change struct {
	Seq      uint64    `json:"seq"`
	Property string    `json:"property"`
	Value    any       `json:"value"`
	At       time.Time `json:"at"`
}

type message struct {
	Type   string         `json:"type"` // "snapshot" or "change"
	State  map[string]any `json:"state,omitempty"`
	Change *Change        `json:"change,omitempty"`
}

// Options configures a Server.
type Options struct {
	// Dispatch runs f on the view-model's UI goroutine and returns after f
	// has run. Nil runs f inline.
	Dispatch func(f func())
	// History is the number of changes kept for /events.
	History int
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 65536,
	// Allow connections from the Wails webview (localhost, file://, etc.)
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server bridges one Source.
type Server struct {
	src      Source
	dispatch func(func())
	hist     *history
	subID    event.ID

	seqMu sync.Mutex
	seq   uint64

	listenerMu sync.RWMutex
	listeners  map[chan Change]struct{}

	srv *http.Server
	url string
}

// New subscribes to src and returns a Server. Call Close to unsubscribe.
func New(src Source, opts Options) *Server {
	if opts.Dispatch == nil {
		opts.Dispatch = func(f func()) { f() }
	}
	s := &Server{
		src:       src,
		dispatch:  opts.Dispatch,
		hist:      newHistory(opts.History),
		listeners: make(map[chan Change]struct{}),
	}
	s.dispatch(func() { s.subID = src.Subscribe(s.onChange) })
	return s
}

// onChange runs on the UI goroutine.
func (s *Server) onChange(e observable.Event) {
	v, _ := s.src.Value(e.PropertyName)
	s.seqMu.Lock()
	s.seq++
	c := Change{Seq: s.seq, Property: e.PropertyName, Value: v, At: time.Now()}
	s.seqMu.Unlock()

	s.hist.push(c)

	s.listenerMu.RLock()
	defer s.listenerMu.RUnlock()
	for ch := range s.listeners {
		select {
		case ch <- c:
		default:
		}
	}
}

func (s *Server) subscribe() chan Change {
	ch := make(chan Change, 64)
	s.listenerMu.Lock()
	s.listeners[ch] = struct{}{}
	s.listenerMu.Unlock()
	return ch
}

func (s *Server) unsubscribe(ch chan Change) {
	s.listenerMu.Lock()
	delete(s.listeners, ch)
	s.listenerMu.Unlock()
}

// Handler returns the bridge routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/state", withCORS(s.handleState))
	mux.HandleFunc("/commands", withCORS(s.handleCommands))
	mux.HandleFunc("/command", withCORS(s.handleCommand))
	mux.HandleFunc("/events", withCORS(s.handleEvents))
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// Start listens on addr and serves until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.url = "http://" + ln.Addr().String()
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("BRIDGE: serve: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
	}()

	log.Printf("BRIDGE: listening on %s", s.url)
	return nil
}

// URL returns the base URL once Start has succeeded.
func (s *Server) URL() string {
	return s.url
}

// Close stops forwarding change notifications.
func (s *Server) Close() {
	s.dispatch(func() { s.src.Unsubscribe(s.subID) })
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var state map[string]any
	s.dispatch(func() { state = s.src.Snapshot() })
	writeJSON(w, state)
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	out := map[string]bool{}
	s.dispatch(func() {
		for name, cmd := range s.src.Commands() {
			out[name] = cmd.CanExecute(nil)
		}
	})
	writeJSON(w, out)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name parameter", http.StatusBadRequest)
		return
	}

	var in struct {
		Param any `json:"param"`
	}
	b, _ := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if len(b) > 0 {
		if err := json.Unmarshal(b, &in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
	}

	status := http.StatusOK
	var execErr error
	s.dispatch(func() {
		cmd, ok := s.src.Commands()[name]
		switch {
		case !ok:
			status = http.StatusNotFound
		case !cmd.CanExecute(in.Param):
			status = http.StatusConflict
		default:
			execErr = cmd.Execute(in.Param)
		}
	})

	switch {
	case status == http.StatusNotFound:
		http.Error(w, "unknown command", status)
	case status == http.StatusConflict:
		http.Error(w, "command disabled", status)
	case execErr != nil:
		http.Error(w, execErr.Error(), http.StatusBadRequest)
	default:
		writeJSON(w, map[string]any{"ok": true})
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var since uint64
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			http.Error(w, "bad since parameter", http.StatusBadRequest)
			return
		}
		since = n
	}
	writeJSON(w, s.hist.since(since))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("BRIDGE: WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	// Subscribe before reading the snapshot so no change falls in between.
	ch := s.subscribe()
	defer s.unsubscribe(ch)

	var state map[string]any
	s.dispatch(func() { state = s.src.Snapshot() })
	if err := conn.WriteJSON(message{Type: "snapshot", State: state}); err != nil {
		return
	}

	// Drain incoming messages (ping/pong, close frames) without blocking.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case c := <-ch:
			if err := conn.WriteJSON(message{Type: "change", Change: &c}); err != nil {
				return
			}
		}
	}
}

// withCORS lets views served from another localhost origin call the bridge.
func withCORS(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
