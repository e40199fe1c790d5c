package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/petervdpas/presentation/command"
	"github.com/petervdpas/presentation/observable"
)

const greetingProperty = "Greeting"

// fakeVM is a minimal Source. A mutex stands in for the UI goroutine.
type fakeVM struct {
	observable.Object
	mu       sync.Mutex
	greeting string
	cmds     map[string]command.Command
}

func newFakeVM() *fakeVM {
	vm := &fakeVM{greeting: "hello"}
	vm.SetSender(vm)
	vm.cmds = map[string]command.Command{
		"set": command.NewWithParam(func(s string) {
			observable.SetProperty(&vm.Object, &vm.greeting, s, greetingProperty)
		}, func(s string) bool { return s != "" }),
		"never": command.New(func() {}, func() bool { return false }),
	}
	return vm
}

func (vm *fakeVM) Value(name string) (any, bool) {
	if name == greetingProperty {
		return vm.greeting, true
	}
	return nil, false
}

func (vm *fakeVM) Snapshot() map[string]any {
	return map[string]any{greetingProperty: vm.greeting}
}

func (vm *fakeVM) Commands() map[string]command.Command { return vm.cmds }

func (vm *fakeVM) dispatch(f func()) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	f()
}

func newTestServer(t *testing.T) (*fakeVM, *Server, *httptest.Server) {
	t.Helper()
	vm := newFakeVM()
	s := New(vm, Options{Dispatch: vm.dispatch, History: 2})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return vm, s, ts
}

func postCommand(t *testing.T, base, name, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(base+"/command?name="+name, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestStateAndCommand(t *testing.T) {
	vm, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/state")
	if err != nil {
		t.Fatal(err)
	}
	var state map[string]any
	json.NewDecoder(resp.Body).Decode(&state)
	resp.Body.Close()
	if state[greetingProperty] != "hello" {
		t.Fatalf("state = %v", state)
	}

	resp = postCommand(t, ts.URL, "set", `{"param":"hi"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	vm.dispatch(func() {
		if vm.greeting != "hi" {
			t.Fatalf("greeting = %q", vm.greeting)
		}
	})
}

func TestCommandErrors(t *testing.T) {
	_, _, ts := newTestServer(t)

	tests := []struct {
		name, body string
		want       int
	}{
		{"missing", "", http.StatusNotFound},
		{"never", "", http.StatusConflict},
		{"set", `{"param":""}`, http.StatusConflict},
		{"set", `{"param":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp := postCommand(t, ts.URL, tt.name, tt.body)
		resp.Body.Close()
		if resp.StatusCode != tt.want {
			t.Fatalf("%s %q: got %d, want %d", tt.name, tt.body, resp.StatusCode, tt.want)
		}
	}

	resp, err := http.Get(ts.URL + "/command?name=set")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET /command: got %d", resp.StatusCode)
	}
}

func TestCommandsListing(t *testing.T) {
	_, _, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/commands")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var got map[string]bool
	json.NewDecoder(resp.Body).Decode(&got)
	// "set" with a nil param converts to "", which its predicate rejects.
	if got["set"] || got["never"] || len(got) != 2 {
		t.Fatalf("got %v", got)
	}
}

func TestEventsHistory(t *testing.T) {
	_, _, ts := newTestServer(t)
	for _, g := range []string{"a", "b", "c"} {
		resp := postCommand(t, ts.URL, "set", `{"param":"`+g+`"}`)
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/events")
	if err != nil {
		t.Fatal(err)
	}
	var changes []Change
	json.NewDecoder(resp.Body).Decode(&changes)
	resp.Body.Close()

	// History holds 2: the oldest change was overwritten.
	if len(changes) != 2 || changes[0].Value != "b" || changes[1].Value != "c" {
		t.Fatalf("changes = %+v", changes)
	}

	resp, _ = http.Get(ts.URL + "/events?since=" + "2")
	json.NewDecoder(resp.Body).Decode(&changes)
	resp.Body.Close()
	if len(changes) != 1 || changes[0].Seq != 3 {
		t.Fatalf("since=2: %+v", changes)
	}

	resp, _ = http.Get(ts.URL + "/events?since=x")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad since: got %d", resp.StatusCode)
	}
}

func TestWebSocketStream(t *testing.T) {
	_, _, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	var snap message
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.Type != "snapshot" || snap.State[greetingProperty] != "hello" {
		t.Fatalf("snapshot = %+v", snap)
	}

	resp := postCommand(t, ts.URL, "set", `{"param":"streamed"}`)
	resp.Body.Close()

	var msg message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "change" || msg.Change == nil || msg.Change.Property != greetingProperty || msg.Change.Value != "streamed" {
		t.Fatalf("change = %+v", msg)
	}
}

func TestStartAndShutdown(t *testing.T) {
	vm := newFakeVM()
	s := New(vm, Options{Dispatch: vm.dispatch})
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx, "127.0.0.1:0"); err != nil {
		t.Fatal(err)
	}
	resp, err := http.Get(s.URL() + "/state")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	cancel()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := http.Get(s.URL() + "/state"); err != nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("server still answering after cancel")
}
