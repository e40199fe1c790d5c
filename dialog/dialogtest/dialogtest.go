// Package dialogtest provides scripted dialog implementations for tests.
package dialogtest

import (
	"sync"

	"github.com/petervdpas/presentation/dialog"
)

// Call records one request made to a fake.
type Call struct {
	Method string
	Args   []any
}

// Native is a dialog.Native that answers from fixed fields. An empty
// answer simulates the user cancelling.
type Native struct {
	Directory string
	OpenPath  string
	SavePath  string
	Err       error

	mu       sync.Mutex
	calls    []Call
	messages []dialog.MessageRequest
}

var _ dialog.Native = (*Native)(nil)

func (n *Native) record(method string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, Call{Method: method, Args: args})
}

// Calls returns the requests seen so far.
func (n *Native) Calls() []Call {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Call(nil), n.calls...)
}

// Messages returns the message boxes shown so far.
func (n *Native) Messages() []dialog.MessageRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]dialog.MessageRequest(nil), n.messages...)
}

func (n *Native) OpenDirectory(req dialog.DirectoryRequest) (string, error) {
	n.record("OpenDirectory", req)
	return n.Directory, n.Err
}

func (n *Native) OpenFile(req dialog.FileRequest) (string, error) {
	n.record("OpenFile", req)
	return n.OpenPath, n.Err
}

func (n *Native) SaveFile(req dialog.FileRequest) (string, error) {
	n.record("SaveFile", req)
	return n.SavePath, n.Err
}

func (n *Native) Message(req dialog.MessageRequest) error {
	n.record("Message", req)
	n.mu.Lock()
	n.messages = append(n.messages, req)
	n.mu.Unlock()
	return n.Err
}

// Provider is a dialog.Provider with canned answers. Custom dialog
// results are looked up in Custom by key.
type Provider struct {
	Folder   string
	OpenFile string
	SaveFile string
	Custom   map[string]any
	Err      error

	mu    sync.Mutex
	calls []Call
}

var _ dialog.Provider = (*Provider)(nil)

func (p *Provider) record(method string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, Call{Method: method, Args: args})
}

// Calls returns the calls seen so far.
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// CallsTo returns the calls made to method.
func (p *Provider) CallsTo(method string) []Call {
	var out []Call
	for _, c := range p.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (p *Provider) BrowseForFolder(startingFolder string) (string, error) {
	p.record("BrowseForFolder", startingFolder)
	return p.Folder, p.Err
}

func (p *Provider) BrowseForOpenFile(filePattern string) (string, error) {
	p.record("BrowseForOpenFile", filePattern)
	return p.OpenFile, p.Err
}

func (p *Provider) BrowseForSaveFile(filePattern, suggestedName string) (string, error) {
	p.record("BrowseForSaveFile", filePattern, suggestedName)
	return p.SaveFile, p.Err
}

func (p *Provider) ShowMessageDialog(title, message string) error {
	p.record("ShowMessageDialog", title, message)
	return p.Err
}

func (p *Provider) ShowCustomDialog(key string, args ...any) error {
	p.record("ShowCustomDialog", append([]any{key}, args...)...)
	return p.Err
}

func (p *Provider) OpenCustomDialog(key string, args ...any) (any, error) {
	p.record("OpenCustomDialog", append([]any{key}, args...)...)
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Custom[key], nil
}
