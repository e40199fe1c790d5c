package tui

import (
	"github.com/petervdpas/presentation/dialog"
	"github.com/petervdpas/presentation/internal/notes"
)

// Provider answers dialog requests inside the terminal. A terminal cannot
// block for a picker inside Update, so the model collects the path in a
// prompt first and the next browse call returns it.
type Provider struct {
	answer string
	status func(string)
	custom dialog.Registry
	warned bool
}

var _ dialog.Provider = (*Provider)(nil)

// NewProvider returns a Provider reporting messages through status.
func NewProvider(status func(string)) *Provider {
	p := &Provider{status: status}
	p.custom.Register(notes.KeepChangesDialog, p.keepChanges)
	p.custom.Register(notes.HelpDialog, func(...any) (any, error) {
		p.status(helpText)
		return nil, nil
	})
	return p
}

// Answer sets the path returned by the next browse call.
func (p *Provider) Answer(path string) {
	p.answer = path
}

func (p *Provider) take() string {
	a := p.answer
	p.answer = ""
	return a
}

func (p *Provider) BrowseForFolder(string) (string, error) {
	return p.take(), nil
}

func (p *Provider) BrowseForOpenFile(string) (string, error) {
	return p.take(), nil
}

func (p *Provider) BrowseForSaveFile(string, string) (string, error) {
	return p.take(), nil
}

func (p *Provider) ShowMessageDialog(title, message string) error {
	p.status(title + ": " + message)
	return nil
}

func (p *Provider) ShowCustomDialog(key string, args ...any) error {
	_, err := p.OpenCustomDialog(key, args...)
	return err
}

func (p *Provider) OpenCustomDialog(key string, args ...any) (any, error) {
	cd, ok := p.custom.Lookup(key)
	if !ok {
		return nil, nil
	}
	return cd(args...)
}

// keepChanges keeps unsaved text the first time and discards it when the
// user repeats the action.
func (p *Provider) keepChanges(...any) (any, error) {
	if !p.warned {
		p.warned = true
		p.status("unsaved changes: repeat to discard them")
		return true, nil
	}
	p.warned = false
	return false, nil
}
