package dialog

import (
	"context"
	"strings"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Wails is a Native backend on top of the Wails v2 runtime.
type Wails struct {
	ctx context.Context
}

var _ Native = (*Wails)(nil)

// NewWails returns a backend bound to the context Wails passes to the
// application's OnStartup hook. With any other context, nil included,
// every call fails with ErrNoRuntime.
func NewWails(ctx context.Context) *Wails {
	return &Wails{ctx: ctx}
}

// ready reports ErrNoRuntime unless ctx carries the Wails frontend. The
// runtime exits the process when called without it.
func (w *Wails) ready() error {
	if w.ctx == nil || w.ctx.Value("frontend") == nil {
		return ErrNoRuntime
	}
	return nil
}

func (w *Wails) OpenDirectory(req DirectoryRequest) (string, error) {
	if err := w.ready(); err != nil {
		return "", err
	}
	return runtime.OpenDirectoryDialog(w.ctx, runtime.OpenDialogOptions{
		Title:                req.Title,
		DefaultDirectory:     req.DefaultDirectory,
		CanCreateDirectories: true,
	})
}

func (w *Wails) OpenFile(req FileRequest) (string, error) {
	if err := w.ready(); err != nil {
		return "", err
	}
	return runtime.OpenFileDialog(w.ctx, runtime.OpenDialogOptions{
		Title:            req.Title,
		DefaultDirectory: req.DefaultDirectory,
		DefaultFilename:  req.DefaultFilename,
		Filters:          wailsFilters(req.Filters),
	})
}

func (w *Wails) SaveFile(req FileRequest) (string, error) {
	if err := w.ready(); err != nil {
		return "", err
	}
	return runtime.SaveFileDialog(w.ctx, runtime.SaveDialogOptions{
		Title:                req.Title,
		DefaultDirectory:     req.DefaultDirectory,
		DefaultFilename:      req.DefaultFilename,
		Filters:              wailsFilters(req.Filters),
		CanCreateDirectories: true,
	})
}

func (w *Wails) Message(req MessageRequest) error {
	if err := w.ready(); err != nil {
		return err
	}
	_, err := runtime.MessageDialog(w.ctx, runtime.MessageDialogOptions{
		Type:    runtime.InfoDialog,
		Title:   req.Title,
		Message: req.Message,
	})
	return err
}

func wailsFilters(filters []Filter) []runtime.FileFilter {
	out := make([]runtime.FileFilter, 0, len(filters))
	for _, f := range filters {
		out = append(out, runtime.FileFilter{
			DisplayName: f.Description,
			Pattern:     strings.Join(f.Patterns, ";"),
		})
	}
	return out
}
