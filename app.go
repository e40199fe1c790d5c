// app.go
package main

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/petervdpas/presentation/dialog"
	"github.com/petervdpas/presentation/internal/bridge"
	"github.com/petervdpas/presentation/internal/config"
	"github.com/petervdpas/presentation/internal/notes"
	"github.com/petervdpas/presentation/observable"
	"github.com/petervdpas/presentation/viewmodel"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// App is bound to the Wails frontend. Wails calls bound methods on
// arbitrary goroutines; mu gives the view-model the single UI thread it
// expects.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu sync.Mutex
	vm *notes.ViewModel

	cfgMu   sync.Mutex
	cfg     config.Config
	cfgPath string

	initialPath string
	bridgeURL   string
}

// CommandState is returned by Commands to the Wails frontend.
type CommandState struct {
	Name       string `json:"name"`
	CanExecute bool   `json:"can_execute"`
}

var errNotStarted = errors.New("app not started")

func NewApp(cfg config.Config, cfgPath, initialPath string) *App {
	return &App{cfg: cfg, cfgPath: cfgPath, initialPath: initialPath}
}

// do runs f on the view-model's UI thread.
func (a *App) do(f func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	f()
}

func (a *App) startup(ctx context.Context) {
	a.ctx, a.cancel = context.WithCancel(ctx)

	opts := append(a.cfg.DialogOptions(filepath.Dir(a.cfgPath)),
		dialog.WithCustom(notes.KeepChangesDialog, a.keepChangesDialog),
		dialog.WithCustom(notes.HelpDialog, a.helpDialog),
	)
	provider := dialog.New(dialog.NewWails(ctx), opts...)
	a.vm = notes.New(notes.Options{
		FileFilter: a.cfg.Dialogs.FileFilter,
		CodeStyle:  a.cfg.Notes.CodeStyle,
		Dispatch:   a.do,
	}, viewmodel.WithDialogProvider(provider))

	a.do(func() {
		a.vm.Subscribe(func(e observable.Event) {
			v, _ := a.vm.Value(e.PropertyName)
			runtime.EventsEmit(a.ctx, "vm:changed", map[string]interface{}{
				"property": e.PropertyName,
				"value":    v,
			})
		})
		for name, cmd := range a.vm.Commands() {
			cmd.CanExecuteChanged(func() {
				runtime.EventsEmit(a.ctx, "vm:canExecute", CommandState{Name: name, CanExecute: cmd.CanExecute(nil)})
			})
		}
	})
	a.vm.OnException(func(err error) {
		log.Printf("NOTES: %v", err)
		runtime.EventsEmit(a.ctx, "vm:error", err.Error())
	})

	if a.initialPath != "" {
		var err error
		a.do(func() { err = a.vm.Load(a.initialPath) })
		if err != nil {
			log.Printf("open %s: %v", a.initialPath, err)
		}
	}

	if a.cfg.Notes.WatchFile {
		go func() {
			if err := a.vm.Watch(a.ctx); err != nil {
				log.Printf("NOTES: watch: %v", err)
			}
		}()
	}

	// Browser views can mirror the editor through the bridge.
	srv := bridge.New(a.vm, bridge.Options{Dispatch: a.do, History: a.cfg.Bridge.History})
	if err := srv.Start(a.ctx, a.cfg.Bridge.Addr); err != nil {
		log.Printf("bridge start: %v", err)
		return
	}
	a.bridgeURL = srv.URL()
}

func (a *App) shutdown(ctx context.Context) {
	if a.cancel != nil {
		log.Println("SHUTDOWN: stopping watcher and bridge")
		a.cancel()
	}
}

// keepChangesDialog asks whether unsaved text should be kept. Linux only
// offers Yes/No, so both label sets are accepted.
func (a *App) keepChangesDialog(args ...any) (any, error) {
	name := "this note"
	if len(args) > 0 {
		if p, ok := args[0].(string); ok && p != "" {
			name = filepath.Base(p)
		}
	}
	res, err := runtime.MessageDialog(a.ctx, runtime.MessageDialogOptions{
		Type:          runtime.QuestionDialog,
		Title:         "Unsaved changes",
		Message:       "Keep the unsaved changes to " + name + "?",
		Buttons:       []string{"Keep", "Discard"},
		DefaultButton: "Keep",
		CancelButton:  "Keep",
	})
	if err != nil {
		return nil, err
	}
	return res != "Discard" && res != "No", nil
}

func (a *App) helpDialog(args ...any) (any, error) {
	var props []string
	if len(args) > 0 {
		props, _ = args[0].([]string)
	}
	msg := "Markdown on the left, preview on the right.\n\nBound properties: " + strings.Join(props, ", ")
	_, err := runtime.MessageDialog(a.ctx, runtime.MessageDialogOptions{
		Type:    runtime.InfoDialog,
		Title:   "Help",
		Message: msg,
	})
	return nil, err
}

// -------------------------
// View-model API for Wails frontend
// -------------------------

// State returns every property value.
func (a *App) State() (map[string]any, error) {
	if a.vm == nil {
		return nil, errNotStarted
	}
	var state map[string]any
	a.do(func() { state = a.vm.Snapshot() })
	return state, nil
}

// Commands lists the commands and whether each can execute.
func (a *App) Commands() ([]CommandState, error) {
	if a.vm == nil {
		return nil, errNotStarted
	}
	var out []CommandState
	a.do(func() {
		for name, cmd := range a.vm.Commands() {
			out = append(out, CommandState{Name: name, CanExecute: cmd.CanExecute(nil)})
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Execute runs a command by name. Disabled commands are skipped.
func (a *App) Execute(name string, param any) error {
	if a.vm == nil {
		return errNotStarted
	}
	var err error
	a.do(func() {
		cmd, ok := a.vm.Commands()[name]
		if !ok {
			err = errors.New("unknown command: " + name)
			return
		}
		if !cmd.CanExecute(param) {
			return
		}
		err = cmd.Execute(param)
	})
	return err
}

// SetText replaces the note text with what the user typed.
func (a *App) SetText(text string) error {
	if a.vm == nil {
		return errNotStarted
	}
	a.do(func() { a.vm.SetText(text) })
	return nil
}

// -------------------------
// Theme + bridge API for Wails frontend
// -------------------------

func (a *App) GetTheme() string {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	return normalizeTheme(a.cfg.UI.Theme)
}

func (a *App) SetTheme(theme string) error {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()

	a.cfg.UI.Theme = normalizeTheme(theme)
	return config.Save(a.cfgPath, a.cfg)
}

// GetBridgeURL returns the base URL browser views connect to.
func (a *App) GetBridgeURL() string {
	return a.bridgeURL
}

// OpenBridgeInBrowser opens the bridge state in the default browser.
func (a *App) OpenBridgeInBrowser() {
	if a.bridgeURL == "" {
		return
	}
	runtime.BrowserOpenURL(a.ctx, a.bridgeURL+"/state")
}

func normalizeTheme(t string) string {
	if t == "light" || t == "dark" {
		return t
	}
	return "dark"
}
