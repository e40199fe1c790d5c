// Package viewmodel provides the base type application view-models embed.
package viewmodel

import (
	"context"

	logging "github.com/ipfs/go-log/v2"

	"github.com/petervdpas/presentation/command"
	"github.com/petervdpas/presentation/dialog"
	"github.com/petervdpas/presentation/event"
	"github.com/petervdpas/presentation/observable"
)

var log = logging.Logger("presentation/viewmodel")

// Base combines change notification, command creation, dialog access and
// an asynchronous error channel. A Base is owned by one UI goroutine;
// only the error channel runs handlers elsewhere.
type Base struct {
	observable.Object

	ctx        context.Context
	dialogs    dialog.Provider
	exceptions event.Bus[error]
}

// Option configures a Base.
type Option func(*Base)

// WithDialogProvider injects the dialog provider instead of the lazily
// created default.
func WithDialogProvider(p dialog.Provider) Option {
	return func(b *Base) { b.dialogs = p }
}

// WithContext sets the context handed to the default Wails dialog backend.
// Only the context Wails passes to OnStartup reaches native dialogs; with
// any other the default provider's calls fail with dialog.ErrNoRuntime.
func WithContext(ctx context.Context) Option {
	return func(b *Base) { b.ctx = ctx }
}

// New returns a Base whose change events report sender. Pass the
// embedding view-model so subscribers see it rather than the Base.
func New(sender any, opts ...Option) *Base {
	b := &Base{}
	b.SetSender(sender)
	for _, o := range opts {
		o(b)
	}
	return b
}

// DialogProvider returns the injected provider, creating the default
// Wails-backed one on first use. Later calls return the same value.
func (b *Base) DialogProvider() dialog.Provider {
	if b.dialogs == nil {
		log.Debugf("creating default dialog provider")
		b.dialogs = dialog.New(dialog.NewWails(b.ctx))
	}
	return b.dialogs
}

// SetDialogProvider replaces the dialog provider. A nil provider makes the
// next DialogProvider call create the default again.
func (b *Base) SetDialogProvider(p dialog.Provider) {
	b.dialogs = p
}

// CreateCommand returns an always-enabled command running exec.
func (b *Base) CreateCommand(exec func()) *command.Delegate {
	return command.New(exec, nil)
}

// CreateCommandWhen returns a command running exec, enabled while
// canExec reports true.
func (b *Base) CreateCommandWhen(exec func(), canExec func() bool) *command.Delegate {
	return command.New(exec, canExec)
}

// CreateCommandWithParam returns an always-enabled command whose action
// takes a T.
func CreateCommandWithParam[T any](exec func(T)) *command.Delegate {
	return command.NewWithParam(exec, nil)
}

// CreateCommandWithParamWhen returns a command whose action takes a T,
// enabled while canExec reports true for the parameter.
func CreateCommandWithParamWhen[T any](exec func(T), canExec func(T) bool) *command.Delegate {
	return command.NewWithParam(exec, canExec)
}

// OnException registers h for errors raised with RaiseException.
func (b *Base) OnException(h func(error)) event.ID {
	return b.exceptions.Subscribe(h)
}

// RemoveExceptionHandler removes a handler registered with OnException.
func (b *Base) RemoveExceptionHandler(id event.ID) bool {
	return b.exceptions.Unsubscribe(id)
}

// RaiseException hands err to every exception handler on its own
// goroutine and returns immediately. Without handlers the error is
// dropped. Delivery is best effort: nothing waits for the handlers.
func (b *Base) RaiseException(err error) {
	if err == nil {
		return
	}
	handlers := b.exceptions.Snapshot()
	if len(handlers) == 0 {
		log.Debugf("exception dropped, no handler: %v", err)
		return
	}
	for _, h := range handlers {
		go h(err)
	}
}
