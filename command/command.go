// Package command adapts plain functions into bindable UI commands.
package command

import (
	"errors"
	"fmt"
	"reflect"

	logging "github.com/ipfs/go-log/v2"

	"github.com/petervdpas/presentation/event"
)

var log = logging.Logger("presentation/command")

// ErrParameterType is returned by Execute when the parameter cannot be
// passed to a one-argument action.
var ErrParameterType = errors.New("command parameter has wrong type")

// Command is the surface a host UI binds to a button, menu item or key.
type Command interface {
	// CanExecute reports whether the command is enabled for param.
	CanExecute(param any) bool
	// Execute runs the action. It does not consult CanExecute.
	Execute(param any) error
	// CanExecuteChanged registers h to be called when the enablement
	// may have changed and the host should call CanExecute again.
	CanExecuteChanged(h func()) event.ID
	// RemoveCanExecuteChanged removes a handler added with CanExecuteChanged.
	RemoveCanExecuteChanged(id event.ID) bool
}

// Delegate is a Command backed by an action and an optional predicate.
type Delegate struct {
	exec    func(param any) error
	canExec func(param any) bool
	changed event.Bus[struct{}]
}

var _ Command = (*Delegate)(nil)

// New returns a command for an action without a parameter. A nil canExec
// means the command is always enabled.
func New(exec func(), canExec func() bool) *Delegate {
	if exec == nil {
		panic("command: nil action")
	}
	d := &Delegate{
		exec: func(any) error {
			exec()
			return nil
		},
	}
	if canExec != nil {
		d.canExec = func(any) bool { return canExec() }
	}
	return d
}

// NewWithParam returns a command whose action takes one parameter of type
// T. A nil parameter is passed as the zero T. A nil canExec means the
// command is always enabled; Execute still rejects a parameter that is not
// a T with ErrParameterType.
func NewWithParam[T any](exec func(T), canExec func(T) bool) *Delegate {
	if exec == nil {
		panic("command: nil action")
	}
	d := &Delegate{
		exec: func(param any) error {
			v, err := convert[T](param)
			if err != nil {
				log.Debugf("execute: %v", err)
				return err
			}
			exec(v)
			return nil
		},
	}
	if canExec != nil {
		d.canExec = func(param any) bool {
			v, err := convert[T](param)
			if err != nil {
				return false
			}
			return canExec(v)
		}
	}
	return d
}

// CanExecute reports the predicate's result, or true when there is none.
func (d *Delegate) CanExecute(param any) bool {
	if d.canExec == nil {
		return true
	}
	return d.canExec(param)
}

// Execute runs the action with param. Panics raised by the action are not
// recovered.
func (d *Delegate) Execute(param any) error {
	return d.exec(param)
}

// CanExecuteChanged registers h for enablement-changed notifications.
func (d *Delegate) CanExecuteChanged(h func()) event.ID {
	return d.changed.Subscribe(func(struct{}) { h() })
}

// RemoveCanExecuteChanged removes a handler.
func (d *Delegate) RemoveCanExecuteChanged(id event.ID) bool {
	return d.changed.Unsubscribe(id)
}

// RaiseCanExecuteChanged tells every registered handler to re-query
// CanExecute. Deciding when to call it is up to the owner.
func (d *Delegate) RaiseCanExecuteChanged() {
	d.changed.Publish(struct{}{})
}

func convert[T any](param any) (T, error) {
	var zero T
	if param == nil {
		return zero, nil
	}
	if v, ok := param.(T); ok {
		return v, nil
	}
	// Numbers decoded from frontend JSON arrive as float64.
	pv := reflect.ValueOf(param)
	tt := reflect.TypeOf((*T)(nil)).Elem()
	if isNumeric(pv.Kind()) && isNumeric(tt.Kind()) && pv.CanConvert(tt) {
		return pv.Convert(tt).Interface().(T), nil
	}
	return zero, fmt.Errorf("%w: got %T, want %v", ErrParameterType, param, tt)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
