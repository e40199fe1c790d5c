// Package observable provides property change notification for view-models.
//
// A view-model embeds Object, keeps its state in plain fields and routes
// every write through SetProperty so subscribers hear about real changes
// only:
//
//	const NameProperty = "Name"
//
//	type Person struct {
//		observable.Object
//		name string
//	}
//
//	func (p *Person) Name() string { return p.name }
//
//	func (p *Person) SetName(v string) {
//		observable.SetProperty(&p.Object, &p.name, v, NameProperty, "DisplayName")
//	}
package observable

import (
	"errors"
	"fmt"
	"go/token"
	"reflect"

	"github.com/petervdpas/presentation/event"
)

// ErrInvalidProperty is returned when a property identifier cannot name a
// property: it is empty or not a Go identifier.
var ErrInvalidProperty = errors.New("invalid property reference")

// Event describes one change notification.
type Event struct {
	Sender       any
	PropertyName string
}

// Handler receives change notifications.
type Handler func(Event)

// Object carries the subscriber list for change notifications. The zero
// value is usable; its events report the *Object itself as sender.
type Object struct {
	sender any
	bus    event.Bus[Event]
}

// New returns an Object whose events report sender.
func New(sender any) *Object {
	o := &Object{}
	o.SetSender(sender)
	return o
}

// SetSender sets the value reported as Event.Sender. Embedding types call
// this once so subscribers see the outer view-model rather than the Object.
func (o *Object) SetSender(sender any) {
	o.sender = sender
}

// Sender returns the value reported as Event.Sender.
func (o *Object) Sender() any {
	if o.sender == nil {
		return o
	}
	return o.sender
}

// Subscribe registers h for change notifications.
func (o *Object) Subscribe(h Handler) event.ID {
	return o.bus.Subscribe(h)
}

// Unsubscribe removes a handler registered with Subscribe.
func (o *Object) Unsubscribe(id event.ID) bool {
	return o.bus.Unsubscribe(id)
}

// RaisePropertyChanged notifies subscribers that name, and then each
// non-empty entry of also, changed. Use it when the backing state was
// mutated out of band and observers must re-read it.
func (o *Object) RaisePropertyChanged(name string, also ...string) error {
	if err := validNames(name, also); err != nil {
		return err
	}
	o.raise(name, also)
	return nil
}

func (o *Object) raise(name string, also []string) {
	handlers := o.bus.Snapshot()
	if len(handlers) == 0 {
		return
	}
	sender := o.Sender()
	notify := func(n string) {
		ev := Event{Sender: sender, PropertyName: n}
		for _, h := range handlers {
			h(ev)
		}
	}
	notify(name)
	for _, n := range also {
		if n != "" {
			notify(n)
		}
	}
}

// SetProperty assigns value to *field and raises change notifications for
// name and also when the value differs from the current one. It reports
// whether the field changed.
func SetProperty[T comparable](o *Object, field *T, value T, name string, also ...string) (bool, error) {
	return SetPropertyFunc(o, field, value, func(a, b T) bool { return a == b }, name, also...)
}

// SetPropertyFunc is SetProperty for values that are not comparable with
// ==. A nil equal falls back to reflect.DeepEqual.
func SetPropertyFunc[T any](o *Object, field *T, value T, equal func(a, b T) bool, name string, also ...string) (bool, error) {
	if field == nil {
		return false, fmt.Errorf("%w: nil field for %q", ErrInvalidProperty, name)
	}
	if err := validNames(name, also); err != nil {
		return false, err
	}
	if equal == nil {
		equal = func(a, b T) bool { return reflect.DeepEqual(a, b) }
	}
	if equal(*field, value) {
		return false, nil
	}
	*field = value
	o.raise(name, also)
	return true, nil
}

// validNames checks the primary identifier and every non-empty secondary
// one. Empty secondary entries are skipped when raising.
func validNames(name string, also []string) error {
	if err := validName(name); err != nil {
		return err
	}
	for _, n := range also {
		if n == "" {
			continue
		}
		if err := validName(n); err != nil {
			return err
		}
	}
	return nil
}

func validName(name string) error {
	if !token.IsIdentifier(name) {
		return fmt.Errorf("%w: %q", ErrInvalidProperty, name)
	}
	return nil
}
