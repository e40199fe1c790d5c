package observable

import (
	"errors"
	"reflect"
	"testing"
)

const (
	titleProperty   = "Title"
	captionProperty = "Caption"
	tagsProperty    = "Tags"
)

type document struct {
	Object
	title string
	tags  []string
}

func newDocument() *document {
	d := &document{}
	d.SetSender(d)
	return d
}

func (d *document) Title() string { return d.title }
func (d *document) Caption() string { return "[" + d.title + "]" }
func (d *document) Tags() []string { return d.tags }

func (d *document) SetTitle(v string) (bool, error) {
	return SetProperty(&d.Object, &d.title, v, titleProperty, captionProperty)
}

func record(o *Object) *[]string {
	var names []string
	o.Subscribe(func(e Event) { names = append(names, e.PropertyName) })
	return &names
}

func TestSetPropertyNoOpOnEqualValue(t *testing.T) {
	d := newDocument()
	names := record(&d.Object)

	for i := 0; i < 3; i++ {
		changed, err := d.SetTitle("")
		if err != nil {
			t.Fatal(err)
		}
		if changed {
			t.Fatal("setting the current value reported a change")
		}
	}
	if len(*names) != 0 {
		t.Fatalf("expected no notifications, got %v", *names)
	}
}

func TestSetPropertyNotifiesPrimaryThenSecondary(t *testing.T) {
	d := newDocument()
	names := record(&d.Object)

	changed, err := d.SetTitle("draft")
	if err != nil {
		t.Fatal(err)
	}
	if !changed || d.Title() != "draft" {
		t.Fatalf("field not assigned: changed=%v title=%q", changed, d.Title())
	}
	want := []string{titleProperty, captionProperty}
	if !reflect.DeepEqual(*names, want) {
		t.Fatalf("got %v, want %v", *names, want)
	}

	// Same value again: nothing new.
	d.SetTitle("draft")
	if len(*names) != 2 {
		t.Fatalf("no-op set fired notifications: %v", *names)
	}
}

func TestEverySubscriberNotifiedBeforeReturn(t *testing.T) {
	d := newDocument()
	var a, b int
	d.Subscribe(func(e Event) {
		if e.PropertyName == titleProperty {
			a++
		}
	})
	d.Subscribe(func(e Event) {
		if e.PropertyName == titleProperty {
			b++
		}
	})

	d.SetTitle("one")
	d.SetTitle("two")
	if a != 2 || b != 2 {
		t.Fatalf("expected each subscriber twice, got a=%d b=%d", a, b)
	}
}

func TestEventSender(t *testing.T) {
	d := newDocument()
	var sender any
	d.Subscribe(func(e Event) { sender = e.Sender })
	d.SetTitle("x")
	if sender != d {
		t.Fatalf("sender = %T, want *document", sender)
	}

	var bare Object
	bare.Subscribe(func(e Event) { sender = e.Sender })
	bare.RaisePropertyChanged("Anything")
	if sender != &bare {
		t.Fatalf("zero Object should report itself as sender, got %T", sender)
	}
}

func TestRaisePropertyChangedUnconditional(t *testing.T) {
	d := newDocument()
	names := record(&d.Object)

	if err := d.RaisePropertyChanged(titleProperty, "", captionProperty); err != nil {
		t.Fatal(err)
	}
	if err := d.RaisePropertyChanged(titleProperty); err != nil {
		t.Fatal(err)
	}
	want := []string{titleProperty, captionProperty, titleProperty}
	if !reflect.DeepEqual(*names, want) {
		t.Fatalf("got %v, want %v", *names, want)
	}
}

func TestInvalidPropertyReference(t *testing.T) {
	d := newDocument()
	names := record(&d.Object)

	tests := []struct {
		name string
		run  func() error
	}{
		{"empty primary raise", func() error { return d.RaisePropertyChanged("") }},
		{"non identifier raise", func() error { return d.RaisePropertyChanged("d.Title()") }},
		{"bad secondary raise", func() error { return d.RaisePropertyChanged(titleProperty, "no such") }},
		{"empty primary set", func() error {
			_, err := SetProperty(&d.Object, &d.title, "x", "")
			return err
		}},
		{"nil field", func() error {
			_, err := SetProperty[string](&d.Object, nil, "x", titleProperty)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, ErrInvalidProperty) {
				t.Fatalf("expected ErrInvalidProperty, got %v", err)
			}
		})
	}
	if d.title != "" {
		t.Fatalf("failed set must not assign, title=%q", d.title)
	}
	if len(*names) != 0 {
		t.Fatalf("failed calls must not notify, got %v", *names)
	}
}

func TestSetPropertyFunc(t *testing.T) {
	d := newDocument()
	names := record(&d.Object)

	changed, err := SetPropertyFunc(&d.Object, &d.tags, []string{"a"}, nil, tagsProperty)
	if err != nil || !changed {
		t.Fatalf("first set: changed=%v err=%v", changed, err)
	}
	changed, _ = SetPropertyFunc(&d.Object, &d.tags, []string{"a"}, nil, tagsProperty)
	if changed {
		t.Fatal("deep-equal slice should be a no-op")
	}

	sameLen := func(a, b []string) bool { return len(a) == len(b) }
	changed, _ = SetPropertyFunc(&d.Object, &d.tags, []string{"b"}, sameLen, tagsProperty)
	if changed {
		t.Fatal("custom equality should treat equal-length slices as unchanged")
	}
	if len(*names) != 1 {
		t.Fatalf("expected exactly one notification, got %v", *names)
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	d := newDocument()
	calls := 0
	id := d.Subscribe(func(Event) { calls++ })
	d.SetTitle("a")
	if !d.Unsubscribe(id) {
		t.Fatal("Unsubscribe did not find handler")
	}
	d.SetTitle("b")
	if calls != 2 {
		t.Fatalf("expected 2 calls (Title, Caption) before unsubscribe, got %d", calls)
	}
}

func TestSetFromHandler(t *testing.T) {
	d := newDocument()
	// A handler that writes back the same property must not loop.
	d.Subscribe(func(e Event) {
		if e.PropertyName == titleProperty {
			d.SetTitle(d.Title())
		}
	})
	names := record(&d.Object)
	d.SetTitle("once")
	if len(*names) != 2 {
		t.Fatalf("got %v", *names)
	}
}
