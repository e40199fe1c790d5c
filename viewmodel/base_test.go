package viewmodel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/petervdpas/presentation/dialog"
	"github.com/petervdpas/presentation/dialog/dialogtest"
	"github.com/petervdpas/presentation/observable"
)

const countProperty = "Count"

type counter struct {
	*Base
	count int
}

func newCounter(opts ...Option) *counter {
	c := &counter{}
	c.Base = New(c, opts...)
	return c
}

func (c *counter) Count() int { return c.count }

func (c *counter) SetCount(v int) {
	observable.SetProperty(&c.Object, &c.count, v, countProperty)
}

func TestDialogProviderLazyAndMemoized(t *testing.T) {
	c := newCounter()
	first := c.DialogProvider()
	second := c.DialogProvider()
	if first == nil {
		t.Fatal("expected a default provider")
	}
	if first != second {
		t.Fatal("DialogProvider returned different instances")
	}
	if _, ok := first.(*dialog.Default); !ok {
		t.Fatalf("default provider is %T", first)
	}
}

func TestDefaultDialogProviderOutsideWails(t *testing.T) {
	c := newCounter(WithContext(context.Background()))
	dp := c.DialogProvider()

	if _, err := dp.BrowseForFolder(""); !errors.Is(err, dialog.ErrNoRuntime) {
		t.Fatalf("expected ErrNoRuntime, got %v", err)
	}
	if err := dp.ShowMessageDialog("t", "m"); !errors.Is(err, dialog.ErrNoRuntime) {
		t.Fatalf("expected ErrNoRuntime, got %v", err)
	}
}

func TestDialogProviderInjected(t *testing.T) {
	fake := &dialogtest.Provider{}
	c := newCounter(WithDialogProvider(fake))
	if c.DialogProvider() != fake {
		t.Fatal("injected provider not returned")
	}

	other := &dialogtest.Provider{}
	c.SetDialogProvider(other)
	if c.DialogProvider() != other {
		t.Fatal("SetDialogProvider did not replace the provider")
	}

	c.SetDialogProvider(nil)
	if _, ok := c.DialogProvider().(*dialog.Default); !ok {
		t.Fatal("nil provider should fall back to the default")
	}
}

func TestSenderIsEmbeddingViewModel(t *testing.T) {
	c := newCounter()
	var sender any
	c.Subscribe(func(e observable.Event) { sender = e.Sender })
	c.SetCount(1)
	if sender != c {
		t.Fatalf("sender = %T, want *counter", sender)
	}
}

func TestCreateCommandVariants(t *testing.T) {
	c := newCounter()

	inc := c.CreateCommand(func() { c.SetCount(c.count + 1) })
	if !inc.CanExecute(nil) {
		t.Fatal("CreateCommand should be always enabled")
	}
	inc.Execute(nil)

	dec := c.CreateCommandWhen(func() { c.SetCount(c.count - 1) }, func() bool { return c.count > 0 })
	if !dec.CanExecute(nil) {
		t.Fatal("dec should be enabled at 1")
	}
	dec.Execute(nil)
	if dec.CanExecute(nil) {
		t.Fatal("dec should be disabled at 0")
	}

	add := CreateCommandWithParam(func(n int) { c.SetCount(c.count + n) })
	add.Execute(5)

	set := CreateCommandWithParamWhen(func(n int) { c.SetCount(n) }, func(n int) bool { return n >= 0 })
	if set.CanExecute(-1) {
		t.Fatal("negative should be rejected")
	}
	set.Execute(2)

	if c.Count() != 2 {
		t.Fatalf("count = %d, want 2", c.Count())
	}
}

func TestRaiseExceptionWithoutSubscriber(t *testing.T) {
	c := newCounter()
	done := make(chan struct{})
	go func() {
		c.RaiseException(errors.New("nobody listens"))
		c.RaiseException(nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RaiseException blocked without subscribers")
	}
}

func TestRaiseExceptionDelivers(t *testing.T) {
	c := newCounter()
	boom := errors.New("boom")

	var wg sync.WaitGroup
	wg.Add(2)
	got := make(chan error, 2)
	for i := 0; i < 2; i++ {
		c.OnException(func(err error) {
			defer wg.Done()
			got <- err
		})
	}

	c.RaiseException(boom)
	wg.Wait()
	close(got)
	for err := range got {
		if err != boom {
			t.Fatalf("got %v", err)
		}
	}
}

func TestRaiseExceptionDoesNotBlockOnSlowHandler(t *testing.T) {
	c := newCounter()
	release := make(chan struct{})
	defer close(release)
	c.OnException(func(error) { <-release })

	start := time.Now()
	c.RaiseException(errors.New("slow"))
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("RaiseException waited for the handler")
	}
}

func TestRemoveExceptionHandler(t *testing.T) {
	c := newCounter()
	called := make(chan error, 1)
	id := c.OnException(func(err error) { called <- err })
	if !c.RemoveExceptionHandler(id) {
		t.Fatal("handler not found")
	}
	c.RaiseException(errors.New("x"))
	select {
	case err := <-called:
		t.Fatalf("removed handler received %v", err)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPropertyNames(t *testing.T) {
	if err := observable.CheckNames(&counter{}, countProperty); err != nil {
		t.Fatal(err)
	}
}
