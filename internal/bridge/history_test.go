package bridge

import "testing"

func TestHistoryNonPositiveCapacity(t *testing.T) {
	for _, capacity := range []int{-5, 0} {
		h := newHistory(capacity)
		h.push(Change{Seq: 1, Property: greetingProperty})
		if got := h.since(0); len(got) != 0 {
			t.Fatalf("capacity %d: kept %+v", capacity, got)
		}
	}

	vm := newFakeVM()
	s := New(vm, Options{Dispatch: vm.dispatch, History: -1})
	defer s.Close()
	vm.dispatch(func() {
		if err := vm.cmds["set"].Execute("hi"); err != nil {
			t.Error(err)
		}
	})
}

func TestHistoryWrapsOldestFirst(t *testing.T) {
	h := newHistory(3)
	for i := uint64(1); i <= 5; i++ {
		h.push(Change{Seq: i})
	}
	got := h.since(0)
	if len(got) != 3 || got[0].Seq != 3 || got[2].Seq != 5 {
		t.Fatalf("got %+v", got)
	}
	if got := h.since(4); len(got) != 1 || got[0].Seq != 5 {
		t.Fatalf("since 4: %+v", got)
	}
}
