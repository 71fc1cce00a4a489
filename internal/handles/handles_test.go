package handles

import (
	"sync"
	"testing"
)

func TestRegisterAndLookup(t *testing.T) {
	type exportState struct {
		Format string
		Pairs  int
	}

	state := &exportState{Format: "+s", Pairs: 2}
	handle := Register(state)

	if handle == 0 {
		t.Error("Register should return non-zero handle")
	}

	got := Lookup(handle)
	if got == nil {
		t.Fatal("Lookup should return non-nil value")
	}

	gotState, ok := got.(*exportState)
	if !ok {
		t.Fatalf("Lookup returned wrong type: %T", got)
	}
	if gotState.Format != "+s" || gotState.Pairs != 2 {
		t.Errorf("Lookup returned wrong data: %+v", gotState)
	}

	Unregister(handle)
}

func TestUnregister(t *testing.T) {
	handle := Register("export state")

	if Lookup(handle) == nil {
		t.Error("Expected value before Unregister")
	}

	Unregister(handle)

	if Lookup(handle) != nil {
		t.Error("Expected nil after Unregister")
	}
}

func TestUnregisterUnknownHandle(t *testing.T) {
	// Must be a no-op: release callbacks call Unregister unconditionally.
	Unregister(999999)
}

func TestLookupNonExistent(t *testing.T) {
	if got := Lookup(999999); got != nil {
		t.Errorf("Lookup of non-existent handle should return nil, got %v", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	const numGoroutines = 100
	const numOps = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				state := struct {
					ID  int
					Seq int
				}{id, j}
				handle := Register(&state)
				if Lookup(handle) == nil {
					t.Errorf("Lookup returned nil for handle %d", handle)
				}
				Unregister(handle)
			}
		}(i)
	}

	wg.Wait()
}

func TestCount(t *testing.T) {
	before := Count()

	h1 := Register(1)
	h2 := Register(2)
	if got := Count(); got != before+2 {
		t.Errorf("Count = %d, want %d", got, before+2)
	}

	Unregister(h1)
	Unregister(h2)
	if got := Count(); got != before {
		t.Errorf("Count after Unregister = %d, want %d", got, before)
	}
}
