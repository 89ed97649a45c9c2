package core

import (
	"sync"
	"testing"
)

func TestEventQueueDispatchesOnCaller(t *testing.T) {
	EventSystemInitialize()
	defer EventSystemShutdown()

	var got []string
	listener := &struct{}{}
	ok := EventRegister(EVENT_CODE_ASSET_CHANGED, listener, func(code SystemEventCode, sender, l interface{}, data EventContext) bool {
		got = append(got, data.Path)
		return true
	})
	if !ok {
		t.Fatal("EventRegister() = false")
	}
	if EventRegister(EVENT_CODE_ASSET_CHANGED, listener, nil) {
		t.Error("duplicate registration should be rejected")
	}

	var wg sync.WaitGroup
	for _, p := range []string{"a.glsl", "b.glsl"} {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			EventQueue(EVENT_CODE_ASSET_CHANGED, nil, EventContext{Path: p})
		}(p)
	}
	wg.Wait()

	if len(got) != 0 {
		t.Fatalf("queued events fired before dispatch: %v", got)
	}
	if n := EventDispatch(); n != 2 {
		t.Fatalf("EventDispatch() = %d, want 2", n)
	}
	if len(got) != 2 {
		t.Errorf("listener saw %d events, want 2", len(got))
	}

	if !EventUnregister(EVENT_CODE_ASSET_CHANGED, listener) {
		t.Error("EventUnregister() = false")
	}
	if EventFire(EVENT_CODE_ASSET_CHANGED, nil, EventContext{}) {
		t.Error("event handled after unregister")
	}
}
