package core

import (
	"sync"

	"github.com/spaghettifunk/shoreline/engine/containers"
)

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Keyboard key pressed.
	/* Context usage:
	 * key_code = data.U32[0]
	 */
	EVENT_CODE_KEY_PRESSED SystemEventCode = 0x02

	// Resized/resolution changed from the OS.
	/* Context usage:
	 * width  = data.U32[0]
	 * height = data.U32[1]
	 */
	EVENT_CODE_RESIZED SystemEventCode = 0x08

	// A watched asset file was created or written.
	/* Context usage:
	 * path = data.Path
	 */
	EVENT_CODE_ASSET_CHANGED SystemEventCode = 0x09

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

const maxQueuedEvents = 256

type EventContext struct {
	Code SystemEventCode
	U32  [4]uint32
	Path string
}

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listener interface{}, data EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type queuedEvent struct {
	sender  interface{}
	context EventContext
}

type eventSystemState struct {
	registered [MAX_EVENT_CODE + 1][]*registeredEvent
	// events fired from other goroutines wait here until the main loop dispatches them.
	queue   *containers.RingQueue[queuedEvent]
	queueMu sync.Mutex
}

var eventMu sync.Mutex
var eventState *eventSystemState = nil

func EventSystemInitialize() bool {
	eventMu.Lock()
	defer eventMu.Unlock()
	if eventState != nil {
		return false
	}
	eventState = &eventSystemState{
		queue: containers.NewRingQueue[queuedEvent](maxQueuedEvents),
	}
	return true
}

func EventSystemShutdown() error {
	eventMu.Lock()
	defer eventMu.Unlock()
	eventState = nil
	return nil
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listener/callback combos will not be registered again and will cause this to return false.
 */
func EventRegister(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if eventState == nil || code > MAX_EVENT_CODE {
		return false
	}
	for _, e := range eventState.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	eventState.registered[code] = append(eventState.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

// Unregister from listening for when events are sent with the provided code.
func EventUnregister(code SystemEventCode, listener interface{}) bool {
	if eventState == nil || code > MAX_EVENT_CODE {
		return false
	}
	events := eventState.registered[code]
	for i, e := range events {
		if e.listener == listener {
			eventState.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * Must be called from the main loop goroutine.
 */
func EventFire(code SystemEventCode, sender interface{}, context EventContext) bool {
	if eventState == nil || code > MAX_EVENT_CODE {
		return false
	}
	context.Code = code
	for _, e := range eventState.registered[code] {
		if e.callback(code, sender, e.listener, context) {
			return true
		}
	}
	return false
}

// EventQueue defers an event until the next EventDispatch. Safe for use from any goroutine.
func EventQueue(code SystemEventCode, sender interface{}, context EventContext) bool {
	if eventState == nil {
		return false
	}
	context.Code = code
	eventState.queueMu.Lock()
	defer eventState.queueMu.Unlock()
	if err := eventState.queue.Enqueue(queuedEvent{sender: sender, context: context}); err != nil {
		LogWarn("dropping event %d: %s", code, err)
		return false
	}
	return true
}

// EventDispatch fires every queued event on the calling goroutine and returns how many were fired.
func EventDispatch() int {
	if eventState == nil {
		return 0
	}
	eventState.queueMu.Lock()
	pending := make([]queuedEvent, 0, eventState.queue.Len())
	for !eventState.queue.IsEmpty() {
		e, _ := eventState.queue.Dequeue()
		pending = append(pending, e)
	}
	eventState.queueMu.Unlock()

	for _, e := range pending {
		EventFire(e.context.Code, e.sender, e.context)
	}
	return len(pending)
}
