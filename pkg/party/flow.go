package party

import (
	"context"
	"time"

	"github.com/bornholm/gifparty/pkg/gif"
)

// FlowState is a step of the search flow.
type FlowState string

const (
	StateIdle             FlowState = "idle"
	StateSubmitted        FlowState = "submitted"
	StateAwaitingResponse FlowState = "awaiting_response"
)

type flowContextKey string

const flowCallbackKey flowContextKey = "flow_callback"

// FlowEvent reports a search flow transition.
// Outcome is only set when the flow gets back to StateIdle.
type FlowEvent struct {
	Term    string
	State   FlowState
	Outcome *gif.Outcome
	Elapsed time.Duration
}

type FlowCallback func(event FlowEvent)

// WithFlowTracking adds a flow transition callback to a context
func WithFlowTracking(ctx context.Context, callback FlowCallback) context.Context {
	return context.WithValue(ctx, flowCallbackKey, callback)
}

type FlowTracker struct {
	term      string
	startTime time.Time
	callback  FlowCallback
}

func NewFlowTracker(ctx context.Context, term string) *FlowTracker {
	callback, _ := ctx.Value(flowCallbackKey).(FlowCallback)

	return &FlowTracker{
		term:      term,
		startTime: time.Now(),
		callback:  callback,
	}
}

func (ft *FlowTracker) Emit(state FlowState, result *gif.Result) {
	if ft.callback == nil {
		return
	}

	event := FlowEvent{
		Term:    ft.term,
		State:   state,
		Elapsed: time.Since(ft.startTime),
	}

	if result != nil {
		outcome := result.Outcome()
		event.Outcome = &outcome
	}

	ft.callback(event)
}

// FlowEventChannel creates a channel for flow events and returns the channel,
// the callback feeding it and a function closing it. The callback blocks until
// the event is buffered, so the channel must be consumed until closed. Close
// only once every tracked flow has returned.
func FlowEventChannel() (<-chan FlowEvent, FlowCallback, func()) {
	ch := make(chan FlowEvent, 10)

	callback := func(event FlowEvent) {
		ch <- event
	}

	return ch, callback, func() { close(ch) }
}
