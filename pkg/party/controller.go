package party

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bornholm/gifparty/pkg/gif"
)

// Input is the search field the user types into.
type Input interface {
	Value() string
	Reset()
}

type Display interface {
	Display(result gif.Result)
	ClearAll()
}

// Controller wires the search and clear user actions to a fetcher and a display.
// It holds no state of its own: overlapping Submit calls run independently.
type Controller struct {
	fetcher gif.Fetcher
	display Display
	input   Input
}

// Submit runs the search flow. It returns false without side effect when the
// input is blank. Otherwise the fetched result is displayed and the input is
// reset once the fetch has settled, whatever its outcome.
func (c *Controller) Submit(ctx context.Context) (gif.Result, bool) {
	term := strings.TrimSpace(c.input.Value())
	if term == "" {
		return gif.NoMatch(), false
	}

	tracker := NewFlowTracker(ctx, term)

	tracker.Emit(StateSubmitted, nil)

	tracker.Emit(StateAwaitingResponse, nil)
	result := c.fetcher.Fetch(ctx, term)

	c.display.Display(result)
	c.input.Reset()

	tracker.Emit(StateIdle, &result)

	slog.DebugContext(ctx, "search flow completed", slog.String("term", term), slog.String("outcome", result.Outcome().String()))

	return result, true
}

// Clear runs the clear flow.
func (c *Controller) Clear() {
	c.display.ClearAll()
}

func NewController(fetcher gif.Fetcher, display Display, input Input) *Controller {
	return &Controller{
		fetcher: fetcher,
		display: display,
		input:   input,
	}
}
