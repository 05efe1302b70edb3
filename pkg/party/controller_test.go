package party

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bornholm/gifparty/pkg/gif"
	"github.com/bornholm/gifparty/pkg/page"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

func TestControllerSubmit(t *testing.T) {
	type testCase struct {
		Name               string
		Term               string
		Fetch              func(term string) gif.Result
		ExpectedFetches    int32
		ExpectedImages     []string
		ExpectedInput      string
		ExpectedSubmitted  bool
		ExpectedOutcome    gif.Outcome
		CandidateImageURLs []string
	}

	testCases := []testCase{
		{
			Name: "cats",
			Term: "cats",
			Fetch: func(term string) gif.Result {
				return gif.Found([]string{"A", "B", "C"}[len(term)%3])
			},
			ExpectedFetches:    1,
			CandidateImageURLs: []string{"A", "B", "C"},
			ExpectedSubmitted:  true,
			ExpectedOutcome:    gif.OutcomeFound,
		},
		{
			Name: "term is trimmed",
			Term: "  dogs \t",
			Fetch: func(term string) gif.Result {
				if term != "dogs" {
					return gif.Failed(errors.Errorf("unexpected term '%s'", term))
				}
				return gif.Found("D")
			},
			ExpectedFetches:    1,
			CandidateImageURLs: []string{"D"},
			ExpectedSubmitted:  true,
			ExpectedOutcome:    gif.OutcomeFound,
		},
		{
			Name:              "empty term",
			Term:              "",
			ExpectedFetches:   0,
			ExpectedInput:     "",
			ExpectedSubmitted: false,
			ExpectedOutcome:   gif.OutcomeNoMatch,
		},
		{
			Name:              "whitespace only term",
			Term:              "   ",
			ExpectedFetches:   0,
			ExpectedInput:     "   ",
			ExpectedSubmitted: false,
			ExpectedOutcome:   gif.OutcomeNoMatch,
		},
		{
			Name: "no match",
			Term: "zzz_no_match",
			Fetch: func(term string) gif.Result {
				return gif.NoMatch()
			},
			ExpectedFetches:   1,
			ExpectedSubmitted: true,
			ExpectedOutcome:   gif.OutcomeNoMatch,
		},
		{
			Name: "failure",
			Term: "cats",
			Fetch: func(term string) gif.Result {
				return gif.Failed(errors.New("network is unreachable"))
			},
			ExpectedFetches:   1,
			ExpectedSubmitted: true,
			ExpectedOutcome:   gif.OutcomeFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			surface := &fakeSurface{}
			input := NewTermInput(tc.Term)

			var fetches atomic.Int32
			fetcher := gif.FetcherFunc(func(ctx context.Context, term string) gif.Result {
				fetches.Add(1)

				if e, g := tc.Term, input.Value(); e != g {
					t.Errorf("input was modified before the fetch settled: expected %q, got %q", e, g)
				}

				return tc.Fetch(term)
			})

			controller := NewController(fetcher, NewRenderer(surface), input)

			result, submitted := controller.Submit(context.Background())

			if e, g := tc.ExpectedFetches, fetches.Load(); e != g {
				t.Errorf("fetches: expected %d, got %d", e, g)
			}

			if e, g := tc.ExpectedSubmitted, submitted; e != g {
				t.Errorf("submitted: expected %v, got %v", e, g)
			}

			if e, g := tc.ExpectedOutcome, result.Outcome(); e != g {
				t.Errorf("outcome: expected %s, got %s", e, g)
			}

			if e, g := tc.ExpectedInput, input.Value(); e != g {
				t.Errorf("input: expected %q, got %q", e, g)
			}

			images := surface.Images()

			if tc.ExpectedOutcome != gif.OutcomeFound {
				if e, g := 0, len(images); e != g {
					t.Fatalf("images: expected %d, got %d (%s)", e, g, spew.Sdump(images))
				}
				return
			}

			if e, g := 1, len(images); e != g {
				t.Fatalf("images: expected %d, got %d (%s)", e, g, spew.Sdump(images))
			}

			if !slices.Contains(tc.CandidateImageURLs, images[0]) {
				t.Errorf("image: expected one of %v, got %q", tc.CandidateImageURLs, images[0])
			}
		})
	}
}

func TestControllerClear(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5} {
		t.Run(fmt.Sprintf("%d images", n), func(t *testing.T) {
			surface := &fakeSurface{}
			for i := 0; i < n; i++ {
				surface.AppendImage(fmt.Sprintf("https://media.giphy.com/%d.gif", i))
			}

			fetcher := gif.FetcherFunc(func(ctx context.Context, term string) gif.Result {
				t.Error("clear should not fetch anything")
				return gif.NoMatch()
			})

			controller := NewController(fetcher, NewRenderer(surface), NewTermInput("untouched"))
			controller.Clear()

			if e, g := 0, len(surface.Images()); e != g {
				t.Errorf("images: expected %d, got %d", e, g)
			}
		})
	}
}

func TestControllerWithPage(t *testing.T) {
	p, err := page.New()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	fetcher := gif.FetcherFunc(func(ctx context.Context, term string) gif.Result {
		return gif.Found("https://media.giphy.com/" + term + ".gif")
	})

	renderer := NewRenderer(p)

	for _, term := range []string{"cats", "", "dogs"} {
		NewController(fetcher, renderer, NewTermInput(term)).Submit(context.Background())
	}

	expected := []string{"https://media.giphy.com/cats.gif", "https://media.giphy.com/dogs.gif"}
	if e, g := expected, p.Images(); !slices.Equal(e, g) {
		t.Fatalf("images: expected %v, got %v", e, g)
	}

	NewController(fetcher, renderer, NewTermInput("")).Clear()

	if e, g := 0, len(p.Images()); e != g {
		t.Errorf("images after clear: expected %d, got %d", e, g)
	}
}

func TestControllerFlowTracking(t *testing.T) {
	var (
		mu     sync.Mutex
		events []FlowEvent
	)

	ctx := WithFlowTracking(context.Background(), func(event FlowEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, event)
	})

	fetcher := gif.FetcherFunc(func(ctx context.Context, term string) gif.Result {
		return gif.NoMatch()
	})

	controller := NewController(fetcher, NewRenderer(&fakeSurface{}), NewTermInput("cats"))
	controller.Submit(ctx)

	expectedStates := []FlowState{StateSubmitted, StateAwaitingResponse, StateIdle}

	if e, g := len(expectedStates), len(events); e != g {
		t.Fatalf("events: expected %d, got %d (%s)", e, g, spew.Sdump(events))
	}

	for i, state := range expectedStates {
		if e, g := state, events[i].State; e != g {
			t.Errorf("events[%d].State: expected %s, got %s", i, e, g)
		}

		if e, g := "cats", events[i].Term; e != g {
			t.Errorf("events[%d].Term: expected %q, got %q", i, e, g)
		}
	}

	last := events[len(events)-1]
	if last.Outcome == nil || *last.Outcome != gif.OutcomeNoMatch {
		t.Errorf("last event outcome: expected %s, got %s", gif.OutcomeNoMatch, spew.Sdump(last.Outcome))
	}

	// Blank terms never leave the idle state
	events = nil
	NewController(fetcher, NewRenderer(&fakeSurface{}), NewTermInput(" ")).Submit(ctx)

	if e, g := 0, len(events); e != g {
		t.Errorf("events for blank term: expected %d, got %d", e, g)
	}
}

func TestControllerConcurrentSubmissions(t *testing.T) {
	p, err := page.New()
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	release := map[string]chan struct{}{
		"first":  make(chan struct{}),
		"second": make(chan struct{}),
	}

	started := make(chan string, 2)

	fetcher := gif.FetcherFunc(func(ctx context.Context, term string) gif.Result {
		started <- term
		<-release[term]
		return gif.Found(term)
	})

	renderer := NewRenderer(p)

	var wg sync.WaitGroup
	done := make(chan string, 2)

	for _, term := range []string{"first", "second"} {
		wg.Add(1)
		go func(term string) {
			defer wg.Done()
			NewController(fetcher, renderer, NewTermInput(term)).Submit(context.Background())
			done <- term
		}(term)
	}

	<-started
	<-started

	// Both requests are in flight; the second one settles first
	close(release["second"])
	<-done
	close(release["first"])

	wg.Wait()

	if e, g := []string{"second", "first"}, p.Images(); !slices.Equal(e, g) {
		t.Errorf("images: expected %v, got %v", e, g)
	}
}

type fakeSurface struct {
	mu     sync.Mutex
	images []string
}

func (s *fakeSurface) AppendImage(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images = append(s.images, url)
}

func (s *fakeSurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images = nil
}

func (s *fakeSurface) Images() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.images)
}

var _ Surface = &fakeSurface{}

func TestFlowEventChannelKeepsEveryEvent(t *testing.T) {
	flowCh, callback, closeFlow := FlowEventChannel()
	ctx := WithFlowTracking(context.Background(), callback)

	received := make(chan int)
	go func() {
		count := 0
		for range flowCh {
			count++
		}
		received <- count
	}()

	fetcher := gif.FetcherFunc(func(ctx context.Context, term string) gif.Result {
		return gif.Found(term)
	})

	renderer := NewRenderer(&fakeSurface{})

	const submissions = 20

	var wg sync.WaitGroup
	wg.Add(submissions)

	for i := 0; i < submissions; i++ {
		go func(term string) {
			defer wg.Done()
			NewController(fetcher, renderer, NewTermInput(term)).Submit(ctx)
		}(fmt.Sprintf("term%d", i))
	}

	wg.Wait()
	closeFlow()

	if e, g := 3*submissions, <-received; e != g {
		t.Errorf("events: expected %d, got %d", e, g)
	}
}
