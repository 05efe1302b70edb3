package gif

import "context"

// Fetcher searches a GIF provider and returns one candidate.
// Implementations never report failures as errors: they return an absent Result.
type Fetcher interface {
	Fetch(ctx context.Context, term string) Result
}

type FetcherFunc func(ctx context.Context, term string) Result

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, term string) Result {
	return f(ctx, term)
}

var _ Fetcher = FetcherFunc(nil)
