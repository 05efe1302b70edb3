package giphy

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"

	"github.com/bornholm/gifparty/pkg/fetch"
	"github.com/bornholm/gifparty/pkg/gif"
	"github.com/pkg/errors"
)

const (
	DefaultEndpoint = "https://api.giphy.com/v1/gifs/search"
	DefaultLimit    = 25
)

// Client implements gif.Fetcher using the Giphy search API.
type Client struct {
	apiKey   string
	endpoint string
	limit    int
	getter   fetch.Getter
	intn     func(n int) int
}

type Options struct {
	Endpoint string
	Limit    int
	Getter   fetch.Getter
	// Intn returns a uniformly distributed index in [0, n)
	Intn func(n int) int
}

type OptionFunc func(*Options)

func WithEndpoint(endpoint string) OptionFunc {
	return func(opts *Options) {
		opts.Endpoint = endpoint
	}
}

// WithLimit sets the number of candidates requested per search.
// Non-positive values fall back to DefaultLimit.
func WithLimit(limit int) OptionFunc {
	return func(opts *Options) {
		opts.Limit = limit
	}
}

func WithGetter(getter fetch.Getter) OptionFunc {
	return func(opts *Options) {
		opts.Getter = getter
	}
}

func WithIntn(intn func(n int) int) OptionFunc {
	return func(opts *Options) {
		opts.Intn = intn
	}
}

// Fetch implements gif.Fetcher.
//
// It issues exactly one search request and picks one of the returned GIFs at
// random. Failures are logged and converted to an absent result.
func (c *Client) Fetch(ctx context.Context, term string) gif.Result {
	gifs, err := c.search(ctx, term)
	if err != nil {
		slog.ErrorContext(ctx, "could not fetch gif", slog.String("term", term), slog.Any("error", c.redact(err)))
		return gif.Failed(err)
	}

	if len(gifs) == 0 {
		slog.DebugContext(ctx, "no gif found", slog.String("term", term))
		return gif.NoMatch()
	}

	picked := gifs[c.intn(len(gifs))]

	gifURL := picked.Images.FixedHeight.URL
	if gifURL == "" {
		err := errors.Errorf("gif '%s' has no fixed height rendition", picked.ID)
		slog.ErrorContext(ctx, "could not fetch gif", slog.String("term", term), slog.Any("error", err))
		return gif.Failed(err)
	}

	slog.DebugContext(ctx, "gif found", slog.String("term", term), slog.String("id", picked.ID), slog.Int("candidates", len(gifs)))

	return gif.Found(gifURL)
}

func (c *Client) search(ctx context.Context, term string) ([]GIF, error) {
	searchURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	query := searchURL.Query()
	query.Set("api_key", c.apiKey)
	query.Set("q", term)
	query.Set("limit", strconv.Itoa(c.limit))
	searchURL.RawQuery = query.Encode()

	body, err := c.getter.Get(ctx, searchURL.String())
	if err != nil {
		return nil, errors.Wrap(err, "search request failed")
	}

	defer body.Close()

	var res SearchResponse

	decoder := json.NewDecoder(body)
	if err := decoder.Decode(&res); err != nil {
		return nil, errors.Wrap(err, "could not decode search response")
	}

	if res.Data == nil {
		return nil, errors.New("malformed search response: missing data")
	}

	gifs := res.Data
	if len(gifs) > c.limit {
		gifs = gifs[:c.limit]
	}

	return gifs, nil
}

// redact removes the api key from errors carrying the request URL.
func (c *Client) redact(err error) string {
	if c.apiKey == "" {
		return err.Error()
	}

	return strings.ReplaceAll(err.Error(), url.QueryEscape(c.apiKey), "REDACTED")
}

func NewClient(apiKey string, funcs ...OptionFunc) *Client {
	opts := &Options{
		Endpoint: DefaultEndpoint,
		Limit:    DefaultLimit,
		Getter:   fetch.DefaultGetter(),
		Intn:     rand.IntN,
	}
	for _, fn := range funcs {
		fn(opts)
	}

	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}

	return &Client{
		apiKey:   apiKey,
		endpoint: opts.Endpoint,
		limit:    opts.Limit,
		getter:   opts.Getter,
		intn:     opts.Intn,
	}
}

var _ gif.Fetcher = &Client{}
