package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// StatusError is returned when the remote server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

const maxErrorBodyExcerpt = 256

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("unexpected response http status %d (%s)", e.StatusCode, e.Status)
	}

	if len(body) > maxErrorBodyExcerpt {
		body = body[:maxErrorBodyExcerpt] + "..."
	}

	return fmt.Sprintf("unexpected response http status %d (%s): %s", e.StatusCode, e.Status, body)
}

type HTTPGetter struct {
	client *http.Client
}

// Get implements fetch.Getter.
func (g *HTTPGetter) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	req.Header.Set("Accept", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	ok := res.StatusCode >= http.StatusOK && res.StatusCode < http.StatusMultipleChoices

	if !ok {
		defer res.Body.Close()

		body, err := io.ReadAll(io.LimitReader(res.Body, 64e+3))
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return nil, errors.WithStack(&StatusError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Body:       string(body),
		})
	}

	return res.Body, nil
}

func NewHTTPGetter(client *http.Client) *HTTPGetter {
	return &HTTPGetter{
		client: client,
	}
}

var _ Getter = &HTTPGetter{}
