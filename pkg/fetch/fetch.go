package fetch

import (
	"context"
	"io"
)

// Getter retrieves the body of a remote resource.
type Getter interface {
	Get(ctx context.Context, url string) (io.ReadCloser, error)
}
