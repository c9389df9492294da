package ports

import "context"

// Fetcher is the network primitive behind the ajax verb. Failures propagate
// as errors; parsing the body is the caller's responsibility.
type Fetcher interface {
	// FetchText performs a request and returns the response body as text.
	// An empty method defaults to GET.
	FetchText(ctx context.Context, url, method string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url, method string) (string, error)

// FetchText implements Fetcher.
func (f FetcherFunc) FetchText(ctx context.Context, url, method string) (string, error) {
	return f(ctx, url, method)
}
