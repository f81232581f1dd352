package growthbook

import "context"

// DataSource supplies the feature/experiment definitions a Client evaluates
// against. Implementations range from a no-op (features set manually) to a
// polling HTTP loop or a persistent SSE stream.
type DataSource interface {
	Start(context.Context) error
	Close() error
}

// startDataSource runs the configured DataSource's initial load and records
// the outcome so EnsureLoaded can unblock callers waiting on first data.
func (client *Client) startDataSource(ctx context.Context) {
	defer close(client.data.dsStartWait)

	if err := client.data.dataSource.Start(ctx); err != nil {
		client.data.dsStartErr = err
		client.data.dsStarted = false
		return
	}

	client.data.dsStarted = true
	client.data.dsStartErr = nil
}

// EnsureLoaded blocks until the data source's initial load completes (or
// fails), or ctx is done, whichever comes first.
func (client *Client) EnsureLoaded(ctx context.Context) error {
	select {
	case <-client.data.dsStartWait:
		return client.data.dsStartErr
	case <-ctx.Done():
		return ctx.Err()
	}
}
