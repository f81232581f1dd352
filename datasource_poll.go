package growthbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	backoff "gopkg.in/cenkalti/backoff.v1"
)

type PollDataSource struct {
	client   *Client
	logger   *slog.Logger
	interval time.Duration
	cancel   context.CancelFunc
	ready    bool
	etag     string
	mu       sync.RWMutex
}

func WithPollDataSource(interval time.Duration) ClientOption {
	return func(c *Client) error {
		c.data.dataSource = newPollDataSource(c, interval)
		return nil
	}
}

func newPollDataSource(client *Client, interval time.Duration) *PollDataSource {
	return &PollDataSource{
		client:   client,
		interval: interval,
		logger:   client.logger.With("source", "Growthbook polling datasource"),
	}
}

func (ds *PollDataSource) Start(ctx context.Context) error {
	ds.logger.InfoContext(ctx, "Starting")

	ctx, cancel := context.WithCancel(ctx)
	ds.cancel = cancel

	err := ds.loadData(ctx)
	if err != nil {
		return err
	}
	ds.logger.InfoContext(ctx, "First load finished")

	ds.mu.Lock()
	ds.ready = true
	ds.mu.Unlock()
	go ds.startPolling(ctx)
	ds.logger.InfoContext(ctx, "Started")

	return nil
}

func (ds *PollDataSource) Close() error {
	ds.mu.RLock()
	ready := ds.ready
	ds.mu.RUnlock()

	if !ready {
		return fmt.Errorf("Datasource is not ready")
	}
	ds.logger.Info("Closing")
	ds.cancel()
	return nil
}

func (ds *PollDataSource) startPolling(ctx context.Context) {
	ticker := time.NewTicker(ds.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ds.mu.Lock()
			ds.ready = false
			ds.mu.Unlock()
			ds.logger.InfoContext(ctx, "Finished polling due to context")
			return
		case <-ticker.C:
			err := ds.loadWithRetry(ctx)
			if errors.Is(err, context.Canceled) {
				ds.logger.InfoContext(ctx, "Finished polling due to context")
				return
			}
		}
	}
}

// loadWithRetry retries a single failed tick with exponential backoff
// before giving up and waiting for the next tick; a context cancellation
// aborts the retry loop immediately.
func (ds *PollDataSource) loadWithRetry(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = ds.interval
	var lastErr error
	op := func() error {
		lastErr = ds.loadData(ctx)
		if lastErr != nil {
			ds.logger.ErrorContext(ctx, "Error loading features, retrying", "error", lastErr)
		}
		return lastErr
	}
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil && lastErr != nil {
		ds.logger.ErrorContext(ctx, "Giving up loading features for this tick", "error", lastErr)
	}
	return lastErr
}

func (ds *PollDataSource) loadData(ctx context.Context) error {
	ds.mu.RLock()
	etag := ds.etag
	ds.mu.RUnlock()

	apiUrl := ds.client.data.getApiUrl()

	resp, err := ds.client.CallFeatureApi(ctx, etag)
	if err != nil {
		if cached := ds.client.data.cache.Get(apiUrl); cached != nil && !cached.expired() {
			ds.logger.WarnContext(ctx, "Falling back to cached features after fetch error", "error", err)
			return ds.client.UpdateFromApiResponse(cached.Response)
		}
		return err
	}

	if resp.Etag != "" {
		ds.mu.Lock()
		ds.etag = resp.Etag
		ds.mu.Unlock()
	}

	if resp.Features == nil {
		return nil
	}

	err = ds.client.UpdateFromApiResponse(resp)
	if err != nil {
		return err
	}

	ds.client.data.cache.Set(apiUrl, &CacheEntry{
		Response: resp,
		StaleAt:  time.Now().Add(ds.client.data.cacheTTL),
	})

	return nil
}
