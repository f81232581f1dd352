package growthbook

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/tmaxmax/go-sse"
)

// SseDataSource keeps a client's features fresh by holding open a
// server-sent-events connection instead of polling. It still does one
// synchronous load in Start so EnsureLoaded has something to wait on.
type SseDataSource struct {
	client *Client
	cancel context.CancelFunc
	ready  bool
	logger *slog.Logger
	mu     sync.RWMutex
}

const (
	sseMinBufSize = 64 * 1024
	sseMaxBufSize = 10 * 1024 * 1024
)

func WithSseDataSource() ClientOption {
	return func(c *Client) error {
		c.data.dataSource = &SseDataSource{
			client: c,
			logger: c.logger.With("source", "growthbook SSE datasource"),
		}
		return nil
	}
}

func (ds *SseDataSource) Start(ctx context.Context) error {
	ds.logger.InfoContext(ctx, "Starting")

	runCtx, cancel := context.WithCancel(ctx)
	ds.cancel = cancel

	if err := ds.loadData(runCtx); err != nil {
		return err
	}
	ds.logger.InfoContext(ctx, "First load finished")

	ds.mu.Lock()
	ds.ready = true
	ds.mu.Unlock()

	go ds.connect(runCtx)
	ds.logger.InfoContext(ctx, "Started")
	return nil
}

func (ds *SseDataSource) Close() error {
	ds.mu.RLock()
	ready := ds.ready
	ds.mu.RUnlock()
	if !ready {
		return fmt.Errorf("datasource is not ready")
	}

	ds.logger.Info("Closing")
	ds.cancel()
	return nil
}

func (ds *SseDataSource) connect(ctx context.Context) error {
	sseUrl := ds.client.data.getSseUrl()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sseUrl, http.NoBody)
	if err != nil {
		return err
	}

	ds.setReqHeaders(req)

	sseClient := &sse.Client{
		HTTPClient: ds.client.data.httpClient,
		OnRetry:    ds.onRetry(ctx),
	}
	conn := sseClient.NewConnection(req)
	conn.Buffer(make([]byte, sseMinBufSize), sseMaxBufSize)
	conn.SubscribeEvent("features", ds.processEvent)
	conn.Connect()
	return nil
}

func (ds *SseDataSource) onRetry(ctx context.Context) func(err error, delay time.Duration) {
	return func(err error, delay time.Duration) {
		ds.logger.InfoContext(ctx, "Reconnect", "reason", err, "delay", delay)
		if err := ds.loadData(ctx); err != nil {
			ds.logger.ErrorContext(ctx, "Error loading features", "error", err)
		}
	}
}

func (ds *SseDataSource) processEvent(event sse.Event) {
	if event.Data == "" {
		return
	}
	ds.logger.Info("Updating features")
	if err := ds.client.UpdateFromApiResponseJSON(event.Data); err != nil {
		ds.logger.Error("Error updating features", "error", err)
	}
}

func (ds *SseDataSource) loadData(ctx context.Context) error {
	resp, err := ds.client.CallFeatureApi(ctx, "")
	if err != nil {
		return err
	}
	if !resp.SseSupport {
		return fmt.Errorf("sse is not supported")
	}
	if resp.Features == nil {
		return nil
	}
	return ds.client.UpdateFromApiResponse(resp)
}

func (ds *SseDataSource) setReqHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Cache", "no-cache")
}
