package growthbook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/growthbook/growthbook-golang/internal/condition"
)

type FeatureApiResponse struct {
	Status            int                   `json:"status"`
	Features          FeatureMap            `json:"features"`
	DateUpdated       time.Time             `json:"dateUpdated"`
	SavedGroups       condition.SavedGroups `json:"savedGroups"`
	EncryptedFeatures string                `json:"encryptedFeatures"`
	SseSupport        bool
	Etag              string
}

const userAgent = "GrowthBook Go SDK client"

// CallFeatureApi fetches the current features document, sending etag (if
// non-empty) as an If-None-Match conditional GET so an unchanged server
// response costs a 304 instead of a full payload.
func (c *Client) CallFeatureApi(ctx context.Context, etag string) (*FeatureApiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.data.getApiUrl(), nil)
	if err != nil {
		return nil, err
	}
	setReqHeaders(req, etag)

	httpResp, err := c.data.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	apiResp := &FeatureApiResponse{
		Status:     httpResp.StatusCode,
		Etag:       httpResp.Header.Get("etag"),
		SseSupport: httpResp.Header.Get("x-sse-support") == "enabled",
	}

	if httpResp.StatusCode == http.StatusNotModified {
		return apiResp, nil
	}
	if httpResp.StatusCode != http.StatusOK {
		return apiResp, fmt.Errorf("Error loading features, code: %d", httpResp.StatusCode)
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return apiResp, err
	}

	c.logger.InfoContext(ctx, "Loading features")
	if err := json.Unmarshal(body, apiResp); err != nil {
		c.logger.ErrorContext(ctx, "Error parsing features response", "error", err)
		return apiResp, err
	}

	return apiResp, nil
}

func setReqHeaders(req *http.Request, etag string) {
	req.Header.Set("User-Agent", userAgent)
	if etag != "" {
		req.Header.Add("If-None-Match", etag)
	}
}
