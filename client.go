package growthbook

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"os"
	"strconv"

	deepcopy "github.com/barkimedes/go-deepcopy"

	"github.com/growthbook/growthbook-golang/internal/condition"
	"github.com/growthbook/growthbook-golang/internal/value"
)

// defaultApiHost is the fallback GrowthBook CDN host used when no
// WithApiHost option is provided.
const defaultApiHost = "https://cdn.growthbook.io"

// Client is the main entry point for the SDK. It holds feature
// definitions, user attributes and the various callbacks and services
// used to evaluate features and experiments. Use NewClient to build one,
// and the WithXxx methods to derive scoped child instances.
type Client struct {
	data                    *data
	attributes              value.ObjValue
	enabled                 bool
	qaMode                  bool
	url                     *url.URL
	forcedVariations        ForcedVariationsMap
	logger                  *slog.Logger
	extraData               any
	experimentCallback      ExperimentCallback
	featureUsageCallback    FeatureUsageCallback
	stickyBucketService     StickyBucketService
	stickyBucketAssignments StickyBucketAssignments
	refreshCallbacks        []RefreshCallback
}

// NewClient builds a Client, applies opts, and performs the initial load
// from whatever DataSource was configured (network polling, SSE, manual
// features, or none at all). A Client with no datasource-related option
// never fetches anything: it evaluates only the features supplied through
// WithFeatures, WithJsonFeatures or the SetFeatures family.
//
// NewClient returns ErrConfig only when a network datasource (poll or SSE)
// was explicitly requested without the credentials it needs to fetch
// anything; a network failure during the initial load is not a build
// error, it is recorded and can be observed later via EnsureLoaded.
func NewClient(ctx context.Context, opts ...ClientOption) (*Client, error) {
	client := &Client{
		data:                    newData(),
		attributes:              value.ObjValue{},
		enabled:                 true,
		forcedVariations:        ForcedVariationsMap{},
		logger:                  slog.Default(),
		stickyBucketAssignments: StickyBucketAssignments{},
	}

	for _, opt := range opts {
		if err := opt(client); err != nil {
			return nil, err
		}
	}

	if client.data.dataSource == nil {
		if err := withEmptyDataSource()(client); err != nil {
			return nil, err
		}
	}

	switch client.data.dataSource.(type) {
	case *PollDataSource, *SseDataSource:
		if client.data.clientKey == "" {
			return nil, ErrConfig
		}
	}

	client.startDataSource(ctx)

	return client, nil
}

// clone copies a Client, used as the basis for the WithXxx family of
// child-instance methods. Attributes and forced variations are deep-copied;
// the feature data, sticky bucket state, services and callbacks are shared
// with the parent.
func (c *Client) clone() *Client {
	return &Client{
		data:                    c.data,
		attributes:              deepcopy.MustAnything(c.attributes).(value.ObjValue),
		enabled:                 c.enabled,
		qaMode:                  c.qaMode,
		url:                     c.url,
		forcedVariations:        deepcopy.MustAnything(c.forcedVariations).(ForcedVariationsMap),
		logger:                  c.logger,
		extraData:               c.extraData,
		experimentCallback:      c.experimentCallback,
		featureUsageCallback:    c.featureUsageCallback,
		stickyBucketService:     c.stickyBucketService,
		stickyBucketAssignments: c.stickyBucketAssignments,
		refreshCallbacks:        c.refreshCallbacks,
	}
}

// Close stops the underlying DataSource (background polling or SSE
// connection). It is a no-op error-wise for the empty datasource.
func (c *Client) Close() error {
	return c.data.dataSource.Close()
}

// Features returns the current feature definitions.
func (c *Client) Features() FeatureMap {
	return c.data.getFeatures()
}

// TotalFeatures returns the number of features currently loaded.
func (c *Client) TotalFeatures() int {
	return len(c.data.getFeatures())
}

// SetFeatures explicitly replaces the client's feature definitions.
func (c *Client) SetFeatures(features FeatureMap) error {
	return c.data.withLock(func(d *data) error {
		d.features = features
		return nil
	})
}

// SetJSONFeatures replaces the client's feature definitions, parsed from a
// raw features API JSON document.
func (c *Client) SetJSONFeatures(featuresJson string) error {
	var features FeatureMap
	if err := json.Unmarshal([]byte(featuresJson), &features); err != nil {
		return err
	}
	return c.SetFeatures(features)
}

// SetEncryptedJSONFeatures decrypts featuresJson with the client's
// configured decryption key, then replaces the client's feature
// definitions with the result.
func (c *Client) SetEncryptedJSONFeatures(encryptedFeaturesJson string) error {
	featuresJson, err := c.data.decrypt(encryptedFeaturesJson)
	if err != nil {
		return err
	}
	return c.SetJSONFeatures(featuresJson)
}

// UpdateFromApiResponse updates features, saved groups and the freshness
// timestamp from a parsed features API response, decrypting first if the
// response carries encryptedFeatures instead of a plain features map.
// It then fires any registered on_refresh callbacks.
func (c *Client) UpdateFromApiResponse(resp *FeatureApiResponse) error {
	features := resp.Features
	if resp.EncryptedFeatures != "" {
		decrypted, err := c.data.decrypt(resp.EncryptedFeatures)
		if err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(decrypted), &features); err != nil {
			return err
		}
	}

	err := c.data.withLock(func(d *data) error {
		d.features = features
		d.savedGroups = resp.SavedGroups
		d.dateUpdated = resp.DateUpdated
		return nil
	})
	if err != nil {
		return err
	}

	c.fireRefreshCallbacks()
	return nil
}

// UpdateFromApiResponseJSON parses body as a features API response and
// calls UpdateFromApiResponse with the result.
func (c *Client) UpdateFromApiResponseJSON(body string) error {
	var resp FeatureApiResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return err
	}
	return c.UpdateFromApiResponse(&resp)
}

func (c *Client) fireRefreshCallbacks() {
	for _, cb := range c.refreshCallbacks {
		cb()
	}
}

// EvalFeature evaluates a single feature by key and returns the result.
// It calls the experiment callback when the result placed the user in an
// experiment, and the feature usage callback unless the result source is
// unknownFeature, prerequisite or cyclicPrerequisite.
func (c *Client) EvalFeature(ctx context.Context, key string) *FeatureResult {
	eval := &evaluator{
		features:    c.data.getFeatures(),
		savedGroups: c.getSavedGroups(),
		client:      c,
	}
	res := eval.evalFeature(key)
	c.dispatchFeatureResult(ctx, key, res)
	return res
}

// RunExperiment runs an inline experiment directly, bypassing the feature
// rule pipeline, and returns the resulting variation assignment.
func (c *Client) RunExperiment(ctx context.Context, exp *Experiment) *ExperimentResult {
	eval := &evaluator{
		features:    c.data.getFeatures(),
		savedGroups: c.getSavedGroups(),
		client:      c,
	}
	res := eval.runExperiment(exp, "")
	if c.experimentCallback != nil && res.InExperiment {
		c.experimentCallback(ctx, exp, res)
	}
	return res
}

func (c *Client) getSavedGroups() condition.SavedGroups {
	return c.data.getSavedGroups()
}

func (c *Client) dispatchFeatureResult(ctx context.Context, key string, res *FeatureResult) {
	if res.Experiment != nil && res.ExperimentResult != nil && c.experimentCallback != nil && res.ExperimentResult.InExperiment {
		c.experimentCallback(ctx, res.Experiment, res.ExperimentResult)
	}

	if c.featureUsageCallback == nil {
		return
	}
	switch res.Source {
	case UnknownFeatureResultSource, PrerequisiteResultSource, CyclicPrerequisiteResultSource:
		return
	}
	c.featureUsageCallback(ctx, key, res)
}

// IsOn reports whether a feature evaluates truthy.
func (c *Client) IsOn(ctx context.Context, key string) bool {
	return c.EvalFeature(ctx, key).On
}

// IsOff reports whether a feature evaluates falsy.
func (c *Client) IsOff(ctx context.Context, key string) bool {
	return c.EvalFeature(ctx, key).Off
}

// GetFeatureValue returns a feature's value, falling back to def when the
// feature is unknown or its resolved value is nil.
func (c *Client) GetFeatureValue(ctx context.Context, key string, def FeatureValue) FeatureValue {
	res := c.EvalFeature(ctx, key)
	if res.Value == nil {
		return def
	}
	return res.Value
}

// envRefreshIntervalSeconds resolves the auto-refresh poll interval:
// GB_UPDATE_INTERVAL if set to a positive integer, otherwise 60 seconds.
func envRefreshIntervalSeconds() int {
	v := os.Getenv("GB_UPDATE_INTERVAL")
	if v == "" {
		return 60
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 60
	}
	return n
}
