package growthbook

import "context"

// emptyDataSource is the default DataSource: it never fetches anything,
// for clients whose features are set directly (SetFeatures/SetJSONFeatures)
// rather than pulled from a GrowthBook API.
type emptyDataSource struct {
	client *Client
}

var _ DataSource = &emptyDataSource{}

func withEmptyDataSource() ClientOption {
	return func(c *Client) error {
		c.data.dataSource = &emptyDataSource{client: c}
		return nil
	}
}

func (ds *emptyDataSource) Start(ctx context.Context) error {
	ds.client.logger.InfoContext(ctx, "Starting empty data source")
	return nil
}

func (ds *emptyDataSource) Close() error {
	ds.client.logger.Info("Closing empty data source")
	return nil
}
