package growthbook

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFeatureApiResponseUnmarshal(t *testing.T) {
	body := `{
      "features": {
        "foo": {
          "defaultValue": "api"
        }
      },
      "experiments": [],
      "dateUpdated": "2000-05-01T00:00:12Z"
    }`

	var resp FeatureApiResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	want := FeatureApiResponse{
		Features:    FeatureMap{"foo": &Feature{DefaultValue: "api"}},
		DateUpdated: time.Date(2000, time.May, 1, 0, 0, 12, 0, time.UTC),
	}
	require.Equal(t, want, resp)
}
