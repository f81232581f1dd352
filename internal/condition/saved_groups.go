package condition

import (
	"encoding/json"

	"github.com/growthbook/growthbook-golang/internal/value"
)

// SavedGroups maps a saved-group id to the list of values it contains,
// consulted by $inGroup/$notInGroup conditions.
type SavedGroups map[string]value.ArrValue

func (sg *SavedGroups) UnmarshalJSON(data []byte) error {
	var raw map[string][]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	groups := SavedGroups{}
	for id, vals := range raw {
		if arr, ok := value.New(vals).(value.ArrValue); ok {
			groups[id] = arr
		}
	}
	*sg = groups
	return nil
}
