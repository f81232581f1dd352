package growthbook

import (
	"encoding/json"
	"fmt"
)

// Namespace specifies what part of a namespace an experiment
// includes. If two experiments are in the same namespace and their
// ranges don't overlap, they will be mutually exclusive.
type Namespace struct {
	ID    string
	Start float64
	End   float64
}

// inNamespace determines whether a user's ID lies within this namespace,
// using hash v1 on "{userID}__{namespace.ID}" per the namespace gating
// step of experiment evaluation.
func (namespace *Namespace) inNamespace(userID string) bool {
	n := float64(hashFnv32a(userID+"__"+namespace.ID)%1000) / 1000
	return n >= namespace.Start && n < namespace.End
}

// UnmarshalJSON parses the wire representation of a Namespace, a 3-element
// array: [id, start, end].
func (namespace *Namespace) UnmarshalJSON(data []byte) error {
	var array [3]any
	if err := json.Unmarshal(data, &array); err != nil {
		return fmt.Errorf("invalid namespace: %w", err)
	}
	id, ok1 := array[0].(string)
	start, ok2 := array[1].(float64)
	end, ok3 := array[2].(float64)
	if !ok1 || !ok2 || !ok3 {
		return fmt.Errorf("invalid namespace tuple: %v", array)
	}
	namespace.ID = id
	namespace.Start = start
	namespace.End = end
	return nil
}
