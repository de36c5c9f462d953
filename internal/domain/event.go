package domain

import "fmt"

// Operation is an index event operation.
type Operation string

const (
	OpCreate Operation = "CREATE"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

// ParseOperation validates an event operation.
func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case OpCreate, OpUpdate, OpDelete:
		return Operation(s), nil
	}
	return "", fmt.Errorf("unknown operation %q", s)
}

// IndexEvent is a single entity change emitted elsewhere in the platform.
// Events are consumed at most once; a processing failure is logged and the
// event dropped, leaving the document stale until the next bulk resync.
type IndexEvent struct {
	Op         Operation `json:"operation"`
	Kind       string    `json:"kind"`
	ExternalID string    `json:"externalId"`
}
