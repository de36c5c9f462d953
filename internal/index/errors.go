package index

// Op constants name engine operations for error context.
const (
	OpUpsert = "upsert"
	OpBatch  = "batch"
	OpDelete = "delete"
	OpSearch = "search"
	OpCount  = "count"
)

// Error wraps an underlying engine error with the operation name.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return "index " + e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
