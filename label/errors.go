package label

import "fmt"

// LayoutError reports a record field that cannot be laid out. The
// caller decides whether the label is skipped or the whole document
// aborts.
type LayoutError struct {
	ID    string
	Field string
	Err   error
}

func (e *LayoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("label %s: field %s: %v", e.ID, e.Field, e.Err)
	}
	return fmt.Sprintf("label %s: field %s cannot be laid out", e.ID, e.Field)
}

func (e *LayoutError) Unwrap() error { return e.Err }
