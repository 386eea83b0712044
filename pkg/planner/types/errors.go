package types

import "fmt"

// ColumnError reports a reference to a column that does not exist in the
// realized schema. The compiler never validates column references; the
// execution engine raises a ColumnError when it first resolves names against
// actual data.
type ColumnError struct {
	// Column is the offending identifier.
	Column string
}

// Error implements the error interface.
func (e *ColumnError) Error() string {
	return fmt.Sprintf("there's no such column in the dataset: %q", e.Column)
}
