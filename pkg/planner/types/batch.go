package types

// BatchFormat names the in-memory representation in which rows are presented
// to a user function. Re-chunking between formats has a real conversion cost,
// which is why bulk operators prefer to inherit the format already produced
// by their upstream operator.
type BatchFormat string

// Recognized values of [BatchFormat].
const (
	// BatchFormatUnspecified leaves the choice of representation to the
	// engine (or to the batch-format inheritance rewrite rule).
	BatchFormatUnspecified BatchFormat = ""

	// BatchFormatRows presents batches as row tables.
	BatchFormatRows BatchFormat = "rows"

	// BatchFormatColumnar presents batches as columnar tables.
	BatchFormatColumnar BatchFormat = "columnar"
)
