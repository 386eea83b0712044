package physical

// Visitor defines the interface for objects that can visit each type of
// physical plan node. It provides a type-specific visit method for each
// concrete node variant, so consumers such as the execution engine can
// dispatch without type switches of their own.
type Visitor interface {
	VisitInputBuffer(*InputBuffer) error
	VisitMap(*Map) error
	VisitAllToAll(*AllToAll) error
	VisitZip(*Zip) error
	VisitSink(*Sink) error
}
