package nfevent

// Handler is capable of processing event records.
type Handler interface {
	// Name returns a name for the handler.
	Name() string

	// Handle processes the given event record.
	Handle(Record) error
}
