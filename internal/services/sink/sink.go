// Package sink delivers rendered export documents to their destinations.
package sink

// Sink delivers a rendered document to one destination.
type Sink interface {
	// Deliver writes the document to the destination.
	Deliver(document string) error
	// Describe names the destination for log messages.
	Describe() string
}
