package chassis

// Request carries a submitted snapshot through the submit pipeline.
type Request[M any] struct {
	// Snapshot is the model as it was when Submit was called.
	// Pipeline stages may replace it, e.g. to normalise values.
	Snapshot M

	// Revision is the chassis revision of Snapshot.
	Revision uint64
}
