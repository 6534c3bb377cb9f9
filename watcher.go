package chassis

import "context"

// Watcher observes a source of field values and emits raw patches.
// Implementations must emit the current contents immediately when Watch is
// called so a Binding can seed the form.
type Watcher interface {
	// Watch begins observing the source and returns a channel of raw
	// patches. The channel is closed when ctx is canceled or the source
	// fails for good.
	Watch(ctx context.Context) (<-chan []byte, error)
}
