package contracts

import (
	"context"

	"github.com/julienschmidt/httprouter"
)

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// Worker is a long-running background loop owned by the application, such as
// a Kafka consumer. Start blocks until ctx is cancelled.
type Worker interface {
	Start(ctx context.Context) error
	Close() error
}

// Closer releases a resource on shutdown (event publishers, caches).
type Closer interface {
	Close() error
}
