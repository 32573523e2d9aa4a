package output

import (
	"github.com/temirov/codesnap/internal/pipeline"
)

// StreamRenderer consumes pipeline events as they arrive.
type StreamRenderer interface {
	Handle(event pipeline.Event) error
	Flush() error
}
