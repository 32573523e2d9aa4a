package pipeline

import (
	"context"
	"time"

	"github.com/temirov/codesnap/internal/types"
)

// EventKind distinguishes pipeline status events.
type EventKind string

const (
	EventKindProgress EventKind = "progress"
	EventKindWarning  EventKind = "warning"
	EventKindDone     EventKind = "done"
)

// Event is one status update sent from the worker to its consumer.
type Event struct {
	Kind      EventKind `json:"kind" yaml:"kind"`
	Message   string    `json:"message,omitempty" yaml:"message,omitempty"`
	Progress  float64   `json:"progress" yaml:"progress"`
	Result    *Result   `json:"result,omitempty" yaml:"result,omitempty"`
	EmittedAt time.Time `json:"emittedAt" yaml:"emittedAt"`
}

// Result is the terminal outcome of a run.
type Result struct {
	Success         bool                `json:"success" yaml:"success"`
	Message         string              `json:"message" yaml:"message"`
	Stats           types.SnapshotStats `json:"stats" yaml:"stats"`
	OutputPath      string              `json:"outputPath" yaml:"outputPath"`
	OutputDirectory string              `json:"outputDirectory" yaml:"outputDirectory"`
}

type emitter struct {
	ctx context.Context
	out chan<- Event
}

// send delivers event unless the context ends first. A nil channel discards events.
func (e *emitter) send(event Event) {
	if e.out == nil {
		return
	}
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now().UTC()
	}
	select {
	case <-e.ctx.Done():
	case e.out <- event:
	}
}

// sendFinal delivers the done event. Once the context has ended it only
// succeeds when the channel has room, so an absent consumer cannot block the worker.
func (e *emitter) sendFinal(event Event) {
	if e.out == nil {
		return
	}
	event.EmittedAt = time.Now().UTC()
	if e.ctx.Err() != nil {
		select {
		case e.out <- event:
		default:
		}
		return
	}
	e.send(event)
}

func (e *emitter) progress(message string, fraction float64) {
	e.send(Event{Kind: EventKindProgress, Message: message, Progress: fraction})
}

func (e *emitter) warn(message string) {
	e.send(Event{Kind: EventKindWarning, Message: message})
}
