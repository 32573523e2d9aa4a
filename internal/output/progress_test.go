package output_test

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/codesnap/internal/output"
	"github.com/temirov/codesnap/internal/pipeline"
)

func TestInteractiveProgressRenderer(t *testing.T) {
	var buffer bytes.Buffer
	renderer := output.NewProgressRenderer(&buffer, true, nil)
	events := []pipeline.Event{
		{Kind: pipeline.EventKindProgress, Message: "Scanning: a.txt", Progress: 0.1},
		{Kind: pipeline.EventKindWarning, Message: "1 files could not be read"},
		{Kind: pipeline.EventKindProgress, Message: "Processing (1/1): a.txt", Progress: 1},
		{Kind: pipeline.EventKindDone},
	}
	for _, event := range events {
		if handleError := renderer.Handle(event); handleError != nil {
			t.Fatalf("handle: %v", handleError)
		}
	}
	rendered := buffer.String()
	expected := "\r\033[K[ 10%] Scanning: a.txt\n" +
		"Warning: 1 files could not be read\n" +
		"\r\033[K[100%] Processing (1/1): a.txt\n"
	if rendered != expected {
		t.Fatalf("unexpected interactive output\nexpected %q\ngot      %q", expected, rendered)
	}
}

func TestInteractiveProgressTruncatesLongMessages(t *testing.T) {
	var buffer bytes.Buffer
	renderer := output.NewProgressRenderer(&buffer, true, nil)
	longMessage := "Scanning: " + strings.Repeat("x", 300)
	if handleError := renderer.Handle(pipeline.Event{Kind: pipeline.EventKindProgress, Message: longMessage, Progress: 0.2}); handleError != nil {
		t.Fatalf("handle: %v", handleError)
	}
	if !strings.HasSuffix(buffer.String(), "...") {
		t.Fatalf("expected truncated message, got %q", buffer.String())
	}
	if len(buffer.String()) > 120 {
		t.Fatalf("status line too long: %d", len(buffer.String()))
	}
}

func TestNonInteractiveProgressLogsPhaseChanges(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	var buffer bytes.Buffer
	renderer := output.NewProgressRenderer(&buffer, false, zap.New(core))
	events := []pipeline.Event{
		{Kind: pipeline.EventKindProgress, Message: "Scanning: a", Progress: 0.01},
		{Kind: pipeline.EventKindProgress, Message: "Scanning: b", Progress: 0.2},
		{Kind: pipeline.EventKindProgress, Message: "Processing (1/2): a", Progress: 0.75},
		{Kind: pipeline.EventKindProgress, Message: "Processing (2/2): b", Progress: 1},
		{Kind: pipeline.EventKindWarning, Message: "1 files could not be read"},
		{Kind: pipeline.EventKindDone},
	}
	for _, event := range events {
		if handleError := renderer.Handle(event); handleError != nil {
			t.Fatalf("handle: %v", handleError)
		}
	}
	if buffer.Len() != 0 {
		t.Fatalf("non-interactive renderer wrote to its writer: %q", buffer.String())
	}
	entries := recorded.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(entries))
	}
	if entries[0].Message != "Scanning: a" || entries[1].Message != "Processing (1/2): a" {
		t.Fatalf("unexpected phase messages %q, %q", entries[0].Message, entries[1].Message)
	}
	if entries[2].Level != zapcore.WarnLevel {
		t.Fatalf("expected warning level, got %v", entries[2].Level)
	}
}
