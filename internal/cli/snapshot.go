package cli

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/codesnap/internal/output"
	"github.com/temirov/codesnap/internal/pipeline"
	"github.com/temirov/codesnap/internal/services/clipboard"
	"github.com/temirov/codesnap/internal/utils"
)

func (app *application) runSnapshot(ctx context.Context, projectRoot string, options pipeline.Options, format string, copyRequested bool) error {
	processor := pipeline.Processor{
		ProjectRoot: projectRoot,
		Options:     options,
		Logger:      app.dependencies.Logger,
		Revision:    app.dependencies.Revision,
	}

	consume := func(pipeline.Event) error { return nil }
	if !app.quiet {
		renderer := output.NewProgressRenderer(app.dependencies.Stderr, app.dependencies.Interactive(), app.dependencies.Logger)
		defer renderer.Flush()
		consume = renderer.Handle
	}

	result, dispatchError := dispatchEvents(ctx, processor, consume)
	if dispatchError != nil {
		return dispatchError
	}

	if result.Success && copyRequested {
		copiedBytes, copyError := clipboard.CopyFile(app.dependencies.Copier, result.OutputPath)
		if copyError != nil {
			app.dependencies.Logger.Warn(logMessageClipboardFailed, zap.String(logFieldPath, result.OutputPath), zap.Error(copyError))
		} else if !app.quiet {
			fmt.Fprintf(app.dependencies.Stderr, copiedMessageFormat, utils.FormatByteCount(int64(copiedBytes)))
		}
	}

	if renderError := output.RenderResult(app.dependencies.Stdout, result, format); renderError != nil {
		return renderError
	}
	if result.Success {
		return nil
	}
	if result.Message == pipeline.CancelledMessage {
		return ErrSnapshotCancelled
	}
	return fmt.Errorf(snapshotFailedFormat, result.Message)
}

// dispatchEvents runs the processor on one goroutine while consume handles
// its events on another, and returns the processor's result.
func dispatchEvents(ctx context.Context, processor pipeline.Processor, consume func(pipeline.Event) error) (pipeline.Result, error) {
	group, groupCtx := errgroup.WithContext(ctx)
	events := make(chan pipeline.Event)
	var result pipeline.Result

	group.Go(func() error {
		defer close(events)
		result = processor.Run(groupCtx, events)
		return nil
	})

	group.Go(func() error {
		for event := range events {
			if consumeError := consume(event); consumeError != nil {
				for range events {
				}
				return consumeError
			}
		}
		return nil
	})

	if waitError := group.Wait(); waitError != nil && !errors.Is(waitError, context.Canceled) {
		return result, waitError
	}
	return result, nil
}
