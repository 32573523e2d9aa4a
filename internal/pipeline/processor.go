// Package pipeline runs the scan and combine phases of one snapshot.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/codesnap/internal/ignore"
	"github.com/temirov/codesnap/internal/scanner"
	"github.com/temirov/codesnap/internal/services/revision"
	"github.com/temirov/codesnap/internal/snapshot"
	"github.com/temirov/codesnap/internal/tree"
	"github.com/temirov/codesnap/internal/types"
	"github.com/temirov/codesnap/internal/utils"
)

const (
	// CancelledMessage is the Result message of a cancelled run.
	CancelledMessage = "cancelled"

	scanStartMessage        = "Scanning project files..."
	scanDoneMessageFormat   = "Scan complete! Found %d text files."
	combineStartMessage     = "Combining files..."
	successMessageFormat    = "Successfully combined %d text files into %s"
	combineFailedFormat     = "Error combining files: %v"
	scanFailedFormat        = "Error scanning files: %v"
	unexpectedErrorFormat   = "An unexpected error occurred: %v"
	revisionWarningFormat   = "git revision unavailable: %v"
	readErrorsWarningFormat = "%d files could not be read"

	scanPhaseShare        = 0.5
	scanProgressHalfPoint = 100.0
	outputDirectoryPerm   = 0o755
	eventBufferSize       = 16

	logMessageRevisionSkipped = "snapshot revision skipped"
	logMessageRunFailed       = "snapshot run failed"
	logFieldPath              = "path"
)

// Options configure a Processor.
type Options struct {
	IncludeTree      bool
	MaxDepth         int
	Engine           string
	UseGitignore     bool
	ProgressInterval int
}

// DefaultOptions returns the options used when no configuration overrides them.
func DefaultOptions() Options {
	return Options{IncludeTree: true, UseGitignore: true, ProgressInterval: scanner.DefaultProgressInterval}
}

// Processor sequences the scan and combine phases for ProjectRoot.
type Processor struct {
	ProjectRoot string
	Options     Options
	Logger      *zap.Logger
	// Revision describes the checked-out revision; it defaults to revision.Describe.
	Revision func(projectRoot string) (string, error)
}

// OutputDirectory returns the private output directory of the project.
func (processor Processor) OutputDirectory() string {
	return filepath.Join(processor.absoluteRoot(), utils.OutputDirectoryName)
}

// OutputPath returns the snapshot file of the project.
func (processor Processor) OutputPath() string {
	return snapshot.DefaultOutputPath(processor.absoluteRoot())
}

func (processor Processor) absoluteRoot() string {
	absoluteRoot, absError := filepath.Abs(processor.ProjectRoot)
	if absError != nil {
		return filepath.Clean(processor.ProjectRoot)
	}
	return absoluteRoot
}

// Start runs the pipeline on its own goroutine. The returned channel carries
// progress and warning events followed by one done event, then closes.
func (processor Processor) Start(ctx context.Context) <-chan Event {
	events := make(chan Event, eventBufferSize)
	go func() {
		defer close(events)
		processor.Run(ctx, events)
	}()
	return events
}

// Inventory loads the ignore rules and walks the project without writing a snapshot.
func (processor Processor) Inventory(ctx context.Context, progress scanner.ProgressFunc) (types.Inventory, *ignore.RuleSet, error) {
	logger := utils.LoggerOrNop(processor.Logger)
	ruleSet := ignore.Load(processor.absoluteRoot(), ignore.Options{
		Engine:       processor.Options.Engine,
		UseGitignore: processor.Options.UseGitignore,
		Logger:       logger,
	})
	walker := scanner.Walker{
		Root:             processor.absoluteRoot(),
		Rules:            ruleSet,
		ProgressInterval: processor.Options.ProgressInterval,
		Logger:           logger,
	}
	inventory, scanError := walker.Scan(ctx, progress)
	return inventory, ruleSet, scanError
}

// TreeRenderer returns the renderer configured by the processor options.
func (processor Processor) TreeRenderer() tree.Renderer {
	return tree.Renderer{MaxDepth: processor.Options.MaxDepth, ExcludedDirectory: utils.OutputDirectoryName}
}

// Run executes the pipeline synchronously, reporting through events, and
// returns the outcome. Cancellation yields a failed Result with
// CancelledMessage. Panics are recovered into a failed Result.
func (processor Processor) Run(ctx context.Context, events chan<- Event) (result Result) {
	logger := utils.LoggerOrNop(processor.Logger)
	emit := &emitter{ctx: ctx, out: events}
	result = Result{OutputPath: processor.OutputPath(), OutputDirectory: processor.OutputDirectory()}

	defer func() {
		if recovered := recover(); recovered != nil {
			result = processor.failure(fmt.Sprintf(unexpectedErrorFormat, recovered))
			logger.Error(logMessageRunFailed, zap.Any("panic", recovered))
		}
		emit.sendFinal(Event{Kind: EventKindDone, Message: result.Message, Progress: 1, Result: &result})
	}()

	if mkdirError := os.MkdirAll(result.OutputDirectory, outputDirectoryPerm); mkdirError != nil {
		return processor.failure(fmt.Sprintf(unexpectedErrorFormat, mkdirError))
	}

	emit.progress(scanStartMessage, 0)
	inventory, ruleSet, scanError := processor.Inventory(ctx, func(message string, filesVisited int) {
		emit.progress(message, scanFraction(filesVisited))
	})
	if scanError != nil {
		if errors.Is(scanError, context.Canceled) || errors.Is(scanError, context.DeadlineExceeded) {
			return processor.failure(CancelledMessage)
		}
		return processor.failure(fmt.Sprintf(scanFailedFormat, scanError))
	}
	if ctx.Err() != nil {
		return processor.failure(CancelledMessage)
	}
	emit.progress(fmt.Sprintf(scanDoneMessageFormat, len(inventory.TextFiles)), scanPhaseShare)

	describe := processor.Revision
	if describe == nil {
		describe = revision.Describe
	}
	revisionText, revisionError := describe(processor.absoluteRoot())
	if revisionError != nil {
		logger.Debug(logMessageRevisionSkipped, zap.String(logFieldPath, processor.absoluteRoot()), zap.Error(revisionError))
		if !errors.Is(revisionError, revision.ErrNoRevision) {
			emit.warn(fmt.Sprintf(revisionWarningFormat, revisionError))
		}
		revisionText = utils.EmptyString
	}

	emit.progress(combineStartMessage, scanPhaseShare)
	writer := snapshot.Writer{
		ProjectRoot: processor.absoluteRoot(),
		OutputPath:  result.OutputPath,
		Revision:    revisionText,
		Logger:      logger,
	}
	stats, combineError := writer.Combine(ctx, inventory, ruleSet.Summary(), snapshot.Options{
		IncludeTree: processor.Options.IncludeTree,
		Tree:        processor.TreeRenderer(),
		Progress: func(message string, fraction float64) {
			emit.progress(message, scanPhaseShare+scanPhaseShare*fraction)
		},
	})
	if combineError != nil {
		if errors.Is(combineError, snapshot.ErrCancelled) {
			return processor.failure(CancelledMessage)
		}
		return processor.failure(fmt.Sprintf(combineFailedFormat, combineError))
	}
	if stats.Errors > 0 {
		emit.warn(fmt.Sprintf(readErrorsWarningFormat, stats.Errors))
	}

	result.Success = true
	result.Stats = stats
	result.Message = fmt.Sprintf(successMessageFormat, stats.TextFiles, result.OutputPath)
	return result
}

func (processor Processor) failure(message string) Result {
	return Result{
		Success:         false,
		Message:         message,
		OutputPath:      processor.OutputPath(),
		OutputDirectory: processor.OutputDirectory(),
	}
}

// scanFraction maps the open-ended file count of the scan onto [0, 0.5).
func scanFraction(filesVisited int) float64 {
	visited := float64(filesVisited)
	return scanPhaseShare * visited / (visited + scanProgressHalfPoint)
}
