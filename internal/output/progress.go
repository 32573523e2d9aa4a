package output

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/temirov/codesnap/internal/pipeline"
	"github.com/temirov/codesnap/internal/utils"
)

const (
	progressLineFormat = "\r\033[K[%3.0f%%] %s"
	progressMaxWidth   = 100
	warningLineFormat  = "Warning: %s\n"
	progressEllipsis   = "..."

	phaseBoundary = 0.5

	logFieldPercent = "percent"
)

// IsTerminal reports whether file is attached to an interactive terminal.
func IsTerminal(file *os.File) bool {
	return file != nil && term.IsTerminal(int(file.Fd()))
}

type progressRenderer struct {
	writer      io.Writer
	interactive bool
	logger      *zap.Logger
	lineOpen    bool
	lastPhase   float64
}

// NewProgressRenderer renders pipeline events. An interactive renderer keeps
// one updating status line on writer; otherwise only phase changes, warnings
// and the final message are logged.
func NewProgressRenderer(writer io.Writer, interactive bool, logger *zap.Logger) StreamRenderer {
	return &progressRenderer{writer: writer, interactive: interactive, logger: utils.LoggerOrNop(logger), lastPhase: -1}
}

func (renderer *progressRenderer) Handle(event pipeline.Event) error {
	switch event.Kind {
	case pipeline.EventKindWarning:
		if renderer.interactive {
			renderer.closeLine()
			_, writeError := fmt.Fprintf(renderer.writer, warningLineFormat, event.Message)
			return writeError
		}
		renderer.logger.Warn(event.Message)
	case pipeline.EventKindProgress:
		if renderer.interactive {
			renderer.lineOpen = true
			_, writeError := fmt.Fprintf(renderer.writer, progressLineFormat, event.Progress*100, truncate(event.Message))
			return writeError
		}
		phase := 0.0
		if event.Progress >= phaseBoundary {
			phase = phaseBoundary
		}
		if phase != renderer.lastPhase {
			renderer.lastPhase = phase
			renderer.logger.Info(event.Message, zap.Float64(logFieldPercent, event.Progress*100))
		}
	case pipeline.EventKindDone:
		return renderer.Flush()
	}
	return nil
}

func (renderer *progressRenderer) Flush() error {
	renderer.closeLine()
	return nil
}

func (renderer *progressRenderer) closeLine() {
	if renderer.lineOpen {
		fmt.Fprintln(renderer.writer)
		renderer.lineOpen = false
	}
}

func truncate(message string) string {
	if len([]rune(message)) <= progressMaxWidth {
		return message
	}
	runes := []rune(message)
	return string(runes[:progressMaxWidth-len(progressEllipsis)]) + progressEllipsis
}
