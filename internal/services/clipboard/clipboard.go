// Package clipboard copies snapshot text to the system clipboard.
package clipboard

import (
	"fmt"
	"os"

	systemclipboard "github.com/atotto/clipboard"
)

const (
	readSnapshotErrorFormat = "read snapshot %s: %w"
	copyErrorFormat         = "copy to clipboard: %w"
)

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service writes through github.com/atotto/clipboard.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard. It fails when no clipboard
// utility is available.
func (service *Service) Copy(text string) error {
	if systemclipboard.Unsupported {
		return fmt.Errorf(copyErrorFormat, fmt.Errorf("no clipboard utility available"))
	}
	if writeError := systemclipboard.WriteAll(text); writeError != nil {
		return fmt.Errorf(copyErrorFormat, writeError)
	}
	return nil
}

// CopyFile reads the file at path and hands its content to copier.
// It returns the number of bytes copied.
func CopyFile(copier Copier, path string) (int, error) {
	content, readError := os.ReadFile(path)
	if readError != nil {
		return 0, fmt.Errorf(readSnapshotErrorFormat, path, readError)
	}
	if copyError := copier.Copy(string(content)); copyError != nil {
		return 0, copyError
	}
	return len(content), nil
}

var _ Copier = (*Service)(nil)
