package clipboard_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/codesnap/internal/services/clipboard"
)

type recordingCopier struct {
	copied []string
	err    error
}

func (copier *recordingCopier) Copy(text string) error {
	if copier.err != nil {
		return copier.err
	}
	copier.copied = append(copier.copied, text)
	return nil
}

func TestCopyFile(testingHandle *testing.T) {
	snapshotPath := filepath.Join(testingHandle.TempDir(), "codebase.txt")
	if writeError := os.WriteFile(snapshotPath, []byte("/* snapshot */\n"), 0o644); writeError != nil {
		testingHandle.Fatalf("write snapshot: %v", writeError)
	}

	copier := &recordingCopier{}
	copiedBytes, copyError := clipboard.CopyFile(copier, snapshotPath)
	if copyError != nil {
		testingHandle.Fatalf("copy: %v", copyError)
	}
	if copiedBytes != len("/* snapshot */\n") {
		testingHandle.Fatalf("unexpected byte count %d", copiedBytes)
	}
	if len(copier.copied) != 1 || copier.copied[0] != "/* snapshot */\n" {
		testingHandle.Fatalf("unexpected clipboard content %q", copier.copied)
	}
}

func TestCopyFileErrors(testingHandle *testing.T) {
	directory := testingHandle.TempDir()
	if _, copyError := clipboard.CopyFile(&recordingCopier{}, filepath.Join(directory, "missing.txt")); copyError == nil {
		testingHandle.Fatalf("expected error for missing snapshot")
	}

	snapshotPath := filepath.Join(directory, "codebase.txt")
	if writeError := os.WriteFile(snapshotPath, []byte("x"), 0o644); writeError != nil {
		testingHandle.Fatalf("write snapshot: %v", writeError)
	}
	failure := errors.New("clipboard unavailable")
	if _, copyError := clipboard.CopyFile(&recordingCopier{err: failure}, snapshotPath); !errors.Is(copyError, failure) {
		testingHandle.Fatalf("expected copier error, got %v", copyError)
	}
}
