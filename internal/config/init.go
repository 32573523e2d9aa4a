package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/temirov/codesnap/internal/ignore"
	"github.com/temirov/codesnap/internal/pipeline"
	"github.com/temirov/codesnap/internal/types"
	"github.com/temirov/codesnap/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes .codesnap.yaml into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes config.yaml into ~/.codesnap.
	InitTargetGlobal InitTarget = "global"

	configurationDirectoryPerm = 0o755
	configurationFilePerm      = 0o600
)

// ErrConfigurationExists is returned when the destination exists and Force is not set.
var ErrConfigurationExists = errors.New("configuration file already exists")

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// DefaultConfiguration spells out every setting with its built-in value.
func DefaultConfiguration() ApplicationConfiguration {
	defaults := pipeline.DefaultOptions()
	includeTree := defaults.IncludeTree
	maxDepth := defaults.MaxDepth
	clipboard := false
	progressInterval := defaults.ProgressInterval
	useGitignore := defaults.UseGitignore
	return ApplicationConfiguration{
		Snapshot: SnapshotConfiguration{
			Tree:             &includeTree,
			MaxDepth:         &maxDepth,
			Clipboard:        &clipboard,
			ProgressInterval: &progressInterval,
			Format:           types.FormatText,
		},
		Ignore: IgnoreConfiguration{
			Engine:       string(ignore.EngineGit),
			UseGitignore: &useGitignore,
		},
	}
}

// DefaultTemplate renders DefaultConfiguration as YAML.
func DefaultTemplate() ([]byte, error) {
	return yaml.Marshal(DefaultConfiguration())
}

// InitializeConfiguration writes the default configuration to the requested
// target and returns the written path.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, resolveErr := initDestination(options)
	if resolveErr != nil {
		return "", resolveErr
	}

	_, statErr := os.Stat(destinationPath)
	switch {
	case statErr == nil && !options.Force:
		return "", fmt.Errorf("%w at %s", ErrConfigurationExists, destinationPath)
	case statErr != nil && !errors.Is(statErr, fs.ErrNotExist):
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, statErr)
	}

	template, renderErr := DefaultTemplate()
	if renderErr != nil {
		return "", fmt.Errorf("render configuration template: %w", renderErr)
	}
	if writeErr := os.WriteFile(destinationPath, template, configurationFilePerm); writeErr != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, writeErr)
	}
	return destinationPath, nil
}

func initDestination(options InitOptions) (string, error) {
	switch options.Target {
	case "", InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
	case InitTargetGlobal:
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory for configuration: %w", err)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := os.MkdirAll(configurationDirectory, configurationDirectoryPerm); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		return filepath.Join(configurationDirectory, utils.ConfigFileName), nil
	default:
		return "", fmt.Errorf("unsupported init target %q", options.Target)
	}
}
