// Package config loads codesnap configuration files and writes the starter template.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/codesnap/internal/pipeline"
	"github.com/temirov/codesnap/internal/types"
	"github.com/temirov/codesnap/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the settings read from configuration files.
// Unset values stay nil so later sources and command-line flags can tell them apart.
type ApplicationConfiguration struct {
	Snapshot SnapshotConfiguration `mapstructure:"snapshot" yaml:"snapshot"`
	Ignore   IgnoreConfiguration   `mapstructure:"ignore" yaml:"ignore"`
}

// SnapshotConfiguration configures the snapshot command.
type SnapshotConfiguration struct {
	Tree             *bool  `mapstructure:"tree" yaml:"tree,omitempty"`
	MaxDepth         *int   `mapstructure:"max_depth" yaml:"max_depth,omitempty"`
	Clipboard        *bool  `mapstructure:"clipboard" yaml:"clipboard,omitempty"`
	ProgressInterval *int   `mapstructure:"progress_interval" yaml:"progress_interval,omitempty"`
	Format           string `mapstructure:"format" yaml:"format,omitempty"`
}

// IgnoreConfiguration selects how ignore patterns are evaluated.
type IgnoreConfiguration struct {
	Engine       string `mapstructure:"engine" yaml:"engine,omitempty"`
	UseGitignore *bool  `mapstructure:"use_gitignore" yaml:"use_gitignore,omitempty"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
// Local values override global ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Snapshot = result.Snapshot.merge(override.Snapshot)
	result.Ignore = result.Ignore.merge(override.Ignore)
	return result
}

func (config SnapshotConfiguration) merge(override SnapshotConfiguration) SnapshotConfiguration {
	result := config
	if override.Tree != nil {
		result.Tree = cloneBool(override.Tree)
	}
	if override.MaxDepth != nil {
		result.MaxDepth = cloneInt(override.MaxDepth)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if override.ProgressInterval != nil {
		result.ProgressInterval = cloneInt(override.ProgressInterval)
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	return result
}

func (config IgnoreConfiguration) merge(override IgnoreConfiguration) IgnoreConfiguration {
	result := config
	if override.Engine != "" {
		result.Engine = override.Engine
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	return result
}

// ProcessorOptions applies the configured values on top of pipeline.DefaultOptions.
func (config ApplicationConfiguration) ProcessorOptions() pipeline.Options {
	options := pipeline.DefaultOptions()
	if config.Snapshot.Tree != nil {
		options.IncludeTree = *config.Snapshot.Tree
	}
	if config.Snapshot.MaxDepth != nil && *config.Snapshot.MaxDepth >= 0 {
		options.MaxDepth = *config.Snapshot.MaxDepth
	}
	if config.Snapshot.ProgressInterval != nil && *config.Snapshot.ProgressInterval > 0 {
		options.ProgressInterval = *config.Snapshot.ProgressInterval
	}
	if config.Ignore.Engine != "" {
		options.Engine = config.Ignore.Engine
	}
	if config.Ignore.UseGitignore != nil {
		options.UseGitignore = *config.Ignore.UseGitignore
	}
	return options
}

// OutputFormat returns the configured result format, defaulting to text.
func (config ApplicationConfiguration) OutputFormat() string {
	if config.Snapshot.Format == "" {
		return types.FormatText
	}
	return config.Snapshot.Format
}

// ClipboardEnabled reports whether snapshots should be copied by default.
func (config ApplicationConfiguration) ClipboardEnabled() bool {
	return config.Snapshot.Clipboard != nil && *config.Snapshot.Clipboard
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
