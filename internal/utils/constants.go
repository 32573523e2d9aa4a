package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// Fixed names used inside a scanned project.
const (
	// OutputDirectoryName is the private directory created under the project root.
	OutputDirectoryName = ".codebase"
	// SnapshotFileName is the combined snapshot written into OutputDirectoryName.
	SnapshotFileName = "codebase.txt"
	// CustomIgnoreFileName is the user-editable ignore file kept in OutputDirectoryName.
	CustomIgnoreFileName = ".watchignore"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
)

// Configuration file locations.
const (
	// ConfigFileName is the name of the global configuration file.
	ConfigFileName = "config.yaml"
	// LocalConfigFileName is the configuration file looked up in the working directory.
	LocalConfigFileName = ".codesnap.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding ConfigFileName.
	GlobalConfigDirectoryName = ".codesnap"
)

// LoggerInitializationFailedMessageFormat is used when the zap logger cannot be built.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
