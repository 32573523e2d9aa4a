// Package cli provides the codesnap command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/codesnap/internal/config"
	"github.com/temirov/codesnap/internal/ignore"
	"github.com/temirov/codesnap/internal/output"
	"github.com/temirov/codesnap/internal/pipeline"
	"github.com/temirov/codesnap/internal/services/clipboard"
	"github.com/temirov/codesnap/internal/types"
	"github.com/temirov/codesnap/internal/utils"
)

const (
	defaultPath          = "."
	rootUse              = "codesnap"
	rootShortDescription = "combine a project's text files into one snapshot"
	rootLongDescription  = `codesnap walks a project, skips ignored and binary files, and writes every
remaining text file into .codebase/codebase.txt together with a tree of the
project and a report of what was left out.
Ignore rules come from .gitignore, .codebase/.watchignore and a built-in list.`

	snapshotUse              = "snapshot [path]"
	scanUse                  = "scan [path]"
	treeUse                  = "tree [path]"
	initUse                  = "init"
	snapshotAlias            = "s"
	scanAlias                = "sc"
	treeAlias                = "t"
	snapshotShortDescription = "write the combined snapshot (" + snapshotAlias + ")"
	scanShortDescription     = "list included and ignored entries (" + scanAlias + ")"
	treeShortDescription     = "print the project tree (" + treeAlias + ")"
	initShortDescription     = "write a configuration template"

	snapshotLongDescription = `Scan the project, then combine every text file into .codebase/codebase.txt.
Progress is drawn on stderr; the result summary is printed on stdout in the
format selected by --format.`
	snapshotUsageExample = `  # Snapshot the current directory and copy it to the clipboard
  codesnap snapshot --copy

  # Snapshot another project without the structure block
  codesnap s --no-tree ../service`
	scanUsageExample = `  # Show which files would be included, as YAML
  codesnap scan --format yaml .`
	treeUsageExample = `  # Print two levels of the tree
  codesnap tree --max-depth 2`
	initUsageExample = `  # Create ~/.codesnap/config.yaml
  codesnap init --global`

	configFlagName        = "config"
	quietFlagName         = "quiet"
	noTreeFlagName        = "no-tree"
	maxDepthFlagName      = "max-depth"
	engineFlagName        = "engine"
	noGitignoreFlagName   = "no-gitignore"
	copyFlagName          = "copy"
	formatFlagName        = "format"
	globalFlagName        = "global"
	forceFlagName         = "force"
	configFlagDescription = "configuration file (default .codesnap.yaml in the working directory)"
	quietFlagDescription  = "do not draw progress"
	noTreeDescription     = "omit the project structure block"
	maxDepthDescription   = "limit the tree to this many levels (0 means unlimited)"
	engineDescription     = "ignore matcher engine: git, regexp or indexed"
	noGitignoreDesc       = "do not read .gitignore"
	copyDescription       = "copy the snapshot to the clipboard"
	formatDescription     = "output format: text, json or yaml"
	globalDescription     = "write ~/.codesnap/config.yaml instead of .codesnap.yaml"
	forceDescription      = "overwrite an existing configuration file"

	invalidFormatMessage        = "invalid format value '%s'"
	invalidEngineMessage        = "invalid engine value '%s'"
	invalidMaxDepthMessage      = "max depth must be zero or greater, got %d"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	errorAbsolutePathFormat     = "abs failed for '%s': %w"
	errorPathMissingFormat      = "path '%s' does not exist"
	errorStatFormat             = "stat failed for '%s': %w"
	errorNotDirectoryFormat     = "path '%s' is not a directory"
	errorConfigMissingFormat    = "configuration file '%s' does not exist"
	configExistsHintFormat      = "%w (use --%s to overwrite)"
	configWrittenFormat         = "Configuration written to %s\n"
	copiedMessageFormat         = "Copied %s to the clipboard\n"
	snapshotFailedFormat        = "snapshot failed: %s"

	logMessageClipboardFailed = "clipboard copy failed"
	logFieldPath              = "path"
)

// ErrSnapshotCancelled is returned when a snapshot run was interrupted.
var ErrSnapshotCancelled = errors.New("snapshot cancelled")

// Dependencies are the collaborators of the command tree. Zero values fall
// back to the process environment.
type Dependencies struct {
	Logger           *zap.Logger
	Stdout           io.Writer
	Stderr           io.Writer
	WorkingDirectory string
	Copier           clipboard.Copier
	// Interactive reports whether progress may be drawn as an updating line.
	Interactive func() bool
	Revision    func(projectRoot string) (string, error)
}

func (dependencies Dependencies) withDefaults() Dependencies {
	dependencies.Logger = utils.LoggerOrNop(dependencies.Logger)
	if dependencies.Stdout == nil {
		dependencies.Stdout = os.Stdout
	}
	if dependencies.Stderr == nil {
		dependencies.Stderr = os.Stderr
	}
	if dependencies.Copier == nil {
		dependencies.Copier = clipboard.NewService()
	}
	if dependencies.Interactive == nil {
		dependencies.Interactive = func() bool { return output.IsTerminal(os.Stderr) }
	}
	return dependencies
}

// Execute runs the codesnap application with the process arguments.
func Execute(ctx context.Context, logger *zap.Logger) error {
	rootCommand := NewRootCommand(Dependencies{Logger: logger})
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return fang.Execute(
		ctx,
		rootCommand,
		fang.WithVersion(utils.GetApplicationVersion()),
		fang.WithoutManpage(),
	)
}

type application struct {
	dependencies Dependencies
	configPath   string
	quiet        bool
}

// NewRootCommand builds the root Cobra command with every subcommand attached.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	app := &application{dependencies: dependencies.withDefaults()}
	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	rootCommand.SetOut(app.dependencies.Stdout)
	rootCommand.SetErr(app.dependencies.Stderr)
	rootCommand.PersistentFlags().StringVar(&app.configPath, configFlagName, "", configFlagDescription)
	addToggleFlag(rootCommand.PersistentFlags(), &app.quiet, quietFlagName, quietFlagDescription)
	rootCommand.AddCommand(
		app.createSnapshotCommand(),
		app.createScanCommand(),
		app.createTreeCommand(),
		app.createInitCommand(),
	)
	return rootCommand
}

// walkFlags are the flags shared by every command that walks a project.
type walkFlags struct {
	engine      string
	noGitignore bool
	maxDepth    int
}

func addWalkFlags(command *cobra.Command, flags *walkFlags, withDepth bool) {
	command.Flags().StringVar(&flags.engine, engineFlagName, "", engineDescription)
	addToggleFlag(command.Flags(), &flags.noGitignore, noGitignoreFlagName, noGitignoreDesc)
	if withDepth {
		command.Flags().IntVar(&flags.maxDepth, maxDepthFlagName, 0, maxDepthDescription)
	}
}

// apply overlays explicitly set flags onto options.
func (flags walkFlags) apply(command *cobra.Command, options *pipeline.Options) error {
	changed := command.Flags().Changed
	if changed(engineFlagName) {
		if _, known := ignore.ParseEngine(flags.engine); !known {
			return fmt.Errorf(invalidEngineMessage, flags.engine)
		}
		options.Engine = flags.engine
	}
	if changed(noGitignoreFlagName) {
		options.UseGitignore = !flags.noGitignore
	}
	if changed(maxDepthFlagName) {
		if flags.maxDepth < 0 {
			return fmt.Errorf(invalidMaxDepthMessage, flags.maxDepth)
		}
		options.MaxDepth = flags.maxDepth
	}
	return nil
}

func (app *application) createSnapshotCommand() *cobra.Command {
	var walk walkFlags
	var noTree bool
	var copyEnabled bool
	var outputFormat string

	snapshotCommand := &cobra.Command{
		Use:     snapshotUse,
		Aliases: []string{snapshotAlias},
		Short:   snapshotShortDescription,
		Long:    snapshotLongDescription,
		Example: snapshotUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			settings, loadError := app.loadConfiguration()
			if loadError != nil {
				return loadError
			}
			options := settings.ProcessorOptions()
			if applyError := walk.apply(command, &options); applyError != nil {
				return applyError
			}
			if command.Flags().Changed(noTreeFlagName) {
				options.IncludeTree = !noTree
			}
			format, formatError := resolveFormat(command, outputFormat, settings.OutputFormat())
			if formatError != nil {
				return formatError
			}
			copyRequested := settings.ClipboardEnabled()
			if command.Flags().Changed(copyFlagName) {
				copyRequested = copyEnabled
			}
			projectRoot, pathError := resolveProjectRoot(arguments)
			if pathError != nil {
				return pathError
			}
			return app.runSnapshot(command.Context(), projectRoot, options, format, copyRequested)
		},
	}
	addWalkFlags(snapshotCommand, &walk, true)
	addToggleFlag(snapshotCommand.Flags(), &noTree, noTreeFlagName, noTreeDescription)
	addToggleFlag(snapshotCommand.Flags(), &copyEnabled, copyFlagName, copyDescription)
	snapshotCommand.Flags().StringVar(&outputFormat, formatFlagName, types.FormatText, formatDescription)
	return snapshotCommand
}

func (app *application) createScanCommand() *cobra.Command {
	var walk walkFlags
	var outputFormat string

	scanCommand := &cobra.Command{
		Use:     scanUse,
		Aliases: []string{scanAlias},
		Short:   scanShortDescription,
		Example: scanUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			processor, settings, prepareError := app.prepareWalk(command, arguments, walk)
			if prepareError != nil {
				return prepareError
			}
			format, formatError := resolveFormat(command, outputFormat, settings.OutputFormat())
			if formatError != nil {
				return formatError
			}
			inventory, ruleSet, scanError := processor.Inventory(command.Context(), nil)
			if scanError != nil {
				return scanError
			}
			return output.RenderInventory(app.dependencies.Stdout, processor.ProjectRoot, inventory, ruleSet.Summary(), format)
		},
	}
	addWalkFlags(scanCommand, &walk, false)
	scanCommand.Flags().StringVar(&outputFormat, formatFlagName, types.FormatText, formatDescription)
	return scanCommand
}

func (app *application) createTreeCommand() *cobra.Command {
	var walk walkFlags

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Example: treeUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			processor, _, prepareError := app.prepareWalk(command, arguments, walk)
			if prepareError != nil {
				return prepareError
			}
			inventory, _, scanError := processor.Inventory(command.Context(), nil)
			if scanError != nil {
				return scanError
			}
			rendered := processor.TreeRenderer().Render(inventory.IgnoredDirectoryPaths(), inventory.AllPaths)
			_, writeError := fmt.Fprintln(app.dependencies.Stdout, rendered)
			return writeError
		},
	}
	addWalkFlags(treeCommand, &walk, true)
	return treeCommand
}

func (app *application) createInitCommand() *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:     initUse,
		Short:   initShortDescription,
		Example: initUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: app.dependencies.WorkingDirectory,
			})
			if errors.Is(initError, config.ErrConfigurationExists) {
				return fmt.Errorf(configExistsHintFormat, initError, forceFlagName)
			}
			if initError != nil {
				return initError
			}
			_, writeError := fmt.Fprintf(app.dependencies.Stdout, configWrittenFormat, writtenPath)
			return writeError
		},
	}
	addToggleFlag(initCommand.Flags(), &global, globalFlagName, globalDescription)
	addToggleFlag(initCommand.Flags(), &force, forceFlagName, forceDescription)
	return initCommand
}

func (app *application) prepareWalk(command *cobra.Command, arguments []string, walk walkFlags) (pipeline.Processor, config.ApplicationConfiguration, error) {
	settings, loadError := app.loadConfiguration()
	if loadError != nil {
		return pipeline.Processor{}, config.ApplicationConfiguration{}, loadError
	}
	options := settings.ProcessorOptions()
	if applyError := walk.apply(command, &options); applyError != nil {
		return pipeline.Processor{}, config.ApplicationConfiguration{}, applyError
	}
	projectRoot, pathError := resolveProjectRoot(arguments)
	if pathError != nil {
		return pipeline.Processor{}, config.ApplicationConfiguration{}, pathError
	}
	processor := pipeline.Processor{ProjectRoot: projectRoot, Options: options, Logger: app.dependencies.Logger}
	return processor, settings, nil
}

func (app *application) loadConfiguration() (config.ApplicationConfiguration, error) {
	if app.configPath != "" {
		explicitPath := app.configPath
		if !filepath.IsAbs(explicitPath) && app.dependencies.WorkingDirectory != "" {
			explicitPath = filepath.Join(app.dependencies.WorkingDirectory, explicitPath)
		}
		if _, statError := os.Stat(explicitPath); statError != nil {
			if os.IsNotExist(statError) {
				return config.ApplicationConfiguration{}, fmt.Errorf(errorConfigMissingFormat, app.configPath)
			}
			return config.ApplicationConfiguration{}, fmt.Errorf(errorStatFormat, app.configPath, statError)
		}
	}
	return config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: app.dependencies.WorkingDirectory,
		ExplicitFilePath: app.configPath,
	})
}

// resolveFormat prefers an explicit --format over the configured one.
func resolveFormat(command *cobra.Command, flagValue string, configured string) (string, error) {
	format := configured
	if command.Flags().Changed(formatFlagName) {
		format = flagValue
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if !output.IsSupportedFormat(format) {
		return "", fmt.Errorf(invalidFormatMessage, format)
	}
	return format, nil
}

// resolveProjectRoot converts the optional path argument to a clean absolute
// directory path.
func resolveProjectRoot(arguments []string) (string, error) {
	inputPath := defaultPath
	if len(arguments) > 0 {
		inputPath = arguments[0]
	}
	absolutePath, absolutePathError := filepath.Abs(inputPath)
	if absolutePathError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	info, statError := os.Stat(cleanPath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return "", fmt.Errorf(errorPathMissingFormat, inputPath)
		}
		return "", fmt.Errorf(errorStatFormat, inputPath, statError)
	}
	if !info.IsDir() {
		return "", fmt.Errorf(errorNotDirectoryFormat, inputPath)
	}
	return cleanPath, nil
}
