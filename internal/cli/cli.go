// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ADMhS/CodeContext/internal/config"
	"github.com/ADMhS/CodeContext/internal/types"
	"github.com/ADMhS/CodeContext/internal/utils"
)

const (
	configFlagName     = "config"
	verboseFlagName    = "verbose"
	versionFlagName    = "version"
	formatFlagName     = "format"
	formatFlagShort    = "f"
	outputFlagName     = "output"
	outputFlagShort    = "o"
	stdoutFlagName     = "stdout"
	copyFlagName       = "copy"
	forceFlagName      = "force"
	extensionFlagName  = "ext"
	exactNameFlagName  = "name"
	exclusionFlagName  = "e"
	noGitignoreFlagName = "no-gitignore"
	noIgnoreFlagName   = "no-ignore"
	includeGitFlagName = "git"
	tokensFlagName     = "tokens"
	modelFlagName      = "model"
	globalFlagName     = "global"

	configFlagDescription           = "path to an explicit configuration file"
	verboseFlagDescription          = "enable debug logging"
	versionFlagDescription          = "display application version"
	formatFlagDescription           = "output format"
	outputFlagDescription           = "export destination file"
	stdoutFlagDescription           = "print the export document instead of writing a file"
	copyFlagDescription             = "copy the result to the system clipboard"
	forceFlagDescription            = "overwrite an existing destination without prompting"
	extensionFlagDescription        = "allow-list file suffix (replaces the configured list)"
	exactNameFlagDescription        = "allow-list exact file name (replaces the configured list)"
	exclusionFlagDescription        = "exclude path pattern"
	disableGitignoreFlagDescription = "do not use .gitignore"
	disableIgnoreFlagDescription    = "do not use .ignore"
	includeGitFlagDescription       = "include git directory"
	tokensFlagDescription           = "include token counts"
	modelFlagDescription            = "tokenizer model to use for token counting"
	globalFlagDescription           = "write the global configuration file"

	versionTemplate = "codecontext version: %s\n"
	defaultPath     = "."
	rootUse         = "codecontext"

	rootShortDescription = "codecontext exports project structure and source code"
	rootLongDescription  = `codecontext renders a folder tree for the selected paths and concatenates
the allow-listed source files into a single export document.
Use --format to select raw, json, or xml output, --config to point at an
alternate configuration file, and --version to print the application version.`

	exportUse              = "export [paths...]"
	treeUse                = "tree [paths...]"
	initUse                = "init"
	exportAlias            = "x"
	treeAlias              = "t"
	exportShortDescription = "export folder tree and file contents (" + exportAlias + ")"
	treeShortDescription   = "display the folder tree (" + treeAlias + ")"
	initShortDescription   = "write a default configuration file"

	// exportLongDescription provides detailed help for the export command.
	exportLongDescription = `Scan the provided paths, render their folder tree, and concatenate every
allow-listed file into one document.
The document is written to the configured destination file unless --stdout
is given; --copy additionally places it on the clipboard.`
	// exportUsageExample demonstrates export command usage.
	exportUsageExample = `  # Export the current directory to project_export.txt
  codecontext export

  # Print the export as JSON, excluding the vendor directory
  codecontext export --format json -e vendor .

  # Export selected suffixes to a custom file with token counts
  codecontext export --ext .go --ext .md -o context.txt --tokens ./src`

	// treeLongDescription provides detailed help for the tree command.
	treeLongDescription = `Render the folder tree for one or more paths without file contents.
Use --format to select raw, json, or xml output.`
	// treeUsageExample demonstrates tree command usage.
	treeUsageExample = `  # Render the tree of the current directory
  codecontext tree

  # Render two roots as XML, honoring .gitignore
  codecontext tree --format xml ./cmd ./internal`

	// initLongDescription provides detailed help for the init command.
	initLongDescription = `Write the default YAML configuration file.
Without --global the file is created in the working directory; with --global
it is placed in the user configuration directory.`
	// initUsageExample demonstrates init command usage.
	initUsageExample = `  # Write .codecontext.yaml into the current directory
  codecontext init

  # Write the global configuration, replacing an existing file
  codecontext init --global --force`

	initSuccessMessageFormat  = "Configuration written to %s\n"
	invalidFormatMessage      = "invalid format value '%s'"
	unsupportedFormatsMessage = "supported formats: raw, json, xml"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNoValidPaths indicates that all paths are invalid.
	errorNoValidPaths = "no valid paths"
)

// application carries the state shared by every subcommand: the parsed root
// flags, the logger, and the loaded configuration.
type application struct {
	configFilePath string
	verbose        bool
	showVersion    bool

	logger        *zap.Logger
	configuration config.ApplicationConfiguration
}

// Execute runs the codecontext application.
func Execute(executionContext context.Context) error {
	app := &application{}
	rootCommand := app.createRootCommand()
	return rootCommand.ExecuteContext(executionContext)
}

// createRootCommand builds the root Cobra command.
func (app *application) createRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if app.showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
			return app.initialize(command)
		},
	}
	rootCommand.PersistentFlags().StringVar(&app.configFilePath, configFlagName, "", configFlagDescription)
	rootCommand.PersistentFlags().BoolVar(&app.verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.PersistentFlags().BoolVar(&app.showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		app.createExportCommand(),
		app.createTreeCommand(),
		app.createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// initialize builds the logger and loads the configuration files. The init
// command skips configuration loading so a broken file can be rewritten.
func (app *application) initialize(command *cobra.Command) error {
	logger, loggerError := utils.NewApplicationLogger(app.verbose)
	if loggerError != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
	}
	app.logger = logger

	if command.Name() == initUse {
		return nil
	}

	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	loadedConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: app.configFilePath,
	})
	if configurationError != nil {
		return configurationError
	}
	app.configuration = loadedConfiguration
	return nil
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

// resolveFormat applies the flag > configuration > default precedence for the
// output format and validates the result.
func resolveFormat(command *cobra.Command, flagValue, configuredValue string) (string, error) {
	resolved := types.FormatRaw
	if configuredValue != "" {
		resolved = configuredValue
	}
	if command.Flags().Changed(formatFlagName) {
		resolved = flagValue
	}
	resolved = strings.ToLower(resolved)
	if !isSupportedFormat(resolved) {
		return "", fmt.Errorf(invalidFormatMessage+"; "+unsupportedFormatsMessage, resolved)
	}
	return resolved, nil
}

// resolveBooleanOption applies the flag > configuration > default precedence
// for a boolean option whose configuration value may be unset.
func resolveBooleanOption(defaultValue bool, configured *bool, flagChanged bool, flagValue bool) bool {
	resolved := defaultValue
	if configured != nil {
		resolved = *configured
	}
	if flagChanged {
		resolved = flagValue
	}
	return resolved
}

// resolveAndValidatePaths converts input paths to absolute form and validates
// their existence. Duplicates are dropped.
func resolveAndValidatePaths(inputs []string) ([]types.ValidatedPath, error) {
	seen := make(map[string]struct{})
	var result []types.ValidatedPath
	for _, inputPath := range inputs {
		absolutePath, absolutePathError := filepath.Abs(inputPath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, ok := seen[cleanPath]; ok {
			continue
		}
		pathInformation, fileStatusError := os.Stat(cleanPath)
		if fileStatusError != nil {
			if os.IsNotExist(fileStatusError) {
				return nil, fmt.Errorf(errorPathMissingFormat, inputPath)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
		}
		seen[cleanPath] = struct{}{}
		result = append(result, types.ValidatedPath{AbsolutePath: cleanPath, IsDir: pathInformation.IsDir()})
	}
	if len(result) == 0 {
		return nil, fmt.Errorf(errorNoValidPaths)
	}
	return result, nil
}
