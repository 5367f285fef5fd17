package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ADMhS/CodeContext/internal/aggregate"
	"github.com/ADMhS/CodeContext/internal/commands"
	"github.com/ADMhS/CodeContext/internal/config"
	"github.com/ADMhS/CodeContext/internal/output"
	"github.com/ADMhS/CodeContext/internal/services/sink"
	"github.com/ADMhS/CodeContext/internal/tokenizer"
	"github.com/ADMhS/CodeContext/internal/types"
	"github.com/ADMhS/CodeContext/internal/utils"
)

// exportFlagValues stores the raw flag state of the export command.
type exportFlagValues struct {
	format            string
	outputPath        string
	stdoutEnabled     bool
	copyEnabled       bool
	forceOverwrite    bool
	extensions        []string
	exactNames        []string
	exclusionPatterns []string
	disableGitignore  bool
	disableIgnoreFile bool
	includeGit        bool
	tokensEnabled     bool
	tokenModel        string
}

// createExportCommand returns the export subcommand.
func (app *application) createExportCommand() *cobra.Command {
	var flagValues exportFlagValues

	exportCommand := &cobra.Command{
		Use:     exportUse,
		Aliases: []string{exportAlias},
		Short:   exportShortDescription,
		Long:    exportLongDescription,
		Example: exportUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) == 0 {
				arguments = []string{defaultPath}
			}
			return app.runExport(command, arguments, &flagValues)
		},
	}

	exportCommand.Flags().StringVarP(&flagValues.format, formatFlagName, formatFlagShort, types.FormatRaw, formatFlagDescription)
	exportCommand.Flags().StringVarP(&flagValues.outputPath, outputFlagName, outputFlagShort, utils.DefaultExportFileName, outputFlagDescription)
	registerBooleanFlag(exportCommand.Flags(), &flagValues.stdoutEnabled, stdoutFlagName, false, stdoutFlagDescription)
	registerBooleanFlag(exportCommand.Flags(), &flagValues.copyEnabled, copyFlagName, false, copyFlagDescription)
	exportCommand.Flags().BoolVar(&flagValues.forceOverwrite, forceFlagName, false, forceFlagDescription)
	exportCommand.Flags().StringArrayVar(&flagValues.extensions, extensionFlagName, nil, extensionFlagDescription)
	exportCommand.Flags().StringArrayVar(&flagValues.exactNames, exactNameFlagName, nil, exactNameFlagDescription)
	exportCommand.Flags().StringArrayVarP(&flagValues.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	exportCommand.Flags().BoolVar(&flagValues.disableGitignore, noGitignoreFlagName, false, disableGitignoreFlagDescription)
	exportCommand.Flags().BoolVar(&flagValues.disableIgnoreFile, noIgnoreFlagName, false, disableIgnoreFlagDescription)
	exportCommand.Flags().BoolVar(&flagValues.includeGit, includeGitFlagName, false, includeGitFlagDescription)
	registerBooleanFlag(exportCommand.Flags(), &flagValues.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	exportCommand.Flags().StringVar(&flagValues.tokenModel, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	return exportCommand
}

// runExport resolves the effective export options and executes the pipeline.
func (app *application) runExport(command *cobra.Command, arguments []string, flagValues *exportFlagValues) error {
	validatedPaths, pathValidationError := resolveAndValidatePaths(arguments)
	if pathValidationError != nil {
		return pathValidationError
	}

	exportConfiguration := app.configuration.Export
	flags := command.Flags()

	format, formatError := resolveFormat(command, flagValues.format, exportConfiguration.Format)
	if formatError != nil {
		return formatError
	}

	outputPath := utils.DefaultExportFileName
	if exportConfiguration.Output != "" {
		outputPath = exportConfiguration.Output
	}
	explicitOutput := flags.Changed(outputFlagName)
	if explicitOutput {
		outputPath = flagValues.outputPath
	}
	absoluteOutputPath, outputPathError := filepath.Abs(outputPath)
	if outputPathError != nil {
		return fmt.Errorf(errorAbsolutePathFormat, outputPath, outputPathError)
	}

	stdoutEnabled := resolveBooleanOption(false, exportConfiguration.Stdout, flags.Changed(stdoutFlagName), flagValues.stdoutEnabled)
	copyEnabled := resolveBooleanOption(false, exportConfiguration.Copy, flags.Changed(copyFlagName), flagValues.copyEnabled)
	tokensEnabled := resolveBooleanOption(false, exportConfiguration.Tokens.Enabled, flags.Changed(tokensFlagName), flagValues.tokensEnabled)
	useGitignore := resolveBooleanOption(true, exportConfiguration.Paths.UseGitignore, flags.Changed(noGitignoreFlagName), !flagValues.disableGitignore)
	useIgnoreFile := resolveBooleanOption(true, exportConfiguration.Paths.UseIgnoreFile, flags.Changed(noIgnoreFlagName), !flagValues.disableIgnoreFile)
	includeGit := resolveBooleanOption(false, exportConfiguration.Paths.IncludeGit, flags.Changed(includeGitFlagName), flagValues.includeGit)

	tokenModel := tokenizer.DefaultModel
	if exportConfiguration.Tokens.Model != "" {
		tokenModel = exportConfiguration.Tokens.Model
	}
	if flags.Changed(modelFlagName) {
		tokenModel = flagValues.tokenModel
	}
	var tokenCounter tokenizer.Counter
	if tokensEnabled {
		tokenCounter = tokenizer.NewCounter(tokenModel)
	}

	allowList := resolveAllowList(exportConfiguration, flags.Changed(extensionFlagName), flagValues.extensions,
		flags.Changed(exactNameFlagName), flagValues.exactNames)
	excludePatterns := config.CombineExclusionPatterns(exportConfiguration.Paths.Exclude, flagValues.exclusionPatterns, includeGit)

	exportOutput, runError := commands.RunExport(command.Context(), commands.ExportOptions{
		Roots:             validatedPaths,
		AllowList:         allowList,
		ExcludePatterns:   excludePatterns,
		UseGitignore:      useGitignore,
		UseIgnoreFile:     useIgnoreFile,
		SkipAbsolutePaths: []string{absoluteOutputPath},
		TokenCounter:      tokenCounter,
		Logger:            app.logger,
	})
	if runError != nil {
		return runError
	}

	if exportOutput.TotalFiles == 0 {
		app.logger.Debug("empty snapshot, nothing to export")
		return nil
	}

	rendered, renderError := renderExportDocument(format, exportOutput)
	if renderError != nil {
		return renderError
	}
	if format != types.FormatRaw && !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}

	for _, deliverySink := range app.exportSinks(flagValues, stdoutEnabled, copyEnabled, outputPath, explicitOutput) {
		if deliveryError := deliverySink.Deliver(rendered); deliveryError != nil {
			return deliveryError
		}
		app.logger.Debug("document delivered", zap.String("destination", deliverySink.Describe()))
	}
	app.logger.Debug(output.FormatSummaryLine(exportOutput))
	return nil
}

// exportSinks assembles the delivery chain: a primary sink (file or stdout)
// plus the clipboard when requested.
func (app *application) exportSinks(flagValues *exportFlagValues, stdoutEnabled, copyEnabled bool, outputPath string, explicitOutput bool) []sink.Sink {
	var sinks []sink.Sink
	if stdoutEnabled {
		sinks = append(sinks, &sink.StdoutSink{})
	} else {
		sinks = append(sinks, &sink.FileSink{
			Path:             outputPath,
			Force:            flagValues.forceOverwrite,
			ConfirmOverwrite: explicitOutput,
		})
	}
	if copyEnabled {
		sinks = append(sinks, &sink.ClipboardSink{})
	}
	return sinks
}

// renderExportDocument picks the representation for the requested format.
func renderExportDocument(format string, exportOutput *types.ExportOutput) (string, error) {
	switch format {
	case types.FormatJSON:
		return output.RenderExportJSON(exportOutput)
	case types.FormatXML:
		return output.RenderExportXML(exportOutput)
	default:
		return exportOutput.Document, nil
	}
}

// resolveAllowList starts from the built-in allow-list, applies configured
// overrides, then flag overrides. Suffixes are normalized to a leading dot.
func resolveAllowList(exportConfiguration config.ExportCommandConfiguration, extensionsChanged bool, flagExtensions []string, exactNamesChanged bool, flagExactNames []string) aggregate.AllowList {
	allowList := aggregate.DefaultAllowList()
	if len(exportConfiguration.Extensions) > 0 {
		allowList.Suffixes = normalizeAllowListSuffixes(exportConfiguration.Extensions)
	}
	if len(exportConfiguration.ExactNames) > 0 {
		allowList.ExactNames = utils.DeduplicatePatterns(exportConfiguration.ExactNames)
	}
	if extensionsChanged {
		allowList.Suffixes = normalizeAllowListSuffixes(flagExtensions)
	}
	if exactNamesChanged {
		allowList.ExactNames = utils.DeduplicatePatterns(flagExactNames)
	}
	return allowList
}

// normalizeAllowListSuffixes trims entries and ensures the leading dot.
func normalizeAllowListSuffixes(values []string) []string {
	normalized := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		normalized = append(normalized, trimmed)
	}
	return utils.DeduplicatePatterns(normalized)
}
