package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ADMhS/CodeContext/internal/commands"
	"github.com/ADMhS/CodeContext/internal/config"
	"github.com/ADMhS/CodeContext/internal/output"
	"github.com/ADMhS/CodeContext/internal/services/sink"
	"github.com/ADMhS/CodeContext/internal/types"
)

// treeFlagValues stores the raw flag state of the tree command.
type treeFlagValues struct {
	format            string
	copyEnabled       bool
	exclusionPatterns []string
	disableGitignore  bool
	disableIgnoreFile bool
	includeGit        bool
}

// createTreeCommand returns the tree subcommand.
func (app *application) createTreeCommand() *cobra.Command {
	var flagValues treeFlagValues

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) == 0 {
				arguments = []string{defaultPath}
			}
			return app.runTree(command, arguments, &flagValues)
		},
	}

	treeCommand.Flags().StringVarP(&flagValues.format, formatFlagName, formatFlagShort, types.FormatRaw, formatFlagDescription)
	registerBooleanFlag(treeCommand.Flags(), &flagValues.copyEnabled, copyFlagName, false, copyFlagDescription)
	treeCommand.Flags().StringArrayVarP(&flagValues.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	treeCommand.Flags().BoolVar(&flagValues.disableGitignore, noGitignoreFlagName, false, disableGitignoreFlagDescription)
	treeCommand.Flags().BoolVar(&flagValues.disableIgnoreFile, noIgnoreFlagName, false, disableIgnoreFlagDescription)
	treeCommand.Flags().BoolVar(&flagValues.includeGit, includeGitFlagName, false, includeGitFlagDescription)
	return treeCommand
}

// runTree resolves the effective tree options and prints the snapshot tree.
func (app *application) runTree(command *cobra.Command, arguments []string, flagValues *treeFlagValues) error {
	validatedPaths, pathValidationError := resolveAndValidatePaths(arguments)
	if pathValidationError != nil {
		return pathValidationError
	}

	treeConfiguration := app.configuration.Tree
	flags := command.Flags()

	format, formatError := resolveFormat(command, flagValues.format, treeConfiguration.Format)
	if formatError != nil {
		return formatError
	}

	copyEnabled := resolveBooleanOption(false, treeConfiguration.Copy, flags.Changed(copyFlagName), flagValues.copyEnabled)
	useGitignore := resolveBooleanOption(true, treeConfiguration.Paths.UseGitignore, flags.Changed(noGitignoreFlagName), !flagValues.disableGitignore)
	useIgnoreFile := resolveBooleanOption(true, treeConfiguration.Paths.UseIgnoreFile, flags.Changed(noIgnoreFlagName), !flagValues.disableIgnoreFile)
	includeGit := resolveBooleanOption(false, treeConfiguration.Paths.IncludeGit, flags.Changed(includeGitFlagName), flagValues.includeGit)
	excludePatterns := config.CombineExclusionPatterns(treeConfiguration.Paths.Exclude, flagValues.exclusionPatterns, includeGit)

	treeResult, runError := commands.RunTree(command.Context(), commands.TreeOptions{
		Roots:           validatedPaths,
		ExcludePatterns: excludePatterns,
		UseGitignore:    useGitignore,
		UseIgnoreFile:   useIgnoreFile,
		Logger:          app.logger,
	})
	if runError != nil {
		return runError
	}

	rendered, renderError := renderTreeDocument(format, treeResult)
	if renderError != nil {
		return renderError
	}
	if format == types.FormatRaw {
		fmt.Print(rendered)
	} else {
		fmt.Println(rendered)
	}

	if copyEnabled && rendered != "" {
		clipboardSink := &sink.ClipboardSink{}
		if deliveryError := clipboardSink.Deliver(rendered); deliveryError != nil {
			return deliveryError
		}
	}
	return nil
}

// renderTreeDocument picks the representation for the requested format.
func renderTreeDocument(format string, treeResult *commands.TreeResult) (string, error) {
	switch format {
	case types.FormatJSON:
		return output.RenderTreeJSON(treeResult.Nodes)
	case types.FormatXML:
		return output.RenderTreeXML(treeResult.Nodes)
	default:
		return treeResult.Rendered, nil
	}
}
