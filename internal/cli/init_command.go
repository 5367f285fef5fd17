package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ADMhS/CodeContext/internal/config"
)

// initFlagValues stores the raw flag state of the init command.
type initFlagValues struct {
	global bool
	force  bool
}

// createInitCommand returns the init subcommand.
func (app *application) createInitCommand() *cobra.Command {
	var flagValues initFlagValues

	initCommand := &cobra.Command{
		Use:     initUse,
		Short:   initShortDescription,
		Long:    initLongDescription,
		Example: initUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if flagValues.global {
				target = config.InitTargetGlobal
			}
			writtenPath, initializeError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  flagValues.force,
			})
			if initializeError != nil {
				return initializeError
			}
			fmt.Printf(initSuccessMessageFormat, writtenPath)
			return nil
		},
	}

	initCommand.Flags().BoolVar(&flagValues.global, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&flagValues.force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
