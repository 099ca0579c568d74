package showconfig

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hedgerow-pam/birdprep/internal/conf"
	"github.com/hedgerow-pam/birdprep/internal/config"
	"github.com/hedgerow-pam/birdprep/internal/output"
)

// Command creates the config command, which prints the effective settings
// as YAML or saves them to a file.
func Command(ctx *config.Context) *cobra.Command {
	var writePath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Print the configuration after defaults, config file, environment and flags are merged.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(ctx, writePath)
		},
	}

	cmd.Flags().StringVarP(&writePath, "write", "w", "", "Write the configuration to this YAML file instead of printing it")

	return cmd
}

func run(ctx *config.Context, writePath string) error {
	if writePath != "" {
		if err := conf.SaveYAMLConfig(writePath, ctx.Settings); err != nil {
			return err
		}
		output.Success(ctx.Out, "Wrote configuration to %s", writePath)
		return nil
	}

	text, err := ctx.Settings.MarshalYAMLText()
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.Out, text)
	return nil
}
