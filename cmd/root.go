package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hedgerow-pam/birdprep/cmd/chunk"
	"github.com/hedgerow-pam/birdprep/cmd/decompile"
	"github.com/hedgerow-pam/birdprep/cmd/label"
	"github.com/hedgerow-pam/birdprep/cmd/showconfig"
	"github.com/hedgerow-pam/birdprep/cmd/split"
	"github.com/hedgerow-pam/birdprep/internal/conf"
	"github.com/hedgerow-pam/birdprep/internal/config"
	"github.com/hedgerow-pam/birdprep/internal/errors"
)

// RootCommand creates and returns the root command
func RootCommand(ctx *config.Context) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "birdprep",
		Short:         "Prepare passive acoustic monitoring data for bird call training",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       ctx.Build.String(),
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, ctx, &configFile); err != nil {
		// flag names are static, a failure here is a programming error
		panic(err)
	}

	rootCmd.AddCommand(
		split.Command(ctx),
		decompile.Command(ctx),
		chunk.Command(ctx),
		label.Command(ctx),
		showconfig.Command(ctx),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initialize(ctx, configFile)
	}

	return rootCmd
}

// initialize loads settings after flags are parsed and before any
// subcommand runs, so flag values take precedence over file and environment.
func initialize(ctx *config.Context, configFile string) error {
	settings, err := conf.Load(ctx.Viper, configFile)
	if err != nil {
		return err
	}
	*ctx.Settings = *settings

	if err := ctx.InitLogging(); err != nil {
		return errors.New(err).
			Component("cmd").
			Category(errors.CategoryConfiguration).
			Build()
	}
	return nil
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, ctx *config.Context, configFile *string) error {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(configFile, "config", "c", "", "Path to config file (default: ./config.yaml or ~/.config/birdprep/config.yaml)")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("data-root", "", "Root data directory")
	flags.String("log-level", "", "Log level: debug, info, warn, error")

	bindings := map[string]string{
		"debug":          "debug",
		"paths.dataroot": "data-root",
		"log.level":      "log-level",
	}
	for key, flag := range bindings {
		if err := ctx.Viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return errors.Newf("error binding flag %s: %w", flag, err).
				Component("cmd").
				Category(errors.CategoryConfiguration).
				Build()
		}
	}
	return nil
}
