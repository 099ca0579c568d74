package decompile

import (
	"github.com/spf13/cobra"

	"github.com/hedgerow-pam/birdprep/internal/conf"
	"github.com/hedgerow-pam/birdprep/internal/config"
	"github.com/hedgerow-pam/birdprep/internal/errors"
	"github.com/hedgerow-pam/birdprep/internal/logger"
	"github.com/hedgerow-pam/birdprep/internal/output"
	"github.com/hedgerow-pam/birdprep/internal/partition"
)

// Command creates the decompile command, which splits a compiled
// multi-site CSV into one CSV per recording location.
func Command(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decompile [compiled.csv]",
		Short: "Split a compiled detection CSV by recording location",
		Long: `Split a compiled detection CSV into one CSV per recording location.
Only locations listed in decompile.locations are kept. Files are written to the
raw CSV directory as <location>.csv, ready for split.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(ctx, args[0])
		},
	}

	cmd.Flags().StringSlice("location", nil, "Location to keep (repeatable, default: decompile.locations)")
	_ = ctx.Viper.BindPFlag("decompile.locations", cmd.Flags().Lookup("location"))

	return cmd
}

func run(ctx *config.Context, name string) error {
	log := ctx.Logger("decompile")
	paths := ctx.Paths()
	input := conf.InputPath(paths.CSVRawDir, name)
	locations := ctx.Settings.Decompile.Locations
	if len(locations) == 0 {
		return errors.UserInputError("no locations configured; set decompile.locations or pass --location")
	}

	f, err := ctx.Fs.Open(input)
	if err != nil {
		return errors.FileError(err, input)
	}
	defer f.Close()

	res, err := partition.PartitionByLocation(f, locations)
	if err != nil {
		return errors.Wrap(err).Component("decompile").FileContext(input).Build()
	}

	written, err := partition.WriteLocations(ctx.Fs, paths.CSVRawDir, res)
	if err != nil {
		return err
	}

	log.Info("Split detections by location",
		logger.String("input", input),
		logger.Int("rows", res.Rows),
		logger.Int("skipped", res.Skipped),
		logger.Int("files", len(written)))

	output.PrintPaths(ctx.Out, "Location files", written)
	output.Info(ctx.Out, "%d rows kept, %d rows from other locations skipped", res.Rows, res.Skipped)
	return nil
}
