package split

import (
	"github.com/spf13/cobra"

	"github.com/hedgerow-pam/birdprep/internal/conf"
	"github.com/hedgerow-pam/birdprep/internal/config"
	"github.com/hedgerow-pam/birdprep/internal/logger"
	"github.com/hedgerow-pam/birdprep/internal/output"
	"github.com/hedgerow-pam/birdprep/internal/partition"
)

// Command creates the split command, which partitions a detection CSV into
// one file per 20-minute recording.
func Command(ctx *config.Context) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "split [detections.csv]",
		Short: "Split a detection CSV into one file per recording",
		Long: `Split a detection CSV into one CSV per 20-minute recording window.
Relative input names are read from the raw CSV directory. Output files are
named <yyyyMMdd_HHMMSS>.csv and written to the split CSV directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(ctx, args[0], list)
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List the generated files in chronological order")
	cmd.Flags().StringP("output", "o", "", "Output directory (default: paths.csvsplitdir)")
	_ = ctx.Viper.BindPFlag("paths.csvsplitdir", cmd.Flags().Lookup("output"))

	return cmd
}

func run(ctx *config.Context, name string, list bool) error {
	log := ctx.Logger("split")
	paths := ctx.Paths()
	input := conf.InputPath(paths.CSVRawDir, name)

	res, err := partition.ReadFile(ctx.Fs, input)
	if err != nil {
		return err
	}
	log.Info("Partitioned detections",
		logger.String("input", input),
		logger.Int("rows", res.Rows),
		logger.Int("recordings", res.Table.Len()),
		logger.Int("species", len(res.Species)))

	summary, err := partition.NewWriter(ctx.Fs, paths.CSVSplitDir, log).Write(res.Header, res.Table)
	if err != nil {
		return err
	}

	output.PrintSplitSummary(ctx.Out, summary, len(res.Species))
	if list {
		output.PrintRecordingFiles(ctx.Out, paths.CSVSplitDir, res.Table.Keys())
	}
	output.PrintFrequencyReport(ctx.Out, partition.FrequencyReport(res.Species))
	return nil
}
