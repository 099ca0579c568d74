package label

import (
	"github.com/spf13/cobra"

	"github.com/hedgerow-pam/birdprep/internal/config"
	"github.com/hedgerow-pam/birdprep/internal/labeller"
	"github.com/hedgerow-pam/birdprep/internal/playback"
)

// Command creates the label command, an interactive session for drawing
// detection boxes on chunk spectrograms.
func Command(ctx *config.Context) *cobra.Command {
	var (
		noAudio    bool
		detections string
	)

	cmd := &cobra.Command{
		Use:   "label [recording.wav]",
		Short: "Interactively label spectrogram chunks",
		Long: `Start an interactive labelling session. Each chunk is rendered to a
preview PNG in the spectrogram directory; boxes are entered as pixel
coordinates on that image. Type "help" inside the session for commands.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := ctx.Logger("label")

			var player labeller.Player
			if !noAudio {
				p := playback.NewPlayer(log)
				defer p.Close()
				player = p
			}

			session, err := labeller.NewSession(labeller.ConfigFromSettings(ctx.Settings), ctx.Fs, player, log)
			if err != nil {
				return err
			}
			defer session.Close()

			r := newREPL(session, ctx.In, ctx.Out)
			if len(args) == 1 {
				r.exec("load " + args[0])
			}
			if detections != "" {
				r.exec("csv " + detections)
			}
			return r.run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&noAudio, "no-audio", false, "Disable audio playback")
	cmd.Flags().StringVar(&detections, "csv", "", "Detection CSV to show for reference, relative to the split CSV directory")
	cmd.Flags().Float64("chunk", 0, "Chunk length in seconds (default: labeller.chunkseconds)")
	cmd.Flags().String("class", "", "Initially selected class (default: labeller.defaultclass)")
	_ = ctx.Viper.BindPFlag("labeller.chunkseconds", cmd.Flags().Lookup("chunk"))
	_ = ctx.Viper.BindPFlag("labeller.defaultclass", cmd.Flags().Lookup("class"))

	return cmd
}
