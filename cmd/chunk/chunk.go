package chunk

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hedgerow-pam/birdprep/internal/conf"
	"github.com/hedgerow-pam/birdprep/internal/config"
	"github.com/hedgerow-pam/birdprep/internal/errors"
	"github.com/hedgerow-pam/birdprep/internal/logger"
	"github.com/hedgerow-pam/birdprep/internal/myaudio"
	"github.com/hedgerow-pam/birdprep/internal/output"
	"github.com/hedgerow-pam/birdprep/internal/spectrogram"
)

// Command creates the chunk command, which cuts a recording into
// overlapping fixed-length WAV chunks.
func Command(ctx *config.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chunk [recording.wav]",
		Short: "Cut a recording into overlapping chunks",
		Long: `Cut a recording into fixed-length chunks whose starts are one hop apart.
Only full chunks are written, to <chunk dir>/<recording>/<recording>_NNNN.wav.
With --spectrograms a mel spectrogram PNG is rendered for every chunk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), ctx, args[0])
		},
	}

	setupFlags(cmd, ctx)
	return cmd
}

func setupFlags(cmd *cobra.Command, ctx *config.Context) {
	cmd.Flags().Float64("length", 0, "Chunk length in seconds (default: chunker.chunkseconds)")
	cmd.Flags().Float64("hop", 0, "Seconds between chunk starts (default: chunker.hopseconds)")
	cmd.Flags().Bool("spectrograms", false, "Render a spectrogram PNG per chunk")

	for key, flag := range map[string]string{
		"chunker.chunkseconds": "length",
		"chunker.hopseconds":   "hop",
		"chunker.spectrograms": "spectrograms",
	} {
		_ = ctx.Viper.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

func run(cctx context.Context, ctx *config.Context, name string) error {
	log := ctx.Logger("chunk")
	paths := ctx.Paths()
	settings := ctx.Settings.Chunker
	input := conf.InputPath(paths.WavDir, name)
	start := time.Now()

	recording, err := myaudio.ReadWAV(ctx.Fs, input)
	if err != nil {
		return err
	}

	segments, err := myaudio.Chunk(recording.Samples, recording.SampleRate, settings.ChunkSeconds, settings.HopSeconds)
	if err != nil {
		return err
	}
	if len(segments) == 0 {
		output.Notice(ctx.Out, "%s is %.2fs long, shorter than one %.2fs chunk; nothing written",
			input, recording.Duration(), settings.ChunkSeconds)
		return nil
	}

	var gen *spectrogram.Generator
	if settings.Spectrograms {
		gen = spectrogram.NewGeneratorFromSettings(ctx.Fs, ctx.Settings.Spectrogram, log)
	}

	stem := myaudio.Stem(input)
	for _, seg := range segments {
		if err := cctx.Err(); err != nil {
			return errors.New(err).
				Component("chunk").
				Category(errors.CategoryState).
				Context("written", seg.Index).
				Build()
		}

		wavPath := myaudio.ChunkPath(paths.ChunkDir, stem, seg.Index, ".wav")
		if err := myaudio.WriteWAV(ctx.Fs, wavPath, seg.Samples, recording.SampleRate); err != nil {
			return err
		}
		if gen != nil {
			pngPath := myaudio.ChunkPath(paths.SpectrogramDir, stem, seg.Index, ".png")
			if _, err := gen.GeneratePNG(seg.Samples, recording.SampleRate, pngPath); err != nil {
				return err
			}
		}
		log.Debug("Wrote chunk",
			logger.String("path", wavPath),
			logger.Float64("start", seg.StartSeconds(recording.SampleRate)))
	}

	log.Info("Chunked recording",
		logger.String("input", input),
		logger.Int("chunks", len(segments)),
		logger.Duration("elapsed", time.Since(start)))
	output.Success(ctx.Out, "Wrote %d chunks of %.2fs to %s",
		len(segments), settings.ChunkSeconds, filepath.Join(paths.ChunkDir, stem))
	return nil
}
