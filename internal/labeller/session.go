package labeller

import (
	"fmt"
	"image"
	"math"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"

	"github.com/hedgerow-pam/birdprep/internal/conf"
	"github.com/hedgerow-pam/birdprep/internal/errors"
	"github.com/hedgerow-pam/birdprep/internal/logger"
	"github.com/hedgerow-pam/birdprep/internal/myaudio"
	"github.com/hedgerow-pam/birdprep/internal/partition"
	"github.com/hedgerow-pam/birdprep/internal/spectrogram"
)

const previewFileName = "preview.png"

// Player plays a chunk of audio. Stop must tolerate being called when
// nothing is playing.
type Player interface {
	Play(samples []float64, sampleRate int) error
	Stop() error
}

// Config is the part of the settings a Session needs. Paths must already
// be resolved.
type Config struct {
	Paths        conf.Paths
	ChunkSeconds float64
	Classes      []string
	DefaultClass string
	Spectrogram  conf.SpectrogramSettings
}

// ConfigFromSettings extracts a Config from settings.
func ConfigFromSettings(s *conf.Settings) Config {
	return Config{
		Paths:        s.Paths.Resolve(),
		ChunkSeconds: s.Labeller.ChunkSeconds,
		Classes:      slices.Clone(s.Labeller.Classes),
		DefaultClass: s.Labeller.DefaultClass,
		Spectrogram:  s.Spectrogram,
	}
}

// Session is one labelling session. It is not safe for concurrent use.
type Session struct {
	cfg    Config
	fs     afero.Fs
	gen    *spectrogram.Generator
	player Player
	log    logger.Logger

	state    State
	wavPath  string
	audio    *myaudio.Audio
	start    float64
	i0, i1   int
	chunk    []float64
	mel      *spectrogram.Mel
	preview  image.Image
	axes     Rect
	class    string
	boxes    []Box
	exported int

	detectionsPath string
	detections     *partition.Detections
}

// NewSession returns a session with no audio loaded. An empty DefaultClass
// selects the first class. player may be nil, in which case Play is
// rejected.
func NewSession(cfg Config, fs afero.Fs, player Player, log logger.Logger) (*Session, error) {
	if cfg.ChunkSeconds <= 0 {
		return nil, errors.ValidationError(fmt.Sprintf("chunk length must be positive, got %.3f", cfg.ChunkSeconds))
	}
	if len(cfg.Classes) == 0 {
		return nil, errors.ValidationError("at least one class is required")
	}

	class := cfg.DefaultClass
	if class == "" {
		class = cfg.Classes[0]
	}
	if !slices.Contains(cfg.Classes, class) {
		return nil, errors.ValidationError(fmt.Sprintf("default class %q is not a configured class", class))
	}

	log = logger.OrDiscard(log).Module(componentName)
	return &Session{
		cfg:    cfg,
		fs:     fs,
		gen:    spectrogram.NewGeneratorFromSettings(fs, cfg.Spectrogram, log),
		player: player,
		log:    log,
		class:  class,
	}, nil
}

// LoadAudio reads the WAV file at path, resets the chunk start to zero and
// loads the first chunk. A relative path is looked up in the wav directory.
func (s *Session) LoadAudio(path string) error {
	if path == "" {
		return userError("no wav file selected")
	}
	path = conf.InputPath(s.cfg.Paths.WavDir, path)

	a, err := myaudio.ReadWAV(s.fs, path)
	if err != nil {
		return err
	}
	if len(a.Samples) == 0 {
		return errors.Newf("recording has no samples").
			Component(componentName).
			Category(errors.CategoryAudio).
			FileContext(path).
			Build()
	}

	s.stopPlayback()
	s.wavPath = path
	s.audio = a
	s.start = 0
	s.i0, s.i1 = 0, 0
	s.chunk, s.mel, s.preview = nil, nil, nil
	s.boxes = nil
	s.state = StateAudioLoaded
	s.exported = 0
	s.log.Info("Loaded recording",
		logger.String("path", path),
		logger.Int("sample_rate", a.SampleRate),
		logger.Float64("duration", a.Duration()))

	return s.LoadChunk(0)
}

// LoadDetections reads the detection CSV of a recording as a reference
// table. A relative path is looked up in the split CSV directory. It does
// not depend on the audio state and replaces any table loaded before.
func (s *Session) LoadDetections(path string) error {
	if path == "" {
		return userError("no detection file selected")
	}
	path = conf.InputPath(s.cfg.Paths.CSVSplitDir, path)

	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return errors.FileError(err, path)
	}
	if !exists {
		return userError("detection file %s not found", path)
	}

	d, err := partition.ReadDetections(s.fs, path)
	if err != nil {
		return err
	}

	s.detectionsPath = path
	s.detections = d
	s.log.Info("Loaded detections",
		logger.String("path", path),
		logger.Int("rows", len(d.Rows)))
	return nil
}

// Detections returns the loaded detection table, or nil.
func (s *Session) Detections() *partition.Detections { return s.detections }

// LoadChunk shows the chunk starting at t seconds. t is clamped so the
// chunk fits the recording. Drawn boxes are discarded.
func (s *Session) LoadChunk(t float64) error {
	if s.state == StateNoAudio {
		return userError("load a wav file first")
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return userError("chunk start must be a finite number of seconds")
	}

	duration := s.audio.Duration()
	t = math.Max(0, math.Min(t, math.Max(0, duration-s.cfg.ChunkSeconds)))

	i0 := s.audio.SampleIndex(t)
	i1 := s.audio.SampleIndex(t + s.cfg.ChunkSeconds)
	chunk := s.audio.Slice(i0, i1)

	mel, img, err := s.gen.Render(chunk, s.audio.SampleRate)
	if err != nil {
		return err
	}
	if err := spectrogram.SavePNG(s.fs, s.PreviewPath(), img); err != nil {
		return err
	}

	s.stopPlayback()
	s.start = t
	s.i0, s.i1 = i0, min(max(i1, i0), len(s.audio.Samples))
	s.chunk = chunk
	s.mel = mel
	s.preview = img
	s.axes = Rect{Width: float64(img.Bounds().Dx()), Height: float64(img.Bounds().Dy())}
	s.boxes = nil
	s.state = StateChunkLoaded

	s.log.Debug("Loaded chunk",
		logger.Float64("start", t),
		logger.Int("first_sample", s.i0),
		logger.Int("last_sample", s.i1))
	return nil
}

// SetAxes replaces the on-screen axes rectangle used by Drag. Front ends
// that draw the preview with margins call this after every layout change.
func (s *Session) SetAxes(r Rect) error {
	if r.Width <= 0 || r.Height <= 0 {
		return userError("axes must have a positive size")
	}
	s.axes = r
	return nil
}

// View returns the data range the axes show.
func (s *Session) View() View {
	v := View{Duration: s.cfg.ChunkSeconds}
	if s.mel != nil {
		v.MinFreq, v.MaxFreq = s.mel.MinFreq, s.mel.MaxFreq
	}
	return v
}

// Drag adds a box for a drag gesture from a to b with the current class.
// Drags that leave the axes or have zero size are rejected and the box
// list is unchanged.
func (s *Session) Drag(a, b ScreenPoint) (Box, error) {
	if s.state != StateChunkLoaded {
		return Box{}, userError("load a chunk before drawing boxes")
	}

	display, geom, ok := Project(a, b, s.axes, s.View())
	if !ok {
		s.log.Debug("Rejected drag",
			logger.Any("from", a),
			logger.Any("to", b))
		return Box{}, userError("drag must stay inside the spectrogram and have a non-zero size")
	}

	box := Box{
		Class:      s.class,
		ClassIndex: slices.Index(s.cfg.Classes, s.class),
		Geometry:   geom,
		Display:    display,
	}
	s.boxes = append(s.boxes, box)
	s.log.Debug("Added box", logger.String("row", box.LabelRow()))
	return box, nil
}

// DeleteLastBox removes the most recent box. It does nothing when there
// are no boxes.
func (s *Session) DeleteLastBox() (Box, bool) {
	if len(s.boxes) == 0 {
		return Box{}, false
	}
	last := s.boxes[len(s.boxes)-1]
	s.boxes = s.boxes[:len(s.boxes)-1]
	return last, true
}

// ClearBoxes removes every box.
func (s *Session) ClearBoxes() {
	s.boxes = nil
}

// SetClass selects the class new boxes get.
func (s *Session) SetClass(name string) error {
	if !slices.Contains(s.cfg.Classes, name) {
		return userError("unknown class %q", name)
	}
	s.class = name
	return nil
}

// Play starts playback of the current chunk.
func (s *Session) Play() error {
	if s.state != StateChunkLoaded {
		return userError("load a chunk before playing")
	}
	if s.player == nil {
		return userError("audio playback is not available")
	}
	return s.player.Play(s.chunk, s.audio.SampleRate)
}

// Stop stops playback. It is a no-op when nothing is playing.
func (s *Session) Stop() error {
	if s.player == nil {
		return nil
	}
	return s.player.Stop()
}

func (s *Session) stopPlayback() {
	if err := s.Stop(); err != nil {
		s.log.Warn("Failed to stop playback", logger.Error(err))
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Boxes returns a copy of the boxes on the current chunk, oldest first.
func (s *Session) Boxes() []Box { return slices.Clone(s.boxes) }

// Class returns the selected class.
func (s *Session) Class() string { return s.class }

// Classes returns the configured classes in class-index order.
func (s *Session) Classes() []string { return slices.Clone(s.cfg.Classes) }

// Start returns the chunk start in seconds.
func (s *Session) Start() float64 { return s.start }

// Window returns the sample range [i0, i1) of the current chunk.
func (s *Session) Window() (i0, i1 int) { return s.i0, s.i1 }

// Chunk returns the samples of the current chunk.
func (s *Session) Chunk() []float64 { return s.chunk }

// Spectrogram returns the dB mel spectrogram of the current chunk.
func (s *Session) Spectrogram() *spectrogram.Mel { return s.mel }

// Preview returns the rendered spectrogram of the current chunk.
func (s *Session) Preview() image.Image { return s.preview }

// Axes returns the axes rectangle Drag projects against.
func (s *Session) Axes() Rect { return s.axes }

// Duration returns the length of the loaded recording in seconds.
func (s *Session) Duration() float64 { return s.audio.Duration() }

// PreviewPath is where the current chunk preview is written.
func (s *Session) PreviewPath() string {
	return filepath.Join(s.cfg.Paths.SpectrogramDir, myaudio.Stem(s.wavPath), previewFileName)
}

// Close stops playback.
func (s *Session) Close() error {
	return s.Stop()
}
