// Package playback plays mono sample buffers on the default output device
// through miniaudio.
package playback

import (
	"encoding/binary"
	"math"
	"runtime"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/hedgerow-pam/birdprep/internal/errors"
	"github.com/hedgerow-pam/birdprep/internal/logger"
)

const componentName = "playback"

// Player plays one buffer at a time. Starting a new buffer stops the
// previous one. Play returns once the device is running.
type Player struct {
	mu     sync.Mutex
	ctx    *malgo.AllocatedContext
	device *malgo.Device
	stream *pcmStream
	log    logger.Logger
}

// NewPlayer returns a Player. The audio context is initialised on the
// first Play.
func NewPlayer(log logger.Logger) *Player {
	return &Player{log: logger.OrDiscard(log).Module(componentName)}
}

// Play starts playback of samples at sampleRate.
func (p *Player) Play(samples []float64, sampleRate int) error {
	if sampleRate <= 0 {
		return playbackError(errors.NewStd("sample rate must be positive"), "play")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	if err := p.initContextLocked(); err != nil {
		return err
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = 1
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	stream := newPCMStream(samples)
	callbacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, _ uint32) {
			stream.read(out)
		},
	}

	device, err := malgo.InitDevice(p.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return playbackError(err, "init_device")
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return playbackError(err, "start_device")
	}

	p.device = device
	p.stream = stream
	p.log.Debug("Started playback",
		logger.Int("samples", len(samples)),
		logger.Int("sample_rate", sampleRate))
	return nil
}

// Stop halts playback. It is safe to call when nothing is playing.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	return nil
}

// Playing reports whether a buffer is still being played.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.device != nil && !p.stream.done()
}

// Close stops playback and releases the audio context.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	if p.ctx == nil {
		return nil
	}
	err := p.ctx.Uninit()
	p.ctx.Free()
	p.ctx = nil
	if err != nil {
		return playbackError(err, "uninit_context")
	}
	return nil
}

func (p *Player) stopLocked() {
	if p.device == nil {
		return
	}
	if err := p.device.Stop(); err != nil {
		p.log.Warn("Failed to stop playback device", logger.Error(err))
	}
	p.device.Uninit()
	p.device = nil
	p.stream = nil
	p.log.Debug("Stopped playback")
}

func (p *Player) initContextLocked() error {
	if p.ctx != nil {
		return nil
	}

	// nil lets miniaudio pick the backend on platforms without a preference
	var backends []malgo.Backend
	switch runtime.GOOS {
	case "linux":
		backends = []malgo.Backend{malgo.BackendAlsa}
	case "windows":
		backends = []malgo.Backend{malgo.BackendWasapi}
	case "darwin":
		backends = []malgo.Backend{malgo.BackendCoreaudio}
	}

	ctx, err := malgo.InitContext(backends, malgo.ContextConfig{}, func(message string) {
		p.log.Debug("miniaudio", logger.String("message", message))
	})
	if err != nil {
		return playbackError(err, "init_context")
	}
	p.ctx = ctx
	return nil
}

func playbackError(err error, operation string) error {
	return errors.New(err).
		Component(componentName).
		Category(errors.CategoryPlayback).
		Context("operation", operation).
		Build()
}

// pcmStream feeds little-endian 16-bit PCM to the device callback and
// writes silence once the buffer is exhausted.
type pcmStream struct {
	mu   sync.Mutex
	data []byte
	pos  int
}

func newPCMStream(samples []float64) *pcmStream {
	data := make([]byte, 2*len(samples))
	for i, s := range samples {
		s = math.Max(-1, math.Min(1, s))
		binary.LittleEndian.PutUint16(data[2*i:], uint16(int16(math.Round(s*math.MaxInt16))))
	}
	return &pcmStream{data: data}
}

// read copies the next len(out) bytes into out and reports how many came
// from the buffer.
func (s *pcmStream) read(out []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := copy(out, s.data[s.pos:])
	s.pos += n
	clear(out[n:])
	return n
}

// done reports whether every sample has been handed to the device.
func (s *pcmStream) done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos >= len(s.data)
}
