// Package labeller holds the state of an interactive spectrogram labelling
// session: the loaded recording, the visible chunk, its mel preview and the
// boxes drawn on it. Front ends drive a Session through its methods and
// render whatever it exposes.
package labeller

// State is the lifecycle position of a Session.
type State int

const (
	StateNoAudio State = iota
	StateAudioLoaded
	StateChunkLoaded
	StateExporting
)

func (s State) String() string {
	switch s {
	case StateNoAudio:
		return "no-audio"
	case StateAudioLoaded:
		return "audio-loaded"
	case StateChunkLoaded:
		return "chunk-loaded"
	case StateExporting:
		return "exporting"
	default:
		return "unknown"
	}
}
