package labeller

import (
	"fmt"
	"path/filepath"
)

// Status is a snapshot for a front end status line.
type Status struct {
	State        State
	Wav          string
	CSV          string
	Start        float64
	ChunkSeconds float64
	Duration     float64
	Class        string
	Boxes        int
	Exported     int
}

// Status returns the current session snapshot.
func (s *Session) Status() Status {
	st := Status{
		State:        s.state,
		Start:        s.start,
		ChunkSeconds: s.cfg.ChunkSeconds,
		Class:        s.class,
		Boxes:        len(s.boxes),
		Exported:     s.exported,
	}
	if s.detections != nil {
		st.CSV = filepath.Base(s.detectionsPath)
	}
	if s.audio != nil {
		st.Wav = filepath.Base(s.wavPath)
		st.Duration = s.audio.Duration()
	}
	return st
}

func (st Status) String() string {
	return fmt.Sprintf("Wav: %s | CSV: %s | Start: %.3fs | Chunk: %.1fs | Class: %s | Boxes: %d",
		orNone(st.Wav), orNone(st.CSV), st.Start, st.ChunkSeconds, st.Class, st.Boxes)
}

func orNone(name string) string {
	if name == "" {
		return "none"
	}
	return name
}
