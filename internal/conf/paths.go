package conf

import "path/filepath"

// Resolve returns a copy of p with every relative subdirectory joined onto DataRoot.
func (p Paths) Resolve() Paths {
	join := func(dir string) string {
		if dir == "" || filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(p.DataRoot, dir)
	}

	return Paths{
		DataRoot:       p.DataRoot,
		CSVRawDir:      join(p.CSVRawDir),
		CSVSplitDir:    join(p.CSVSplitDir),
		WavDir:         join(p.WavDir),
		ChunkDir:       join(p.ChunkDir),
		SpectrogramDir: join(p.SpectrogramDir),
		LabelDir:       join(p.LabelDir),
	}
}

// InputPath resolves a positional input file argument. Bare or relative
// names are taken relative to dir; absolute paths are kept.
func InputPath(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
