package playback

import "path/filepath"

// Track is the selected file. A new selection replaces it; it is never mutated.
type Track struct {
	Path string
}

// Name returns the file name of the track.
func (t Track) Name() string {
	return filepath.Base(t.Path)
}
