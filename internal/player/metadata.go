package player

import (
	"os"
	"path/filepath"

	"github.com/dhowden/tag"
)

// TrackInfo is the descriptive metadata of an opened file.
type TrackInfo struct {
	Path       string
	Title      string
	Artist     string
	Album      string
	Year       int
	Format     string // "MP3", "WAV", "FLAC", "OGG"
	SampleRate int
}

// ReadTrackInfo reads tag metadata from path.
// The title falls back to the file name when the tag has none.
func ReadTrackInfo(path string) (*TrackInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}

	title := m.Title()
	if title == "" {
		title = filepath.Base(path)
	}

	artist := m.Artist()
	if artist == "" {
		artist = m.AlbumArtist()
	}

	return &TrackInfo{
		Path:   path,
		Title:  title,
		Artist: artist,
		Album:  m.Album(),
		Year:   m.Year(),
	}, nil
}
