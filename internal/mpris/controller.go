package mpris

import (
	"errors"
	"net/url"
	"time"

	"github.com/llehouerou/tune/internal/playback"
)

// Controller is the part of the playback session driven by media controls.
// *playback.Session implements it.
type Controller interface {
	Select(path string) error
	TogglePlayPause() error
	Play() error
	Pause() error
	Stop() error
	SeekBy(delta time.Duration) error
	SeekTo(position time.Duration) error
	SetVolume(level float64)
	Volume() float64
	State() playback.State
	Poll(now time.Time) playback.Snapshot
}

var _ Controller = (*playback.Session)(nil)

// ErrUnsupportedURI is returned by OpenUri for anything but local files.
var ErrUnsupportedURI = errors.New("unsupported uri")

// pathToURI returns the file:// URI of a local path, percent-encoding
// spaces, '#', '%' and other reserved characters.
func pathToURI(path string) string {
	return (&url.URL{Scheme: "file", Path: path}).String()
}

// uriToPath converts a file:// URI (or a bare path) to a local path.
func uriToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "":
		return uri, nil
	case "file":
		if u.Path == "" {
			return "", ErrUnsupportedURI
		}
		return u.Path, nil
	default:
		return "", ErrUnsupportedURI
	}
}
