//go:build linux

package mpris

import (
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/rs/zerolog"

	"github.com/llehouerou/tune/internal/player"
	"github.com/llehouerou/tune/internal/playback"
)

// Adapter exposes a playback session over MPRIS2 on the session D-Bus.
type Adapter struct {
	server *server.Server
	log    zerolog.Logger
}

// New creates and starts a new MPRIS adapter.
func New(ctrl Controller, log zerolog.Logger) (*Adapter, error) {
	a := &Adapter{
		log: log.With().Str("component", "mpris").Logger(),
	}

	a.server = server.NewServer("tune", &rootAdapter{}, &playerAdapter{ctrl: ctrl, now: time.Now})

	go func() {
		if err := a.server.Listen(); err != nil {
			a.log.Warn().Err(err).Msg("mpris server stopped")
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Tune", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/wav", "audio/x-wav", "audio/flac", "audio/ogg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	ctrl Controller
	now  func() time.Time
}

// Next and Previous have nothing to move to: one track at a time.
func (p *playerAdapter) Next() error     { return nil }
func (p *playerAdapter) Previous() error { return nil }

func (p *playerAdapter) Pause() error {
	return ignoreNoTrack(p.ctrl.Pause())
}

func (p *playerAdapter) PlayPause() error {
	return p.ctrl.TogglePlayPause()
}

func (p *playerAdapter) Stop() error {
	return ignoreNoTrack(p.ctrl.Stop())
}

// ignoreNoTrack turns ErrNoTrack into a no-op: MPRIS Play, Pause and Stop
// without a track are not errors.
func ignoreNoTrack(err error) error {
	if errors.Is(err, playback.ErrNoTrack) {
		return nil
	}
	return err
}

func (p *playerAdapter) Play() error {
	return ignoreNoTrack(p.ctrl.Play())
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	return p.ctrl.SeekBy(time.Duration(offset) * time.Microsecond)
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	return p.ctrl.SeekTo(time.Duration(position) * time.Microsecond)
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(uri string) error {
	path, err := uriToPath(uri)
	if err != nil {
		return err
	}
	if !player.IsMusicFile(path) {
		return fmt.Errorf("%w: %s", player.ErrUnsupportedFormat, path)
	}
	if err := p.ctrl.Select(path); err != nil {
		return err
	}
	return p.ctrl.Play()
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.ctrl.Poll(p.now()).State {
	case playback.StatePlaying:
		return types.PlaybackStatusPlaying, nil
	case playback.StatePaused:
		return types.PlaybackStatusPaused, nil
	case playback.StateEmpty, playback.StateStopped:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	snap := p.ctrl.Poll(p.now())
	if snap.Path == "" {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(snap.Path)),
		Length:  types.Microseconds(snap.Total.Microseconds()),
		Title:   snap.Title,
		Album:   snap.Album,
		Url:     pathToURI(snap.Path),
	}
	if snap.Artist != "" {
		meta.Artist = []string{snap.Artist}
	}
	if artPath := FindAlbumArt(snap.Path); artPath != "" {
		meta.ArtUrl = pathToURI(artPath)
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.ctrl.Volume(), nil
}

func (p *playerAdapter) SetVolume(level float64) error {
	p.ctrl.SetVolume(level)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.ctrl.Poll(p.now()).Elapsed.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.ctrl.State() != playback.StateEmpty, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.ctrl.State().IsActive(), nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.ctrl.Poll(p.now()).Total > 0, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(path string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
