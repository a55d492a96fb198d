package app

import (
	"strings"

	"github.com/llehouerou/tune/internal/mpris"
	"github.com/llehouerou/tune/internal/notify"
	"github.com/llehouerou/tune/internal/playback"
)

// sendNowPlayingNotification announces the current track. Repeated
// announcements replace the previous popup.
func (m *Model) sendNowPlayingNotification() {
	if m.notifier == nil || !m.notifyCfg.NowPlayingEnabled() {
		return
	}
	s := m.snapshot
	title := s.Title
	if title == "" {
		title = playback.Track{Path: s.Path}.Name()
	}

	var body []string
	if s.Artist != "" {
		body = append(body, s.Artist)
	}
	if s.Album != "" {
		body = append(body, s.Album)
	}

	n := notify.Notification{
		Title:      title,
		Body:       strings.Join(body, " · "),
		Timeout:    m.notifyCfg.GetTimeout(),
		ReplacesID: m.lastNowPlayingID,
		Urgency:    notify.UrgencyLow,
	}
	if m.notifyCfg.AlbumArtEnabled() {
		n.Icon = mpris.FindAlbumArt(s.Path)
	}

	id, err := m.notifier.Notify(n)
	if err != nil {
		m.log.Debug().Err(err).Msg("now playing notification failed")
		return
	}
	m.lastNowPlayingID = id
}

func (m *Model) sendErrorNotification(e *playback.Error) {
	if m.notifier == nil || !m.notifyCfg.ErrorsEnabled() {
		return
	}
	_, err := m.notifier.Notify(notify.Notification{
		Title:   "Playback failed",
		Body:    e.Message(),
		Timeout: m.notifyCfg.GetTimeout(),
		Urgency: notify.UrgencyCritical,
	})
	if err != nil {
		m.log.Debug().Err(err).Msg("error notification failed")
	}
}
