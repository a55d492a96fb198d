package playback

import (
	"fmt"
	"time"
)

// Snapshot is the displayable playback state returned by Poll.
type Snapshot struct {
	State    State
	Path     string
	Title    string
	Artist   string
	Album    string
	Elapsed  time.Duration // never exceeds Total
	Total    time.Duration // zero until the track has been opened once
	Fraction float64       // in [0,1]
	Volume   float64
}

// ElapsedString renders Elapsed as MM:SS.
func (s Snapshot) ElapsedString() string { return FormatClock(s.Elapsed) }

// TotalString renders Total as MM:SS.
func (s Snapshot) TotalString() string { return FormatClock(s.Total) }

// FormatClock renders d as zero-padded minutes and seconds, e.g. "02:00".
func FormatClock(d time.Duration) string {
	secs := int(max(d, 0) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Poll recomputes the position at now and returns it.
//
// While Playing, reaching the track length (by wall clock, or because the
// sink drained its source) ends the track: the handle is released and the
// session stops at fraction 1. In other states the position is left as is.
func (s *Session) Poll(now time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.advanceLocked(now)
	return s.snapshotLocked(now)
}

// advanceLocked updates progress from the anchor and reports whether the
// track ended.
func (s *Session) advanceLocked(now time.Time) bool {
	if s.state != StatePlaying {
		return false
	}

	elapsed := now.Sub(s.anchor)
	if elapsed >= s.total || s.handle.finished() {
		s.finishLocked()
		return true
	}
	s.progress = clamp01(float64(elapsed) / float64(s.total))
	return false
}

func (s *Session) finishLocked() {
	s.teardownLocked()
	s.progress = 1
	s.setStateLocked(StateStopped)

	s.log.Debug().Str("path", s.track.Path).Msg("end of track")
	s.emitEnd(EndOfTrack{Track: *s.track})
}

// positionLocked returns the elapsed time at now, within [0, total].
func (s *Session) positionLocked(now time.Time) time.Duration {
	if s.state == StatePlaying {
		return min(max(now.Sub(s.anchor), 0), s.total)
	}
	return scale(s.total, s.progress)
}

func (s *Session) snapshotLocked(now time.Time) Snapshot {
	snap := Snapshot{
		State:    s.state,
		Elapsed:  s.positionLocked(now),
		Total:    s.total,
		Fraction: s.progress,
		Volume:   s.volume,
	}
	if s.track != nil {
		snap.Path = s.track.Path
		snap.Title = s.track.Name()
	}
	if s.info != nil {
		if s.info.Title != "" {
			snap.Title = s.info.Title
		}
		snap.Artist = s.info.Artist
		snap.Album = s.info.Album
	}
	return snap
}
