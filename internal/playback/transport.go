package playback

import (
	"math"
	"time"

	"github.com/llehouerou/tune/internal/errmsg"
)

// TogglePlayPause starts playback from Stopped, pauses from Playing and
// resumes from Paused.
//
// Starting from Stopped opens the file, skips to the current position and
// claims the output device. A position at the very end restarts the track.
func (s *Session) TogglePlayPause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(); err != nil {
		return err
	}

	if s.state == StatePlaying {
		s.pauseLocked(s.now())
		return nil
	}
	return s.playLocked(s.now())
}

// Play starts or resumes playback. It does nothing while already Playing.
func (s *Session) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(); err != nil {
		return err
	}

	if s.state == StatePlaying {
		return nil
	}
	return s.playLocked(s.now())
}

// Pause pauses playback. It does nothing unless Playing.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(); err != nil {
		return err
	}

	if s.state == StatePlaying {
		s.pauseLocked(s.now())
	}
	return nil
}

// checkLocked rejects commands on a closed session or one without a track.
func (s *Session) checkLocked() error {
	if s.closed {
		return ErrClosed
	}
	if s.state == StateEmpty {
		return ErrNoTrack
	}
	return nil
}

// playLocked starts from Stopped or resumes from Paused.
func (s *Session) playLocked(now time.Time) error {
	switch s.state {
	case StateStopped:
		from := s.progress
		if from >= 1 {
			from = 0
		}
		return s.startLocked(errmsg.OpPlaybackStart, from)
	case StatePaused:
		s.handle.sink.Play()
		s.anchor = now.Add(-scale(s.total, s.progress))
		s.setStateLocked(StatePlaying)
	case StateEmpty, StatePlaying:
	}
	return nil
}

// pauseLocked pauses a Playing session, unless the track already ended.
func (s *Session) pauseLocked(now time.Time) {
	if s.advanceLocked(now) {
		return
	}
	s.handle.sink.Pause()
	s.setStateLocked(StatePaused)
}

// Seek moves to fraction of the track, clamped into [0,1].
//
// While Playing a new handle is opened at the target right away. While
// Paused or Stopped the handle is dropped and only the position moves; the
// device is opened on the next play.
func (s *Session) Seek(fraction float64) error {
	if math.IsNaN(fraction) {
		return ErrInvalidFraction
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seekLocked(clamp01(fraction))
}

// SeekBy moves the position by delta. It is a no-op while the track length
// is still unknown (before the first play).
func (s *Session) SeekBy(delta time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(); err != nil {
		return err
	}
	if s.total <= 0 {
		return nil
	}
	now := s.now()
	s.advanceLocked(now)
	target := s.positionLocked(now) + delta
	return s.seekLocked(clamp01(float64(target) / float64(s.total)))
}

// SeekTo moves to an absolute position. Like SeekBy it needs a known length.
func (s *Session) SeekTo(position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(); err != nil {
		return err
	}
	if s.total <= 0 {
		return nil
	}
	return s.seekLocked(clamp01(float64(position) / float64(s.total)))
}

// Replay restarts the track from the beginning and plays it, whatever the
// current state.
func (s *Session) Replay() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(); err != nil {
		return err
	}

	if err := s.startLocked(errmsg.OpPlaybackReplay, 0); err != nil {
		return err
	}
	s.emitPosition(PositionChange{})
	return nil
}

func (s *Session) seekLocked(fraction float64) error {
	if err := s.checkLocked(); err != nil {
		return err
	}

	switch s.state {
	case StateEmpty:
	case StatePlaying:
		if err := s.startLocked(errmsg.OpPlaybackSeek, fraction); err != nil {
			return err
		}
	case StateStopped, StatePaused:
		s.teardownLocked()
		s.progress = fraction
		s.setStateLocked(StateStopped)
	}

	s.emitPosition(PositionChange{Position: scale(s.total, fraction), Fraction: fraction})
	return nil
}

// startLocked opens a new handle positioned at fraction and starts output.
//
// The source is opened and positioned before the current handle is touched,
// so a file or decode failure leaves the session as it was. The current
// handle is then released before the device is claimed again; if the device
// cannot be acquired the session ends up Stopped at fraction.
func (s *Session) startLocked(op errmsg.Op, fraction float64) error {
	path := s.track.Path

	src, err := s.decoder.Open(path)
	if err != nil {
		return s.failLocked(op, path, err)
	}

	total, ok := src.Duration()
	if !ok || total <= 0 {
		total = s.fallback
		s.log.Debug().Str("path", path).Dur("fallback", total).Msg("duration unknown")
	}
	offset := scale(total, fraction)
	if err := src.Skip(offset); err != nil {
		src.Close()
		return s.failLocked(op, path, err)
	}

	s.teardownLocked()
	s.total = total
	s.progress = fraction
	s.info = src.Info()

	sink, err := s.device.Open(src, s.volume)
	if err != nil {
		src.Close()
		s.setStateLocked(StateStopped)
		return s.failLocked(op, path, err)
	}
	sink.Play()

	s.handle = &handle{source: src, sink: sink}
	s.anchor = s.now().Add(-offset)
	s.setStateLocked(StatePlaying)

	s.log.Debug().
		Str("path", path).
		Dur("offset", offset).
		Dur("total", total).
		Float64("volume", s.volume).
		Msg("handle opened")
	return nil
}

func (s *Session) failLocked(op errmsg.Op, path string, err error) error {
	e := newError(op, path, err)
	s.log.Warn().Err(err).Str("op", string(op)).Str("kind", e.Kind.String()).Str("path", path).Msg("command failed")
	s.emitError(ErrorEvent{Err: e})
	return e
}

func clamp01(f float64) float64 {
	return math.Min(math.Max(f, 0), 1)
}

func scale(total time.Duration, fraction float64) time.Duration {
	return time.Duration(float64(total) * fraction)
}
