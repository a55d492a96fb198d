// Package playback implements the single-track playback session: it owns at
// most one decode-and-output handle and derives the playback position from a
// wall-clock anchor.
package playback

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/tune/internal/player"
)

// DefaultFallbackDuration is assumed for files whose container does not
// expose a length.
const DefaultFallbackDuration = 180 * time.Second

// Session is the playback state machine. All methods are safe for
// concurrent use; every command and poll runs under one mutex.
type Session struct {
	mu sync.Mutex

	decoder  player.Decoder
	device   player.Device
	now      func() time.Time
	log      zerolog.Logger
	fallback time.Duration

	state  State
	track  *Track
	info   *player.TrackInfo
	handle *handle

	// anchor is the instant the track would have started had it played from
	// zero without pausing. Only meaningful while Playing.
	anchor   time.Time
	progress float64
	total    time.Duration

	volume float64
	closed bool

	subsMu sync.RWMutex
	subs   []*Subscription
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the time source used by commands. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the session logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithFallbackDuration sets the duration assumed when a file does not expose one.
func WithFallbackDuration(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.fallback = d
		}
	}
}

// WithVolume sets the initial volume level.
func WithVolume(level float64) Option {
	return func(s *Session) { s.volume = player.ClampLevel(level) }
}

// New creates a session in the Empty state.
func New(dec player.Decoder, dev player.Device, opts ...Option) *Session {
	s := &Session{
		decoder:  dec,
		device:   dev,
		now:      time.Now,
		log:      zerolog.Nop(),
		fallback: DefaultFallbackDuration,
		state:    StateEmpty,
		volume:   1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("component", "session").Logger()
	return s
}

// handle is one live decode-and-output pipeline.
type handle struct {
	source player.Source
	sink   player.Sink
}

// close releases the device first, then the decoder.
func (h *handle) close() error {
	err := h.sink.Close()
	if serr := h.source.Close(); err == nil {
		err = serr
	}
	return err
}

// finished reports whether the sink has drained its source.
func (h *handle) finished() bool {
	select {
	case <-h.sink.Done():
		return true
	default:
		return false
	}
}

// Select makes path the current track and drops any live handle.
// The file is not opened until playback starts.
func (s *Session) Select(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	prev := s.track
	s.teardownLocked()
	s.track = &Track{Path: path}
	s.info = nil
	s.resetPositionLocked()
	s.setStateLocked(StateStopped)

	s.log.Debug().Str("path", path).Msg("track selected")
	s.emitTrack(TrackChange{Previous: prev, Current: s.track})
	return nil
}

// Reset drops the handle and the track. Calling it repeatedly is harmless.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.track
	s.teardownLocked()
	s.track = nil
	s.info = nil
	s.resetPositionLocked()
	s.setStateLocked(StateEmpty)

	if prev != nil {
		s.emitTrack(TrackChange{Previous: prev})
	}
}

// Stop drops the handle and rewinds to the start, keeping the track.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(); err != nil {
		return err
	}
	s.teardownLocked()
	s.progress = 0
	s.setStateLocked(StateStopped)
	return nil
}

// SetVolume sets the session volume and applies it to the live sink.
// The level survives handle replacement.
func (s *Session) SetVolume(level float64) {
	level = player.ClampLevel(level)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.volume = level
	if s.handle != nil {
		s.handle.sink.SetVolume(level)
	}
	s.emitVolume(VolumeChange{Level: level})
}

// Volume returns the session volume level.
func (s *Session) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// State returns the current state without advancing the position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Track returns a copy of the selected track, or nil.
func (s *Session) Track() *Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.track == nil {
		return nil
	}
	t := *s.track
	return &t
}

// Subscribe creates a new event subscription.
func (s *Session) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close releases the handle and ends all subscriptions. A session that was
// Playing or Paused is left Stopped at its last position.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if s.state.IsActive() && s.total > 0 {
		s.progress = clamp01(float64(s.positionLocked(s.now())) / float64(s.total))
	}
	s.anchor = time.Time{}
	err := s.teardownLocked()
	if s.state != StateEmpty {
		s.setStateLocked(StateStopped)
	}
	s.closed = true
	s.mu.Unlock()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()

	return err
}

// teardownLocked releases the live handle, if any. The state is left to the
// caller.
func (s *Session) teardownLocked() error {
	if s.handle == nil {
		return nil
	}
	err := s.handle.close()
	s.handle = nil
	if err != nil {
		s.log.Warn().Err(err).Msg("handle teardown")
	} else {
		s.log.Debug().Msg("handle released")
	}
	return err
}

func (s *Session) resetPositionLocked() {
	s.anchor = time.Time{}
	s.progress = 0
	s.total = 0
}

func (s *Session) setStateLocked(next State) {
	if next == s.state {
		return
	}
	prev := s.state
	s.state = next
	s.emitState(StateChange{Previous: prev, Current: next})
}

func (s *Session) emitState(e StateChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendState(e)
	}
}

func (s *Session) emitTrack(e TrackChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendTrack(e)
	}
}

func (s *Session) emitPosition(e PositionChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendPosition(e)
	}
}

func (s *Session) emitVolume(e VolumeChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendVolume(e)
	}
}

func (s *Session) emitEnd(e EndOfTrack) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendEnd(e)
	}
}

func (s *Session) emitError(e ErrorEvent) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendError(e)
	}
}
