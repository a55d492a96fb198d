package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"
)

// resampleQuality is the beep.Resample quality used when a track's sample
// rate differs from the speaker's.
const resampleQuality = 4

// SpeakerDevice plays through beep's global speaker.
//
// The speaker is initialized once, at the sample rate of the first source;
// later sources are resampled to it.
type SpeakerDevice struct {
	mu          sync.Mutex
	buffer      time.Duration
	openTimeout time.Duration
	init        *speakerInit
	initSpeaker func(beep.SampleRate, int) error
	owner       *speakerSink
	log         zerolog.Logger
}

// speakerInit is one speaker.Init call. done is closed when it returns.
type speakerInit struct {
	sampleRate beep.SampleRate
	done       chan struct{}
	err        error
}

// Verify SpeakerDevice implements Device at compile time.
var _ Device = (*SpeakerDevice)(nil)

// NewSpeakerDevice creates a device with the given output buffer length.
// openTimeout bounds the wait for the audio driver to become ready.
func NewSpeakerDevice(buffer, openTimeout time.Duration, log zerolog.Logger) *SpeakerDevice {
	return &SpeakerDevice{
		buffer:      buffer,
		openTimeout: openTimeout,
		initSpeaker: speaker.Init,
		log:         log.With().Str("component", "speaker").Logger(),
	}
}

// awaitInit starts speaker initialization on first use and waits for it at
// most openTimeout. A timed-out attempt keeps running; later calls wait on
// it instead of initializing again. A failed attempt is retried.
func (d *SpeakerDevice) awaitInit(rate beep.SampleRate) (*speakerInit, error) {
	if d.init == nil {
		in := &speakerInit{sampleRate: rate, done: make(chan struct{})}
		d.init = in
		go func() {
			in.err = d.initSpeaker(rate, rate.N(d.buffer))
			if in.err == nil {
				d.log.Debug().Int("sample_rate", int(rate)).Dur("buffer", d.buffer).Msg("speaker initialized")
			}
			close(in.done)
		}()
	}

	in := d.init
	select {
	case <-in.done:
	case <-time.After(d.openTimeout):
		d.log.Warn().Dur("timeout", d.openTimeout).Msg("speaker not ready")
		return nil, fmt.Errorf("%w: speaker not ready after %s", ErrDeviceUnavailable, d.openTimeout)
	}
	if in.err != nil {
		d.init = nil
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, in.err)
	}
	return in, nil
}

// Open claims the speaker for src. The returned sink is paused.
func (d *SpeakerDevice) Open(src Source, volume float64) (Sink, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.owner != nil {
		return nil, ErrDeviceBusy
	}

	format := src.Format()
	in, err := d.awaitInit(format.SampleRate)
	if err != nil {
		return nil, err
	}

	var stream beep.Streamer = src
	if format.SampleRate != in.sampleRate {
		stream = beep.Resample(resampleQuality, format.SampleRate, in.sampleRate, src)
	}

	s := &speakerSink{
		device: d,
		level:  ClampLevel(volume),
		done:   make(chan struct{}),
	}
	s.ctrl = &beep.Ctrl{Streamer: stream, Paused: true}
	s.volume = &effects.Volume{Streamer: s.ctrl, Base: 2}
	s.volume.Volume = levelToVolume(s.level)
	s.volume.Silent = s.level == 0

	speaker.Play(beep.Seq(s.volume, beep.Callback(s.finish)))
	d.owner = s
	return s, nil
}

func (d *SpeakerDevice) release(s *speakerSink) {
	d.mu.Lock()
	if d.owner == s {
		d.owner = nil
	}
	d.mu.Unlock()
}

type speakerSink struct {
	device *SpeakerDevice
	ctrl   *beep.Ctrl
	volume *effects.Volume

	// level is only touched by the owner goroutine; the effect fields it
	// drives are read by the speaker goroutine under speaker.Lock.
	level float64

	done       chan struct{}
	finishOnce sync.Once
	closeOnce  sync.Once
}

func (s *speakerSink) Play() {
	speaker.Lock()
	s.ctrl.Paused = false
	speaker.Unlock()
}

func (s *speakerSink) Pause() {
	speaker.Lock()
	s.ctrl.Paused = true
	speaker.Unlock()
}

func (s *speakerSink) SetVolume(level float64) {
	s.level = ClampLevel(level)
	speaker.Lock()
	s.volume.Volume = levelToVolume(s.level)
	s.volume.Silent = s.level == 0
	speaker.Unlock()
}

func (s *speakerSink) Volume() float64 { return s.level }

func (s *speakerSink) Done() <-chan struct{} { return s.done }

// finish runs on the speaker goroutine once the source is drained.
func (s *speakerSink) finish() {
	s.finishOnce.Do(func() { close(s.done) })
}

// Close removes every streamer from the speaker. After it returns the
// speaker no longer reads from the source.
func (s *speakerSink) Close() error {
	s.closeOnce.Do(func() {
		speaker.Clear()
		s.device.release(s)
	})
	return nil
}
