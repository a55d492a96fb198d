package player

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/gopxl/beep/v2"
	"github.com/rs/zerolog"
)

// bytesPerOtoFrame is one interleaved stereo float32 frame.
const bytesPerOtoFrame = 8

// drainPollInterval is how often a drained sink checks oto's queue.
const drainPollInterval = 10 * time.Millisecond

// OtoDevice plays through an oto context, bypassing beep's speaker mixer.
//
// oto allows a single context per process, so the context is created on the
// first Open and kept; sources at other sample rates are resampled.
type OtoDevice struct {
	mu          sync.Mutex
	buffer      time.Duration
	openTimeout time.Duration
	ctx         *oto.Context
	ready       <-chan struct{}
	sampleRate  beep.SampleRate
	owner       *otoSink
	log         zerolog.Logger
}

// Verify OtoDevice implements Device at compile time.
var _ Device = (*OtoDevice)(nil)

// NewOtoDevice creates a device. openTimeout bounds the wait for the audio
// driver to become ready.
func NewOtoDevice(buffer, openTimeout time.Duration, log zerolog.Logger) *OtoDevice {
	return &OtoDevice{
		buffer:      buffer,
		openTimeout: openTimeout,
		log:         log.With().Str("component", "oto").Logger(),
	}
}

// Open claims the oto context for src. The returned sink is paused.
func (d *OtoDevice) Open(src Source, volume float64) (Sink, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.owner != nil {
		return nil, ErrDeviceBusy
	}

	format := src.Format()
	if d.ctx == nil {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   int(format.SampleRate),
			ChannelCount: 2,
			Format:       oto.FormatFloat32LE,
			BufferSize:   d.buffer,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
		}
		d.ctx = ctx
		d.ready = ready
		d.sampleRate = format.SampleRate
	}

	select {
	case <-d.ready:
	case <-time.After(d.openTimeout):
		return nil, fmt.Errorf("%w: driver not ready after %s", ErrDeviceUnavailable, d.openTimeout)
	}
	if err := d.ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}

	var stream beep.Streamer = src
	if format.SampleRate != d.sampleRate {
		stream = beep.Resample(resampleQuality, format.SampleRate, d.sampleRate, src)
	}

	s := &otoSink{
		device: d,
		reader: newFrameReader(stream),
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
	}
	s.player = d.ctx.NewPlayer(s.reader)
	s.SetVolume(volume)
	go signalWhenPlayed(s.player, s.reader.drained, s.stop, s.done, drainPollInterval)
	d.owner = s
	d.log.Debug().Int("sample_rate", int(d.sampleRate)).Msg("sink opened")
	return s, nil
}

func (d *OtoDevice) release(s *otoSink) {
	d.mu.Lock()
	if d.owner == s {
		d.owner = nil
	}
	d.mu.Unlock()
}

type otoSink struct {
	device    *OtoDevice
	player    *oto.Player
	reader    *frameReader
	level     float64
	done      chan struct{}
	stop      chan struct{}
	closeOnce sync.Once
}

func (s *otoSink) Play()  { s.player.Play() }
func (s *otoSink) Pause() { s.player.Pause() }

func (s *otoSink) SetVolume(level float64) {
	s.level = ClampLevel(level)
	s.player.SetVolume(s.level)
}

func (s *otoSink) Volume() float64 { return s.level }

// Done is closed once the source is exhausted and oto has played out
// everything it queued.
func (s *otoSink) Done() <-chan struct{} { return s.done }

func (s *otoSink) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stop)
		s.reader.close()
		err = s.player.Close()
		s.device.release(s)
	})
	return err
}

// queue reports how many bytes a player still holds. *oto.Player implements it.
type queue interface {
	BufferedSize() int
}

// signalWhenPlayed closes done after drained is closed and q is empty,
// checking every interval. It gives up when stop is closed first.
func signalWhenPlayed(q queue, drained, stop <-chan struct{}, done chan<- struct{}, interval time.Duration) {
	select {
	case <-drained:
	case <-stop:
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for q.BufferedSize() > 0 {
		select {
		case <-ticker.C:
		case <-stop:
			return
		}
	}
	close(done)
}

// frameReader encodes a beep stream as interleaved float32 LE frames for oto.
// Read runs on oto's goroutine; close makes further reads return io.EOF so
// the source is never touched after its sink is closed.
type frameReader struct {
	mu      sync.Mutex
	stream  beep.Streamer
	buf     [][2]float64
	closed  bool
	drained chan struct{} // closed when the stream is exhausted
	once    sync.Once
}

func newFrameReader(stream beep.Streamer) *frameReader {
	return &frameReader{
		stream:  stream,
		drained: make(chan struct{}),
	}
}

func (r *frameReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, io.EOF
	}

	frames := len(p) / bytesPerOtoFrame
	if frames == 0 {
		return 0, nil
	}
	if len(r.buf) < frames {
		r.buf = make([][2]float64, frames)
	}

	n, ok := r.stream.Stream(r.buf[:frames])
	for i := range n {
		out := p[i*bytesPerOtoFrame:]
		binary.LittleEndian.PutUint32(out, math.Float32bits(float32(r.buf[i][0])))
		binary.LittleEndian.PutUint32(out[4:], math.Float32bits(float32(r.buf[i][1])))
	}
	if !ok {
		r.finish()
		if n == 0 {
			return 0, io.EOF
		}
	}
	return n * bytesPerOtoFrame, nil
}

func (r *frameReader) finish() {
	r.once.Do(func() { close(r.drained) })
}

func (r *frameReader) close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}
