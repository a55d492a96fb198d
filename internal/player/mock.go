// internal/player/mock.go
package player

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
)

// MockDecoder is a test double for Decoder. Every Open returns a new
// MockSource with the configured duration.
type MockDecoder struct {
	mu       sync.Mutex
	duration time.Duration
	known    bool
	openErr  error
	sources  []*MockSource
}

// NewMockDecoder creates a decoder whose sources report duration d.
func NewMockDecoder(d time.Duration) *MockDecoder {
	return &MockDecoder{duration: d, known: true}
}

func (m *MockDecoder) Open(path string) (Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openErr != nil {
		return nil, m.openErr
	}
	src := &MockSource{
		path:     path,
		duration: m.duration,
		known:    m.known,
	}
	m.sources = append(m.sources, src)
	return src, nil
}

// Test helpers

func (m *MockDecoder) SetDuration(d time.Duration) {
	m.mu.Lock()
	m.duration, m.known = d, true
	m.mu.Unlock()
}

// SetDurationUnknown makes later sources report no duration.
func (m *MockDecoder) SetDurationUnknown() {
	m.mu.Lock()
	m.duration, m.known = 0, false
	m.mu.Unlock()
}

func (m *MockDecoder) SetOpenError(err error) {
	m.mu.Lock()
	m.openErr = err
	m.mu.Unlock()
}

// Sources returns every source opened so far.
func (m *MockDecoder) Sources() []*MockSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockSource(nil), m.sources...)
}

// Last returns the most recently opened source, or nil.
func (m *MockDecoder) Last() *MockSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sources) == 0 {
		return nil
	}
	return m.sources[len(m.sources)-1]
}

// MockSource is a silent Source with a fixed duration.
type MockSource struct {
	mu       sync.Mutex
	path     string
	duration time.Duration
	known    bool
	skipped  time.Duration
	skipErr  error
	closed   bool
}

// MockFormat is the format reported by every MockSource.
var MockFormat = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}

func (s *MockSource) Stream(samples [][2]float64) (int, bool) {
	clear(samples)
	return len(samples), true
}

func (s *MockSource) Err() error { return nil }

func (s *MockSource) Format() beep.Format { return MockFormat }

func (s *MockSource) Duration() (time.Duration, bool) { return s.duration, s.known }

func (s *MockSource) Skip(d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.skipErr != nil {
		return s.skipErr
	}
	s.skipped += d
	return nil
}

func (s *MockSource) Info() *TrackInfo {
	return &TrackInfo{Path: s.path, Title: filepath.Base(s.path), Format: "MOCK"}
}

func (s *MockSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Test helpers

func (s *MockSource) Path() string { return s.path }

func (s *MockSource) Skipped() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skipped
}

func (s *MockSource) SetSkipError(err error) {
	s.mu.Lock()
	s.skipErr = err
	s.mu.Unlock()
}

func (s *MockSource) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// MockDevice is a test double for Device. Like the real devices it refuses
// a second sink while one is still open.
type MockDevice struct {
	mu      sync.Mutex
	openErr error
	sinks   []*MockSink
}

func NewMockDevice() *MockDevice {
	return &MockDevice{}
}

func (d *MockDevice) Open(src Source, volume float64) (Sink, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.openErr != nil {
		return nil, d.openErr
	}
	for _, s := range d.sinks {
		if !s.Closed() {
			return nil, ErrDeviceBusy
		}
	}
	s := &MockSink{
		source: src,
		level:  ClampLevel(volume),
		done:   make(chan struct{}),
	}
	d.sinks = append(d.sinks, s)
	return s, nil
}

// Test helpers

func (d *MockDevice) SetOpenError(err error) {
	d.mu.Lock()
	d.openErr = err
	d.mu.Unlock()
}

// Opens returns how many sinks have been opened.
func (d *MockDevice) Opens() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sinks)
}

// Last returns the most recently opened sink, or nil.
func (d *MockDevice) Last() *MockSink {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.sinks) == 0 {
		return nil
	}
	return d.sinks[len(d.sinks)-1]
}

// Live returns the sink currently holding the device, or nil.
func (d *MockDevice) Live() *MockSink {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.sinks {
		if !s.Closed() {
			return s
		}
	}
	return nil
}

// MockSink is a test double for Sink.
type MockSink struct {
	mu       sync.Mutex
	source   Source
	playing  bool
	level    float64
	closed   bool
	done     chan struct{}
	doneOnce sync.Once
}

func (s *MockSink) Play() {
	s.mu.Lock()
	s.playing = true
	s.mu.Unlock()
}

func (s *MockSink) Pause() {
	s.mu.Lock()
	s.playing = false
	s.mu.Unlock()
}

func (s *MockSink) SetVolume(level float64) {
	s.mu.Lock()
	s.level = ClampLevel(level)
	s.mu.Unlock()
}

func (s *MockSink) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

func (s *MockSink) Done() <-chan struct{} { return s.done }

func (s *MockSink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.playing = false
	s.mu.Unlock()
	return nil
}

// Test helpers

func (s *MockSink) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *MockSink) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *MockSink) Source() Source { return s.source }

// SimulateFinished signals that the source has been drained.
func (s *MockSink) SimulateFinished() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Verify mocks implement their interfaces at compile time.
var (
	_ Decoder = (*MockDecoder)(nil)
	_ Source  = (*MockSource)(nil)
	_ Device  = (*MockDevice)(nil)
	_ Sink    = (*MockSink)(nil)
)
