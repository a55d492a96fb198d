// internal/playback/session_test.go
package playback

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tune/internal/player"
)

const testPath = "/music/song.mp3"

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	session *Session
	decoder *player.MockDecoder
	device  *player.MockDevice
	clock   *fakeClock
}

func newFixture(t *testing.T, total time.Duration, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		decoder: player.NewMockDecoder(total),
		device:  player.NewMockDevice(),
		clock:   newFakeClock(),
	}
	opts = append([]Option{WithClock(f.clock.Now)}, opts...)
	f.session = New(f.decoder, f.device, opts...)
	t.Cleanup(func() { _ = f.session.Close() })
	return f
}

// playing returns a fixture with testPath selected and playing.
func playing(t *testing.T, total time.Duration, opts ...Option) *fixture {
	t.Helper()
	f := newFixture(t, total, opts...)
	require.NoError(t, f.session.Select(testPath))
	require.NoError(t, f.session.TogglePlayPause())
	return f
}

func (f *fixture) poll() Snapshot {
	return f.session.Poll(f.clock.Now())
}

func TestNew_StartsEmpty(t *testing.T) {
	f := newFixture(t, time.Minute)

	snap := f.poll()

	assert.Equal(t, StateEmpty, snap.State)
	assert.Zero(t, snap.Elapsed)
	assert.Zero(t, snap.Total)
	assert.Zero(t, snap.Fraction)
	assert.Equal(t, 1.0, snap.Volume)
	assert.Nil(t, f.session.Track())
}

func TestSelect_NoIO(t *testing.T) {
	f := newFixture(t, time.Minute)

	require.NoError(t, f.session.Select(testPath))

	assert.Equal(t, StateStopped, f.session.State())
	assert.Empty(t, f.decoder.Sources(), "select must not open the file")
	assert.Zero(t, f.device.Opens(), "select must not open the device")

	track := f.session.Track()
	require.NotNil(t, track)
	assert.Equal(t, testPath, track.Path)
	assert.Equal(t, "song.mp3", f.poll().Title)
}

func TestSelect_EmptyPath(t *testing.T) {
	f := newFixture(t, time.Minute)
	require.NoError(t, f.session.Select(testPath))

	err := f.session.Select("")

	assert.ErrorIs(t, err, ErrEmptyPath)
	assert.Equal(t, testPath, f.session.Track().Path, "failed select keeps the previous track")
}

func TestSelect_WhilePlayingReleasesHandle(t *testing.T) {
	f := playing(t, 2*time.Minute)
	f.clock.Advance(30 * time.Second)
	sink := f.device.Last()

	require.NoError(t, f.session.Select("/music/other.wav"))

	assert.True(t, sink.Closed())
	assert.True(t, f.decoder.Last().Closed())
	assert.Nil(t, f.device.Live())

	snap := f.poll()
	assert.Equal(t, StateStopped, snap.State)
	assert.Equal(t, "/music/other.wav", snap.Path)
	assert.Zero(t, snap.Fraction)
	assert.Zero(t, snap.Total, "duration is unknown until the new track is opened")
}

func TestReset_Idempotent(t *testing.T) {
	f := playing(t, time.Minute)
	sink := f.device.Last()

	f.session.Reset()
	f.session.Reset()

	snap := f.poll()
	assert.Equal(t, StateEmpty, snap.State)
	assert.Zero(t, snap.Fraction)
	assert.Nil(t, f.session.Track())
	assert.True(t, sink.Closed())
}

func TestReset_FromEmpty(t *testing.T) {
	f := newFixture(t, time.Minute)

	f.session.Reset()

	assert.Equal(t, StateEmpty, f.session.State())
}

func TestStop_RewindsAndKeepsTrack(t *testing.T) {
	f := playing(t, time.Minute)
	f.clock.Advance(20 * time.Second)

	require.NoError(t, f.session.Stop())

	snap := f.poll()
	assert.Equal(t, StateStopped, snap.State)
	assert.Zero(t, snap.Fraction)
	assert.Equal(t, testPath, snap.Path)
	assert.Nil(t, f.device.Live())
}

func TestStop_Empty(t *testing.T) {
	f := newFixture(t, time.Minute)

	assert.ErrorIs(t, f.session.Stop(), ErrNoTrack)
}

func TestSetVolume_AppliesToLiveSink(t *testing.T) {
	f := playing(t, time.Minute)

	f.session.SetVolume(0.4)

	assert.InDelta(t, 0.4, f.device.Last().Volume(), 1e-9)
	assert.InDelta(t, 0.4, f.session.Volume(), 1e-9)
}

func TestSetVolume_Clamped(t *testing.T) {
	f := newFixture(t, time.Minute)

	f.session.SetVolume(1.7)
	assert.Equal(t, 1.0, f.session.Volume())

	f.session.SetVolume(-2)
	assert.Equal(t, 0.0, f.session.Volume())
}

func TestSetVolume_AppliedToNextSink(t *testing.T) {
	f := newFixture(t, time.Minute)
	f.session.SetVolume(0.25)
	require.NoError(t, f.session.Select(testPath))

	require.NoError(t, f.session.TogglePlayPause())

	assert.InDelta(t, 0.25, f.device.Last().Volume(), 1e-9)
}

func TestSetVolume_SurvivesSelectAndReplay(t *testing.T) {
	f := playing(t, time.Minute)
	f.session.SetVolume(0.6)

	require.NoError(t, f.session.Select("/music/next.mp3"))
	require.NoError(t, f.session.Replay())

	assert.InDelta(t, 0.6, f.device.Last().Volume(), 1e-9)
}

func TestWithVolume_Initial(t *testing.T) {
	f := playing(t, time.Minute, WithVolume(0.5))

	assert.InDelta(t, 0.5, f.device.Last().Volume(), 1e-9)
}

func TestSubscribe_ReceivesTransitions(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	sub := f.session.Subscribe()

	require.NoError(t, f.session.Select(testPath))
	require.NoError(t, f.session.TogglePlayPause())
	f.clock.Advance(3 * time.Second)
	f.poll()

	tc := <-sub.TrackChanged
	require.NotNil(t, tc.Current)
	assert.Equal(t, testPath, tc.Current.Path)
	assert.Nil(t, tc.Previous)

	want := []StateChange{
		{Previous: StateEmpty, Current: StateStopped},
		{Previous: StateStopped, Current: StatePlaying},
		{Previous: StatePlaying, Current: StateStopped},
	}
	for _, w := range want {
		assert.Equal(t, w, <-sub.StateChanged)
	}

	end := <-sub.TrackEnded
	assert.Equal(t, testPath, end.Track.Path)
}

func TestClose_EndsSubscriptionsAndRejectsCommands(t *testing.T) {
	f := playing(t, time.Minute)
	sub := f.session.Subscribe()
	sink := f.device.Last()
	f.clock.Advance(15 * time.Second)

	require.NoError(t, f.session.Close())
	require.NoError(t, f.session.Close())

	<-sub.Done
	assert.True(t, sink.Closed())
	assert.Nil(t, f.device.Live())
	assert.Equal(t, StateStopped, f.session.State())
	assert.False(t, f.session.State().IsActive())

	var snap Snapshot
	f.clock.Advance(10 * time.Second)
	assert.NotPanics(t, func() { snap = f.poll() })
	assert.Equal(t, StateStopped, snap.State)
	assert.InDelta(t, 0.25, snap.Fraction, 1e-9, "position kept where playback stopped")

	assert.ErrorIs(t, f.session.Select(testPath), ErrClosed)
	assert.ErrorIs(t, f.session.TogglePlayPause(), ErrClosed)
	assert.ErrorIs(t, f.session.Play(), ErrClosed)
	assert.ErrorIs(t, f.session.Pause(), ErrClosed)
	assert.ErrorIs(t, f.session.Replay(), ErrClosed)
	assert.ErrorIs(t, f.session.Seek(0.5), ErrClosed)
	assert.ErrorIs(t, f.session.SeekBy(time.Second), ErrClosed)
	assert.ErrorIs(t, f.session.SeekTo(time.Second), ErrClosed)
	assert.ErrorIs(t, f.session.Stop(), ErrClosed)
	assert.Equal(t, 1, f.device.Opens(), "no command reopens the device after close")
}

func TestClose_WhilePaused(t *testing.T) {
	f := playing(t, time.Minute)
	f.clock.Advance(30 * time.Second)
	require.NoError(t, f.session.Pause())

	require.NoError(t, f.session.Close())

	snap := f.poll()
	assert.Equal(t, StateStopped, snap.State)
	assert.InDelta(t, 0.5, snap.Fraction, 1e-9)
	assert.Nil(t, f.device.Live())
}

func TestClose_Empty(t *testing.T) {
	f := newFixture(t, time.Minute)

	require.NoError(t, f.session.Close())

	assert.Equal(t, StateEmpty, f.poll().State)
}

// Commands and polls from several goroutines must not race or deadlock, and
// the device must never be claimed twice.
func TestSession_ConcurrentUse(t *testing.T) {
	f := playing(t, time.Hour)

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				switch (i + j) % 5 {
				case 0:
					_ = f.session.TogglePlayPause()
				case 1:
					_ = f.session.Seek(float64(j) / 50)
				case 2:
					f.session.SetVolume(float64(j) / 50)
				case 3:
					_ = f.session.Replay()
				default:
					f.clock.Advance(time.Second)
					f.poll()
				}
			}
		}()
	}
	wg.Wait()

	snap := f.poll()
	assert.GreaterOrEqual(t, snap.Fraction, 0.0)
	assert.LessOrEqual(t, snap.Fraction, 1.0)
	if snap.State.IsActive() {
		assert.NotNil(t, f.device.Live())
	} else {
		assert.Nil(t, f.device.Live())
	}
}
