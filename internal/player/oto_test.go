package player

import (
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constStreamer produces a fixed number of identical stereo samples.
type constStreamer struct {
	left, right float64
	remaining   int
}

func (c *constStreamer) Stream(samples [][2]float64) (int, bool) {
	if c.remaining <= 0 {
		return 0, false
	}
	n := min(len(samples), c.remaining)
	for i := range n {
		samples[i] = [2]float64{c.left, c.right}
	}
	c.remaining -= n
	return n, true
}

func (c *constStreamer) Err() error { return nil }

var _ beep.Streamer = (*constStreamer)(nil)

func TestFrameReader_EncodesFloat32LE(t *testing.T) {
	r := newFrameReader(&constStreamer{left: 0.5, right: -0.25, remaining: 2})

	p := make([]byte, 4*bytesPerOtoFrame)
	n, err := r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 2*bytesPerOtoFrame, n)

	for i := range 2 {
		frame := p[i*bytesPerOtoFrame:]
		assert.InDelta(t, 0.5, math.Float32frombits(binary.LittleEndian.Uint32(frame)), 1e-7)
		assert.InDelta(t, -0.25, math.Float32frombits(binary.LittleEndian.Uint32(frame[4:])), 1e-7)
	}
}

func TestFrameReader_SignalsDoneAtEnd(t *testing.T) {
	r := newFrameReader(&constStreamer{remaining: 3})
	p := make([]byte, 2*bytesPerOtoFrame)

	n, err := r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 2*bytesPerOtoFrame, n)

	select {
	case <-r.drained:
		t.Fatal("drained closed before the stream ended")
	default:
	}

	n, err = r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, bytesPerOtoFrame, n)

	n, err = r.Read(p)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, io.EOF)

	select {
	case <-r.drained:
	default:
		t.Fatal("drained not closed after the stream ended")
	}
}

func TestFrameReader_ClosedReturnsEOF(t *testing.T) {
	src := &constStreamer{remaining: 100}
	r := newFrameReader(src)
	r.close()

	n, err := r.Read(make([]byte, 64))
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 100, src.remaining, "closed reader must not touch the source")
}

func TestFrameReader_ShortBuffer(t *testing.T) {
	r := newFrameReader(&constStreamer{remaining: 1})

	n, err := r.Read(make([]byte, bytesPerOtoFrame-1))
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

// fakeQueue drains by a fixed amount on every BufferedSize call.
type fakeQueue struct {
	left atomic.Int64
	step int64
}

func (q *fakeQueue) BufferedSize() int {
	v := q.left.Load()
	if v > 0 {
		q.left.Store(max(v-q.step, 0))
	}
	return int(v)
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestSignalWhenPlayed_WaitsForQueue(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := &fakeQueue{step: 1000}
		q.left.Store(3000)
		drained := make(chan struct{})
		done := make(chan struct{})
		go signalWhenPlayed(q, drained, make(chan struct{}), done, 10*time.Millisecond)

		synctest.Wait()
		assert.False(t, isClosed(done), "done before the source drained")

		close(drained)
		synctest.Wait()
		assert.False(t, isClosed(done), "done while audio is still queued")

		time.Sleep(50 * time.Millisecond)
		synctest.Wait()
		assert.True(t, isClosed(done))
	})
}

func TestSignalWhenPlayed_EmptyQueue(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := &fakeQueue{}
		drained := make(chan struct{})
		done := make(chan struct{})
		close(drained)

		go signalWhenPlayed(q, drained, make(chan struct{}), done, 10*time.Millisecond)
		synctest.Wait()

		assert.True(t, isClosed(done))
	})
}

func TestSignalWhenPlayed_StopAbandons(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		q := &fakeQueue{}
		q.left.Store(1 << 30)
		drained := make(chan struct{})
		stop := make(chan struct{})
		done := make(chan struct{})
		close(drained)
		go signalWhenPlayed(q, drained, stop, done, 10*time.Millisecond)

		close(stop)
		synctest.Wait()

		assert.False(t, isClosed(done))
	})
}
