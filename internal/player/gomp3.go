package player

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

// bytesPerFrame is one stereo 16-bit sample pair as produced by go-mp3.
const bytesPerFrame = 4

// mp3Stream adapts llehouerou/go-mp3 to beep.StreamSeekCloser.
type mp3Stream struct {
	dec    *mp3.Decoder
	closer io.Closer
	err    error
	pcm    []byte
}

func decodeGoMP3(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	dec, err := mp3.NewDecoder(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}
	if dec.SampleRate() == 0 {
		return nil, beep.Format{}, errors.New("mp3: invalid sample rate")
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(dec.SampleRate()),
		NumChannels: 2,
		Precision:   2,
	}
	return &mp3Stream{dec: dec, closer: rc, pcm: make([]byte, 8192)}, format, nil
}

func (m *mp3Stream) Stream(samples [][2]float64) (int, bool) {
	if m.err != nil {
		return 0, false
	}

	want := len(samples) * bytesPerFrame
	if len(m.pcm) < want {
		m.pcm = make([]byte, want)
	}

	read, err := io.ReadFull(m.dec, m.pcm[:want])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		m.err = err
		return 0, false
	}

	n := read / bytesPerFrame
	if n == 0 {
		return 0, false
	}
	for i := range n {
		frame := m.pcm[i*bytesPerFrame:]
		samples[i][0] = float64(int16(binary.LittleEndian.Uint16(frame))) / 32768   //nolint:gosec // audio samples
		samples[i][1] = float64(int16(binary.LittleEndian.Uint16(frame[2:]))) / 32768 //nolint:gosec // audio samples
	}
	return n, true
}

func (m *mp3Stream) Err() error { return m.err }

// Len is 0 when the stream carries no frame count (no Xing/VBRI header).
func (m *mp3Stream) Len() int {
	return int(max(m.dec.SampleCount(), 0))
}

func (m *mp3Stream) Position() int {
	return int(m.dec.SamplePosition())
}

func (m *mp3Stream) Seek(p int) error {
	p = max(p, 0)
	if length := m.Len(); p > length {
		p = length
	}
	if err := m.dec.SeekToSample(int64(p)); err != nil {
		return err
	}
	m.err = nil
	return nil
}

func (m *mp3Stream) Close() error {
	return m.closer.Close()
}
