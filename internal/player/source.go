package player

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extWAV  = ".wav"
	extFLAC = ".flac"
	extOGG  = ".ogg"
)

// ErrUnsupportedFormat is returned when a file's container or codec cannot be decoded.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Source is one decode pipeline input: a lazy sequence of PCM samples for a single file.
type Source interface {
	beep.Streamer

	// Format returns the sample format produced by Stream.
	Format() beep.Format

	// Duration returns the total length of the track. ok is false when the
	// container does not expose a sample count.
	Duration() (d time.Duration, ok bool)

	// Skip advances the source by d from its current position.
	Skip(d time.Duration) error

	// Info returns the tag metadata read when the source was opened.
	Info() *TrackInfo

	Close() error
}

// Decoder opens sources for file paths.
type Decoder interface {
	Open(path string) (Source, error)
}

// FileDecoder opens audio files from the local filesystem.
type FileDecoder struct{}

// Verify FileDecoder implements Decoder at compile time.
var _ Decoder = FileDecoder{}

// IsMusicFile reports whether path has an extension FileDecoder can open.
func IsMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3, extWAV, extFLAC, extOGG:
		return true
	}
	return false
}

// Open opens and decodes the file at path.
// Every resource opened along the way is released if an error is returned.
func (FileDecoder) Open(path string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsMusicFile(path) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var stream beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case extMP3:
		stream, format, err = decodeGoMP3(f)
	case extWAV:
		stream, format, err = wav.Decode(f)
	case extFLAC:
		if err = skipID3v2(f); err == nil {
			stream, format, err = flac.Decode(f)
		}
	case extOGG:
		stream, format, err = vorbis.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedFormat, filepath.Base(path), err)
	}

	info, tagErr := ReadTrackInfo(path)
	if tagErr != nil {
		info = &TrackInfo{Path: path, Title: filepath.Base(path)}
	}
	info.Format = strings.ToUpper(strings.TrimPrefix(ext, "."))
	info.SampleRate = int(format.SampleRate)

	return &fileSource{
		stream: stream,
		file:   f,
		format: format,
		info:   info,
	}, nil
}

type fileSource struct {
	stream beep.StreamSeekCloser
	file   *os.File
	format beep.Format
	info   *TrackInfo
}

func (s *fileSource) Stream(samples [][2]float64) (int, bool) {
	return s.stream.Stream(samples)
}

func (s *fileSource) Err() error { return s.stream.Err() }

func (s *fileSource) Format() beep.Format { return s.format }

func (s *fileSource) Info() *TrackInfo { return s.info }

func (s *fileSource) Duration() (time.Duration, bool) {
	n := s.stream.Len()
	if n <= 0 {
		return 0, false
	}
	return s.format.SampleRate.D(n), true
}

// Skip seeks when the decoder knows its length and falls back to decoding
// and discarding samples otherwise.
func (s *fileSource) Skip(d time.Duration) error {
	n := s.format.SampleRate.N(d)
	if n <= 0 {
		return nil
	}
	if length := s.stream.Len(); length > 0 {
		target := min(s.stream.Position()+n, length)
		if err := s.stream.Seek(target); err == nil {
			return nil
		}
	}
	return discard(s.stream, n)
}

func (s *fileSource) Close() error {
	err := s.stream.Close()
	// Decoders that own the reader already closed the file.
	if ferr := s.file.Close(); ferr != nil && !errors.Is(ferr, os.ErrClosed) && err == nil {
		err = ferr
	}
	return err
}

// discard reads and drops n samples from s.
func discard(s beep.Streamer, n int) error {
	buf := make([][2]float64, 1024)
	for n > 0 {
		got, ok := s.Stream(buf[:min(n, len(buf))])
		n -= got
		if !ok {
			break
		}
	}
	return s.Err()
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the file.
// Some taggers prepend one to FLAC files, which the FLAC decoder rejects.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	if n < len(header) || string(header[:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// Tag size is a syncsafe integer: 7 bits per byte.
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
