package playback

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/llehouerou/tune/internal/errmsg"
	"github.com/llehouerou/tune/internal/player"
)

var (
	// ErrNoTrack is returned by transport commands when no track is selected.
	ErrNoTrack = errors.New("no track selected")

	// ErrEmptyPath is returned by Select for an empty path.
	ErrEmptyPath = errors.New("empty path")

	// ErrInvalidFraction is returned by Seek for a NaN position.
	ErrInvalidFraction = errors.New("seek position is not a number")

	// ErrClosed is returned by commands issued after Close.
	ErrClosed = errors.New("session closed")

	// Sentinels matched by *Error through errors.Is.
	ErrFileOpenFailed    = errors.New("file open failed")
	ErrDecodeUnsupported = errors.New("decode unsupported")
	ErrDeviceUnavailable = errors.New("output device unavailable")
)

// ErrorKind classifies failures of commands that open a handle.
type ErrorKind int

const (
	KindFileOpen ErrorKind = iota + 1
	KindDecodeUnsupported
	KindDeviceUnavailable
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindFileOpen:
		return "FileOpenFailed"
	case KindDecodeUnsupported:
		return "DecodeUnsupported"
	case KindDeviceUnavailable:
		return "DeviceUnavailable"
	default:
		return "Unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindFileOpen:
		return ErrFileOpenFailed
	case KindDecodeUnsupported:
		return ErrDecodeUnsupported
	case KindDeviceUnavailable:
		return ErrDeviceUnavailable
	default:
		return nil
	}
}

// Error is returned when a command fails to open the file, decode it, or
// acquire the output device.
type Error struct {
	Kind ErrorKind
	Op   errmsg.Op
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Message returns the text shown to the user.
func (e *Error) Message() string {
	return errmsg.FormatWith(e.Op, Track{Path: e.Path}.Name(), e.Err)
}

func newError(op errmsg.Op, path string, err error) *Error {
	return &Error{Kind: classify(err), Op: op, Path: path, Err: err}
}

func classify(err error) ErrorKind {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, player.ErrDeviceUnavailable):
		return KindDeviceUnavailable
	case errors.Is(err, player.ErrUnsupportedFormat):
		return KindDecodeUnsupported
	case errors.As(err, &pathErr):
		return KindFileOpen
	default:
		return KindDecodeUnsupported
	}
}
