//go:build !windows

// Package stderr captures stderr output from C libraries (ALSA, PulseAudio)
// that write directly to file descriptor 2, bypassing Go's os.Stderr.
// This prevents raw error messages from corrupting the TUI layout.
package stderr

import (
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

var (
	origStderr = -1
	pipeRead   *os.File
	pipeWrite  *os.File
	started    bool
	forwarded  chan struct{}
)

// Start begins capturing stderr output. Captured lines are logged at warn
// level and published on Messages.
// Must be called early in main(), before any audio library initialization.
// Returns an error if capture cannot be set up, but the program can continue
// without stderr capture (errors will just go to the original stderr).
func Start(log zerolog.Logger) error {
	if started {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	// Save original stderr file descriptor
	origStderr, err = unix.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}

	// Redirect stderr (fd 2) to the pipe's write end
	if err := unix.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		_ = unix.Close(origStderr)
		origStderr = -1
		r.Close()
		w.Close()
		return err
	}

	pipeRead = r
	pipeWrite = w
	started = true
	forwarded = make(chan struct{})

	go func() {
		defer close(forwarded)
		forward(pipeRead, log.With().Str("component", "stderr").Logger(), messages)
	}()

	return nil
}

// WriteOriginal writes directly to the original stderr, bypassing capture.
// Useful for fatal errors that must be visible even if the TUI is running.
func WriteOriginal(msg string) {
	if origStderr >= 0 {
		_, _ = unix.Write(origStderr, []byte(msg))
		return
	}
	_, _ = os.Stderr.WriteString(msg)
}

// Stop restores the original stderr. Should be called on program exit.
func Stop() {
	if !started {
		return
	}

	// Restore original stderr
	_ = unix.Dup2(origStderr, int(os.Stderr.Fd()))
	_ = unix.Close(origStderr)
	origStderr = -1

	// Closing the write end lets the forwarder drain and exit
	pipeWrite.Close()
	<-forwarded
	pipeRead.Close()

	started = false
}
