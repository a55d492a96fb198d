// Package app contains the bubbletea model driving the playback session.
package app

import (
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/tune/internal/config"
	"github.com/llehouerou/tune/internal/keymap"
	"github.com/llehouerou/tune/internal/notify"
	"github.com/llehouerou/tune/internal/playback"
)

// volumeStep is the volume change per key press.
const volumeStep = 0.05

// seekLongFraction is the share of the track skipped by shift+arrows.
const seekLongFraction = 0.1

// Options configures the model.
type Options struct {
	SeekStep time.Duration
	Logger   zerolog.Logger
	Now      func() time.Time

	// WatchStderr enables the captured stderr feed in the status bar.
	WatchStderr bool

	Notifier      notify.Notifier
	Notifications config.NotificationsConfig
}

// Model is the TUI state. Playback state lives in the session; the model
// keeps the last snapshot for rendering.
type Model struct {
	Session  *playback.Session
	Keys     *keymap.Resolver
	SeekStep time.Duration

	Width  int
	Height int

	snapshot playback.Snapshot
	fileSize int64

	prompt    textinput.Model
	prompting bool
	showHelp  bool

	status      string
	statusError bool

	sub         *playback.Subscription
	watchStderr bool
	now         func() time.Time
	log         zerolog.Logger

	notifier         notify.Notifier
	notifyCfg        config.NotificationsConfig
	lastNowPlayingID uint32
}

// New creates the model for session.
func New(session *playback.Session, opts Options) Model {
	if opts.SeekStep <= 0 {
		opts.SeekStep = 5 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ti := textinput.New()
	ti.Prompt = "Open: "
	ti.Placeholder = "/path/to/file.mp3"
	ti.CharLimit = 4096

	m := Model{
		Session:     session,
		Keys:        keymap.NewResolver(keymap.Bindings),
		SeekStep:    opts.SeekStep,
		fileSize:    -1,
		prompt:      ti,
		sub:         session.Subscribe(),
		watchStderr: opts.WatchStderr,
		now:         opts.Now,
		log:         opts.Logger.With().Str("component", "tui").Logger(),
		notifier:    opts.Notifier,
		notifyCfg:   opts.Notifications,
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{TickCmd(), m.WatchSessionEvents()}
	if m.watchStderr {
		cmds = append(cmds, WatchStderr())
	}
	return tea.Batch(cmds...)
}

// refresh polls the session and updates the cached file size when the
// selected file changed.
func (m *Model) refresh() {
	prev := m.snapshot.Path
	m.snapshot = m.Session.Poll(m.now())
	if m.snapshot.Path == prev {
		return
	}
	m.fileSize = -1
	if m.snapshot.Path == "" {
		return
	}
	if fi, err := os.Stat(m.snapshot.Path); err == nil {
		m.fileSize = fi.Size()
	}
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusError = false
}

func (m *Model) setError(msg string) {
	m.status = msg
	m.statusError = true
	m.log.Debug().Str("message", msg).Msg("error shown")
}
