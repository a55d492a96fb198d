package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tune/internal/errmsg"
	"github.com/llehouerou/tune/internal/keymap"
	"github.com/llehouerou/tune/internal/player"
	"github.com/llehouerou/tune/internal/playback"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.prompt.Width = max(msg.Width-len(m.prompt.Prompt)-4, 10)
		return m, nil

	case TickMsg:
		m.refresh()
		return m, TickCmd()

	case SessionStateMsg:
		m.refresh()
		if msg.Previous == playback.StateStopped && msg.Current == playback.StatePlaying {
			m.sendNowPlayingNotification()
		}
		return m, m.WatchSessionEvents()

	case TrackEndedMsg:
		m.refresh()
		m.setStatus("Finished " + msg.Track.Name())
		return m, m.WatchSessionEvents()

	case SessionErrorMsg:
		m.refresh()
		m.setError(msg.Err.Message())
		m.sendErrorNotification(msg.Err)
		return m, m.WatchSessionEvents()

	case SessionClosedMsg:
		return m, tea.Quit

	case StderrMsg:
		m.setError(msg.Line)
		return m, WatchStderr()

	case tea.KeyMsg:
		if m.prompting {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg.String())
	}

	return m, nil
}

// handleKey dispatches a key outside the path prompt.
func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	action := m.Keys.Resolve(key)
	switch action { //nolint:exhaustive // prompt actions are handled by handlePromptKey
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
		return m, nil
	case keymap.ActionOpenFile:
		m.prompting = true
		m.prompt.SetValue("")
		cmd := m.prompt.Focus()
		return m, cmd
	case "":
		return m, nil
	}

	m.handlePlaybackAction(action)
	m.refresh()
	return m, nil
}

func (m *Model) handlePlaybackAction(action keymap.Action) {
	s := m.Session
	var err error
	var op errmsg.Op

	switch action { //nolint:exhaustive // only handling playback actions
	case keymap.ActionPlayPause:
		op, err = errmsg.OpPlaybackToggle, s.TogglePlayPause()
	case keymap.ActionStop:
		op, err = errmsg.OpPlaybackStop, s.Stop()
	case keymap.ActionReplay:
		op, err = errmsg.OpPlaybackReplay, s.Replay()
	case keymap.ActionReset:
		s.Reset()
		m.setStatus("")
	case keymap.ActionSeekBack:
		op, err = errmsg.OpPlaybackSeek, s.SeekBy(-m.SeekStep)
	case keymap.ActionSeekForward:
		op, err = errmsg.OpPlaybackSeek, s.SeekBy(m.SeekStep)
	case keymap.ActionSeekBackLong:
		op, err = errmsg.OpPlaybackSeek, s.Seek(s.Poll(m.now()).Fraction-seekLongFraction)
	case keymap.ActionSeekForwardLong:
		op, err = errmsg.OpPlaybackSeek, s.Seek(s.Poll(m.now()).Fraction+seekLongFraction)
	case keymap.ActionVolumeUp:
		s.SetVolume(s.Volume() + volumeStep)
	case keymap.ActionVolumeDown:
		s.SetVolume(s.Volume() - volumeStep)
	}

	m.reportError(op, err)
}

// reportError shows err unless it is a session error, which arrives
// through the subscription instead.
func (m *Model) reportError(op errmsg.Op, err error) {
	if err == nil {
		return
	}
	var perr *playback.Error
	if errors.As(err, &perr) {
		return
	}
	if errors.Is(err, playback.ErrNoTrack) {
		m.setError("No audio file selected. Press o to open one.")
		return
	}
	m.setError(errmsg.Format(op, err))
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.Keys.Resolve(msg.String()) { //nolint:exhaustive // only handling prompt actions
	case keymap.ActionCancel:
		m.closePrompt()
		return m, nil
	case keymap.ActionConfirm:
		path := m.prompt.Value()
		m.closePrompt()
		m.selectFile(path)
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.prompt.Blur()
	m.prompt.SetValue("")
}

// selectFile validates a user-typed path and makes it the current track.
func (m *Model) selectFile(input string) {
	path := expandPath(strings.TrimSpace(input))
	if path == "" {
		return
	}
	if !player.IsMusicFile(path) {
		m.setError(errmsg.FormatWith(errmsg.OpFileSelect, filepath.Base(path),
			fmt.Errorf("%w: expected mp3, wav, flac or ogg", player.ErrUnsupportedFormat)))
		return
	}
	fi, err := os.Stat(path)
	if err != nil {
		m.setError(errmsg.FormatWith(errmsg.OpFileSelect, filepath.Base(path), err))
		return
	}
	if fi.IsDir() {
		m.setError(errmsg.FormatWith(errmsg.OpFileSelect, filepath.Base(path), errors.New("is a directory")))
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	if err := m.Session.Select(path); err != nil {
		m.setError(errmsg.FormatWith(errmsg.OpFileSelect, filepath.Base(path), err))
		return
	}
	m.setStatus("")
	m.log.Info().Str("path", path).Msg("file selected")
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
