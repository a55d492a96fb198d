package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tune/internal/app"
	"github.com/llehouerou/tune/internal/config"
	"github.com/llehouerou/tune/internal/errmsg"
	"github.com/llehouerou/tune/internal/logging"
	"github.com/llehouerou/tune/internal/mpris"
	"github.com/llehouerou/tune/internal/notify"
	"github.com/llehouerou/tune/internal/player"
	"github.com/llehouerou/tune/internal/playback"
	"github.com/llehouerou/tune/internal/stderr"
)

var flags struct {
	config   string
	backend  string
	volume   float64
	logLevel string
}

var rootCmd = &cobra.Command{
	Use:          "tune [file]",
	Short:        "Play a single audio file in the terminal",
	Long:         "tune plays one local audio file (mp3, wav, flac, ogg) with play/pause, seek, replay and volume controls.",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flags.config, "config", "c", "", "config file loaded after the default locations")
	f.StringVar(&flags.backend, "backend", "", "audio output backend: speaker or oto")
	f.Float64Var(&flags.volume, "volume", 1, "initial volume, 0.0-1.0")
	f.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	applyFlags(cmd, cfg)

	logPath, err := cfg.GetLogFile()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLogOpen, err))
	}
	logFile, err := logging.OpenFile(logPath)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLogOpen, err))
	}
	defer logFile.Close()

	logger := logging.Setup(cfg.GetLogLevel(), logFile)
	logger.Info().Str("backend", cfg.GetBackend()).Str("log", logPath).Msg("tune starting")

	// Capture stderr from audio libraries so it doesn't corrupt the TUI.
	captured := true
	if err := stderr.Start(logger); err != nil {
		logger.Warn().Err(err).Msg("stderr capture unavailable")
		captured = false
	}
	defer stderr.Stop()

	session := playback.New(
		player.FileDecoder{},
		newDevice(cfg, logger),
		playback.WithLogger(logger),
		playback.WithFallbackDuration(cfg.GetFallbackDuration()),
		playback.WithVolume(cfg.GetVolume()),
	)
	defer session.Close()

	if len(args) == 1 {
		if err := selectArg(session, args[0]); err != nil {
			return err
		}
	}

	if cfg.MPRISEnabled() {
		adapter, err := mpris.New(session, logger)
		if err != nil {
			logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpMediaControls, err))
		} else {
			defer adapter.Close()
		}
	}

	opts := app.Options{
		SeekStep:      cfg.GetSeekStep(),
		Logger:        logger,
		WatchStderr:   captured,
		Notifications: cfg.Notifications,
	}
	if cfg.Notifications.IsEnabled() {
		opts.Notifier = notify.New(logger)
	}

	model := app.New(session, opts)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		logger.Error().Err(err).Msg("program failed")
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}

	logger.Info().Msg("tune exiting")
	return nil
}

// applyFlags overrides config values with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("backend") {
		cfg.Output.Backend = flags.backend
	}
	if f.Changed("volume") {
		v := flags.volume
		cfg.Volume = &v
	}
	if f.Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
}

func newDevice(cfg *config.Config, logger zerolog.Logger) player.Device {
	switch cfg.GetBackend() {
	case config.BackendOto:
		return player.NewOtoDevice(cfg.GetBuffer(), cfg.GetOpenTimeout(), logger)
	default:
		return player.NewSpeakerDevice(cfg.GetBuffer(), cfg.GetOpenTimeout(), logger)
	}
}

func selectArg(session *playback.Session, arg string) error {
	path, err := filepath.Abs(arg)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpFileSelect, arg, err))
	}
	if !player.IsMusicFile(path) {
		return errors.New(errmsg.FormatWith(errmsg.OpFileSelect, filepath.Base(path),
			fmt.Errorf("%w: expected mp3, wav, flac or ogg", player.ErrUnsupportedFormat)))
	}
	if _, err := os.Stat(path); err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpFileSelect, filepath.Base(path), err))
	}
	return session.Select(path)
}
