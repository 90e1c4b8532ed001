package main

import (
	"os"
	"path/filepath"

	"emperror.dev/errors"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/ripple/internal/app"
	"github.com/llehouerou/ripple/internal/config"
	"github.com/llehouerou/ripple/internal/engine"
	"github.com/llehouerou/ripple/internal/errmsg"
	"github.com/llehouerou/ripple/internal/logging"
	"github.com/llehouerou/ripple/internal/mainloop"
	"github.com/llehouerou/ripple/internal/mpris"
	"github.com/llehouerou/ripple/internal/playback"
	"github.com/llehouerou/ripple/internal/state"
	"github.com/llehouerou/ripple/internal/stderr"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		stderr.WriteOriginal(err.Error() + "\n")
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errmsg.Wrap(errmsg.OpConfigLoad, err)
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return errmsg.Wrap(errmsg.OpLogOpen, err)
	}
	log, err := logging.Open(logPath, cfg.LogLevel)
	if err != nil {
		return errmsg.Wrap(errmsg.OpLogOpen, err)
	}
	defer log.Close()

	// ALSA and libmpv write to fd 2, which would garble the TUI.
	if err := stderr.Start(log.Logger); err != nil {
		log.Warn().Err(err).Msg("stderr capture unavailable")
	}
	defer stderr.Stop()

	stateMgr, err := state.Open(log.Logger)
	if err != nil {
		return errmsg.Wrap(errmsg.OpStateOpen, err)
	}
	defer stateMgr.Close()

	eng, err := engine.New(engine.Kind(cfg.Engine), log.Logger)
	if err != nil {
		return errmsg.Wrap(errmsg.OpEngineStart, err)
	}
	defer eng.Close()

	q := mainloop.New()
	defer q.Close()
	p := playback.New(eng,
		playback.WithDispatcher(q.Post),
		playback.WithTickInterval(cfg.TickInterval),
		playback.WithLogger(log.With().Str("component", "player").Logger()),
	)
	// Runs before eng.Close, so no engine callback outlives the engine.
	defer p.Close()

	m := app.New(cfg, stateMgr, p, q, log.Logger)
	m.InitialPath = cfg.DefaultFile
	if len(args) > 0 {
		m.InitialPath = args[0]
	}
	if m.InitialPath != "" {
		if abs, err := filepath.Abs(m.InitialPath); err == nil {
			m.InitialPath = abs
		}
	}

	if cfg.MPRISEnabled() {
		adapter, err := mpris.New(p, q.Post, log.With().Str("component", "mpris").Logger())
		if err != nil {
			log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpMPRISStart, err))
		} else {
			defer adapter.Close()
			m.NowPlaying = adapter
		}
	}

	log.Info().Str("engine", cfg.Engine).Str("file", m.InitialPath).Msg("starting")

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	// SIGINT and SIGTERM end Run without a quit key reaching Update. The
	// model's collaborators are pointers, so m sees the final session.
	m.Shutdown()
	if errors.Is(err, tea.ErrInterrupted) {
		log.Info().Msg("interrupted")
		return nil
	}
	if err != nil {
		return errmsg.Wrap(errmsg.OpRun, err)
	}
	return nil
}
