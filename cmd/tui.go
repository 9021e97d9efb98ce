package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/projtrack/internal/config"
	"github.com/twiced-technology-gmbh/projtrack/internal/settings"
	"github.com/twiced-technology-gmbh/projtrack/internal/store"
	"github.com/twiced-technology-gmbh/projtrack/internal/tui"
	"github.com/twiced-technology-gmbh/projtrack/internal/watcher"
)

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	guarded, err := openBoardStore(cfg)
	if err != nil {
		return err
	}
	defer guarded.Close()

	st, err := openSettings(cfg, guarded.Store).Load()
	if err != nil {
		st = settings.Settings{}
	}

	model := tui.NewBoard(tui.Options{
		Name:         cfg.Name,
		Store:        guarded,
		LockPath:     cfg.LockPath(),
		LogDir:       cfg.Dir(),
		ShowProgress: cfg.ShowProgress(),
		User:         st.UserInitials,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, guarded.Location(), p)

	_, err = p.Run()
	return err
}

// openBoardStore opens the guarded backend for the board. The alt screen
// owns the terminal, so neither layer logs.
func openBoardStore(cfg *config.Config) (*store.Guard, error) {
	backend, err := openStore(cfg, lgr.NoOp)
	if err != nil {
		return nil, err
	}
	return store.NewGuard(backend, lgr.NoOp), nil
}

func startTUIWatcher(ctx context.Context, location string, p *tea.Program) {
	w, err := watcher.ForStorage(location, func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		return // non-fatal: the board works without live refresh
	}
	defer w.Close()
	w.Run(ctx, nil)
}
