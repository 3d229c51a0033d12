package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/DaanHessen/stripe-guide/internal/content"
	"github.com/DaanHessen/stripe-guide/internal/engine"
)

// Options carries what the TUI needs from the command layer.
type Options struct {
	Index    *engine.Index
	Loader   content.Loader
	Payments Payments
	Logger   zerolog.Logger
	Theme    string
	Origin   string
}

// Run boots the TUI program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	m := initialModel(ctx, opts)
	m.adapter.Mount(m.hub)
	defer m.adapter.Unmount()
	defer m.unsubscribe()
	opts.Logger.Info().Str("start", m.nav.Current()).Int("scenes", opts.Index.Len()).Msg("guide started")
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := program.Run()
	opts.Logger.Info().Int("visited", m.nav.VisitedCount()).Msg("guide closed")
	return err
}
