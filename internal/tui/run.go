package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/yourusername/tribo-console/internal/controller"
)

// Run starts the engine behind a full-screen program and blocks until the operator quits
// or ctx is cancelled. bridge must be the view ctrl was created with.
func Run(ctx context.Context, ctrl *controller.Controller, bridge *Bridge, baseURL string, logger zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(
		newModel(ctx, cancel, ctrl, bridge, baseURL),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	bridge.Attach(program)

	engineDone := make(chan error, 1)
	go func() {
		engineDone <- ctrl.Run(ctx)
	}()

	_, err := program.Run()
	cancel()
	engineErr := <-engineDone

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	if engineErr != nil && !errors.Is(engineErr, context.Canceled) {
		logger.Error().Err(engineErr).Msg("Console engine stopped with error")
		return engineErr
	}
	return nil
}
