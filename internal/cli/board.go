package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aristath/taskblaster/internal/events"
	"github.com/aristath/taskblaster/internal/tui"
)

func newBoardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "board <CODE>",
		Short: "Open a project's board in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			code := strings.ToUpper(args[0])

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			bus := events.NewEventBus()
			defer bus.Close()
			mover := a.newMover(store, bus)
			if _, err := mover.Project(ctx, code); err != nil {
				return err
			}

			p := tea.NewProgram(tui.New(ctx, mover, code, bus), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil && ctx.Err() == nil {
				return fmt.Errorf("board: %w", err)
			}
			return nil
		},
	}
}
