package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/port-congestion/internal/ui"
	"github.com/spf13/cobra"
)

type DashboardCmd struct {
	flags queryFlags
}

func NewDashboardCmd() *DashboardCmd {
	return &DashboardCmd{}
}

func (c *DashboardCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive congestion dashboard",
		Long: "Open the interactive congestion dashboard. Without --class or --watchlist\n" +
			"the saved watchlists are offered to pick from.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			q, name, err := c.flags.query(cmd, a, time.Now())
			if err != nil {
				return err
			}
			svc, err := a.congestionService()
			if err != nil {
				return err
			}

			saved, err := a.watchlists().List(cmd.Context())
			if err != nil {
				return err
			}
			if q.VesselClassID == 0 && len(saved) == 0 {
				return fmt.Errorf("--class or a saved watchlist is required")
			}

			// Logs would corrupt the alt screen
			a.silenceLogs()

			m := ui.NewModel(svc, q, ui.WithWatchlists(saved), ui.WithTitle(name))
			if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
				return fmt.Errorf("running dashboard: %w", err)
			}
			return nil
		},
	}

	c.flags.register(cmd)
	return cmd
}
