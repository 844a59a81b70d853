package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type WatchlistCmd struct{}

func NewWatchlistCmd() *WatchlistCmd {
	return &WatchlistCmd{}
}

func (c *WatchlistCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Save, list and delete congestion watchlists",
	}

	cmd.AddCommand(
		c.saveCommand(),
		c.listCommand(),
		c.deleteCommand(),
	)
	return cmd
}

func (c *WatchlistCmd) saveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save a watchlist, replacing any with the same name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := cmd.Flags().GetInt("class")
			if err != nil {
				return fmt.Errorf("failed to get class flag: %w", err)
			}
			ports, err := cmd.Flags().GetStringArray("port")
			if err != nil {
				return fmt.Errorf("failed to get port flag: %w", err)
			}
			areas, err := cmd.Flags().GetStringArray("area")
			if err != nil {
				return fmt.Errorf("failed to get area flag: %w", err)
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			w, err := a.watchlists().Save(cmd.Context(), args[0], class, ports, areas)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved watchlist %q\n", w.Name)
			return nil
		},
	}
	cmd.Flags().Int("class", 0, "vessel class (segment) ID")
	cmd.Flags().StringArray("port", nil, "port name to include (repeatable)")
	cmd.Flags().StringArray("area", nil, "level-0 area name to include (repeatable)")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}

func (c *WatchlistCmd) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved watchlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			lists, err := a.watchlists().List(cmd.Context())
			if err != nil {
				return err
			}

			table := newTable(cmd.OutOrStdout(), []string{"Name", "Class", "Ports", "Areas", "Saved"})
			for _, w := range lists {
				table.Append([]string{
					w.Name,
					fmt.Sprintf("%d", w.VesselClassID),
					strings.Join(w.Ports, ", "),
					strings.Join(w.Areas, ", "),
					w.CreatedAt.UTC().Format("2006-01-02"),
				})
			}
			table.Render()
			return nil
		},
	}
}

func (c *WatchlistCmd) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a saved watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.watchlists().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted watchlist %q\n", args[0])
			return nil
		},
	}
}
