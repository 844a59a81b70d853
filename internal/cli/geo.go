package cli

import (
	"fmt"

	"github.com/ngmaloney/port-congestion/internal/geoassets"
	"github.com/spf13/cobra"
)

type GeoCmd struct{}

func NewGeoCmd() *GeoCmd {
	return &GeoCmd{}
}

func (c *GeoCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geo",
		Short: "Manage the geo asset reference table",
	}

	provision := &cobra.Command{
		Use:   "provision",
		Short: "Load geo assets from a shapefile",
		RunE: func(cmd *cobra.Command, args []string) error {
			shapefile, err := cmd.Flags().GetString("shapefile")
			if err != nil {
				return fmt.Errorf("failed to get shapefile flag: %w", err)
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			store, err := a.geoStore()
			if err != nil {
				return err
			}
			n, err := geoassets.ProvisionFromShapefile(cmd.Context(), store, shapefile)
			if err != nil {
				return err
			}
			total, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d geo assets (%d stored)\n", n, total)
			return nil
		},
	}
	provision.Flags().String("shapefile", "", "path to a .shp file with ID, NAME, PORT, COUNTRY, AREA0 and AREA1 attributes")
	_ = provision.MarkFlagRequired("shapefile")

	cmd.AddCommand(provision)
	return cmd
}
