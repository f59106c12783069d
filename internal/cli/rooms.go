package cli

import (
	"github.com/spf13/cobra"

	"github.com/tsawler/takeoff/report"
)

func (a *app) roomsCommand() *cobra.Command {
	var (
		page    int
		geojson bool
	)
	cmd := &cobra.Command{
		Use:   "rooms <page-file>",
		Short: "List the rooms found on each page",
		Long: `Rooms measures the pages without model assistance and lists each room
with its label, type, area and perimeter.

Examples:
  takeoff rooms plan.yaml
  takeoff rooms plan.yaml --page 1 --geojson > rooms.geojson`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, _, err := a.job(args[0], page).Measure(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range results {
				if geojson {
					err = report.WriteGeoJSON(a.stdout, m)
				} else {
					err = report.Rooms(a.stdout, m)
				}
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "Only this page (default: all)")
	cmd.Flags().BoolVar(&geojson, "geojson", false, "Output GeoJSON")
	return cmd
}
