package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tsawler/takeoff/report"
)

func (a *app) historyCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved measurement runs",
		Long: `History lists runs recorded with "takeoff measure --save", newest first.

Examples:
  takeoff history
  takeoff history --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(a.stdout, "No saved runs")
				return nil
			}

			fmt.Fprintf(a.stdout, "%-8s  %-14s  %4s  %14s  %5s  %8s  %-6s  %s\n",
				"RUN", "WHEN", "PAGE", "AREA", "ROOMS", "SCALE", "CONF", "PAGE HASH")
			for _, r := range runs {
				scale := "-"
				if r.ScaleFactor > 0 {
					scale = fmt.Sprintf("x%g", r.ScaleFactor)
				}
				fmt.Fprintf(a.stdout, "%-8s  %-14s  %4d  %14s  %5d  %8s  %-6s  %s\n",
					r.ID[:8], humanize.Time(r.CreatedAt), r.PageNumber, report.SF(r.GrossAreaSF),
					r.RoomCount, scale, r.Confidence, r.Fingerprint[:min(12, len(r.Fingerprint))])
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to show (0 for all)")
	return cmd
}
