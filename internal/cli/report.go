package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/ngmaloney/port-congestion/internal/models"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	flags queryFlags
}

func NewReportCmd() *ReportCmd {
	return &ReportCmd{}
}

func (c *ReportCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute port congestion and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return fmt.Errorf("failed to get json flag: %w", err)
			}
			withRecords, err := cmd.Flags().GetBool("records")
			if err != nil {
				return fmt.Errorf("failed to get records flag: %w", err)
			}

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

			report, err := svc.GetPortCongestion(cmd.Context(), q)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			if name != "" {
				fmt.Fprintln(out, "Watchlist:", name)
			}
			fmt.Fprintf(out, "Vessel class: %d\n", q.VesselClassID)
			fmt.Fprintln(out, "Since:", q.CongestionStartDate.Format("2006-01-02"))
			printReport(out, report, withRecords)
			return nil
		},
	}

	c.flags.register(cmd)
	cmd.Flags().Bool("json", false, "print the report as JSON")
	cmd.Flags().Bool("records", false, "also print every per-vessel, per-day record")

	return cmd
}

func newTable(out io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader(header)
	return table
}

func printReport(out io.Writer, report *models.CongestionReport, withRecords bool) {
	fmt.Fprintln(out, "\nVessels at port")
	vessels := newTable(out, []string{"Date", "Vessels"})
	for _, c := range report.VesselsOverTime {
		vessels.Append([]string{c.Date.Format("2006-01-02"), fmt.Sprintf("%d", c.Vessels)})
	}
	vessels.Render()

	fmt.Fprintln(out, "\nAverage waiting time (days)")
	waiting := newTable(out, []string{"Date", "Avg wait"})
	for _, p := range report.WaitingTimeOverTime {
		waiting.Append([]string{p.Date.Format("2006-01-02"), fmt.Sprintf("%.1f", p.AvgWaitingTime)})
	}
	waiting.Render()

	fmt.Fprintln(out, "\nLive")
	live := newTable(out, []string{"Vessel", "IMO", "Port", "Country", "Area", "Mode", "Days at port"})
	for _, l := range report.Live {
		days := "-"
		if l.DaysAtPort != nil {
			days = fmt.Sprintf("%.1f", *l.DaysAtPort)
		}
		live.Append([]string{
			l.VesselName,
			fmt.Sprintf("%d", l.IMO),
			l.PortName,
			l.Country,
			l.AreaLevel0,
			string(l.Mode),
			days,
		})
	}
	live.Render()

	if !withRecords {
		return
	}

	fmt.Fprintln(out, "\nRecords")
	records := newTable(out, []string{"Day", "IMO", "Vessel", "Purpose", "Port", "Mode", "Waiting", "Operating"})
	for _, r := range report.Records {
		records.Append([]string{
			r.DayDate.Format("2006-01-02"),
			fmt.Sprintf("%d", r.IMO),
			r.VesselName,
			string(r.Purpose),
			r.PortName,
			string(r.Mode),
			formatSpan(r.WaitingTimeStart, r.WaitingTimeEnd),
			formatSpan(r.OperatingTimeStart, r.OperatingTimeEnd),
		})
	}
	records.Render()
}

func formatSpan(start, end *time.Time) string {
	if start == nil || end == nil {
		return "-"
	}
	const layout = "01-02 15:04"
	return start.UTC().Format(layout) + " → " + end.UTC().Format(layout)
}
