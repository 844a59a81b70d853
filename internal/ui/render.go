package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/port-congestion/internal/models"
)

const maxBarWidth = 40

// renderVessels renders distinct vessels per day as a bar chart
func (m Model) renderVessels() string {
	if m.report == nil || len(m.report.VesselsOverTime) == 0 {
		return mutedStyle.Render("No vessels at port in this period")
	}

	peak := 0
	for _, c := range m.report.VesselsOverTime {
		peak = max(peak, c.Vessels)
	}

	lines := []string{labelStyle.Render("Date        Vessels")}
	for _, c := range m.report.VesselsOverTime {
		width := c.Vessels * maxBarWidth / peak
		if c.Vessels > 0 && width == 0 {
			width = 1
		}
		lines = append(lines, fmt.Sprintf("%s  %s %s",
			c.Date.Format("2006-01-02"),
			barStyle.Render(strings.Repeat("█", width)),
			valueStyle.Render(fmt.Sprintf("%d", c.Vessels))))
	}
	return strings.Join(lines, "\n")
}

// renderWaitingTime renders the average waiting time series
func (m Model) renderWaitingTime() string {
	if m.report == nil || len(m.report.WaitingTimeOverTime) == 0 {
		return mutedStyle.Render("No waiting time data available")
	}

	lines := []string{labelStyle.Render("Date        Avg wait (days)")}
	for _, p := range m.report.WaitingTimeOverTime {
		lines = append(lines, fmt.Sprintf("%s  %s",
			p.Date.Format("2006-01-02"),
			waitingStyle.Render(fmt.Sprintf("%.1f", p.AvgWaitingTime))))
	}
	return strings.Join(lines, "\n")
}

// renderLive renders today's vessels with a waiting/operating summary
func (m Model) renderLive() string {
	if m.report == nil || len(m.report.Live) == 0 {
		return mutedStyle.Render("No vessels at port today")
	}

	var waiting, operating int
	for _, l := range m.report.Live {
		if l.Mode == models.ModeOperating {
			operating++
		} else {
			waiting++
		}
	}
	summary := lipgloss.JoinHorizontal(lipgloss.Top,
		waitingStyle.Render(fmt.Sprintf("%d waiting", waiting)),
		mutedStyle.Render("  •  "),
		operatingStyle.Render(fmt.Sprintf("%d operating", operating)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, summary, "", m.liveTable.View())
}

func newLiveTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Vessel", Width: 22},
			{Title: "IMO", Width: 8},
			{Title: "Port", Width: 18},
			{Title: "Country", Width: 14},
			{Title: "Mode", Width: 10},
			{Title: "Days", Width: 6},
			{Title: "Arrived", Width: 17},
		}),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(colorPrimary).
		Bold(false)
	t.SetStyles(s)
	return t
}

func liveRows(live []models.LiveCongestion) []table.Row {
	rows := make([]table.Row, 0, len(live))
	for _, l := range live {
		days := "-"
		if l.DaysAtPort != nil {
			days = fmt.Sprintf("%.1f", *l.DaysAtPort)
		}
		arrived := "-"
		if !l.ArrivalDate.IsZero() {
			arrived = l.ArrivalDate.UTC().Format("2006-01-02 15:04")
		}
		rows = append(rows, table.Row{
			l.VesselName,
			fmt.Sprintf("%d", l.IMO),
			l.PortName,
			l.Country,
			string(l.Mode),
			days,
			arrived,
		})
	}
	return rows
}
