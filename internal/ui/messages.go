package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/port-congestion/internal/congestion"
	"github.com/ngmaloney/port-congestion/internal/models"
)

// Message types for async operations

// reportFetchedMsg is sent when a congestion report has been computed
type reportFetchedMsg struct {
	report    *models.CongestionReport
	fetchedAt time.Time
	err       error
}

// errMsg is a message type for errors
type errMsg struct {
	err error
}

func fetchReport(svc ReportService, q congestion.Query, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		report, err := svc.GetPortCongestion(context.Background(), q)
		return reportFetchedMsg{report: report, fetchedAt: now(), err: err}
	}
}
