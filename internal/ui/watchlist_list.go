package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/ngmaloney/port-congestion/internal/models"
)

// watchlistItem wraps a Watchlist for use in a list
type watchlistItem struct {
	watchlist models.Watchlist
}

// FilterValue implements list.Item
func (w watchlistItem) FilterValue() string {
	return w.watchlist.Name
}

// Title implements list.DefaultItem
func (w watchlistItem) Title() string {
	return w.watchlist.Name
}

// Description implements list.DefaultItem
func (w watchlistItem) Description() string {
	desc := fmt.Sprintf("class %d", w.watchlist.VesselClassID)
	if len(w.watchlist.Ports) > 0 {
		desc += " • " + strings.Join(w.watchlist.Ports, ", ")
	}
	if len(w.watchlist.Areas) > 0 {
		desc += " • " + strings.Join(w.watchlist.Areas, ", ")
	}
	return desc
}

// createWatchlistList creates a list.Model from watchlists
func createWatchlistList(watchlists []models.Watchlist, width, height int) list.Model {
	items := make([]list.Item, len(watchlists))
	for i, w := range watchlists {
		items[i] = watchlistItem{watchlist: w}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "Select a Watchlist"
	l.SetShowHelp(true)
	l.SetFilteringEnabled(true)

	return l
}
