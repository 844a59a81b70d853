package cli

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ngmaloney/port-congestion/internal/config"
	"github.com/ngmaloney/port-congestion/internal/congestion"
	"github.com/ngmaloney/port-congestion/internal/database"
	"github.com/ngmaloney/port-congestion/internal/geoassets"
	"github.com/ngmaloney/port-congestion/internal/logging"
	"github.com/ngmaloney/port-congestion/internal/vesseldata"
	"github.com/ngmaloney/port-congestion/internal/watchlists"
	"github.com/spf13/cobra"
)

// app holds what every subcommand shares once configuration is loaded
type app struct {
	cfg *config.Config
	db  *sql.DB
}

// newApp loads configuration, sets up logging and opens the database
func newApp(cmd *cobra.Command) (*app, error) {
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}

	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	logCfg := cfg.LoggingConfig()
	logCfg.Output = cmd.ErrOrStderr()
	if verbose {
		logCfg.Level = "debug"
	}
	logging.Init(logCfg)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, db: db}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) geoStore() (*geoassets.Store, error) {
	return geoassets.NewStore(a.db)
}

func (a *app) watchlists() *watchlists.Service {
	return watchlists.NewService(a.cfg.Database.Path)
}

// congestionService wires the configured voyage and waiting time sources
func (a *app) congestionService() (*congestion.Service, error) {
	var voyages vesseldata.VoyageSource
	if a.cfg.Voyages.File != "" {
		voyages = vesseldata.NewFileVoyageSource(a.cfg.Voyages.File)
	} else {
		voyages = vesseldata.NewVoyageClient(a.cfg.Voyages.BaseURL, a.cfg.Voyages.Token, a.cfg.Voyages.Timeout)
	}

	wt := a.cfg.WaitingTime
	waiting := vesseldata.NewBreakerWaitingTimeSource(
		vesseldata.NewWaitingTimeClient(wt.BaseURL, wt.Token, wt.Timeout),
		wt.BreakerMaxFailures,
		wt.BreakerTimeout,
	)

	store, err := a.geoStore()
	if err != nil {
		return nil, err
	}

	return congestion.NewService(voyages, waiting,
		congestion.WithGeoLookup(store),
		congestion.WithOptions(a.cfg.CongestionOptions()),
	), nil
}

// queryFlags are shared by report and dashboard
type queryFlags struct {
	start     string
	class     int
	ports     []string
	areas     []string
	watchlist string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "congestion start date (YYYY-MM-DD, default 30 days ago)")
	cmd.Flags().IntVar(&f.class, "class", 0, "vessel class (segment) ID")
	cmd.Flags().StringArrayVar(&f.ports, "port", nil, "port name to include (repeatable)")
	cmd.Flags().StringArrayVar(&f.areas, "area", nil, "level-0 area name to include (repeatable)")
	cmd.Flags().StringVar(&f.watchlist, "watchlist", "", "use a saved watchlist for class, ports and areas")
}

// query resolves the flags, loading the watchlist if one is named
func (f *queryFlags) query(cmd *cobra.Command, a *app, now time.Time) (congestion.Query, string, error) {
	start := now.UTC().AddDate(0, 0, -30).Truncate(24 * time.Hour)
	if f.start != "" {
		parsed, err := time.Parse("2006-01-02", f.start)
		if err != nil {
			return congestion.Query{}, "", fmt.Errorf("invalid start date %q: %w", f.start, err)
		}
		start = parsed
	}

	if f.watchlist != "" {
		w, err := a.watchlists().Get(cmd.Context(), f.watchlist)
		if err != nil {
			return congestion.Query{}, "", err
		}
		return watchlists.Query(w, start), w.Name, nil
	}

	return congestion.Query{
		CongestionStartDate: start,
		VesselClassID:       f.class,
		Ports:               f.ports,
		Areas:               f.areas,
	}, "", nil
}

func (a *app) silenceLogs() {
	logging.Init(logging.Config{Level: "disabled"})
}
