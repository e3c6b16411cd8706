package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gamelib/lrucache"
	"github.com/gamelib/lrucache/catalog"
	"github.com/gamelib/lrucache/catalog/memstore"
	"github.com/gamelib/lrucache/internal/config"
	"github.com/gamelib/lrucache/internal/log"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "gamecache",
	Short: "Exercise the game and company caches",
	Long: `gamecache wires the catalog services to bounded LRU caches sized from
gamecache.toml and drives them against an in-memory store.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: search upward for gamecache.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (error, warn, info, debug)")
}

// setup loads configuration and builds the logger honoring --log-level.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log.New(cmd.ErrOrStderr(), level), nil
}

// services owns the caches for one run; they are dropped with it.
type services struct {
	gameCache    *lrucache.Cache[string, []catalog.Game]
	companyCache *lrucache.Cache[int64, catalog.Company]
	gameStore    *memstore.Games
	companyStore *memstore.Companies
	games        *catalog.GameService
	companies    *catalog.CompanyService
}

func newServices(cfg *config.Config, logger *slog.Logger) (*services, error) {
	gameCache, err := lrucache.New[string, []catalog.Game](cfg.Games.Capacity, cfg.Games.TTL.Duration, cfg.Games.Name,
		lrucache.WithLogger[string, []catalog.Game](logger),
	)
	if err != nil {
		return nil, err
	}
	companyCache, err := lrucache.New[int64, catalog.Company](cfg.Companies.Capacity, cfg.Companies.TTL.Duration, cfg.Companies.Name,
		lrucache.WithLogger[int64, catalog.Company](logger),
	)
	if err != nil {
		return nil, err
	}

	gameStore := memstore.NewGames()
	companyStore := memstore.NewCompanies()
	return &services{
		gameCache:    gameCache,
		companyCache: companyCache,
		gameStore:    gameStore,
		companyStore: companyStore,
		games:        catalog.NewGameService(gameStore, gameCache, logger),
		companies:    catalog.NewCompanyService(companyStore, gameStore, companyCache, logger),
	}, nil
}
