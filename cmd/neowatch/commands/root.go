package commands

import (
	"context"

	"neowatch/internal/clients"
	"neowatch/internal/config"
	"neowatch/internal/database"
	"neowatch/internal/repository"
	"neowatch/internal/service"
	pgdatabase "neowatch/pkg/database"
	"neowatch/pkg/logger"
	"neowatch/pkg/redis"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds what every subcommand shares
type app struct {
	cfg *config.Config
	log *zap.SugaredLogger

	neoFile      string
	cadFile      string
	source       string
	jsonLogs     bool
	debug        bool
	refreshCache bool
}

// NewRootCmd builds the neowatch command tree. Flag defaults come from cfg.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	a := &app{cfg: cfg, log: logger.Logger}

	root := &cobra.Command{
		Use:   "neowatch",
		Short: "Explore near-Earth objects and their close approaches",
		Long: `neowatch links NASA near-Earth object records with close approach data
and answers lookups and filtered queries over the result.

Examples:
  neowatch inspect --name Apophis --verbose
  neowatch query --date 2029-04-13 --hazardous
  neowatch query --max-distance 0.01 --limit 10 --outfile results.json
  neowatch stats`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Initialize(a.jsonLogs, a.debug); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			a.log = logger.Named("cli").With(logger.FieldRunID, uuid.NewString())
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.neoFile, "neofile", cfg.Data.NEOsPath, "Path to the NEO CSV file")
	flags.StringVar(&a.cadFile, "cadfile", cfg.Data.ApproachesPath, "Path to the close approach JSON file")
	flags.StringVar(&a.source, "source", cfg.Data.Source, "Data source: file, postgres or api")
	flags.BoolVar(&a.jsonLogs, "json-logs", cfg.App.JSONLogs, "Write logs as JSON")
	flags.BoolVar(&a.debug, "debug", cfg.App.Debug, "Enable debug logging")
	flags.BoolVar(&a.refreshCache, "refresh-cache", false, "Ignore cached API responses and fetch them again")

	root.AddCommand(newInspectCmd(a))
	root.AddCommand(newQueryCmd(a))
	root.AddCommand(newStatsCmd(a))

	return root
}

// loadDatabase loads the catalog from the selected source and links it
func (a *app) loadDatabase(ctx context.Context) (*database.NEODatabase, *service.Catalog, error) {
	opts := service.CatalogOptions{
		Source:         a.source,
		NEOsPath:       a.neoFile,
		ApproachesPath: a.cadFile,
		CADParams: clients.CADParams{
			DateMin: a.cfg.NASA.DateMin,
			DateMax: a.cfg.NASA.DateMax,
			DistMax: a.cfg.NASA.DistMax,
		},
		CacheTTL:     a.cfg.Redis.TTL,
		RefreshCache: a.refreshCache,
	}

	var (
		repo      repository.CatalogRepository
		cacheRepo repository.CacheRepository
		client    clients.NASAClient
	)

	switch a.source {
	case config.SourcePostgres:
		db, err := pgdatabase.Connect(pgdatabase.Config{
			Host:     a.cfg.DB.Host,
			Port:     a.cfg.DB.Port,
			User:     a.cfg.DB.User,
			Password: a.cfg.DB.Password,
			DBName:   a.cfg.DB.DBName,
			SSLMode:  a.cfg.DB.SSLMode,
			Debug:    a.debug,
		})
		if err != nil {
			return nil, nil, err
		}
		defer pgdatabase.Close(db)
		repo = repository.NewCatalogRepository(db)

	case config.SourceAPI:
		client = clients.NewNASAClient(clients.NASAConfig{
			CADURL:    a.cfg.NASA.CADURL,
			SBDBURL:   a.cfg.NASA.SBDBURL,
			Timeout:   a.cfg.NASA.Timeout,
			RateLimit: a.cfg.NASA.RateLimit,
			RateBurst: a.cfg.NASA.RateBurst,
		})

		if a.cfg.Redis.Enabled {
			redisClient, err := redis.Connect(redis.Config{
				Host:     a.cfg.Redis.Host,
				Port:     a.cfg.Redis.Port,
				Password: a.cfg.Redis.Password,
				DB:       a.cfg.Redis.DB,
			})
			if err != nil {
				// без кэша тоже работаем
				a.log.Warnw("Redis unavailable, continuing without cache", logger.FieldError, err)
			} else {
				defer redisClient.Close()
				cacheRepo = repository.NewCacheRepository(redisClient)
			}
		}
	}

	catalog, err := service.NewCatalogService(opts, repo, cacheRepo, client, a.log).Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	return database.New(catalog.NEOs, catalog.Approaches), catalog, nil
}
