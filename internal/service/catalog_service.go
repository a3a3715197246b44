package service

import (
	"bytes"
	"context"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/config"
	"neowatch/internal/extract"
	"neowatch/internal/models"
	"neowatch/internal/repository"
	"neowatch/pkg/logger"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

var ErrUnknownSource = errors.New("unknown data source")

const neoCacheKey = "nasa:sbdb:neo"

// Catalog is the unlinked dataset handed to the database
type Catalog struct {
	NEOs       []*models.NearEarthObject
	Approaches []*models.CloseApproach

	// Stored holds the table row counts, set for the postgres source only
	Stored *StoredCounts
}

type StoredCounts struct {
	NEOs       int64
	Approaches int64
}

type CatalogService interface {
	Load(ctx context.Context) (*Catalog, error)
}

// CatalogOptions selects the source. RefreshCache drops cached API payloads
// before fetching them again.
type CatalogOptions struct {
	Source         string
	NEOsPath       string
	ApproachesPath string
	CADParams      clients.CADParams
	CacheTTL       time.Duration
	RefreshCache   bool
}

type catalogService struct {
	opts      CatalogOptions
	repo      repository.CatalogRepository
	cacheRepo repository.CacheRepository
	client    clients.NASAClient
	log       *zap.SugaredLogger
}

// NewCatalogService wires the loaders. repo is only needed for the postgres
// source, client and cacheRepo only for the api source.
func NewCatalogService(
	opts CatalogOptions,
	repo repository.CatalogRepository,
	cacheRepo repository.CacheRepository,
	client clients.NASAClient,
	log *zap.SugaredLogger,
) CatalogService {
	if cacheRepo == nil {
		cacheRepo = repository.NewNoopCacheRepository()
	}
	return &catalogService{
		opts:      opts,
		repo:      repo,
		cacheRepo: cacheRepo,
		client:    client,
		log:       log,
	}
}

func (s *catalogService) Load(ctx context.Context) (*Catalog, error) {
	started := time.Now()

	var (
		catalog *Catalog
		err     error
	)

	switch s.opts.Source {
	case config.SourceFile, "":
		catalog, err = s.loadFiles()
	case config.SourcePostgres:
		catalog, err = s.loadPostgres(ctx)
	case config.SourceAPI:
		catalog, err = s.loadAPI(ctx)
	default:
		return nil, errors.Wrapf(ErrUnknownSource, "%q", s.opts.Source)
	}
	if err != nil {
		return nil, err
	}

	s.log.Infow("Catalog loaded",
		logger.FieldSource, s.opts.Source,
		"neos", len(catalog.NEOs),
		"approaches", len(catalog.Approaches),
		logger.FieldDuration, time.Since(started).Milliseconds(),
	)
	return catalog, nil
}

func (s *catalogService) loadFiles() (*Catalog, error) {
	neos, err := extract.LoadNEOsFile(s.opts.NEOsPath)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", s.opts.NEOsPath)
	}

	approaches, err := extract.LoadApproachesFile(s.opts.ApproachesPath)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", s.opts.ApproachesPath)
	}

	return &Catalog{NEOs: neos, Approaches: approaches}, nil
}

func (s *catalogService) loadPostgres(ctx context.Context) (*Catalog, error) {
	if s.repo == nil {
		return nil, errors.New("postgres source requires a catalog repository")
	}

	storedNEOs, storedApproaches, err := s.repo.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count catalog rows")
	}

	neos, err := s.repo.ListNEOs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list NEOs")
	}

	approaches, err := s.repo.ListApproaches(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list close approaches")
	}

	// таблицы могли измениться между запросами
	if int64(len(neos)) != storedNEOs || int64(len(approaches)) != storedApproaches {
		s.log.Warnw("Catalog changed while loading",
			"stored_neos", storedNEOs, "neos", len(neos),
			"stored_approaches", storedApproaches, "approaches", len(approaches),
		)
	}

	return &Catalog{
		NEOs:       neos,
		Approaches: approaches,
		Stored:     &StoredCounts{NEOs: storedNEOs, Approaches: storedApproaches},
	}, nil
}

func (s *catalogService) loadAPI(ctx context.Context) (*Catalog, error) {
	if s.client == nil {
		return nil, errors.New("api source requires a NASA client")
	}

	neoPayload, err := s.fetchCached(ctx, neoCacheKey, s.client.FetchNEOs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch NEOs")
	}
	neos, err := extract.LoadNEOTable(bytes.NewReader(neoPayload))
	if err != nil {
		return nil, err
	}

	cadPayload, err := s.fetchCached(ctx, s.opts.CADParams.CacheKey(), func(ctx context.Context) ([]byte, error) {
		return s.client.FetchCloseApproaches(ctx, s.opts.CADParams)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch close approaches")
	}
	approaches, err := extract.LoadApproaches(bytes.NewReader(cadPayload))
	if err != nil {
		return nil, err
	}

	return &Catalog{NEOs: neos, Approaches: approaches}, nil
}

// fetchCached сначала смотрит в кэш, ошибки кэша не фатальны
func (s *catalogService) fetchCached(ctx context.Context, key string, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	if s.opts.RefreshCache {
		if err := s.cacheRepo.Delete(ctx, key); err != nil {
			s.log.Warnw("Cache delete failed", logger.FieldKey, key, logger.FieldError, err)
		}
	} else {
		cached, err := s.cacheRepo.Get(ctx, key)
		if err != nil {
			s.log.Warnw("Cache read failed", logger.FieldKey, key, logger.FieldError, err)
		} else if cached != nil {
			s.log.Debugw("Cache hit", logger.FieldKey, key)
			return cached, nil
		}
	}

	payload, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cacheRepo.Set(ctx, key, payload, s.opts.CacheTTL); err != nil {
		s.log.Warnw("Failed to cache payload", logger.FieldKey, key, logger.FieldError, err)
	}

	return payload, nil
}
