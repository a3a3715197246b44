// Package database links NEOs with their close approaches and answers
// lookups and filtered queries over the linked dataset.
//
// A NEODatabase is built once and is read-only afterwards. It is not safe to
// build one concurrently with queries against it.
package database

import (
	"iter"

	"neowatch/internal/filters"
	"neowatch/internal/models"
)

type NEODatabase struct {
	neos       []*models.NearEarthObject
	approaches []*models.CloseApproach

	byDesignation map[string]*models.NearEarthObject
	byName        map[string]*models.NearEarthObject
}

// New indexes the NEOs and links every approach to the NEO with the same
// designation. Both collections must be unlinked. Approaches with an unknown
// designation stay unlinked. When designations repeat, the last NEO is
// indexed and receives all approaches for that designation.
func New(neos []*models.NearEarthObject, approaches []*models.CloseApproach) *NEODatabase {
	db := &NEODatabase{
		neos:          neos,
		approaches:    approaches,
		byDesignation: make(map[string]*models.NearEarthObject, len(neos)),
		byName:        make(map[string]*models.NearEarthObject),
	}

	for _, neo := range neos {
		// при повторе обозначения или имени остается последний NEO
		db.byDesignation[neo.Designation] = neo
		if neo.HasName() {
			db.byName[neo.Name] = neo
		}
	}

	// Связываем через индекс: сближение указывает на тот же NEO, что и поиск
	for _, ca := range approaches {
		if neo, ok := db.byDesignation[ca.Designation]; ok {
			ca.Link(neo)
		}
	}

	return db
}

// GetNEOByDesignation is an exact, case-sensitive lookup.
func (db *NEODatabase) GetNEOByDesignation(designation string) (*models.NearEarthObject, bool) {
	neo, ok := db.byDesignation[designation]
	return neo, ok
}

// GetNEOByName is an exact, case-sensitive lookup. The empty name never
// matches.
func (db *NEODatabase) GetNEOByName(name string) (*models.NearEarthObject, bool) {
	if name == "" {
		return nil, false
	}
	neo, ok := db.byName[name]
	return neo, ok
}

func (db *NEODatabase) NEOs() []*models.NearEarthObject {
	return db.neos
}

func (db *NEODatabase) Approaches() []*models.CloseApproach {
	return db.approaches
}

// Query streams the approaches matching every filter, in dataset order.
// Nothing is evaluated until the stream is consumed.
func (db *NEODatabase) Query(fs ...filters.AttributeFilter) *Results {
	return &Results{approaches: db.approaches, filters: fs}
}

// Results is a lazy query result.
//
// The stream ends at the first approach a filter cannot evaluate (an
// NEO-sourced filter on an unlinked approach). Later approaches are not
// produced even if they would match. Err reports that condition once the
// stream has been consumed.
type Results struct {
	approaches []*models.CloseApproach
	filters    []filters.AttributeFilter
	err        error
}

func (r *Results) All() iter.Seq[*models.CloseApproach] {
	return func(yield func(*models.CloseApproach) bool) {
		r.err = nil
		for _, ca := range r.approaches {
			ok, err := filters.MatchAll(ca, r.filters)
			if err != nil {
				r.err = err
				return
			}
			if ok && !yield(ca) {
				return
			}
		}
	}
}

// Err returns the error that cut the last iteration short, if any.
func (r *Results) Err() error {
	return r.err
}
