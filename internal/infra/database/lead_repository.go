package database

import (
	"context"
	"time"

	"github.com/craftlocal/leadflow/internal/entity"
)

type LeadRepository struct {
	Store *LeadStore
}

func NewLeadRepository(store *LeadStore) *LeadRepository {
	return &LeadRepository{Store: store}
}

// Create appends the lead to the collection and assigns its id. Ids are
// clock-derived (unix milliseconds) but bumped past the highest id already in
// the collection, so rapid creation cannot reissue one. Assigned exactly
// once, never reassigned.
func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	_, err := r.Store.Mutate(func(leads []entity.Lead) ([]entity.Lead, error) {
		id := time.Now().UnixMilli()
		for _, l := range leads {
			if l.ID >= id {
				id = l.ID + 1
			}
		}
		lead.ID = id
		return append(leads, *lead), nil
	})
	return err
}

func (r *LeadRepository) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	leads, err := r.Store.LoadAll()
	if err != nil {
		return nil, err
	}
	for i := range leads {
		if leads[i].ID == id {
			return &leads[i], nil
		}
	}
	return nil, entity.ErrLeadNotFound
}

// List returns the full collection in insertion order, newest last.
func (r *LeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	return r.Store.LoadAll()
}

// Update applies fn to the lead with the given id inside one store cycle and
// returns the updated record.
func (r *LeadRepository) Update(ctx context.Context, id int64, fn func(*entity.Lead) error) (*entity.Lead, error) {
	var updated *entity.Lead

	_, err := r.Store.Mutate(func(leads []entity.Lead) ([]entity.Lead, error) {
		for i := range leads {
			if leads[i].ID != id {
				continue
			}
			if err := fn(&leads[i]); err != nil {
				return nil, err
			}
			result := leads[i]
			updated = &result
			return leads, nil
		}
		return nil, entity.ErrLeadNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Mutate exposes the store's load-modify-save cycle for callers that need to
// inspect the whole collection while mutating, like photo reconciliation.
func (r *LeadRepository) Mutate(ctx context.Context, fn func(leads []entity.Lead) ([]entity.Lead, error)) ([]entity.Lead, error) {
	return r.Store.Mutate(fn)
}
