// Package repository implements the client-side data-access layer: each
// repository reconciles the local sqlite cache with the remote API under a
// read-through/fallback policy. Reads prefer the cache and degrade to stale
// data when the network is down; writes go to the server first and only then
// touch the cache.
package repository

import (
	"context"
	"strings"

	"rently-backend/client/api"
	"rently-backend/client/store"

	"github.com/sirupsen/logrus"
)

type PropertyRepository struct {
	client *api.Client
	store  *store.Store
	log    *logrus.Logger
}

// NewPropertyRepository wires a repository from its collaborators. One
// instance per application lifetime, passed to consumers explicitly.
func NewPropertyRepository(client *api.Client, st *store.Store, log *logrus.Logger) *PropertyRepository {
	return &PropertyRepository{client: client, store: st, log: log}
}

// List returns all properties. Without forceRefresh a non-empty cache is
// returned as-is; otherwise the server list replaces the cache. On network
// failure the stale cache is returned if it has any rows.
func (r *PropertyRepository) List(ctx context.Context, forceRefresh bool) ([]api.Property, error) {
	if !forceRefresh {
		cached, err := r.store.Properties(ctx)
		if err == nil && len(cached) > 0 {
			return cached, nil
		}
		if err != nil {
			r.log.WithError(err).Warn("property cache read failed")
		}
	}

	fresh, err := r.client.ListAllProperties(ctx)
	if err != nil {
		r.log.WithError(err).Warn("property list fetch failed, falling back to cache")
		cached, cacheErr := r.store.Properties(ctx)
		if cacheErr == nil && len(cached) > 0 {
			return cached, nil
		}
		return nil, apiError(err, "Could not load properties")
	}

	if err := r.store.ReplaceAllProperties(ctx, fresh); err != nil {
		r.log.WithError(err).Warn("property cache refresh failed")
	}
	return fresh, nil
}

// GetByID returns one property, cache first, then the server, then the stale
// cached row if the server is unreachable.
func (r *PropertyRepository) GetByID(ctx context.Context, id uint) (*api.Property, error) {
	cached, err := r.store.Property(ctx, id)
	if err == nil {
		return cached, nil
	}
	if err != store.ErrNotFound {
		r.log.WithError(err).Warn("property cache read failed")
	}

	fresh, err := r.client.GetProperty(ctx, id)
	if err != nil {
		// cached is only non-nil on the err==nil path above, so the only
		// fallback left is the error itself.
		return nil, apiError(err, "Could not load property")
	}

	if err := r.store.UpsertProperty(ctx, fresh); err != nil {
		r.log.WithError(err).Warn("property cache write failed")
	}
	return fresh, nil
}

// ListByLandlord returns a landlord's properties. Listing screens must never
// hard-fail: on remote failure this degrades to the cached subset, which may
// be empty.
func (r *PropertyRepository) ListByLandlord(ctx context.Context, landlordID uint) ([]api.Property, error) {
	cached, err := r.store.PropertiesByLandlord(ctx, landlordID)
	if err == nil && len(cached) > 0 {
		return cached, nil
	}
	if err != nil {
		r.log.WithError(err).Warn("property cache read failed")
	}

	all, err := r.client.ListAllProperties(ctx)
	if err != nil {
		r.log.WithError(err).Warn("property list fetch failed, degrading to empty list")
		return []api.Property{}, nil
	}

	filtered := make([]api.Property, 0)
	for _, p := range all {
		if p.LandlordID == landlordID {
			filtered = append(filtered, p)
		}
	}
	if err := r.store.UpsertProperties(ctx, filtered); err != nil {
		r.log.WithError(err).Warn("property cache write failed")
	}
	return filtered, nil
}

// Create persists a new property on the server, caches the returned row and
// then uploads attachments one by one. A failed image upload is logged and
// swallowed; it never fails the creation.
func (r *PropertyRepository) Create(ctx context.Context, input api.PropertyInput, imagePaths []string) (*api.Property, error) {
	if err := validatePropertyInput(&input); err != nil {
		return nil, err
	}

	created, err := r.client.CreateProperty(ctx, input)
	if err != nil {
		return nil, apiError(err, "Could not create property")
	}
	if err := r.store.UpsertProperty(ctx, created); err != nil {
		r.log.WithError(err).Warn("property cache write failed")
	}

	return r.uploadImages(ctx, created, imagePaths), nil
}

// Update mirrors Create for an existing property.
func (r *PropertyRepository) Update(ctx context.Context, id uint, input api.PropertyInput, imagePaths []string) (*api.Property, error) {
	if err := validatePropertyInput(&input); err != nil {
		return nil, err
	}

	updated, err := r.client.UpdateProperty(ctx, id, input)
	if err != nil {
		return nil, apiError(err, "Could not update property")
	}
	if err := r.store.UpsertProperty(ctx, updated); err != nil {
		r.log.WithError(err).Warn("property cache write failed")
	}

	return r.uploadImages(ctx, updated, imagePaths), nil
}

// Delete removes the property on the server, then locally. A remote failure
// leaves the cache untouched.
func (r *PropertyRepository) Delete(ctx context.Context, id uint) error {
	if err := r.client.DeleteProperty(ctx, id); err != nil {
		return apiError(err, "Could not delete property")
	}
	if err := r.store.DeleteProperty(ctx, id); err != nil {
		r.log.WithError(err).Warn("property cache delete failed")
	}
	return nil
}

func (r *PropertyRepository) uploadImages(ctx context.Context, property *api.Property, imagePaths []string) *api.Property {
	current := property
	for _, path := range imagePaths {
		updated, err := r.client.UploadPropertyImages(ctx, property.ID, []string{path})
		if err != nil {
			r.log.WithError(err).WithField("image", path).Warn("image upload failed, skipping")
			continue
		}
		current = updated
	}
	if current != property {
		if err := r.store.UpsertProperty(ctx, current); err != nil {
			r.log.WithError(err).Warn("property cache write failed")
		}
	}
	return current
}

func validatePropertyInput(input *api.PropertyInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Address = strings.TrimSpace(input.Address)
	if input.Title == "" || input.Address == "" || input.Price <= 0 {
		return newError("All fields are required")
	}
	return nil
}
