package repository

import (
	"context"
	"strings"

	"rently-backend/client/api"
	"rently-backend/client/store"

	"github.com/sirupsen/logrus"
)

type RequestRepository struct {
	client *api.Client
	store  *store.Store
	log    *logrus.Logger
}

func NewRequestRepository(client *api.Client, st *store.Store, log *logrus.Logger) *RequestRepository {
	return &RequestRepository{client: client, store: st, log: log}
}

// Create submits a contact request. There is no optimistic local insert: a
// request only exists once the server assigned it an id.
func (r *RequestRepository) Create(ctx context.Context, input api.RequestInput) (*api.Request, error) {
	input.RequesterName = strings.TrimSpace(input.RequesterName)
	input.RequesterEmail = strings.TrimSpace(input.RequesterEmail)
	input.Message = strings.TrimSpace(input.Message)
	if input.PropertyID == 0 || input.RequesterName == "" || input.RequesterEmail == "" || input.Message == "" {
		return nil, newError("All fields are required")
	}

	created, err := r.client.CreateRequest(ctx, input)
	if err != nil {
		return nil, apiError(err, "Could not send request")
	}
	if err := r.store.UpsertRequest(ctx, created); err != nil {
		r.log.WithError(err).Warn("request cache write failed")
	}
	return created, nil
}

// ListByLandlord returns a landlord's inbox, refreshed from the server when
// possible. Like the property listing it never hard-fails: a network error
// degrades to the cached rows, which may be empty.
func (r *RequestRepository) ListByLandlord(ctx context.Context, landlordID uint) ([]api.Request, error) {
	fresh, err := r.client.ListLandlordRequests(ctx, landlordID)
	if err != nil {
		r.log.WithError(err).Warn("request list fetch failed, degrading to cache")
		cached, cacheErr := r.store.RequestsByLandlord(ctx, landlordID)
		if cacheErr != nil {
			r.log.WithError(cacheErr).Warn("request cache read failed")
			return []api.Request{}, nil
		}
		return cached, nil
	}

	if err := r.store.ReplaceLandlordRequests(ctx, landlordID, fresh); err != nil {
		r.log.WithError(err).Warn("request cache refresh failed")
	}
	return fresh, nil
}

// MarkRead flips a request to read on the server, then mirrors the change
// locally. The transition is one-way; re-marking is harmless.
func (r *RequestRepository) MarkRead(ctx context.Context, id uint) (*api.Request, error) {
	updated, err := r.client.MarkRequestRead(ctx, id)
	if err != nil {
		return nil, apiError(err, "Could not mark request as read")
	}
	if err := r.store.UpsertRequest(ctx, updated); err != nil {
		r.log.WithError(err).Warn("request cache write failed")
	}
	return updated, nil
}

// UnreadCount asks the server for the badge count and falls back to counting
// unread cached rows offline.
func (r *RequestRepository) UnreadCount(ctx context.Context, landlordID uint) (int64, error) {
	count, err := r.client.UnreadCount(ctx, landlordID)
	if err == nil {
		return count, nil
	}
	r.log.WithError(err).Warn("unread count fetch failed, counting cached rows")

	cached, cacheErr := r.store.CountUnreadRequests(ctx, landlordID)
	if cacheErr != nil {
		return 0, apiError(err, "Could not load unread count")
	}
	return cached, nil
}
