package repository

import (
	"context"

	"rently-backend/client/api"
	"rently-backend/client/store"

	"github.com/sirupsen/logrus"
)

type UserRepository struct {
	client *api.Client
	store  *store.Store
	log    *logrus.Logger
}

func NewUserRepository(client *api.Client, st *store.Store, log *logrus.Logger) *UserRepository {
	return &UserRepository{client: client, store: st, log: log}
}

func (r *UserRepository) List(ctx context.Context, forceRefresh bool) ([]api.User, error) {
	if !forceRefresh {
		cached, err := r.store.Users(ctx)
		if err == nil && len(cached) > 0 {
			return cached, nil
		}
		if err != nil {
			r.log.WithError(err).Warn("user cache read failed")
		}
	}

	fresh, err := r.client.ListUsers(ctx)
	if err != nil {
		r.log.WithError(err).Warn("user list fetch failed, falling back to cache")
		cached, cacheErr := r.store.Users(ctx)
		if cacheErr == nil && len(cached) > 0 {
			return cached, nil
		}
		return nil, apiError(err, "Could not load users")
	}

	if err := r.store.ReplaceAllUsers(ctx, fresh); err != nil {
		r.log.WithError(err).Warn("user cache refresh failed")
	}
	return fresh, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*api.User, error) {
	cached, err := r.store.User(ctx, id)
	if err == nil {
		return cached, nil
	}
	if err != store.ErrNotFound {
		r.log.WithError(err).Warn("user cache read failed")
	}

	fresh, err := r.client.GetUser(ctx, id)
	if err != nil {
		return nil, apiError(err, "Could not load user")
	}

	if err := r.store.UpsertUser(ctx, fresh); err != nil {
		r.log.WithError(err).Warn("user cache write failed")
	}
	return fresh, nil
}

// Update is write-through: the server row wins and replaces the cached one.
func (r *UserRepository) Update(ctx context.Context, id uint, input api.UserInput) (*api.User, error) {
	updated, err := r.client.UpdateUser(ctx, id, input)
	if err != nil {
		return nil, apiError(err, "Could not update user")
	}
	if err := r.store.UpsertUser(ctx, updated); err != nil {
		r.log.WithError(err).Warn("user cache write failed")
	}
	return updated, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	if err := r.client.DeleteUser(ctx, id); err != nil {
		return apiError(err, "Could not delete user")
	}
	if err := r.store.DeleteUser(ctx, id); err != nil {
		r.log.WithError(err).Warn("user cache delete failed")
	}
	return nil
}
