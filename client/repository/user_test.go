package repository

import (
	"context"
	"net/http"
	"testing"

	"rently-backend/client/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUser(id uint, username string) api.User {
	return api.User{
		ID:        id,
		Username:  username,
		Email:     username + "@example.com",
		FullName:  "Test " + username,
		UserType:  "landlord",
		CreatedAt: "2026-01-01 10:00:00",
	}
}

func TestUserListFillsCacheAndServesFromIt(t *testing.T) {
	b := newBackend(t)
	b.handle("/users", func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, http.StatusOK, map[string]interface{}{
			"users": []api.User{sampleUser(1, "anna"), sampleUser(2, "bob")},
		})
	})

	st := testStore(t)
	repo := NewUserRepository(api.NewClient(b.URL()), st, testLogger())

	users, err := repo.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, users, 2)
	network := b.Calls()

	users, err = repo.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, network, b.Calls(), "second list should be served from cache")
}

func TestUserListFallsBackToCacheWhenOffline(t *testing.T) {
	st := testStore(t)
	require.NoError(t, st.UpsertUser(context.Background(), &api.User{ID: 1, Username: "anna", UserType: "landlord"}))

	repo := NewUserRepository(deadClient(t), st, testLogger())

	users, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "anna", users[0].Username)
}

func TestUserListErrorsWhenOfflineAndCacheEmpty(t *testing.T) {
	repo := NewUserRepository(deadClient(t), testStore(t), testLogger())

	_, err := repo.List(context.Background(), false)
	require.Error(t, err)
	var repoErr *Error
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, "Could not load users", repoErr.Message)
}

func TestUserGetByIDCachesAndServesOffline(t *testing.T) {
	b := newBackend(t)
	b.handle("/users/3", func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, http.StatusOK, sampleUser(3, "carla"))
	})

	st := testStore(t)
	repo := NewUserRepository(api.NewClient(b.URL()), st, testLogger())

	user, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "carla", user.Username)

	b.Close()
	user, err = repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "carla", user.Username)
}

func TestUserUpdatePropagatesServerRowToCache(t *testing.T) {
	b := newBackend(t)
	b.handle("/users/1", func(w http.ResponseWriter, r *http.Request) {
		updated := sampleUser(1, "anna")
		updated.FullName = "Anna Renamed"
		writeSuccess(w, http.StatusOK, updated)
	})

	st := testStore(t)
	require.NoError(t, st.UpsertUser(context.Background(), &api.User{ID: 1, Username: "anna", FullName: "Anna Old"}))

	repo := NewUserRepository(api.NewClient(b.URL()), st, testLogger())

	name := "Anna Renamed"
	updated, err := repo.Update(context.Background(), 1, api.UserInput{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Anna Renamed", updated.FullName)

	cached, err := st.User(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Anna Renamed", cached.FullName)
}

func TestUserUpdateFailureKeepsServerMessage(t *testing.T) {
	b := newBackend(t)
	b.handle("/users/1", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusConflict, "Email is already in use")
	})

	repo := NewUserRepository(api.NewClient(b.URL()), testStore(t), testLogger())

	email := "dup@example.com"
	_, err := repo.Update(context.Background(), 1, api.UserInput{Email: &email})
	require.EqualError(t, err, "Email is already in use")
}

func TestUserDeleteRemovesCachedRow(t *testing.T) {
	b := newBackend(t)
	b.handle("/users/1", func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, http.StatusOK, nil)
	})

	st := testStore(t)
	require.NoError(t, st.UpsertUser(context.Background(), &api.User{ID: 1, Username: "anna"}))

	repo := NewUserRepository(api.NewClient(b.URL()), st, testLogger())
	require.NoError(t, repo.Delete(context.Background(), 1))

	_, err := st.User(context.Background(), 1)
	assert.Error(t, err)
}
