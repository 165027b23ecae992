package store

import (
	"context"
	"testing"

	"rently-backend/client/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func prop(id, landlordID uint, title string, price float64) api.Property {
	return api.Property{
		ID:            id,
		LandlordID:    landlordID,
		Title:         title,
		Address:       "12 Main St",
		Price:         price,
		BedroomCount:  2,
		BathroomCount: 1,
		FurnitureType: "furnished",
		ImageURLs:     []string{"/images/a.jpg"},
		CreatedAt:     "2026-01-01 10:00:00",
		UpdatedAt:     "2026-01-01 10:00:00",
	}
}

func TestUpsertPropertyIsIdempotent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first := prop(1, 10, "Flat", 900)
	require.NoError(t, st.UpsertProperty(ctx, &first))

	// re-inserting the same id overwrites prior fields
	second := prop(1, 10, "Flat renamed", 1000)
	require.NoError(t, st.UpsertProperty(ctx, &second))

	all, err := st.Properties(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Flat renamed", all[0].Title)
	assert.Equal(t, 1000.0, all[0].Price)
	assert.Equal(t, []string{"/images/a.jpg"}, all[0].ImageURLs)
}

func TestPropertyNotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.Property(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceAllProperties(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	old := prop(1, 10, "Old", 500)
	require.NoError(t, st.UpsertProperty(ctx, &old))

	fresh := []api.Property{prop(2, 10, "New A", 600), prop(3, 20, "New B", 700)}
	require.NoError(t, st.ReplaceAllProperties(ctx, fresh))

	all, err := st.Properties(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, uint(2), all[0].ID)
	assert.Equal(t, uint(3), all[1].ID)

	// replacing with nothing empties the table
	require.NoError(t, st.ReplaceAllProperties(ctx, nil))
	all, err = st.Properties(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPropertiesByLandlord(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertProperties(ctx, []api.Property{
		prop(1, 10, "Anna one", 700),
		prop(2, 20, "Bob one", 800),
		prop(3, 10, "Anna two", 900),
	}))

	annas, err := st.PropertiesByLandlord(ctx, 10)
	require.NoError(t, err)
	require.Len(t, annas, 2)
	for _, p := range annas {
		assert.Equal(t, uint(10), p.LandlordID)
	}
}

func TestDeleteProperty(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	row := prop(1, 10, "Flat", 900)
	require.NoError(t, st.UpsertProperty(ctx, &row))
	require.NoError(t, st.DeleteProperty(ctx, 1))

	_, err := st.Property(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelledContextBlocksWrites(t *testing.T) {
	st := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	row := prop(1, 10, "Flat", 900)
	require.Error(t, st.UpsertProperty(ctx, &row))
	require.Error(t, st.ReplaceAllProperties(ctx, []api.Property{row}))

	all, err := st.Properties(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all, "a cancelled caller must not land a write")
}

func TestReplaceLandlordRequestsKeepsOtherRows(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	mine := api.Request{ID: 1, PropertyID: 1, LandlordID: 10, RequesterName: "Gary", RequesterEmail: "g@example.com", Message: "Hi"}
	other := api.Request{ID: 2, PropertyID: 2, LandlordID: 20, RequesterName: "Holly", RequesterEmail: "h@example.com", Message: "Hey"}
	require.NoError(t, st.UpsertRequest(ctx, &mine))
	require.NoError(t, st.UpsertRequest(ctx, &other))

	replacement := api.Request{ID: 3, PropertyID: 1, LandlordID: 10, RequesterName: "Iris", RequesterEmail: "i@example.com", Message: "Hello"}
	require.NoError(t, st.ReplaceLandlordRequests(ctx, 10, []api.Request{replacement}))

	ten, err := st.RequestsByLandlord(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ten, 1)
	assert.Equal(t, uint(3), ten[0].ID)

	twenty, err := st.RequestsByLandlord(ctx, 20)
	require.NoError(t, err)
	require.Len(t, twenty, 1, "other landlords' cached rows survive the replace")
}

func TestCountUnreadRequests(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	rows := []api.Request{
		{ID: 1, LandlordID: 10, PropertyID: 1, RequesterName: "A", RequesterEmail: "a@example.com", Message: "m", IsRead: false},
		{ID: 2, LandlordID: 10, PropertyID: 1, RequesterName: "B", RequesterEmail: "b@example.com", Message: "m", IsRead: true},
		{ID: 3, LandlordID: 20, PropertyID: 2, RequesterName: "C", RequesterEmail: "c@example.com", Message: "m", IsRead: false},
	}
	for i := range rows {
		require.NoError(t, st.UpsertRequest(ctx, &rows[i]))
	}

	count, err := st.CountUnreadRequests(ctx, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestUserRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	user := api.User{ID: 1, Username: "anna", Email: "anna@example.com", FullName: "Anna", UserType: "landlord", CreatedAt: "2026-01-01 10:00:00"}
	require.NoError(t, st.UpsertUser(ctx, &user))

	got, err := st.User(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, user, *got)

	require.NoError(t, st.ReplaceAllUsers(ctx, nil))
	_, err = st.User(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
