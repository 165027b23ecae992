package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"rently-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userData struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

func TestListUsersAdminOnly(t *testing.T) {
	app := setupApp(t)
	admin := createUser(t, models.UserTypeAdmin, "root")
	landlord := createUser(t, models.UserTypeLandlord, "anna")

	status, _ := doJSON(t, app, http.MethodGet, "/users", demoToken(landlord), nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env := doJSON(t, app, http.MethodGet, "/users", demoToken(admin), nil)
	require.Equal(t, http.StatusOK, status)
	var data struct {
		Users []userData `json:"users"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Users, 2)
}

func TestListLandlordsPublic(t *testing.T) {
	app := setupApp(t)
	createUser(t, models.UserTypeAdmin, "root")
	createUser(t, models.UserTypeLandlord, "anna")
	createUser(t, models.UserTypeGuest, "gary")

	status, env := doJSON(t, app, http.MethodGet, "/landlords", "", nil)
	require.Equal(t, http.StatusOK, status)
	var data struct {
		Landlords []userData `json:"landlords"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Landlords, 1)
	assert.Equal(t, "anna", data.Landlords[0].Username)
}

func TestGetUserSelfOrAdmin(t *testing.T) {
	app := setupApp(t)
	admin := createUser(t, models.UserTypeAdmin, "root")
	anna := createUser(t, models.UserTypeLandlord, "anna")
	bob := createUser(t, models.UserTypeLandlord, "bob")

	path := fmt.Sprintf("/users/%d", anna.ID)

	status, _ := doJSON(t, app, http.MethodGet, path, demoToken(bob), nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env := doJSON(t, app, http.MethodGet, path, demoToken(anna), nil)
	require.Equal(t, http.StatusOK, status)
	var data userData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "anna", data.Username)

	status, _ = doJSON(t, app, http.MethodGet, path, demoToken(admin), nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestUpdateUser(t *testing.T) {
	app := setupApp(t)
	anna := createUser(t, models.UserTypeLandlord, "anna")
	bob := createUser(t, models.UserTypeLandlord, "bob")

	path := fmt.Sprintf("/users/%d", anna.ID)

	status, env := doJSON(t, app, http.MethodPut, path, demoToken(anna), map[string]string{
		"full_name": "Anna Updated",
		"phone":     "555-0101",
	})
	require.Equal(t, http.StatusOK, status)
	var data struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Anna Updated", data.FullName)
	assert.Equal(t, "555-0101", data.Phone)

	// taking another user's email is a conflict
	status, _ = doJSON(t, app, http.MethodPut, path, demoToken(anna), map[string]string{
		"email": bob.Email,
	})
	assert.Equal(t, http.StatusConflict, status)
}

func TestDeleteUser(t *testing.T) {
	app := setupApp(t)
	admin := createUser(t, models.UserTypeAdmin, "root")
	anna := createUser(t, models.UserTypeLandlord, "anna")
	bob := createUser(t, models.UserTypeLandlord, "bob")
	createProperty(t, anna.ID, "Anna's flat", 700)

	// landlords cannot delete anyone
	status, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/users/%d", bob.ID), demoToken(anna), nil)
	assert.Equal(t, http.StatusForbidden, status)

	// a landlord with properties cannot be removed
	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/users/%d", anna.ID), demoToken(admin), nil)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/users/%d", bob.ID), demoToken(admin), nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/users/%d", bob.ID), demoToken(admin), nil)
	assert.Equal(t, http.StatusNotFound, status)
}
