package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"rently-backend/internal/config"
	"rently-backend/internal/database"
	"rently-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.DB = db
	database.Migrate(db)

	cfg := &config.Config{
		TokenScheme:  "demo",
		CORSOrigins:  "http://localhost:5173",
		ImagePath:    t.TempDir(),
		ImageBaseURL: "/images",
	}
	return New(cfg)
}

type testEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, testEnvelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env testEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func createUser(t *testing.T, userType models.UserType, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "Test " + username,
		PasswordHash: string(hash),
		UserType:     userType,
	}
	require.NoError(t, database.DB.Create(user).Error)
	return user
}

func demoToken(user *models.User) string {
	return fmt.Sprintf("demo-token-%d", user.ID)
}

func createProperty(t *testing.T, landlordID uint, title string, price float64) *models.Property {
	t.Helper()

	property := &models.Property{
		LandlordID:    landlordID,
		Title:         title,
		Address:       "12 Main St",
		Price:         price,
		BedroomCount:  2,
		BathroomCount: 1,
		FurnitureType: models.FurnitureFurnished,
		ImageURLs:     "[]",
	}
	require.NoError(t, database.DB.Create(property).Error)
	return property
}
