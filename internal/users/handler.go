package users

import (
	"errors"
	"strings"

	"rently-backend/internal/auth"
	"rently-backend/internal/database"
	"rently-backend/internal/models"
	"rently-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserResponse struct {
	ID        uint            `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	FullName  string          `json:"full_name"`
	UserType  models.UserType `json:"user_type"`
	CreatedAt string          `json:"created_at"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	FullName *string `json:"full_name"`
}

func toResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		FullName:  u.FullName,
		UserType:  u.UserType,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /users (admin only, enforced by route middleware)
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := database.DB.Order("created_at DESC").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list users")
		}

		res := make([]UserResponse, 0, len(users))
		for i := range users {
			res = append(res, toResponse(&users[i]))
		}
		return respond.Success(c, fiber.StatusOK, "Users listed", fiber.Map{"users": res})
	}
}

// GET /landlords — the landlord directory is a view over users, there is no
// separate landlords table.
func ListLandlordsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var landlords []models.User
		if err := database.DB.
			Where("user_type = ?", models.UserTypeLandlord).
			Order("created_at DESC").
			Find(&landlords).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list landlords")
		}

		res := make([]UserResponse, 0, len(landlords))
		for i := range landlords {
			res = append(res, toResponse(&landlords[i]))
		}
		return respond.Success(c, fiber.StatusOK, "Landlords listed", fiber.Map{"landlords": res})
	}
}

// GET /users/:id (admin or the user themselves)
func GetUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid user id")
		}
		if err := requireSelfOrAdmin(c, uint(id)); err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return respond.Success(c, fiber.StatusOK, "User found", toResponse(&user))
	}
}

// PUT /users/:id (admin or the user themselves)
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid user id")
		}
		if err := requireSelfOrAdmin(c, uint(id)); err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Email != nil {
			email := strings.TrimSpace(strings.ToLower(*body.Email))
			if email == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Email cannot be empty")
			}
			var count int64
			database.DB.Model(&models.User{}).
				Where("email = ? AND id <> ?", email, user.ID).
				Count(&count)
			if count > 0 {
				return fiber.NewError(fiber.StatusConflict, "Email already registered")
			}
			user.Email = email
		}
		if body.Phone != nil {
			user.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.FullName != nil {
			name := strings.TrimSpace(*body.FullName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Full name cannot be empty")
			}
			user.FullName = name
		}

		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update user")
		}
		return respond.Success(c, fiber.StatusOK, "User updated", toResponse(&user))
	}
}

// DELETE /users/:id (admin only, enforced by route middleware)
func DeleteUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid user id")
		}

		var user models.User
		if err := database.DB.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "User not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load user")
		}

		// A landlord with live listings cannot be removed.
		var propertyCount int64
		database.DB.Model(&models.Property{}).
			Where("landlord_id = ?", user.ID).
			Count(&propertyCount)
		if propertyCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "User still owns properties")
		}

		if err := database.DB.Delete(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete user")
		}
		return respond.Success(c, fiber.StatusOK, "User deleted", nil)
	}
}

func requireSelfOrAdmin(c *fiber.Ctx, id uint) error {
	callerID, ok := auth.CallerID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}
	callerType, _ := auth.CallerType(c)
	if callerID != id && callerType != models.UserTypeAdmin {
		return fiber.NewError(fiber.StatusForbidden, "You are not allowed to access this user")
	}
	return nil
}
