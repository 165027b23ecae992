package requests

import (
	"errors"
	"strings"

	"rently-backend/internal/auth"
	"rently-backend/internal/database"
	"rently-backend/internal/models"
	"rently-backend/internal/respond"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

type CreateRequestRequest struct {
	PropertyID     uint   `json:"property_id" validate:"required"`
	LandlordID     *uint  `json:"landlord_id"` // optional, must match the property owner when set
	RequesterName  string `json:"requester_name" validate:"required,max=100"`
	RequesterEmail string `json:"requester_email" validate:"required,email"`
	RequesterPhone string `json:"requester_phone" validate:"omitempty,max=30"`
	Message        string `json:"message" validate:"required,max=2000"`
}

type RequestResponse struct {
	ID             uint   `json:"id"`
	PropertyID     uint   `json:"property_id"`
	LandlordID     uint   `json:"landlord_id"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	RequesterPhone string `json:"requester_phone"`
	Message        string `json:"message"`
	IsRead         bool   `json:"is_read"`
	CreatedAt      string `json:"created_at"`
}

func toResponse(r *models.Request) RequestResponse {
	return RequestResponse{
		ID:             r.ID,
		PropertyID:     r.PropertyID,
		LandlordID:     r.LandlordID,
		RequesterName:  r.RequesterName,
		RequesterEmail: r.RequesterEmail,
		RequesterPhone: r.RequesterPhone,
		Message:        r.Message,
		IsRead:         r.IsRead,
		CreatedAt:      r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /requests — public contact form, no auth.
func CreateRequestHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRequestRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.RequesterName = strings.TrimSpace(body.RequesterName)
		body.RequesterEmail = strings.TrimSpace(strings.ToLower(body.RequesterEmail))
		body.Message = strings.TrimSpace(body.Message)

		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "All fields are required")
		}

		var property models.Property
		if err := database.DB.First(&property, body.PropertyID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Property not found")
		}
		// The landlord is always the property owner; a mismatched payload is
		// a client bug, not something to silently correct.
		if body.LandlordID != nil && *body.LandlordID != property.LandlordID {
			return fiber.NewError(fiber.StatusBadRequest, "landlord_id does not match the property owner")
		}

		request := models.Request{
			PropertyID:     property.ID,
			LandlordID:     property.LandlordID,
			RequesterName:  body.RequesterName,
			RequesterEmail: body.RequesterEmail,
			RequesterPhone: strings.TrimSpace(body.RequesterPhone),
			Message:        body.Message,
		}
		if err := database.DB.Create(&request).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create request")
		}

		return respond.Success(c, fiber.StatusCreated, "Request created", toResponse(&request))
	}
}

// GET /requests/landlord/:landlordId (landlord self or admin)
func ListLandlordRequestsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		landlordID, err := requireLandlordAccess(c)
		if err != nil {
			return err
		}

		var reqs []models.Request
		if err := database.DB.
			Where("landlord_id = ?", landlordID).
			Order("created_at DESC").
			Find(&reqs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list requests")
		}

		res := make([]RequestResponse, 0, len(reqs))
		for i := range reqs {
			res = append(res, toResponse(&reqs[i]))
		}
		return respond.Success(c, fiber.StatusOK, "Requests listed", fiber.Map{"requests": res})
	}
}

// PATCH /requests/:id/read (owning landlord or admin)
//
// Marking is one-way: a read request never becomes unread again, and
// re-marking is a no-op success.
func MarkReadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request id")
		}

		var request models.Request
		if err := database.DB.First(&request, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Request not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load request")
		}

		callerID, ok := auth.CallerID(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
		}
		callerType, _ := auth.CallerType(c)
		if callerType != models.UserTypeAdmin && request.LandlordID != callerID {
			return fiber.NewError(fiber.StatusForbidden, "You are not allowed to access this request")
		}

		if !request.IsRead {
			if err := database.DB.Model(&request).Update("is_read", true).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not mark request as read")
			}
			request.IsRead = true
		}
		return respond.Success(c, fiber.StatusOK, "Request marked as read", toResponse(&request))
	}
}

// GET /requests/landlord/:landlordId/unread-count (landlord self or admin)
func UnreadCountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		landlordID, err := requireLandlordAccess(c)
		if err != nil {
			return err
		}

		var count int64
		if err := database.DB.Model(&models.Request{}).
			Where("landlord_id = ? AND is_read = ?", landlordID, false).
			Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not count requests")
		}
		return respond.Success(c, fiber.StatusOK, "Unread count", fiber.Map{"unread_count": count})
	}
}

func requireLandlordAccess(c *fiber.Ctx) (uint, error) {
	landlordID, err := c.ParamsInt("landlordId")
	if err != nil || landlordID <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid landlord id")
	}

	callerID, ok := auth.CallerID(c)
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}
	callerType, _ := auth.CallerType(c)
	if callerType != models.UserTypeAdmin && callerID != uint(landlordID) {
		return 0, fiber.NewError(fiber.StatusForbidden, "You are not allowed to access these requests")
	}
	return uint(landlordID), nil
}
