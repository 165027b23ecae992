package properties

import (
	"encoding/json"
	"errors"
	"strings"

	"rently-backend/internal/auth"
	"rently-backend/internal/config"
	"rently-backend/internal/database"
	"rently-backend/internal/models"
	"rently-backend/internal/respond"
	"rently-backend/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

type CreatePropertyRequest struct {
	Title         string               `json:"title" validate:"required,max=200"`
	Description   string               `json:"description" validate:"max=2000"`
	Address       string               `json:"address" validate:"required,max=300"`
	Price         float64              `json:"price" validate:"required,gt=0"`
	BedroomCount  int                  `json:"bedroom_count" validate:"gte=0"`
	BathroomCount int                  `json:"bathroom_count" validate:"gte=0"`
	FurnitureType models.FurnitureType `json:"furniture_type" validate:"required"`
	ImageURLs     []string             `json:"image_urls"`
	LandlordID    *uint                `json:"landlord_id"` // admin only, ignored for landlords
}

type UpdatePropertyRequest struct {
	Title         *string               `json:"title"`
	Description   *string               `json:"description"`
	Address       *string               `json:"address"`
	Price         *float64              `json:"price"`
	BedroomCount  *int                  `json:"bedroom_count"`
	BathroomCount *int                  `json:"bathroom_count"`
	FurnitureType *models.FurnitureType `json:"furniture_type"`
	ImageURLs     []string              `json:"image_urls"`
}

type PropertyResponse struct {
	ID            uint                 `json:"id"`
	LandlordID    uint                 `json:"landlord_id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Address       string               `json:"address"`
	Price         float64              `json:"price"`
	BedroomCount  int                  `json:"bedroom_count"`
	BathroomCount int                  `json:"bathroom_count"`
	FurnitureType models.FurnitureType `json:"furniture_type"`
	ImageURLs     []string             `json:"image_urls"`
	CreatedAt     string               `json:"created_at"`
	UpdatedAt     string               `json:"updated_at"`
}

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
}

func toResponse(p *models.Property) PropertyResponse {
	var urls []string
	if p.ImageURLs != "" {
		// Rows written before image support may hold junk; treat as empty.
		_ = json.Unmarshal([]byte(p.ImageURLs), &urls)
	}
	if urls == nil {
		urls = []string{}
	}
	return PropertyResponse{
		ID:            p.ID,
		LandlordID:    p.LandlordID,
		Title:         p.Title,
		Description:   p.Description,
		Address:       p.Address,
		Price:         p.Price,
		BedroomCount:  p.BedroomCount,
		BathroomCount: p.BathroomCount,
		FurnitureType: p.FurnitureType,
		ImageURLs:     urls,
		CreatedAt:     p.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     p.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func encodeImageURLs(urls []string) string {
	if len(urls) == 0 {
		return "[]"
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// GET /properties?page=&limit=&landlord_id=
func ListPropertiesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		limit := c.QueryInt("limit", 10)
		if limit < 1 || limit > 100 {
			limit = 10
		}

		query := database.DB.Model(&models.Property{})
		if landlordID := c.QueryInt("landlord_id", 0); landlordID > 0 {
			query = query.Where("landlord_id = ?", landlordID)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list properties")
		}

		var props []models.Property
		if err := query.
			Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&props).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list properties")
		}

		res := make([]PropertyResponse, 0, len(props))
		for i := range props {
			res = append(res, toResponse(&props[i]))
		}

		totalPages := int((total + int64(limit) - 1) / int64(limit))
		return respond.Success(c, fiber.StatusOK, "Properties listed", fiber.Map{
			"properties": res,
			"pagination": Pagination{
				CurrentPage: page,
				PerPage:     limit,
				Total:       total,
				TotalPages:  totalPages,
			},
		})
	}
}

// GET /properties/:id
func GetPropertyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid property id")
		}

		var property models.Property
		if err := database.DB.First(&property, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Property not found")
		}
		return respond.Success(c, fiber.StatusOK, "Property found", toResponse(&property))
	}
}

// POST /properties (landlord/admin)
func CreatePropertyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePropertyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Title = strings.TrimSpace(body.Title)
		body.Address = strings.TrimSpace(body.Address)

		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "All fields are required")
		}
		if !models.ValidFurnitureType(body.FurnitureType) {
			return fiber.NewError(fiber.StatusBadRequest, "Furniture type must be furnished, semi_furnished or unfurnished")
		}

		landlordID, err := resolveLandlordID(c, body.LandlordID)
		if err != nil {
			return err
		}

		property := models.Property{
			LandlordID:    landlordID,
			Title:         body.Title,
			Description:   strings.TrimSpace(body.Description),
			Address:       body.Address,
			Price:         body.Price,
			BedroomCount:  body.BedroomCount,
			BathroomCount: body.BathroomCount,
			FurnitureType: body.FurnitureType,
			ImageURLs:     encodeImageURLs(body.ImageURLs),
		}
		if err := database.DB.Create(&property).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create property")
		}

		return respond.Success(c, fiber.StatusCreated, "Property created", toResponse(&property))
	}
}

// PUT /properties/:id (owning landlord or admin)
func UpdatePropertyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		property, err := loadOwnedProperty(c)
		if err != nil {
			return err
		}

		var body UpdatePropertyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Title != nil {
			title := strings.TrimSpace(*body.Title)
			if title == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Title cannot be empty")
			}
			property.Title = title
		}
		if body.Description != nil {
			property.Description = strings.TrimSpace(*body.Description)
		}
		if body.Address != nil {
			address := strings.TrimSpace(*body.Address)
			if address == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Address cannot be empty")
			}
			property.Address = address
		}
		if body.Price != nil {
			if *body.Price <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Price must be greater than zero")
			}
			property.Price = *body.Price
		}
		if body.BedroomCount != nil {
			if *body.BedroomCount < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Bedroom count cannot be negative")
			}
			property.BedroomCount = *body.BedroomCount
		}
		if body.BathroomCount != nil {
			if *body.BathroomCount < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Bathroom count cannot be negative")
			}
			property.BathroomCount = *body.BathroomCount
		}
		if body.FurnitureType != nil {
			if !models.ValidFurnitureType(*body.FurnitureType) {
				return fiber.NewError(fiber.StatusBadRequest, "Furniture type must be furnished, semi_furnished or unfurnished")
			}
			property.FurnitureType = *body.FurnitureType
		}
		if body.ImageURLs != nil {
			property.ImageURLs = encodeImageURLs(body.ImageURLs)
		}

		if err := database.DB.Save(property).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update property")
		}
		return respond.Success(c, fiber.StatusOK, "Property updated", toResponse(property))
	}
}

// DELETE /properties/:id (owning landlord or admin)
func DeletePropertyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		property, err := loadOwnedProperty(c)
		if err != nil {
			return err
		}

		// A property with open contact requests cannot be removed.
		var requestCount int64
		database.DB.Model(&models.Request{}).
			Where("property_id = ?", property.ID).
			Count(&requestCount)
		if requestCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Property has contact requests and cannot be deleted")
		}

		if err := database.DB.Delete(property).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete property")
		}
		return respond.Success(c, fiber.StatusOK, "Property deleted", nil)
	}
}

// POST /properties/:id/images (owning landlord or admin, multipart)
func UploadImagesHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		property, err := loadOwnedProperty(c)
		if err != nil {
			return err
		}

		form, err := c.MultipartForm()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Multipart form expected")
		}
		files := form.File["images"]
		if len(files) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "No images provided")
		}

		var urls []string
		if property.ImageURLs != "" {
			_ = json.Unmarshal([]byte(property.ImageURLs), &urls)
		}
		for _, file := range files {
			url, err := storage.SaveImage(cfg, file)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			urls = append(urls, url)
		}

		property.ImageURLs = encodeImageURLs(urls)
		if err := database.DB.Save(property).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save image URLs")
		}
		return respond.Success(c, fiber.StatusOK, "Images uploaded", toResponse(property))
	}
}

// resolveLandlordID decides which landlord a new property belongs to. A
// landlord always creates for themselves; an admin may create on behalf of
// any landlord via the landlord_id field.
func resolveLandlordID(c *fiber.Ctx, bodyLandlordID *uint) (uint, error) {
	callerID, ok := auth.CallerID(c)
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}
	callerType, _ := auth.CallerType(c)

	landlordID := callerID
	if callerType == models.UserTypeAdmin {
		if bodyLandlordID == nil || *bodyLandlordID == 0 {
			return 0, fiber.NewError(fiber.StatusBadRequest, "landlord_id is required for admin-created properties")
		}
		landlordID = *bodyLandlordID
	}

	var landlord models.User
	if err := database.DB.First(&landlord, landlordID).Error; err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Landlord does not exist")
	}
	if landlord.UserType != models.UserTypeLandlord {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Referenced user is not a landlord")
	}
	return landlordID, nil
}

func loadOwnedProperty(c *fiber.Ctx) (*models.Property, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid property id")
	}

	var property models.Property
	if err := database.DB.First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Property not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not load property")
	}

	callerID, ok := auth.CallerID(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}
	callerType, _ := auth.CallerType(c)
	if callerType != models.UserTypeAdmin && property.LandlordID != callerID {
		return nil, fiber.NewError(fiber.StatusForbidden, "You do not own this property")
	}
	return &property, nil
}
