package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rentnest/rentnest/database"
	"github.com/rentnest/rentnest/models"
)

type PropertyRequest struct {
	Title                string   `json:"title" validate:"required,min=5"`
	Description          string   `json:"description"`
	Address              string   `json:"address" validate:"required"`
	City                 string   `json:"city" validate:"required"`
	PostalCode           string   `json:"postal_code"`
	MonthlyRent          float64  `json:"monthly_rent" validate:"required,gt=0"`
	Deposit              float64  `json:"deposit" validate:"omitempty,gte=0"`
	Bedrooms             int      `json:"bedrooms" validate:"omitempty,gte=0"`
	SurfaceM2            float64  `json:"surface_m2" validate:"omitempty,gt=0"`
	Furnished            bool     `json:"furnished"`
	VisitDurationMinutes int      `json:"visit_duration_minutes" validate:"omitempty,gt=0,lte=240"`
	Published            bool     `json:"published"`
	PhotoURLs            []string `json:"photo_urls" validate:"omitempty,dive,url"`
}

func CreateProperty(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	ownerID, _ := uuid.Parse(claims["user_id"].(string))

	var req PropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	visitDuration := req.VisitDurationMinutes
	if visitDuration == 0 {
		visitDuration = 30
	}

	property := models.Property{
		OwnerID:              ownerID,
		Title:                req.Title,
		Description:          req.Description,
		Address:              req.Address,
		City:                 req.City,
		PostalCode:           req.PostalCode,
		MonthlyRent:          req.MonthlyRent,
		Deposit:              req.Deposit,
		Bedrooms:             req.Bedrooms,
		SurfaceM2:            req.SurfaceM2,
		Furnished:            req.Furnished,
		VisitDurationMinutes: visitDuration,
		Published:            req.Published,
	}
	if err := database.DB.Create(&property).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create property"})
	}

	for i, url := range req.PhotoURLs {
		photo := models.PropertyPhoto{PropertyID: property.ID, URL: url, Position: i}
		database.DB.Create(&photo)
	}

	database.DB.Preload("Photos").First(&property, "id = ?", property.ID)
	return c.Status(fiber.StatusCreated).JSON(property)
}

func UpdateProperty(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	ownerID, _ := uuid.Parse(claims["user_id"].(string))
	propertyID := c.Params("propertyId")

	var property models.Property
	if err := database.DB.First(&property, "id = ?", propertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Property not found"})
	}
	if property.OwnerID != ownerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your property"})
	}

	var req PropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	property.Title = req.Title
	property.Description = req.Description
	property.Address = req.Address
	property.City = req.City
	property.PostalCode = req.PostalCode
	property.MonthlyRent = req.MonthlyRent
	property.Deposit = req.Deposit
	property.Bedrooms = req.Bedrooms
	property.SurfaceM2 = req.SurfaceM2
	property.Furnished = req.Furnished
	property.Published = req.Published
	if req.VisitDurationMinutes > 0 {
		property.VisitDurationMinutes = req.VisitDurationMinutes
	}

	if err := database.DB.Save(&property).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update property"})
	}

	if req.PhotoURLs != nil {
		database.DB.Where("property_id = ?", property.ID).Delete(&models.PropertyPhoto{})
		for i, url := range req.PhotoURLs {
			photo := models.PropertyPhoto{PropertyID: property.ID, URL: url, Position: i}
			database.DB.Create(&photo)
		}
	}

	database.DB.Preload("Photos").First(&property, "id = ?", property.ID)
	return c.JSON(property)
}

func DeleteProperty(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	ownerID, _ := uuid.Parse(claims["user_id"].(string))
	propertyID := c.Params("propertyId")

	var property models.Property
	if err := database.DB.First(&property, "id = ?", propertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Property not found"})
	}
	if property.OwnerID != ownerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your property"})
	}

	var activeVisits int64
	database.DB.Model(&models.VisitBooking{}).
		Where("property_id = ? AND status IN ?", property.ID,
			[]string{models.VisitStatusPending, models.VisitStatusConfirmed}).
		Count(&activeVisits)
	if activeVisits > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Cannot delete a property with pending or confirmed visits"})
	}

	if err := database.DB.Delete(&property).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete property"})
	}

	return c.JSON(fiber.Map{"message": "Property deleted"})
}

func GetMyProperties(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	ownerID, _ := uuid.Parse(claims["user_id"].(string))

	var properties []models.Property
	database.DB.Preload("Photos").Where("owner_id = ?", ownerID).Order("created_at desc").Find(&properties)

	return c.JSON(properties)
}

func SearchProperties(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	offset := (page - 1) * pageSize

	query := database.DB.Preload("Photos").Where("published = ?", true)

	if city := c.Query("city"); city != "" {
		query = query.Where("city ILIKE ?", city)
	}
	if minRent := c.Query("min_rent"); minRent != "" {
		if v, err := strconv.ParseFloat(minRent, 64); err == nil {
			query = query.Where("monthly_rent >= ?", v)
		}
	}
	if maxRent := c.Query("max_rent"); maxRent != "" {
		if v, err := strconv.ParseFloat(maxRent, 64); err == nil {
			query = query.Where("monthly_rent <= ?", v)
		}
	}
	if bedrooms := c.Query("bedrooms"); bedrooms != "" {
		if v, err := strconv.Atoi(bedrooms); err == nil {
			query = query.Where("bedrooms >= ?", v)
		}
	}
	if furnished := c.Query("furnished"); furnished != "" {
		query = query.Where("furnished = ?", furnished == "true")
	}

	var properties []models.Property
	query.Order("created_at desc").Limit(pageSize).Offset(offset).Find(&properties)

	return c.JSON(properties)
}

func GetProperty(c *fiber.Ctx) error {
	propertyID := c.Params("propertyId")

	var property models.Property
	if err := database.DB.Preload("Photos").Preload("Owner").First(&property, "id = ?", propertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Property not found"})
	}

	return c.JSON(property)
}
