package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rentnest/rentnest/database"
	"github.com/rentnest/rentnest/models"
	"github.com/rentnest/rentnest/services"
)

type RequestVisitRequest struct {
	PropertyID      string  `json:"property_id" validate:"required,uuid"`
	VisitDate       string  `json:"visit_date" validate:"required,datetime=2006-01-02"`
	VisitTime       string  `json:"visit_time" validate:"required,len=5"`
	DurationMinutes int     `json:"duration_minutes" validate:"omitempty,gt=0"`
	TenantNotes     *string `json:"tenant_notes" validate:"omitempty,max=2000"`
}

func RequestVisit(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	tenantID, _ := uuid.Parse(claims["user_id"].(string))

	var req RequestVisitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	propertyID, _ := uuid.Parse(req.PropertyID)
	visitDate, _ := time.Parse("2006-01-02", req.VisitDate)

	visit, err := services.RequestVisit(propertyID, tenantID, visitDate, req.VisitTime, req.DurationMinutes, req.TenantNotes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "The requested time is not within an open visit slot"})
		case errors.Is(err, services.ErrSlotUnavailable):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This slot is no longer available, please refresh the slot list"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to request visit"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(visit)
}

func GetMyVisits(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	tenantID, _ := uuid.Parse(claims["user_id"].(string))

	var visits []models.VisitBooking
	database.DB.
		Preload("Property.Photos").
		Where("tenant_id = ?", tenantID).
		Order("visit_date desc, visit_time desc").
		Find(&visits)

	return c.JSON(visits)
}

func GetOwnerVisits(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	ownerID, _ := uuid.Parse(claims["user_id"].(string))

	query := database.DB.
		Preload("Tenant").
		Preload("Property").
		Joins("JOIN properties ON properties.id = visit_bookings.property_id").
		Where("properties.owner_id = ?", ownerID)

	if status := c.Query("status"); status != "" {
		query = query.Where("visit_bookings.status = ?", status)
	}
	if propertyID := c.Query("property_id"); propertyID != "" {
		query = query.Where("visit_bookings.property_id = ?", propertyID)
	}

	var visits []models.VisitBooking
	query.Order("visit_date desc, visit_time desc").Find(&visits)

	return c.JSON(visits)
}

type ConfirmVisitRequest struct {
	OwnerNotes *string `json:"owner_notes" validate:"omitempty,max=2000"`
}

func ConfirmVisit(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	ownerID, _ := uuid.Parse(claims["user_id"].(string))
	visitID, err := uuid.Parse(c.Params("visitId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid visit id"})
	}

	var req ConfirmVisitRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	var existing models.VisitBooking
	if err := database.DB.Preload("Property").First(&existing, "id = ?", visitID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Visit not found"})
	}
	if existing.Property.OwnerID != ownerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your property"})
	}

	visit, err := services.ConfirmVisit(visitID, req.OwnerNotes)
	if err != nil {
		return visitServiceError(c, err)
	}

	return c.JSON(visit)
}

type CancelVisitRequest struct {
	Reason string `json:"reason" validate:"required,min=10,max=2000"`
}

func CancelVisit(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	actorID, _ := uuid.Parse(claims["user_id"].(string))
	visitID, err := uuid.Parse(c.Params("visitId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid visit id"})
	}

	var req CancelVisitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var visit models.VisitBooking
	if err := database.DB.Preload("Property").First(&visit, "id = ?", visitID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Visit not found"})
	}
	if visit.TenantID != actorID && visit.Property.OwnerID != actorID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a party to this visit"})
	}

	cancelled, err := services.CancelVisit(visitID, req.Reason)
	if err != nil {
		return visitServiceError(c, err)
	}

	return c.JSON(cancelled)
}

func CompleteVisit(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	ownerID, _ := uuid.Parse(claims["user_id"].(string))
	visitID, err := uuid.Parse(c.Params("visitId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid visit id"})
	}

	var visit models.VisitBooking
	if err := database.DB.Preload("Property").First(&visit, "id = ?", visitID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Visit not found"})
	}
	if visit.Property.OwnerID != ownerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your property"})
	}

	completed, err := services.CompleteVisit(visitID)
	if err != nil {
		return visitServiceError(c, err)
	}

	return c.JSON(completed)
}

func GetOwnerVisitStats(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	ownerID, _ := uuid.Parse(claims["user_id"].(string))

	var propertyID *uuid.UUID
	if raw := c.Query("property_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid property id"})
		}
		propertyID = &id
	}

	counts, err := services.VisitStatusCounts(propertyID, &ownerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute visit statistics"})
	}

	return c.JSON(counts)
}

func visitServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrVisitNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Visit not found"})
	case errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "This visit cannot change to the requested status"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update visit"})
	}
}
