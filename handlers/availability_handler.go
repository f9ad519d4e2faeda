package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rentnest/rentnest/database"
	"github.com/rentnest/rentnest/models"
	"github.com/rentnest/rentnest/services"
	"gorm.io/gorm"
)

type WeeklyRuleRequest struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required,len=5"`
	EndTime   string `json:"end_time" validate:"required,len=5"`
}

type ReplaceScheduleRequest struct {
	Rules []WeeklyRuleRequest `json:"rules" validate:"dive"`
}

// ReplaceWeeklySchedule swaps a property's whole recurring schedule in one
// transaction. The rule set is treated as a value: delete-and-recreate, never
// a per-row diff against a client-supplied array.
func ReplaceWeeklySchedule(c *fiber.Ctx) error {
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

	var req ReplaceScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	newRules := make([]models.WeeklyAvailabilityRule, 0, len(req.Rules))
	for _, rule := range req.Rules {
		start, err := services.ParseClock(rule.StartTime)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		end, err := services.ParseClock(rule.EndTime)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if start >= end {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Start time must be before end time"})
		}
		newRules = append(newRules, models.WeeklyAvailabilityRule{
			PropertyID: property.ID,
			DayOfWeek:  rule.DayOfWeek,
			StartTime:  rule.StartTime,
			EndTime:    rule.EndTime,
		})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", property.ID).Delete(&models.WeeklyAvailabilityRule{}).Error; err != nil {
			return err
		}
		if len(newRules) > 0 {
			if err := tx.Create(&newRules).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to replace schedule"})
	}

	return c.JSON(newRules)
}

func GetWeeklySchedule(c *fiber.Ctx) error {
	propertyID := c.Params("propertyId")

	var rules []models.WeeklyAvailabilityRule
	database.DB.Where("property_id = ?", propertyID).
		Order("day_of_week asc, start_time asc").
		Find(&rules)

	return c.JSON(rules)
}

type DateOverrideRequest struct {
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	Kind      string  `json:"kind" validate:"required,oneof=blocked extra"`
	StartTime *string `json:"start_time" validate:"omitempty,len=5"`
	EndTime   *string `json:"end_time" validate:"omitempty,len=5"`
}

func CreateDateOverride(c *fiber.Ctx) error {
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

	var req DateOverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	if req.Kind == models.OverrideKindExtra {
		if req.StartTime == nil || req.EndTime == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Extra overrides require both start and end times"})
		}
		start, err := services.ParseClock(*req.StartTime)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		end, err := services.ParseClock(*req.EndTime)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if start >= end {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Start time must be before end time"})
		}
	}

	override := models.DateOverride{
		PropertyID: property.ID,
		Date:       date,
		Kind:       req.Kind,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	if err := database.DB.Create(&override).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create override"})
	}

	return c.Status(fiber.StatusCreated).JSON(override)
}

func ListDateOverrides(c *fiber.Ctx) error {
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

	var overrides []models.DateOverride
	database.DB.Where("property_id = ?", property.ID).Order("date asc").Find(&overrides)

	return c.JSON(overrides)
}

func DeleteDateOverride(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	ownerID, _ := uuid.Parse(claims["user_id"].(string))
	overrideID := c.Params("overrideId")

	var override models.DateOverride
	if err := database.DB.First(&override, "id = ?", overrideID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Override not found"})
	}

	var property models.Property
	if err := database.DB.First(&property, "id = ?", override.PropertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Property not found"})
	}
	if property.OwnerID != ownerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your property"})
	}

	if err := database.DB.Delete(&override).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete override"})
	}

	return c.JSON(fiber.Map{"message": "Override deleted"})
}

// GetVisitSlots is the public availability query: the day's candidate grid
// minus every slot held by an active booking. Read-only; the commit protocol
// in services.RequestVisit never trusts this list.
func GetVisitSlots(c *fiber.Ctx) error {
	propertyID := c.Params("propertyId")

	var property models.Property
	if err := database.DB.First(&property, "id = ?", propertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Property not found"})
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid or missing date, expected YYYY-MM-DD"})
	}

	duration := property.VisitDurationMinutes
	if raw := c.Query("duration"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid duration"})
		}
	}

	var rules []models.WeeklyAvailabilityRule
	database.DB.Where("property_id = ?", property.ID).Find(&rules)
	var overrides []models.DateOverride
	database.DB.Where("property_id = ? AND date = ?", property.ID, date).Find(&overrides)

	candidates, err := services.GenerateCandidateSlots(rules, overrides, date, duration)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var bookings []models.VisitBooking
	database.DB.Where("property_id = ? AND visit_date = ? AND status IN ?",
		property.ID, date, []string{models.VisitStatusPending, models.VisitStatusConfirmed}).
		Find(&bookings)

	available := services.FilterAvailableSlots(candidates, bookings)

	startTimes := make([]string, 0, len(available))
	for _, slot := range available {
		startTimes = append(startTimes, slot.StartTime)
	}

	return c.JSON(fiber.Map{
		"date":             c.Query("date"),
		"duration_minutes": duration,
		"slots":            startTimes,
	})
}
