package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rentnest/rentnest/database"
	"github.com/rentnest/rentnest/models"
	"github.com/rentnest/rentnest/services"
)

func GetPlatformStats(c *fiber.Ctx) error {
	var userCount, propertyCount, publishedCount int64
	database.DB.Model(&models.User{}).Count(&userCount)
	database.DB.Model(&models.Property{}).Count(&propertyCount)
	database.DB.Model(&models.Property{}).Where("published = ?", true).Count(&publishedCount)

	visitCounts, err := services.VisitStatusCounts(nil, nil)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute visit statistics"})
	}

	type statusRow struct {
		Status string
		Total  int64
	}
	var contractRows []statusRow
	database.DB.Model(&models.LeaseContract{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&contractRows)

	contractCounts := make(map[string]int64)
	for _, row := range contractRows {
		contractCounts[row.Status] = row.Total
	}

	return c.JSON(fiber.Map{
		"users":                userCount,
		"properties":           propertyCount,
		"published_properties": publishedCount,
		"visits_by_status":     visitCounts,
		"contracts_by_status":  contractCounts,
	})
}

func GetAllUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "50"))
	offset := (page - 1) * pageSize

	query := database.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	query.Order("created_at desc").Limit(pageSize).Offset(offset).Find(&users)

	return c.JSON(users)
}

func ToggleUserStatus(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.IsActive = !user.IsActive
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}

	return c.JSON(fiber.Map{"id": user.ID, "is_active": user.IsActive})
}
