package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rentnest/rentnest/database"
	"github.com/rentnest/rentnest/models"
)

type SubmitDocumentRequest struct {
	FileURL string `json:"file_url" validate:"required,url"`
}

// SubmitDocument attaches an uploaded file to one checklist entry. Rejected
// documents can be re-submitted.
func SubmitDocument(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	tenantID, _ := uuid.Parse(claims["user_id"].(string))

	var req SubmitDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var document models.ContractDocument
	if err := database.DB.First(&document, "id = ?", c.Params("documentId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found"})
	}

	var contract models.LeaseContract
	if err := database.DB.First(&contract, "id = ?", document.ContractID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Contract not found"})
	}
	if contract.TenantID != tenantID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This checklist does not belong to you"})
	}
	if document.Status == models.DocumentStatusApproved {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "This document has already been approved"})
	}

	now := time.Now()
	document.FileURL = &req.FileURL
	document.Status = models.DocumentStatusSubmitted
	document.SubmittedAt = &now
	document.ReviewNote = nil
	document.ReviewedAt = nil

	if err := database.DB.Save(&document).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit document"})
	}

	return c.JSON(document)
}

type ReviewDocumentRequest struct {
	Approve    bool    `json:"approve"`
	ReviewNote *string `json:"review_note" validate:"omitempty,max=2000"`
}

func ReviewDocument(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	ownerID, _ := uuid.Parse(claims["user_id"].(string))

	var req ReviewDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var document models.ContractDocument
	if err := database.DB.First(&document, "id = ?", c.Params("documentId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found"})
	}

	var contract models.LeaseContract
	if err := database.DB.First(&contract, "id = ?", document.ContractID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Contract not found"})
	}
	if contract.OwnerID != ownerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This checklist does not belong to your contract"})
	}
	if document.Status != models.DocumentStatusSubmitted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only submitted documents can be reviewed"})
	}

	now := time.Now()
	if req.Approve {
		document.Status = models.DocumentStatusApproved
	} else {
		document.Status = models.DocumentStatusRejected
	}
	document.ReviewNote = req.ReviewNote
	document.ReviewedAt = &now

	if err := database.DB.Save(&document).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to review document"})
	}

	return c.JSON(document)
}

// GetChecklist returns a contract's checklist with a completion summary.
func GetChecklist(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var contract models.LeaseContract
	if err := database.DB.Preload("Documents").First(&contract, "id = ?", c.Params("contractId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Contract not found"})
	}
	if contract.TenantID != userID && contract.OwnerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a party to this contract"})
	}

	approved := 0
	for _, document := range contract.Documents {
		if document.Status == models.DocumentStatusApproved {
			approved++
		}
	}

	return c.JSON(fiber.Map{
		"documents": contract.Documents,
		"approved":  approved,
		"total":     len(contract.Documents),
		"complete":  approved == len(contract.Documents),
	})
}
