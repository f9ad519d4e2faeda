package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rentnest/rentnest/database"
	"github.com/rentnest/rentnest/models"
	"github.com/rentnest/rentnest/notifications"
	"github.com/rentnest/rentnest/utils"
	"gorm.io/gorm"
)

// defaultChecklist is seeded on every new lease contract; the tenant fills it
// in before the contract can go active.
var defaultChecklist = []string{"id_proof", "income_proof", "guarantor", "insurance"}

type CreateContractRequest struct {
	PropertyID  string  `json:"property_id" validate:"required,uuid"`
	TenantID    string  `json:"tenant_id" validate:"required,uuid"`
	VisitID     *string `json:"visit_id" validate:"omitempty,uuid"`
	MonthlyRent float64 `json:"monthly_rent" validate:"required,gt=0"`
	Deposit     float64 `json:"deposit" validate:"omitempty,gte=0"`
	StartDate   string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func CreateContract(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	ownerID, _ := uuid.Parse(claims["user_id"].(string))

	var req CreateContractRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	propertyID, _ := uuid.Parse(req.PropertyID)
	tenantID, _ := uuid.Parse(req.TenantID)
	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)
	if !startDate.Before(endDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Start date must be before end date"})
	}

	var property models.Property
	if err := database.DB.First(&property, "id = ?", propertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Property not found"})
	}
	if property.OwnerID != ownerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your property"})
	}

	var tenant models.User
	if err := database.DB.First(&tenant, "id = ?", tenantID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tenant not found"})
	}

	var visitID *uuid.UUID
	if req.VisitID != nil {
		id, _ := uuid.Parse(*req.VisitID)
		var visit models.VisitBooking
		if err := database.DB.First(&visit, "id = ? AND property_id = ? AND tenant_id = ?", id, propertyID, tenantID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Visit does not match this property and tenant"})
		}
		visitID = &id
	}

	var contract models.LeaseContract
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		reference, err := utils.GenerateContractReference(tx)
		if err != nil {
			return err
		}

		contract = models.LeaseContract{
			Reference:   reference,
			PropertyID:  propertyID,
			OwnerID:     ownerID,
			TenantID:    tenantID,
			VisitID:     visitID,
			MonthlyRent: req.MonthlyRent,
			Deposit:     req.Deposit,
			StartDate:   startDate,
			EndDate:     endDate,
			Status:      models.ContractStatusDraft,
		}
		if err := tx.Create(&contract).Error; err != nil {
			return err
		}

		for _, kind := range defaultChecklist {
			document := models.ContractDocument{ContractID: contract.ID, Kind: kind}
			if err := tx.Create(&document).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create contract"})
	}

	database.DB.Preload("Documents").First(&contract, "id = ?", contract.ID)
	return c.Status(fiber.StatusCreated).JSON(contract)
}

func GetMyContracts(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var contracts []models.LeaseContract
	database.DB.
		Preload("Property").
		Preload("Documents").
		Where("tenant_id = ? OR owner_id = ?", userID, userID).
		Order("created_at desc").
		Find(&contracts)

	return c.JSON(contracts)
}

func GetContract(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var contract models.LeaseContract
	if err := database.DB.
		Preload("Property").Preload("Tenant").Preload("Owner").Preload("Documents").
		First(&contract, "id = ?", c.Params("contractId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Contract not found"})
	}
	if contract.TenantID != userID && contract.OwnerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a party to this contract"})
	}

	return c.JSON(contract)
}

// SendContract moves a draft to sent and notifies the tenant.
func SendContract(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	ownerID, _ := uuid.Parse(claims["user_id"].(string))

	var contract models.LeaseContract
	if err := database.DB.Preload("Tenant").Preload("Property").First(&contract, "id = ?", c.Params("contractId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Contract not found"})
	}
	if contract.OwnerID != ownerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your contract"})
	}
	if contract.Status != models.ContractStatusDraft {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only draft contracts can be sent"})
	}

	contract.Status = models.ContractStatusSent
	if err := database.DB.Save(&contract).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send contract"})
	}

	go notifications.SendEmail(contract.Tenant.FullName, contract.Tenant.Email,
		"Your lease contract is ready to sign",
		"<h1>Lease contract "+contract.Reference+"</h1><p>The owner of "+contract.Property.Title+" has sent you a lease contract. Please review and sign it from your dashboard.</p>")

	return c.JSON(contract)
}

type SignContractRequest struct {
	SignatureURL string `json:"signature_url" validate:"required,url"`
}

// SignContract records the tenant's signature artifact. The signature itself
// is captured by the e-signature collaborator; only its location is stored.
func SignContract(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	tenantID, _ := uuid.Parse(claims["user_id"].(string))

	var req SignContractRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var contract models.LeaseContract
	if err := database.DB.Preload("Owner").First(&contract, "id = ?", c.Params("contractId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Contract not found"})
	}
	if contract.TenantID != tenantID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This contract was not sent to you"})
	}
	if contract.Status != models.ContractStatusSent {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only sent contracts can be signed"})
	}

	now := time.Now()
	contract.Status = models.ContractStatusSigned
	contract.SignatureURL = &req.SignatureURL
	contract.SignedAt = &now
	if err := database.DB.Save(&contract).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sign contract"})
	}

	go notifications.SendEmail(contract.Owner.FullName, contract.Owner.Email,
		"Contract "+contract.Reference+" has been signed",
		"<h1>Contract signed</h1><p>The tenant has signed lease contract "+contract.Reference+".</p>")

	return c.JSON(contract)
}

// ActivateContract moves a signed contract to active once the owner has
// approved the full document checklist.
func ActivateContract(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	ownerID, _ := uuid.Parse(claims["user_id"].(string))

	var contract models.LeaseContract
	if err := database.DB.Preload("Documents").First(&contract, "id = ?", c.Params("contractId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Contract not found"})
	}
	if contract.OwnerID != ownerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your contract"})
	}
	if contract.Status != models.ContractStatusSigned {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only signed contracts can be activated"})
	}

	for _, document := range contract.Documents {
		if document.Status != models.DocumentStatusApproved {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "All checklist documents must be approved before activation"})
		}
	}

	contract.Status = models.ContractStatusActive
	if err := database.DB.Save(&contract).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to activate contract"})
	}

	return c.JSON(contract)
}

func TerminateContract(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	ownerID, _ := uuid.Parse(claims["user_id"].(string))

	var contract models.LeaseContract
	if err := database.DB.Preload("Tenant").First(&contract, "id = ?", c.Params("contractId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Contract not found"})
	}
	if contract.OwnerID != ownerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your contract"})
	}
	if contract.Status != models.ContractStatusActive && contract.Status != models.ContractStatusSigned {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only signed or active contracts can be terminated"})
	}

	now := time.Now()
	contract.Status = models.ContractStatusTerminated
	contract.TerminatedAt = &now
	if err := database.DB.Save(&contract).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to terminate contract"})
	}

	go notifications.SendEmail(contract.Tenant.FullName, contract.Tenant.Email,
		"Contract "+contract.Reference+" has been terminated",
		"<h1>Contract terminated</h1><p>Lease contract "+contract.Reference+" has been terminated by the owner.</p>")

	return c.JSON(contract)
}
