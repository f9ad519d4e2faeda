package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// confirmVisitApp wires ConfirmVisit behind a stand-in for the JWT middleware
// so request validation can be exercised without a database.
func confirmVisitApp() *fiber.App {
	app := fiber.New()
	app.Post("/visits/:visitId/confirm", func(c *fiber.Ctx) error {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": uuid.New().String(),
			"role":    "owner",
		})
		c.Locals("user", token)
		return ConfirmVisit(c)
	})
	return app
}

func TestConfirmVisitRejectsOversizedOwnerNotes(t *testing.T) {
	app := confirmVisitApp()

	body := `{"owner_notes":"` + strings.Repeat("x", 2001) + `"}`
	req := httptest.NewRequest("POST", "/visits/"+uuid.New().String()+"/confirm", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
	}
}

func TestConfirmVisitRejectsMalformedVisitID(t *testing.T) {
	app := confirmVisitApp()

	req := httptest.NewRequest("POST", "/visits/not-a-uuid/confirm", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
	}
}
