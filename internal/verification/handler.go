package verification

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/solgate/solgate/internal/solana"
)

// Handler exposes the verification endpoint to the wallet-connect page.
type Handler struct {
	service *Service
}

// NewHandler constructs a verification HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type verifyRequest struct {
	PublicKey string `json:"publicKey"`
	Token     string `json:"token"`
}

// Verify handles POST /verify. The caller always receives one of a small
// fixed set of statuses; store and ledger failures stay opaque.
func (h *Handler) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Missing public key or token"})
	}

	outcome, err := h.service.Verify(c.UserContext(), req.PublicKey, req.Token)
	switch {
	case errors.Is(err, ErrMissingInput):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Missing public key or token"})
	case errors.Is(err, solana.ErrInvalidAddress):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid public key"})
	case errors.Is(err, ErrInvalidToken):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid token"})
	case err != nil:
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	if outcome.Verified {
		return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Verification successful"})
	}
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "Insufficient token balance"})
}
