package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"gbh-kioskhub/internal/core/domain"
)

func doDomainError(t *testing.T, err error) (int, Response) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return DomainError(c, err, "fallback message")
	})

	resp, testErr := app.Test(httptest.NewRequest("GET", "/", nil))
	if testErr != nil {
		t.Fatalf("request failed: %v", testErr)
	}
	defer resp.Body.Close()

	var body Response
	if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr != nil {
		t.Fatalf("decode body: %v", decodeErr)
	}
	return resp.StatusCode, body
}

func TestDomainErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: name is required", domain.ErrValidation), fiber.StatusBadRequest},
		{fmt.Errorf("%w: kiosk not found", domain.ErrNotFound), fiber.StatusNotFound},
		{fmt.Errorf("%w: already converted", domain.ErrState), fiber.StatusConflict},
		{fmt.Errorf("%w: email taken", domain.ErrConflict), fiber.StatusConflict},
		{domain.ErrForbidden, fiber.StatusForbidden},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized},
		{domain.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{domain.ErrTokenExpired, fiber.StatusUnauthorized},
		{domain.ErrTokenInvalid, fiber.StatusUnauthorized},
		{fmt.Errorf("%w: mail api unreachable", domain.ErrDependency), fiber.StatusBadGateway},
	}

	for _, tt := range tests {
		status, body := doDomainError(t, tt.err)
		if status != tt.want {
			t.Errorf("DomainError(%v) status = %d, want %d", tt.err, status, tt.want)
		}
		if body.Success {
			t.Errorf("DomainError(%v) marked success", tt.err)
		}
		if body.Error != tt.err.Error() {
			t.Errorf("DomainError(%v) error = %q, want %q", tt.err, body.Error, tt.err.Error())
		}
	}
}

func TestDomainErrorFallbackHidesDetails(t *testing.T) {
	status, body := doDomainError(t, errors.New("driver: bad connection"))
	if status != fiber.StatusInternalServerError {
		t.Errorf("status = %d, want %d", status, fiber.StatusInternalServerError)
	}
	if body.Error != "fallback message" {
		t.Errorf("error = %q, want the fallback, not the internal detail", body.Error)
	}
}
