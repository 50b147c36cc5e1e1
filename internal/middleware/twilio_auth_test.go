package middleware

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAuthToken = "test-auth-token"

func newProtectedApp() *fiber.App {
	app := fiber.New()
	app.Post("/webhook", ValidateTwilioSignature(testAuthToken), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestValidateTwilioSignatureAccepts(t *testing.T) {
	app := newProtectedApp()

	form := url.Values{}
	form.Set("From", "whatsapp:+966512345678")
	form.Set("Body", "مرحبا")

	params := map[string]string{
		"From": "whatsapp:+966512345678",
		"Body": "مرحبا",
	}
	signature := calculateTwilioSignature(testAuthToken, "http://example.com/webhook", params)

	req := httptest.NewRequest("POST", "http://example.com/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Twilio-Signature", signature)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestValidateTwilioSignatureRejects(t *testing.T) {
	app := newProtectedApp()

	form := url.Values{}
	form.Set("Body", "مرحبا")

	// missing signature
	req := httptest.NewRequest("POST", "http://example.com/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// wrong signature
	req = httptest.NewRequest("POST", "http://example.com/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Twilio-Signature", "bogus")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
