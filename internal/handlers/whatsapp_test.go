package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daleel-sa/daleel-backend/internal/models"
	"github.com/daleel-sa/daleel-backend/internal/services"
	"github.com/daleel-sa/daleel-backend/internal/storage"
	"github.com/daleel-sa/daleel-backend/pkg/logger"
	"github.com/daleel-sa/daleel-backend/pkg/metrics"
)

type nopMessenger struct{}

func (nopMessenger) SendMessage(to, body string) error                   { return nil }
func (nopMessenger) SendMediaMessage(to, mediaURL, caption string) error { return nil }

func newTestApp(t *testing.T) (*fiber.App, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	m := metrics.NewMetricsWith(prometheus.NewRegistry(), "test")
	conversation := services.NewConversationService(store, nopMessenger{}, nil, "966500000001", logger.NewNopLogger(), m)
	handler := NewWhatsAppHandler(conversation, nil, logger.NewNopLogger())

	app := fiber.New()
	app.Post("/test/whatsapp", handler.HandleTestWebhook)
	return app, store
}

func TestHandleTestWebhook(t *testing.T) {
	app, store := newTestApp(t)

	body := `{"from":"966512345678","message":"1"}`
	req := httptest.NewRequest("POST", "/test/whatsapp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	session, err := store.GetSession("966512345678")
	require.NoError(t, err)
	assert.Equal(t, models.StateName, session.State, "menu choice 1 starts registration")
}

func TestHandleTestWebhookRejectsBadPayload(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/test/whatsapp", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStripWhatsAppPrefix(t *testing.T) {
	assert.Equal(t, "966512345678", stripWhatsAppPrefix("whatsapp:+966512345678"))
	assert.Equal(t, "966512345678", stripWhatsAppPrefix("+966512345678"))
	assert.Equal(t, "966512345678", stripWhatsAppPrefix("966512345678"))
	assert.Equal(t, "", stripWhatsAppPrefix(""))
}
