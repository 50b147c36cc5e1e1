package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/daleel-sa/daleel-backend/internal/services"
	"github.com/daleel-sa/daleel-backend/pkg/logger"
)

// TwilioWebhookPayload is the form body Twilio posts for inbound WhatsApp
// messages. Only the first media item is used; the conversation accepts one
// attachment per message.
type TwilioWebhookPayload struct {
	MessageSid                string `form:"MessageSid"`
	AccountSid                string `form:"AccountSid"`
	From                      string `form:"From"` // "whatsapp:+9665xxxxxxxx"
	To                        string `form:"To"`
	Body                      string `form:"Body"`
	NumMedia                  string `form:"NumMedia"`
	MediaUrl0                 string `form:"MediaUrl0"`
	MediaContentType0         string `form:"MediaContentType0"`
	OriginalRepliedMessageSid string `form:"OriginalRepliedMessageSid"`
}

// TestWebhookPayload drives the conversation without Twilio, for development
type TestWebhookPayload struct {
	From       string `json:"from"`
	Message    string `json:"message"`
	QuotedBody string `json:"quoted_body,omitempty"`
}

// WhatsAppHandler bridges the Twilio webhook to the conversation engine
type WhatsAppHandler struct {
	conversation *services.ConversationService
	twilio       *services.TwilioService
	log          logger.Logger
}

// NewWhatsAppHandler creates a new WhatsApp webhook handler
func NewWhatsAppHandler(conversation *services.ConversationService, twilio *services.TwilioService, log logger.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{
		conversation: conversation,
		twilio:       twilio,
		log:          log,
	}
}

// HandleWebhook processes an inbound Twilio WhatsApp event. Always
// acknowledges with 200; delivery errors are handled inside the engine and
// must not make Twilio retry the event.
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload TwilioWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		h.log.Warn("invalid webhook payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	from := stripWhatsAppPrefix(payload.From)
	if from == "" {
		// status callback or other non-message event
		return c.SendStatus(fiber.StatusOK)
	}

	msg := &services.InboundMessage{
		From: from,
		Body: payload.Body,
	}

	if n, _ := strconv.Atoi(payload.NumMedia); n > 0 && payload.MediaUrl0 != "" {
		media, err := h.twilio.DownloadMedia(payload.MediaUrl0)
		if err != nil {
			h.log.Error("media download failed", "from", from, "error", err)
		} else {
			media.MimeType = firstNonEmpty(payload.MediaContentType0, media.MimeType)
			msg.Media = media
		}
	}

	if payload.OriginalRepliedMessageSid != "" {
		quoted, err := h.twilio.FetchMessageBody(payload.OriginalRepliedMessageSid)
		if err != nil {
			h.log.Error("quoted message fetch failed", "sid", payload.OriginalRepliedMessageSid, "error", err)
		} else {
			msg.HasQuoted = true
			msg.QuotedBody = quoted
		}
	}

	if err := h.conversation.HandleMessage(c.Context(), msg); err != nil {
		h.log.Error("conversation failed", "from", from, "error", err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// HandleTestWebhook processes simulated messages during development
func (h *WhatsAppHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}

	msg := &services.InboundMessage{
		From:       payload.From,
		Body:       payload.Message,
		HasQuoted:  payload.QuotedBody != "",
		QuotedBody: payload.QuotedBody,
	}

	if err := h.conversation.HandleMessage(c.Context(), msg); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "processed"})
}

// whatsapp:+966500000000 -> 966500000000
func stripWhatsAppPrefix(from string) string {
	from = strings.TrimPrefix(from, "whatsapp:")
	return strings.TrimPrefix(from, "+")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
