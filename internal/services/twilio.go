package services

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/daleel-sa/daleel-backend/internal/config"
	"github.com/daleel-sa/daleel-backend/pkg/logger"
)

// Messenger is the outbound messaging contract the conversation engine and
// the reminder job depend on.
type Messenger interface {
	SendMessage(to string, body string) error
	SendMediaMessage(to string, mediaURL string, caption string) error
}

// MediaPayload is one downloaded inbound attachment
type MediaPayload struct {
	MimeType string
	Data     []byte
}

// TwilioService sends WhatsApp messages via Twilio and fetches inbound media
type TwilioService struct {
	client     *twilio.RestClient
	from       string // "whatsapp:+14155238886"
	accountSID string
	authToken  string
	httpClient *http.Client
	log        logger.Logger
}

// NewTwilioService creates a new Twilio service instance
func NewTwilioService(cfg *config.Config, log logger.Logger) (*TwilioService, error) {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioWhatsAppFrom == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})

	return &TwilioService{
		client:     client,
		from:       cfg.TwilioWhatsAppFrom,
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}, nil
}

// SendMessage sends a WhatsApp text message
func (t *TwilioService) SendMessage(to string, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		t.log.Error("failed to send WhatsApp message", "to", to, "error", err)
		return err
	}

	t.log.Debug("WhatsApp message sent", "to", to, "sid", *resp.Sid)
	return nil
}

// SendMediaMessage sends a WhatsApp message with an attached media URL
func (t *TwilioService) SendMediaMessage(to string, mediaURL string, caption string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetMediaUrl([]string{mediaURL})
	if caption != "" {
		params.SetBody(caption)
	}

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		t.log.Error("failed to send WhatsApp media message", "to", to, "error", err)
		return err
	}

	t.log.Debug("WhatsApp media message sent", "to", to, "sid", *resp.Sid)
	return nil
}

// FetchMessageBody retrieves the body of a previously delivered message by
// SID. Used to resolve the quoted message on inbound replies, which the
// webhook only references by SID.
func (t *TwilioService) FetchMessageBody(sid string) (string, error) {
	msg, err := t.client.Api.FetchMessage(sid, nil)
	if err != nil {
		return "", fmt.Errorf("fetch message %s: %w", sid, err)
	}
	if msg.Body == nil {
		return "", nil
	}
	return *msg.Body, nil
}

// DownloadMedia fetches an inbound attachment from a Twilio media URL.
// Twilio media endpoints require basic auth with the account credentials.
func (t *TwilioService) DownloadMedia(mediaURL string) (*MediaPayload, error) {
	req, err := http.NewRequest(http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build media request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch media: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read media body: %w", err)
	}

	return &MediaPayload{
		MimeType: resp.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}
