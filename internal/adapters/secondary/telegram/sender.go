package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hosteldesk/complaints-backend/internal/core/domain"
	"github.com/hosteldesk/complaints-backend/internal/core/ports"
)

const (
	apiBaseURL     = "https://api.telegram.org"
	requestTimeout = 10 * time.Second
)

// BotSender delivers alerts through the Telegram Bot API. Credential
// management for the bot token lives in configuration, outside this adapter.
type BotSender struct {
	token   string
	baseURL string
	client  *http.Client
}

var _ ports.AlertSender = (*BotSender)(nil)

// NewBotSender creates a sender for the given bot token.
func NewBotSender(token string) *BotSender {
	return &BotSender{
		token:   token,
		baseURL: apiBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// apiResponse is the subset of the Bot API envelope we care about.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send posts one message to the given chat id.
func (s *BotSender) Send(ctx context.Context, recipient, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.token)

	form := url.Values{}
	form.Set("chat_id", recipient)
	form.Set("text", text)
	form.Set("parse_mode", "HTML")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode telegram response: %w", err)
	}
	if !body.OK {
		return fmt.Errorf("telegram api error: %s", body.Description)
	}
	return nil
}

// formatAlert renders the HTML alert text for an event.
func formatAlert(event domain.Event) string {
	switch d := event.Data.(type) {
	case domain.NewComplaintData:
		return fmt.Sprintf(
			"\U0001F6A8 <b>New Complaint Alert</b>\n\n"+
				"<b>ID:</b> %s\n"+
				"<b>Hostel:</b> %s\n"+
				"<b>Category:</b> %s\n"+
				"<b>Severity:</b> %s\n\n"+
				"<i>Time: %s</i>",
			shortID(d.ComplaintID), d.Hostel, d.Category,
			strings.ToUpper(d.Severity), d.CreatedAt,
		)
	default:
		return fmt.Sprintf("<b>Complaint event:</b> %s", event.Type)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}
