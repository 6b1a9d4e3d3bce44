// Package notify implements the SMS collaborator on the Africa's
// Talking messaging API.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ussd_lms/internal/logger"
	"ussd_lms/pkg"
)

// Client sends resource links by SMS. Delivery is best-effort; the
// caller decides what to tell the user on failure.
type Client struct {
	apiKey   string
	username string
	smsURL   string
	senderID string
	client   *http.Client
}

// NewClient creates an Africa's Talking SMS client.
func NewClient(apiKey, username, smsURL, senderID string, timeout time.Duration) *Client {
	return &Client{
		apiKey:   apiKey,
		username: username,
		smsURL:   smsURL,
		senderID: senderID,
		client:   &http.Client{Timeout: timeout},
	}
}

// SendResourceLink delivers the resource's access link to the phone
// number. The gateway answers 201 Created when the message is accepted.
func (c *Client) SendResourceLink(ctx context.Context, phoneNumber string, r pkg.Resource) error {
	message := fmt.Sprintf("LMS Resource: %s\n\nAccess: %s\n\nPowered by LMS USSD", r.Title, r.FileURL)

	form := url.Values{}
	form.Set("username", c.username)
	form.Set("to", phoneNumber)
	form.Set("message", message)
	form.Set("from", c.senderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.smsURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("apiKey", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("sms gateway rejected message: status %d", resp.StatusCode)
	}

	logger.Info().Str("to", phoneNumber).Str("resource_id", r.ID).Msg("sms sent")
	return nil
}
