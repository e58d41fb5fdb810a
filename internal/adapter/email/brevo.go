package email

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/YelzhanWeb/carta/internal/config"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

const maxErrorBody = 4 << 10

// BrevoClient sends transactional email through the Brevo HTTP API
type BrevoClient struct {
	cfg    config.EmailConfig
	client *http.Client
}

func NewBrevoClient(cfg config.EmailConfig, client *http.Client) *BrevoClient {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &BrevoClient{cfg: cfg, client: client}
}

var _ interfaces.Mailer = (*BrevoClient)(nil)

type brevoContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoRequest struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

func (c *BrevoClient) Send(ctx context.Context, email interfaces.Email) error {
	if email.ToAddress == "" {
		return errors.New("email without recipient")
	}

	body, err := json.Marshal(brevoRequest{
		Sender:      brevoContact{Name: c.cfg.SenderName, Email: c.cfg.SenderAddress},
		To:          []brevoContact{{Name: email.ToName, Email: email.ToAddress}},
		Subject:     email.Subject,
		HTMLContent: email.HTML,
	})
	if err != nil {
		return errors.Wrap(err, "failed to encode email")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build email request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send email")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.Errorf("email API returned status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}
