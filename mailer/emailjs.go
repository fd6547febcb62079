package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const emailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJS sends through the EmailJS REST API.
type EmailJS struct {
	ServiceID  string
	PublicKey  string
	PrivateKey string
	// Templates maps a template name to an EmailJS template id.
	Templates map[string]string

	Endpoint string
	Client   *http.Client
}

type emailJSRequest struct {
	ServiceID   string         `json:"service_id"`
	TemplateID  string         `json:"template_id"`
	UserID      string         `json:"user_id"`
	AccessToken string         `json:"accessToken,omitempty"`
	Params      map[string]any `json:"template_params"`
}

func (e *EmailJS) Send(ctx context.Context, m Message) error {
	if m.To == "" {
		return ErrNoRecipient
	}
	templateID, ok := e.Templates[m.Template]
	if !ok {
		return fmt.Errorf("emailjs: no template configured for %q", m.Template)
	}

	params := make(map[string]any, len(m.Params)+1)
	for k, v := range m.Params {
		params[k] = v
	}
	params["to_email"] = m.To

	body, err := json.Marshal(emailJSRequest{
		ServiceID:   e.ServiceID,
		TemplateID:  templateID,
		UserID:      e.PublicKey,
		AccessToken: e.PrivateKey,
		Params:      params,
	})
	if err != nil {
		return err
	}

	endpoint := e.Endpoint
	if endpoint == "" {
		endpoint = emailJSEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := e.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("emailjs: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
