// Package mailer is the invitation-email collaborator. Sends have
// non-trivial latency and are the irreversible side effect of the invite
// flow, so the client is bounded by a timeout and a failed send aborts the
// whole invite operation.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Sender delivers invitation emails.
type Sender interface {
	// SendInvite asks the email service to deliver an invitation to
	// email, carrying redirect as the post-signup destination.
	SendInvite(ctx context.Context, email, redirect string) error
}

// HTTPSender posts invitation requests to an email-service endpoint as JSON.
type HTTPSender struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSender creates a sender for the given endpoint with the given
// request timeout.
func NewHTTPSender(endpoint string, timeout time.Duration) *HTTPSender {
	return &HTTPSender{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type invitePayload struct {
	Email    string `json:"email"`
	Redirect string `json:"redirect"`
}

// SendInvite implements Sender. Any transport error or non-2xx response is
// a failure; the caller treats it as hard per the invite contract.
func (s *HTTPSender) SendInvite(ctx context.Context, email, redirect string) error {
	if s.endpoint == "" {
		return fmt.Errorf("no mailer endpoint configured")
	}

	body, err := json.Marshal(invitePayload{Email: email, Redirect: redirect})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}
	return nil
}
