package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"gbh-kioskhub/internal/config"
)

// Mailer sends transactional mail. Sends are fire-and-forget: no caller
// awaits them and a failed send never rolls back an entity write.
type Mailer interface {
	SendVerification(email, name, token string)
	SendTemporaryPassword(email, name, tempPassword string)
	SendPasswordReset(email, name, token string)
}

// HTTPMailer posts messages to an HTTP mail API.
type HTTPMailer struct {
	endpoint string
	apiKey   string
	from     string
	client   *http.Client
}

// NewMailer creates a mailer from config. Returns a no-op mailer when no
// endpoint is configured, so callers never need to nil-check.
func NewMailer(cfg config.MailConfig) Mailer {
	if cfg.Endpoint == "" {
		logrus.Warn("Mail endpoint not configured, outbound mail disabled")
		return NoopMailer{}
	}
	return &HTTPMailer{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		from:     cfg.From,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type mailPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendVerification mails an email verification link token.
func (m *HTTPMailer) SendVerification(email, name, token string) {
	body := fmt.Sprintf("Bonjour %s,\n\nMerci de confirmer votre adresse email avec le code suivant : %s", name, token)
	m.send(email, "Confirmez votre adresse email", body)
}

// SendTemporaryPassword mails the one-time plaintext temporary password
// issued when a prospect is converted into a client account.
func (m *HTTPMailer) SendTemporaryPassword(email, name, tempPassword string) {
	body := fmt.Sprintf("Bonjour %s,\n\nVotre compte client a été créé. Mot de passe temporaire : %s\nMerci de le changer à votre première connexion.", name, tempPassword)
	m.send(email, "Votre compte client", body)
}

// SendPasswordReset mails a password reset token.
func (m *HTTPMailer) SendPasswordReset(email, name, token string) {
	body := fmt.Sprintf("Bonjour %s,\n\nCode de réinitialisation de votre mot de passe : %s\nCe code expire dans 1 heure.", name, token)
	m.send(email, "Réinitialisation de mot de passe", body)
}

func (m *HTTPMailer) send(to, subject, body string) {
	go func() {
		payload, err := json.Marshal(mailPayload{
			From:    m.from,
			To:      to,
			Subject: subject,
			Body:    body,
		})
		if err != nil {
			logrus.Errorf("mail: marshal payload: %v", err)
			return
		}

		req, err := http.NewRequest(http.MethodPost, m.endpoint, bytes.NewReader(payload))
		if err != nil {
			logrus.Errorf("mail: build request: %v", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+m.apiKey)

		resp, err := m.client.Do(req)
		if err != nil {
			logrus.Errorf("mail: send to %s: %v", to, err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			logrus.Errorf("mail: send to %s: status %d", to, resp.StatusCode)
		}
	}()
}

// NoopMailer discards all mail. Used when no endpoint is configured and
// in tests.
type NoopMailer struct{}

func (NoopMailer) SendVerification(email, name, token string)             {}
func (NoopMailer) SendTemporaryPassword(email, name, tempPassword string) {}
func (NoopMailer) SendPasswordReset(email, name, token string)            {}
