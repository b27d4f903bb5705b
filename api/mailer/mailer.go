// Package mailer renders and sends transactional e-mail.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/matcornic/hermes/v2"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is a rendered e-mail ready to send.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Mailer struct {
	sender      Sender
	product     hermes.Hermes
	frontendURL string
}

func New(sender Sender, frontendURL string) *Mailer {
	return &Mailer{
		sender:      sender,
		frontendURL: frontendURL,
		product: hermes.Hermes{
			Product: hermes.Product{
				Name:      "RestaurantAdviser",
				Link:      frontendURL,
				Copyright: "RestaurantAdviser",
			},
		},
	}
}

// ResetLink is where the client completes a password reset.
func (m *Mailer) ResetLink(token string) string {
	return fmt.Sprintf("%s/resetpassword/%s", m.frontendURL, token)
}

// RenderPasswordReset builds the reset e-mail without sending it.
func (m *Mailer) RenderPasswordReset(to, username, token string) (Message, error) {
	email := hermes.Email{
		Body: hermes.Body{
			Name: username,
			Intros: []string{
				"You asked to reset your RestaurantAdviser password.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "Click the button below to choose a new password. The link expires in one hour.",
					Button: hermes.Button{
						Color: "#DC4D2F",
						Text:  "Reset your password",
						Link:  m.ResetLink(token),
					},
				},
			},
			Outros: []string{
				"If you did not ask for this, you can ignore this e-mail.",
			},
		},
	}

	html, err := m.product.GenerateHTML(email)
	if err != nil {
		return Message{}, fmt.Errorf("render reset email: %w", err)
	}
	text, err := m.product.GeneratePlainText(email)
	if err != nil {
		return Message{}, fmt.Errorf("render reset email: %w", err)
	}
	return Message{To: to, Subject: "Reset your password", HTML: html, Text: text}, nil
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, username, token string) error {
	msg, err := m.RenderPasswordReset(to, username, token)
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, msg)
}

// SendGrid delivers through the SendGrid v3 API.
type SendGrid struct {
	apiKey string
	from   string
}

func NewSendGrid(apiKey, from string) *SendGrid {
	return &SendGrid{apiKey: apiKey, from: from}
}

func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	if s.apiKey == "" {
		return errors.New("SENDGRID_API_KEY is not set")
	}
	from := mail.NewEmail("RestaurantAdviser", s.from)
	to := mail.NewEmail("", msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	resp, err := sendgrid.NewSendClient(s.apiKey).SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
