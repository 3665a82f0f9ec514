package notifications

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mailersend/mailersend-go"

	"viajes/internal/utils"
)

// MailerSendSender emails the receipt as a PDF attachment.
type MailerSendSender struct {
	Client    *mailersend.Mailersend
	FromEmail string
	FromName  string
}

func NewMailerSendSender(apiKey, fromName, fromEmail string) *MailerSendSender {
	return &MailerSendSender{
		Client:    mailersend.NewMailersend(apiKey),
		FromEmail: fromEmail,
		FromName:  fromName,
	}
}

func (m *MailerSendSender) Name() string { return "mailersend" }

func (m *MailerSendSender) Send(ctx context.Context, evt Event, receipt Receipt) error {
	if evt.UserEmail == "" {
		return fmt.Errorf("reservation %d has no recipient email", evt.ReservationID)
	}

	from := mailersend.From{
		Name:  m.FromName,
		Email: m.FromEmail,
	}

	recipients := []mailersend.Recipient{
		{
			Name:  evt.UserName,
			Email: evt.UserEmail,
		},
	}

	message := m.Client.Email.NewMessage()
	message.SetFrom(from)
	message.SetRecipients(recipients)
	message.SetSubject(Subject(evt.Kind))
	message.SetText(Body(evt))
	if len(receipt.PDF) > 0 {
		message.AddAttachment(mailersend.Attachment{
			Content:  base64.StdEncoding.EncodeToString(receipt.PDF),
			Filename: receipt.Filename,
		})
	}

	res, err := m.Client.Email.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	utils.LogEvent("", "notify", "email_sent", fmt.Sprintf("reservation_id=%d message_id=%s", evt.ReservationID, res.Header.Get("X-Message-Id")))
	return nil
}
