package pipeline

import (
	"fmt"

	"github.com/de-tools/cost-pulse/pkg/models/domain"
)

const (
	messageUsername = "AWS Billing"
	messageIcon     = ":moneybag:"
)

// ComposeMessage renders a Billing value into the outgoing message. Pure:
// identical billing input yields an identical payload.
func ComposeMessage(bill domain.Billing) domain.Message {
	msg := domain.Message{
		Username:  messageUsername,
		IconEmoji: messageIcon,
		Text:      fmt.Sprintf("Estimated AWS charges for the last 24 hours: $%.2f", bill.Total),
	}

	if len(bill.Services) == 0 {
		return msg
	}

	fields := make([]domain.Field, 0, len(bill.Services))
	for _, svc := range bill.Services {
		fields = append(fields, domain.Field{
			Title: svc.Name,
			Value: fmt.Sprintf("$%.2f", svc.Cost),
			Short: true,
		})
	}
	msg.Attachments = []domain.Attachment{{
		Title:  "Per-service breakdown",
		Fields: fields,
	}}
	return msg
}
