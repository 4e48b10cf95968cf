package messaging

import "context"

// Message is one outbound text sent through the fallback channel.
type Message struct {
	PhoneNumber string
	Body        string
}

// Provider abstracts the SMS fallback channel.
type Provider interface {
	SendSMS(ctx context.Context, msg Message) error
}
