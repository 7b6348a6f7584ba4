// Package email sends transactional notifications. The only producer today
// is quote request intake; delivery is best effort and never blocks the
// request that triggered it.
package email

import "context"

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Noop discards every message. Used when no SMTP host is configured.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (*Noop) Send(context.Context, *Message) error { return nil }
