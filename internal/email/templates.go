package email

import (
	"fmt"
	"strings"
)

// QuoteNotification carries the fields rendered into the owner's new-quote
// email.
type QuoteNotification struct {
	OwnerEmail     string
	BusinessName   string
	RequesterName  string
	RequesterEmail string
	RequesterPhone string
	Message        string
}

// NewQuoteRequestMessage renders the notification sent to a listing owner
// when an anonymous visitor requests a quote.
func NewQuoteRequestMessage(n QuoteNotification) *Message {
	var b strings.Builder
	fmt.Fprintf(&b, "You have a new quote request for %s.\n\n", n.BusinessName)
	fmt.Fprintf(&b, "From: %s <%s>\n", n.RequesterName, n.RequesterEmail)
	if n.RequesterPhone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", n.RequesterPhone)
	}
	fmt.Fprintf(&b, "\n%s\n\n", n.Message)
	b.WriteString("Reply directly to the requester to follow up, then mark the request as contacted from your dashboard.\n")

	return &Message{
		To:      n.OwnerEmail,
		Subject: fmt.Sprintf("New quote request for %s", n.BusinessName),
		Body:    b.String(),
	}
}
