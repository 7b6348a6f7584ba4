package email

import "context"

// MockSender records sent messages for test assertions. Send behavior can be
// overridden through SendFunc.
type MockSender struct {
	SendFunc func(ctx context.Context, msg *Message) error

	Sent []Message
}

var _ Sender = (*MockSender)(nil)

func NewMockSender() *MockSender {
	return &MockSender{}
}

func (m *MockSender) Send(ctx context.Context, msg *Message) error {
	m.Sent = append(m.Sent, *msg)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	return nil
}
