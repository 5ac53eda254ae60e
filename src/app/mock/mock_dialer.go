package mail_mock

import (
	"github.com/stretchr/testify/mock"
	"gopkg.in/gomail.v2"
)

// MockDialer stands in for the SMTP dialer in mailer tests.
type MockDialer struct {
	mock.Mock

	// Sent collects every message passed to DialAndSend.
	Sent []*gomail.Message
}

func (m *MockDialer) DialAndSend(msgs ...*gomail.Message) error {
	args := m.Called(msgs)
	m.Sent = append(m.Sent, msgs...)
	return args.Error(0)
}
