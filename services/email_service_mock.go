package services

import (
	"strings"
	"sync"
)

// SentMail captures one message handed to the mock email service
type SentMail struct {
	To      string
	Subject string
	HTML    string
	ReplyTo string
}

// MockEmailService is a mock implementation of EmailService for testing.
// It records every message instead of sending it.
type MockEmailService struct {
	mu       sync.Mutex
	sent     []SentMail
	FailWith error // when set, Send returns this error
}

// NewMockEmailService creates a new mock email service
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

// SetAsMockForTesting sets this mock as the global email service instance for testing
func (m *MockEmailService) SetAsMockForTesting() {
	SetEmailService(m)
}

// Send records a message
func (m *MockEmailService) Send(to, subject, html string) error {
	return m.SendWithReplyTo(to, subject, html, "")
}

// SendWithReplyTo records a message with its Reply-To header
func (m *MockEmailService) SendWithReplyTo(to, subject, html, replyTo string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	m.sent = append(m.sent, SentMail{To: to, Subject: subject, HTML: html, ReplyTo: replyTo})
	m.mu.Unlock()
	return nil
}

// SentMails returns a copy of all recorded messages (for testing assertions)
func (m *MockEmailService) SentMails() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

// LastTo returns the recipient of the most recent message, or ""
func (m *MockEmailService) LastTo() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].To
}

// SubjectsFor returns the subjects of all messages sent to an address
func (m *MockEmailService) SubjectsFor(to string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var subjects []string
	for _, mail := range m.sent {
		if mail.To == to {
			subjects = append(subjects, mail.Subject)
		}
	}
	return subjects
}

// FindBody returns the body of the first message to an address whose
// subject contains the given fragment, or "" if none matches
func (m *MockEmailService) FindBody(to, subjectFragment string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mail := range m.sent {
		if mail.To == to && strings.Contains(mail.Subject, subjectFragment) {
			return mail.HTML
		}
	}
	return ""
}

// Clear removes all recorded messages
func (m *MockEmailService) Clear() {
	m.mu.Lock()
	m.sent = nil
	m.mu.Unlock()
}
