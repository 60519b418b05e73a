package dummymail

import (
	"sync"

	"github.com/shulehq/shule/core"
)

// Service records messages instead of sending them; for tests.
type Service struct {
	mu           sync.Mutex
	SentMessages []core.EmailMessage
}

var _ core.EmailService = (*Service)(nil)

func NewService() *Service {
	return &Service{}
}

func (svc *Service) SendMessages(messages ...*core.EmailMessage) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	for _, msg := range messages {
		svc.SentMessages = append(svc.SentMessages, *msg)
	}
}
