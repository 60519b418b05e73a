package emailsvc

import (
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/shulehq/shule/core"
)

type consoleService struct {
	defaultFromEmail mail.Address
	subjPrefix       string
}

var _ core.EmailService = (*consoleService)(nil)

// NewConsoleService returns an EmailService that prints messages to stdout;
// the debug-mode backend.
func NewConsoleService(conf *core.Config) core.EmailService {
	return &consoleService{
		defaultFromEmail: conf.DefaultFromEmail,
		subjPrefix:       "[" + conf.AppName + "] ",
	}
}

func (svc consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		go svc.send(msg)
	}
}

func (svc consoleService) send(msg *core.EmailMessage) {
	if !msg.HasRecipients() || !msg.HasContent() {
		return
	}

	var sb strings.Builder
	sb.WriteString("\n---------- EMAIL ----------\n")
	sb.WriteString(fmt.Sprintf("From: %s\n", svc.defaultFromEmail.String()))
	sb.WriteString(fmt.Sprintf("To: %s\n", joinAddresses(msg.To)))
	if len(msg.Cc) > 0 {
		sb.WriteString(fmt.Sprintf("Cc: %s\n", joinAddresses(msg.Cc)))
	}
	sb.WriteString(fmt.Sprintf("Date: %s\n", time.Now().Format(time.RFC1123Z)))
	sb.WriteString(fmt.Sprintf("Subject: %s\n\n", svc.subjPrefix+msg.Subject))
	sb.WriteString(msg.BodyStr)
	sb.WriteString("\n---------------------------\n")
	log.Print(sb.String())
}

func joinAddresses(addrs []mail.Address) string {
	ss := make([]string, 0, len(addrs))
	for _, a := range addrs {
		ss = append(ss, a.String())
	}
	return strings.Join(ss, ", ")
}
