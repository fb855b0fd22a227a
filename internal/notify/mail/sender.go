// Package mail emails new leads to the agency inbox over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/silahub/site/internal/domain"
)

var leadTemplate = template.Must(template.New("lead").Parse(`<h2>New lead from {{.Source}}</h2>
<table>
<tr><td><b>Name</b></td><td>{{.Name}}</td></tr>
<tr><td><b>Email</b></td><td>{{.Email}}</td></tr>
<tr><td><b>Phone</b></td><td>{{.Phone}}</td></tr>
<tr><td><b>Business</b></td><td>{{.Business}}</td></tr>
{{if .Website}}<tr><td><b>Website</b></td><td>{{.Website}}</td></tr>{{end}}
<tr><td><b>Type</b></td><td>{{.Type}}</td></tr>
{{if .Urgency}}<tr><td><b>Urgency</b></td><td>{{.Urgency}}</td></tr>{{end}}
{{if .Services}}<tr><td><b>Services</b></td><td>{{.Services}}</td></tr>{{end}}
{{if .Budget}}<tr><td><b>Budget</b></td><td>{{.Budget}}</td></tr>{{end}}
{{if .Package}}<tr><td><b>Package</b></td><td>{{.Package}}</td></tr>{{end}}
</table>
{{if .Message}}<p>{{.Message}}</p>{{end}}
`))

// Sender delivers lead notifications through an SMTP relay.
type Sender struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

// NewSender creates a sender for the given relay.
func NewSender(host string, port int, user, password, from, to string) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		to:     to,
	}
}

// Message builds the email for lead.
func (s *Sender) Message(lead domain.Lead) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := leadTemplate.Execute(&body, lead); err != nil {
		return nil, fmt.Errorf("failed to render lead email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	if lead.Email != "" {
		m.SetHeader("Reply-To", lead.Email)
	}
	m.SetHeader("Subject", fmt.Sprintf("New lead: %s (%s)", lead.Name, lead.Type))
	m.SetBody("text/html", body.String())
	return m, nil
}

// Notify sends the email. gomail has no context support, so a cancelled ctx
// only stops the wait; the SMTP exchange finishes in the background.
func (s *Sender) Notify(ctx context.Context, lead domain.Lead) error {
	m, err := s.Message(lead)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send lead email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send lead email: %w", ctx.Err())
	}
}

func (s *Sender) Name() string { return "smtp" }
