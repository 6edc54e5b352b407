package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/craftlocal/leadflow/internal/entity"
)

const newLeadBody = `A new quote request just came in.

Name:    {{.Name}}
Phone:   {{.Phone}}
Email:   {{.Email}}
Status:  {{.Status}}

Open the admin dashboard to follow up.
`

type newLeadData struct {
	Name   string
	Phone  string
	Email  string
	Status string
}

// Sender emails the business owner about new leads over plain SMTP.
type Sender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

func NewSender(host string, port int, user, password, from, to string) *Sender {
	return &Sender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
	}
}

func (s *Sender) NotifyNewLead(lead *entity.Lead) error {
	t, err := template.New("new-lead").Parse(newLeadBody)
	if err != nil {
		return fmt.Errorf("parse notification template: %w", err)
	}

	data := newLeadData{
		Name:   entity.CoerceString(lead.Extra["name"]),
		Phone:  entity.CoerceString(lead.Extra["phone"]),
		Email:  entity.CoerceString(lead.Extra["email"]),
		Status: lead.Status,
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("render notification template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("New lead #%d", lead.ID))
	m.SetBody("text/plain", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}

	return nil
}
