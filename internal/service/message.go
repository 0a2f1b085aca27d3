package service

import (
	"html"
	"strings"

	"github.com/samandr77/microservices/formrelay/internal/entity"
	"github.com/samandr77/microservices/formrelay/pkg/config"
)

const (
	SenderName    = "DPA Website Form"
	SubjectPrefix = "New PPR Submission"

	FirstNameField = "Pilot First Name"
	LastNameField  = "Pilot Last Name"
)

// BuildMessage renders a submission into the email sent to the destination address.
func BuildMessage(cfg config.Mail, sub entity.Submission) entity.Message {
	return entity.Message{
		FromName: SenderName,
		From:     cfg.User,
		To:       []string{cfg.Destination},
		Subject:  Subject(sub),
		HTML:     RenderHTML(sub),
	}
}

func Subject(sub entity.Submission) string {
	name := strings.TrimSpace(sub.Get(FirstNameField) + " " + sub.Get(LastNameField))
	if name == "" {
		return SubjectPrefix
	}

	return SubjectPrefix + ": " + name
}

// RenderHTML renders one table row per field in submission order.
// Names and values are HTML escaped, all submitted text is kept.
func RenderHTML(sub entity.Submission) string {
	var b strings.Builder

	b.WriteString("<h1>New PPR Form Submission</h1>")
	b.WriteString(`<table border="1" cellpadding="5" cellspacing="0">`)

	for _, f := range sub.Fields() {
		b.WriteString("<tr><td><strong>")
		b.WriteString(html.EscapeString(f.Name))
		b.WriteString("</strong></td><td>")
		b.WriteString(html.EscapeString(f.Value()))
		b.WriteString("</td></tr>")
	}

	b.WriteString("</table>")

	return b.String()
}
