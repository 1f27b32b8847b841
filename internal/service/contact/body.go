package contact

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"portfolio-relay/internal/model"
)

// SubjectPrefix is prepended to the submitted subject
const SubjectPrefix = "New Contact Form Submission: "

var htmlBody = htmltemplate.Must(htmltemplate.New("contact.html").Parse(`<p>You have a new contact form submission:</p>
<ul>
  <li><strong>Name:</strong> {{.Name}}</li>
  <li><strong>Email:</strong> {{.Email}}</li>
  <li><strong>Subject:</strong> {{.Subject}}</li>
  <li><strong>Message:</strong></li>
</ul>
<p>{{.Message}}</p>
`))

var textBody = texttemplate.Must(texttemplate.New("contact.txt").Parse(`You have a new contact form submission:

Name: {{.Name}}
Email: {{.Email}}
Subject: {{.Subject}}

Message:
{{.Message}}
`))

type htmlView struct {
	Name    string
	Email   string
	Subject string
	Message htmltemplate.HTML
}

// RenderHTML renders the HTML body. Every field is escaped; message newlines become <br>.
func RenderHTML(s model.ContactSubmission) (string, error) {
	view := htmlView{
		Name:    s.Name,
		Email:   s.Email,
		Subject: s.Subject,
		Message: htmltemplate.HTML(messageToHTML(s.Message)),
	}

	var buf bytes.Buffer
	if err := htmlBody.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderText renders the plain-text alternative
func RenderText(s model.ContactSubmission) (string, error) {
	s.Message = normalizeNewlines(s.Message)

	var buf bytes.Buffer
	if err := textBody.Execute(&buf, s); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// BuildSubject prefixes the submitted subject, folded onto one line
func BuildSubject(subject string) string {
	return SubjectPrefix + singleLine(subject)
}

func messageToHTML(message string) string {
	escaped := htmltemplate.HTMLEscapeString(normalizeNewlines(message))
	return strings.ReplaceAll(escaped, "\n", "<br>")
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// singleLine keeps header values from carrying CR/LF
func singleLine(s string) string {
	return strings.ReplaceAll(normalizeNewlines(s), "\n", " ")
}
