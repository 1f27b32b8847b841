package model

import "strings"

// ContactSubmission is one contact form post. It lives for a single request.
type ContactSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Normalize trims surrounding whitespace from every field
func (s ContactSubmission) Normalize() ContactSubmission {
	return ContactSubmission{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(s.Email),
		Subject: strings.TrimSpace(s.Subject),
		Message: strings.TrimSpace(s.Message),
	}
}

// MissingFields lists the JSON names of empty fields, in form order
func (s ContactSubmission) MissingFields() []string {
	var missing []string
	if s.Name == "" {
		missing = append(missing, "name")
	}
	if s.Email == "" {
		missing = append(missing, "email")
	}
	if s.Subject == "" {
		missing = append(missing, "subject")
	}
	if s.Message == "" {
		missing = append(missing, "message")
	}
	return missing
}

// OutboundEmail is what the relay hands to a mail transport
type OutboundEmail struct {
	From     string
	To       string
	ReplyTo  string
	Subject  string
	HTMLBody string
	TextBody string
}
