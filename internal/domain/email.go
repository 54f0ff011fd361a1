package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// InvitationEmailData holds data for the event invitation email.
type InvitationEmailData struct {
	Email         string
	AttendeeName  string
	OrganizerName string
	EventTitle    string
	EventDate     string // already formatted for display
	EventLocation string
	InviteLink    string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	// SendInvitation returns ErrNotConfigured when no mail provider is set up.
	SendInvitation(ctx context.Context, data *InvitationEmailData) error
}
