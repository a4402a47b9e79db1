package email

import (
	"bytes"
	"html/template"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/resendlabs/resend-go"
)

type EmailService struct {
	client       *resend.Client
	from         string
	fromName     string
	templatesDir string
	logger       *log.Logger
}

func NewEmailService() *EmailService {
	logFile, err := os.OpenFile("logs/email.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Printf("Error opening email log file: %v", err)
		return &EmailService{
			client:       resend.NewClient(os.Getenv("RESEND_API_KEY")),
			from:         os.Getenv("EMAIL_FROM_ADDRESS"),
			fromName:     os.Getenv("EMAIL_FROM_NAME"),
			templatesDir: "pkg/email/templates",
			logger:       log.New(os.Stdout, "EMAIL: ", log.LstdFlags),
		}
	}

	multiWriter := io.MultiWriter(os.Stdout, logFile)

	return &EmailService{
		client:       resend.NewClient(os.Getenv("RESEND_API_KEY")),
		from:         os.Getenv("EMAIL_FROM_ADDRESS"),
		fromName:     os.Getenv("EMAIL_FROM_NAME"),
		templatesDir: "pkg/email/templates",
		logger:       log.New(multiWriter, "EMAIL: ", log.LstdFlags),
	}
}

func (s *EmailService) SendWelcomeEmail(email, fullName string) error {
	s.logger.Printf("Sending welcome email to: %s (%s)", email, fullName)

	templateData := map[string]interface{}{
		"FullName": fullName,
		"Email":    email,
		"Year":     time.Now().Year(),
	}

	html, err := s.parseTemplate("welcome.html", templateData)
	if err != nil {
		s.logger.Printf("Error parsing welcome template for %s: %v", email, err)
		return err
	}

	return s.send([]string{email}, "Welcome to TicketGate!", html)
}

// SendRegistrationConfirmed tells a registrant their place is saved. Used
// for free events at submission time; paid confirmations ride on the
// checkout result instead.
func (s *EmailService) SendRegistrationConfirmed(to, name, eventName string) error {
	s.logger.Printf("Sending registration confirmation to: %s (event: %s)", to, eventName)

	templateData := map[string]interface{}{
		"Name":      name,
		"EventName": eventName,
		"Year":      time.Now().Year(),
	}

	html, err := s.parseTemplate("registration-confirmed.html", templateData)
	if err != nil {
		s.logger.Printf("Error parsing confirmation template for %s: %v", to, err)
		return err
	}

	return s.send([]string{to}, "You're registered for "+eventName, html)
}

// SendOrganizerNotification tells the event owner about a new registration,
// free or paid attempt alike.
func (s *EmailService) SendOrganizerNotification(to, eventName, registrantName, registrantEmail string) error {
	s.logger.Printf("Notifying organizer %s of registration on %s", to, eventName)

	templateData := map[string]interface{}{
		"EventName":       eventName,
		"RegistrantName":  registrantName,
		"RegistrantEmail": registrantEmail,
		"Year":            time.Now().Year(),
	}

	html, err := s.parseTemplate("new-registration.html", templateData)
	if err != nil {
		s.logger.Printf("Error parsing organizer template for %s: %v", to, err)
		return err
	}

	return s.send([]string{to}, "New registration: "+eventName, html)
}

// SendRegistrantMessage delivers an organizer-written bulk message to one
// registrant. Body is pre-escaped HTML.
func (s *EmailService) SendRegistrantMessage(to, eventName, subject string, body template.HTML) error {
	templateData := map[string]interface{}{
		"EventName": eventName,
		"Body":      body,
		"Year":      time.Now().Year(),
	}

	html, err := s.parseTemplate("registrant-message.html", templateData)
	if err != nil {
		s.logger.Printf("Error parsing registrant message template for %s: %v", to, err)
		return err
	}

	return s.send([]string{to}, subject, html)
}

func (s *EmailService) send(to []string, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      to,
		Subject: subject,
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Printf("Failed to send %q to %v: %v", subject, to, err)
		return err
	}

	s.logger.Printf("Sent %q to %v (ID: %s)", subject, to, resp.Id)
	return nil
}

func (s *EmailService) parseTemplate(templateName string, data interface{}) (string, error) {
	templatePath := filepath.Join(s.templatesDir, templateName)

	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		s.logger.Printf("Error parsing template %s: %v", templateName, err)
		return "", err
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		s.logger.Printf("Error executing template %s: %v", templateName, err)
		return "", err
	}

	return body.String(), nil
}
