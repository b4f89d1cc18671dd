package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"

	"msb-booking/internal/config"
	"msb-booking/internal/domain"
	"msb-booking/internal/pkg/i18n"
)

//go:embed templates/*.html
var templates embed.FS

type Service interface {
	SendVerificationCode(ctx context.Context, toEmail, fullName, code string) error
	SendPasswordResetCode(ctx context.Context, toEmail, fullName, code string) error
	SendBookingConfirmation(ctx context.Context, toEmail, fullName string, appt *domain.Appointment) error
}

type sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type service struct {
	client sender
	config *config.Config
}

func NewService(cfg *config.Config) Service {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &service{
		client: client.Emails,
		config: cfg,
	}
}

func (s *service) sendEmail(ctx context.Context, toEmail, subject, templateName string, data any) error {
	tmpl, err := template.ParseFS(templates, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		return fmt.Errorf("failed to parse email templates: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, "layout.html", data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.EmailTimeout)
	defer cancel()

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("MSB Barbershop <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err = s.client.SendWithContext(ctx, params)
	return err
}

type otpData struct {
	Title   string
	Name    string
	Intro   string
	Code    string
	Minutes int
}

func (s *service) SendVerificationCode(ctx context.Context, toEmail, fullName, code string) error {
	subject := i18n.Translate(i18n.DefaultLocale, "email.otp.verify.subject")
	data := otpData{
		Title:   subject,
		Name:    fullName,
		Intro:   "Use this code to verify your email address:",
		Code:    code,
		Minutes: int(s.config.OTPTTL.Minutes()),
	}
	return s.sendEmail(ctx, toEmail, subject, "otp.html", data)
}

func (s *service) SendPasswordResetCode(ctx context.Context, toEmail, fullName, code string) error {
	subject := i18n.Translate(i18n.DefaultLocale, "email.otp.reset.subject")
	data := otpData{
		Title:   subject,
		Name:    fullName,
		Intro:   "Use this code to reset your password:",
		Code:    code,
		Minutes: int(s.config.OTPTTL.Minutes()),
	}
	return s.sendEmail(ctx, toEmail, subject, "otp.html", data)
}

func (s *service) SendBookingConfirmation(ctx context.Context, toEmail, fullName string, appt *domain.Appointment) error {
	subject := i18n.Format(i18n.DefaultLocale, "email.booking.subject", appt.ReceiptCode)
	data := struct {
		Title       string
		Name        string
		ReceiptCode string
		Date        string
		Time        string
		Total       string
	}{
		Title:       subject,
		Name:        fullName,
		ReceiptCode: appt.ReceiptCode,
		Date:        appt.ScheduledDate,
		Time:        appt.ScheduledTime,
		Total:       fmt.Sprintf("%.2f", appt.Total),
	}
	return s.sendEmail(ctx, toEmail, subject, "booking.html", data)
}
