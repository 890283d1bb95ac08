package email

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"math"
	"time"

	"github.com/shandysiswandi/trimly/internal/pkg/clock"
	"github.com/shandysiswandi/trimly/internal/pkg/instrument"
	"github.com/shandysiswandi/trimly/internal/pkg/mail"
	"github.com/shandysiswandi/trimly/internal/pkg/storage"
	"go.opentelemetry.io/otel/codes"
)

// maxTemplateBytes bounds templates fetched from object storage.
const maxTemplateBytes = 256 * 1024

const defaultSubject = "Your Trimly verification code"

//go:embed templates/otp.html
var DefaultTemplate string

type Options struct {
	Subject string
	// Template is html/template source; empty uses DefaultTemplate.
	Template string
}

type data struct {
	Email            string
	Code             string
	ExpiresAt        string
	ExpiresInMinutes int
}

type Mail struct {
	client  mail.Mail
	tpl     *template.Template
	subject string
	clock   clock.Clocker
	ins     instrument.Instrumentation
}

func New(client mail.Mail, clk clock.Clocker, ins instrument.Instrumentation, opts Options) (*Mail, error) {
	src := opts.Template
	if src == "" {
		src = DefaultTemplate
	}

	tpl, err := template.New("otp").Option("missingkey=zero").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("email: parse template: %w", err)
	}

	subject := opts.Subject
	if subject == "" {
		subject = defaultSubject
	}

	return &Mail{client: client, tpl: tpl, subject: subject, clock: clk, ins: ins}, nil
}

// LoadTemplate reads the template source from object storage. With no
// storage, bucket or key it returns DefaultTemplate.
func LoadTemplate(ctx context.Context, stg storage.Storage, bucket, key string) (string, error) {
	if stg == nil || bucket == "" || key == "" {
		return DefaultTemplate, nil
	}

	raw, err := storage.ReadAll(ctx, stg, bucket, key, maxTemplateBytes)
	if err != nil {
		return "", fmt.Errorf("email: load template %s/%s: %w", bucket, key, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", errors.New("email: template is empty")
	}

	return string(raw), nil
}

func (m *Mail) SendCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	ctx, span := m.ins.Tracer("verification.outbound.email").Start(ctx, "SendCode")
	defer span.End()

	minutes := int(math.Ceil(expiresAt.Sub(m.clock.Now()).Minutes()))
	d := data{
		Email:            email,
		Code:             code,
		ExpiresAt:        expiresAt.UTC().Format("15:04 MST"),
		ExpiresInMinutes: max(minutes, 0),
	}

	var html bytes.Buffer
	if err := m.tpl.Execute(&html, d); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("email: render template: %w", err)
	}

	text := fmt.Sprintf("Your Trimly verification code is %s.\nIt expires in %d minutes (%s).\n",
		d.Code, d.ExpiresInMinutes, d.ExpiresAt)

	if err := m.client.Send(ctx, mail.Message{
		To:       []string{email},
		Subject:  m.subject,
		TextBody: text,
		HTMLBody: html.String(),
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
