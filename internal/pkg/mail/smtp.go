package mail

import (
	"context"
	"errors"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

var (
	ErrSMTPHostPortRequired = errors.New("smtp host and port are required")
	ErrSMTPNoRecipients     = errors.New("no recipients provided")
	ErrSMTPNoSender         = errors.New("no sender provided")
	ErrSMTPNoBody           = errors.New("no message body provided")
)

// SMTPConfig configures the SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	// TLS requires STARTTLS, or implicit TLS on port 465.
	TLS bool
}

// SMTP sends mail through a relay using go-mail. One connection is dialed
// per message.
type SMTP struct {
	cfg    SMTPConfig
	client *gomail.Client
}

func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}

	opts := []gomail.Option{gomail.WithPort(cfg.Port)}
	switch {
	case cfg.TLS && cfg.Port == 465:
		opts = append(opts, gomail.WithSSL(), gomail.WithTLSPolicy(gomail.TLSMandatory))
	case cfg.TLS:
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	default:
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	}
	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating mail client: %w", err)
	}

	return &SMTP{cfg: cfg, client: client}, nil
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	m, err := s.build(msg)
	if err != nil {
		return err
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}

func (s *SMTP) build(msg Message) (*gomail.Msg, error) {
	if len(msg.To)+len(msg.Cc)+len(msg.Bcc) == 0 {
		return nil, ErrSMTPNoRecipients
	}
	if msg.TextBody == "" && msg.HTMLBody == "" {
		return nil, ErrSMTPNoBody
	}

	m := gomail.NewMsg()

	switch {
	case msg.From != "":
		if err := m.From(msg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	case s.cfg.From != "" && s.cfg.FromName != "":
		if err := m.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	case s.cfg.From != "":
		if err := m.From(s.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	default:
		return nil, ErrSMTPNoSender
	}

	if len(msg.To) > 0 {
		if err := m.To(msg.To...); err != nil {
			return nil, fmt.Errorf("setting to address: %w", err)
		}
	}
	if len(msg.Cc) > 0 {
		if err := m.Cc(msg.Cc...); err != nil {
			return nil, fmt.Errorf("setting cc address: %w", err)
		}
	}
	if len(msg.Bcc) > 0 {
		if err := m.Bcc(msg.Bcc...); err != nil {
			return nil, fmt.Errorf("setting bcc address: %w", err)
		}
	}

	m.Subject(msg.Subject)

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		m.SetBodyString(gomail.TypeTextPlain, msg.TextBody)
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)
	default:
		m.SetBodyString(gomail.TypeTextPlain, msg.TextBody)
	}

	return m, nil
}

// Close is a no-op; connections are closed after each send.
func (s *SMTP) Close() error {
	return nil
}

// IsTemporary reports whether err is a relay failure worth retrying
// (4xx SMTP replies or connection problems).
func IsTemporary(err error) bool {
	var sendErr *gomail.SendError
	if errors.As(err, &sendErr) {
		return sendErr.IsTemp()
	}
	return false
}
