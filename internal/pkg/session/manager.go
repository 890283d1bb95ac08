package session

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/lo"
)

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

// Config builds a Manager.
type Config struct {
	Secret      []byte
	Issuer      string
	Audiences   []string
	TTL         time.Duration
	AdminEmails []string
	Clock       clocker
	UUID        generator
}

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Manager issues and parses session tokens.
type Manager struct {
	secret    []byte
	issuer    string
	audiences []string
	ttl       time.Duration
	admins    map[string]struct{}
	clock     clocker
	uuid      generator
}

func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < 64 {
		return nil, ErrSigningKeyTooShort
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	admins := lo.SliceToMap(cfg.AdminEmails, func(e string) (string, struct{}) {
		return strings.ToLower(strings.TrimSpace(e)), struct{}{}
	})

	return &Manager{
		secret:    cfg.Secret,
		issuer:    cfg.Issuer,
		audiences: cfg.Audiences,
		ttl:       ttl,
		admins:    admins,
		clock:     cfg.Clock,
		uuid:      cfg.UUID,
	}, nil
}

// RoleOf resolves the role for a verified email.
func (m *Manager) RoleOf(email string) string {
	if _, ok := m.admins[strings.ToLower(email)]; ok {
		return RoleAdmin
	}
	return RoleCustomer
}

// Issue creates a session for email and returns it with its signed token.
func (m *Manager) Issue(email string) (*Session, string, error) {
	now := m.clock.Now().UTC().Truncate(time.Second)

	s := &Session{
		ID:        m.uuid.Generate(),
		Email:     email,
		Role:      m.RoleOf(email),
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   email,
			Issuer:    m.issuer,
			Audience:  m.audiences,
			IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
			NotBefore: jwt.NewNumericDate(s.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
		Email: email,
		Role:  s.Role,
	}).SignedString(m.secret)
	if err != nil {
		return nil, "", err
	}

	return s, token, nil
}

// Parse validates token and returns its session.
func (m *Manager) Parse(token string) (*Session, error) {
	var c claims

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.clock.Now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if len(m.audiences) > 0 {
		opts = append(opts, jwt.WithAudience(m.audiences...))
	}

	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS512 {
			return nil, ErrInvalidSigningMethod
		}
		return m.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return &Session{
		ID:        c.ID,
		Email:     c.Email,
		Role:      c.Role,
		IssuedAt:  c.IssuedAt.UTC(),
		ExpiresAt: c.ExpiresAt.UTC(),
	}, nil
}
