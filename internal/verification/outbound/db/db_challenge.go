package db

import (
	"context"
	"time"

	"github.com/shandysiswandi/trimly/internal/pkg/goerror"
	"github.com/shandysiswandi/trimly/internal/verification/entity"
)

const upsertChallenge = `
INSERT INTO otps (email, code_hash, expires_at, attempts, created_at, updated_at)
VALUES ($1, $2, $3, 0, NOW(), NOW())
ON CONFLICT (email) DO UPDATE
SET code_hash = EXCLUDED.code_hash,
    expires_at = EXCLUDED.expires_at,
    attempts = 0,
    updated_at = NOW()`

const getChallenge = `
SELECT email, code_hash, expires_at, attempts, created_at, updated_at
FROM otps
WHERE email = $1`

const incrementAttempts = `
UPDATE otps
SET attempts = attempts + 1, updated_at = NOW()
WHERE email = $1
RETURNING attempts`

const deleteChallenge = `DELETE FROM otps WHERE email = $1`

const purgeExpired = `DELETE FROM otps WHERE expires_at < $1`

func (s *DB) UpsertChallenge(ctx context.Context, c entity.Challenge) (err error) {
	ctx, span := s.startSpan(ctx, "UpsertChallenge")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, upsertChallenge, c.Email, c.CodeHash, c.ExpiresAt)
	return s.mapError(err)
}

func (s *DB) GetChallenge(ctx context.Context, email string) (_ *entity.Challenge, err error) {
	ctx, span := s.startSpan(ctx, "GetChallenge")
	defer func() { s.endSpan(span, err) }()

	var c entity.Challenge
	err = s.conn.QueryRow(ctx, getChallenge, email).Scan(
		&c.Email, &c.CodeHash, &c.ExpiresAt, &c.Attempts, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	c.ExpiresAt = c.ExpiresAt.UTC()
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()

	return &c, nil
}

func (s *DB) IncrementAttempts(ctx context.Context, email string) (_ int, err error) {
	ctx, span := s.startSpan(ctx, "IncrementAttempts")
	defer func() { s.endSpan(span, err) }()

	var n int
	if err = s.conn.QueryRow(ctx, incrementAttempts, email).Scan(&n); err != nil {
		return 0, s.mapError(err)
	}

	return n, nil
}

func (s *DB) DeleteChallenge(ctx context.Context, email string) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteChallenge")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, deleteChallenge, email)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) PurgeExpired(ctx context.Context, before time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "PurgeExpired")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, purgeExpired, before)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}
