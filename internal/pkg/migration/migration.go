// Package migration applies the embedded SQL schema with golang-migrate.
package migration

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

var (
	ErrDSNRequired      = errors.New("migration: dsn is required")
	ErrInvalidDirection = errors.New("migration: direction must be up or down")
)

//go:embed migrations/*.sql
var files embed.FS

// Run migrates the database behind dsn in direction. Being already at the
// target version is not an error.
func Run(dsn, direction string) error {
	if dsn == "" {
		return ErrDSNRequired
	}
	if direction != DirectionUp && direction != DirectionDown {
		return fmt.Errorf("%w: got %q", ErrInvalidDirection, direction)
	}

	src, err := iofs.New(files, "migrations")
	if err != nil {
		return fmt.Errorf("migration: source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("migration: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if direction == DirectionUp {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration: %s: %w", direction, err)
	}

	return nil
}
