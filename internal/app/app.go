package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/trimly/internal/pkg/authz"
	"github.com/shandysiswandi/trimly/internal/pkg/changefeed"
	"github.com/shandysiswandi/trimly/internal/pkg/clock"
	"github.com/shandysiswandi/trimly/internal/pkg/config"
	"github.com/shandysiswandi/trimly/internal/pkg/goroutine"
	"github.com/shandysiswandi/trimly/internal/pkg/hash"
	"github.com/shandysiswandi/trimly/internal/pkg/instrument"
	"github.com/shandysiswandi/trimly/internal/pkg/mail"
	"github.com/shandysiswandi/trimly/internal/pkg/messaging"
	"github.com/shandysiswandi/trimly/internal/pkg/router"
	"github.com/shandysiswandi/trimly/internal/pkg/session"
	"github.com/shandysiswandi/trimly/internal/pkg/storage"
	"github.com/shandysiswandi/trimly/internal/pkg/uid"
	"github.com/shandysiswandi/trimly/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	sha256    hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	sessions  *session.Manager

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	mail      mail.Mail
	messaging messaging.Messaging
	storage   storage.Storage
	authz     *authz.Authorizer
	hub       *changefeed.Hub

	// server
	router     *router.Router
	httpServer *http.Server
	sseServer  *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initSession()
	app.initDatabase()
	app.initMigrations()
	app.initCache()
	app.initMail()
	app.initStorage()
	app.initMessaging()
	app.initAuthz()
	app.initHub()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
