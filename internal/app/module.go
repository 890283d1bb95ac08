package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/trimly/internal/realtime"
	"github.com/shandysiswandi/trimly/internal/verification"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.verification.enabled") {
		if err := verification.New(verification.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			CacheConn:  a.cacheConn,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Messaging:  a.messaging,
			Mail:       a.mail,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			HMAC:       a.hmac,
			SHA256:     a.sha256,
			Clock:      a.clock,
			Validator:  a.validator,
			Sessions:   a.sessions,
			Storage:    a.storage,
		}); err != nil {
			slog.Error("failed to init module verification", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.realtime.enabled") {
		if err := realtime.New(realtime.Dependency{
			Ctx:        a.ctx,
			Hub:        a.hub,
			Authz:      a.authz,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Router:     a.router,
		}); err != nil {
			slog.Error("failed to init module realtime", "error", err)
			os.Exit(1)
		}
	}
}
