package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/trimly/internal/pkg/clock"
	"github.com/shandysiswandi/trimly/internal/pkg/goerror"
	"github.com/shandysiswandi/trimly/internal/pkg/goroutine"
	"github.com/shandysiswandi/trimly/internal/pkg/hash"
	"github.com/shandysiswandi/trimly/internal/pkg/instrument"
	"github.com/shandysiswandi/trimly/internal/pkg/session"
	"github.com/shandysiswandi/trimly/internal/pkg/uid"
	"github.com/shandysiswandi/trimly/internal/pkg/validator"
	"github.com/shandysiswandi/trimly/internal/verification/entity"
)

type fakeDB struct {
	mu   sync.Mutex
	rows map[string]entity.Challenge

	upsertErr error
	getErr    error
	incrErr   error
	deleteErr error

	purgedBefore time.Time
}

func newFakeDB() *fakeDB {
	return &fakeDB{rows: make(map[string]entity.Challenge)}
}

func (f *fakeDB) UpsertChallenge(_ context.Context, c entity.Challenge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	c.Attempts = 0
	f.rows[c.Email] = c
	return nil
}

func (f *fakeDB) GetChallenge(_ context.Context, email string) (*entity.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.rows[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &c, nil
}

func (f *fakeDB) IncrementAttempts(_ context.Context, email string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incrErr != nil {
		return 0, f.incrErr
	}
	c, ok := f.rows[email]
	if !ok {
		return 0, goerror.ErrNotFound
	}
	c.Attempts++
	f.rows[email] = c
	return c.Attempts, nil
}

func (f *fakeDB) DeleteChallenge(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.rows[email]; !ok {
		return goerror.ErrNotFound
	}
	delete(f.rows, email)
	return nil
}

func (f *fakeDB) PurgeExpired(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purgedBefore = before
	var n int64
	for k, c := range f.rows {
		if c.ExpiresAt.Before(before) {
			delete(f.rows, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeDB) row(email string) (entity.Challenge, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[email]
	return c, ok
}

type sentCode struct {
	email, code string
	expiresAt   time.Time
}

type fakeMail struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (f *fakeMail) SendCode(_ context.Context, email, code string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentCode{email: email, code: code, expiresAt: expiresAt})
	return nil
}

func (f *fakeMail) last(t *testing.T) sentCode {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

type fakeMessaging struct {
	mu     sync.Mutex
	events []ChallengeEvent
}

func (f *fakeMessaging) PublishChallengeChanged(_ context.Context, ev ChallengeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeMessaging) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.Type)
	}
	return out
}

type fakeCooldown struct {
	mu       sync.Mutex
	held     map[string]string
	err      error
	released int
	left     time.Duration
}

func (f *fakeCooldown) Acquire(_ context.Context, key, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.held[key]; ok {
		return false, nil
	}
	f.held[key] = token
	return true, nil
}

func (f *fakeCooldown) Release(_ context.Context, key, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held[key] == token {
		delete(f.held, key)
		f.released++
	}
	return nil
}

func (f *fakeCooldown) Remaining(_ context.Context, key string) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.held[key]; !ok {
		return 0, nil
	}
	return f.left, nil
}

func (f *fakeCooldown) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.held = make(map[string]string)
}

type fakeWindow struct {
	mu    sync.Mutex
	limit int64
	hits  map[string]int64
}

func (f *fakeWindow) Allow(_ context.Context, key string) (bool, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits[key]++
	n := f.hits[key]
	return f.limit == 0 || n <= f.limit, n, nil
}

type seqNumber struct {
	mu sync.Mutex
	n  int64
}

func (s *seqNumber) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.n
}

type harness struct {
	uc       *Usecase
	db       *fakeDB
	mail     *fakeMail
	msg      *fakeMessaging
	cooldown *fakeCooldown
	window   *fakeWindow
	sessions *session.Manager
	now      time.Time
}

func (h *harness) advance(d time.Duration) { h.now = h.now.Add(d) }

type harnessOption func(*Dependency)

func withCodes(codes ...string) harnessOption {
	return func(dep *Dependency) {
		var mu sync.Mutex
		dep.Codes = func() (string, error) {
			mu.Lock()
			defer mu.Unlock()
			if len(codes) == 0 {
				return "", errors.New("no more codes")
			}
			c := codes[0]
			codes = codes[1:]
			return c, nil
		}
	}
}

type flakySessions struct {
	next sessionIssuer
	err  error
}

func (f *flakySessions) Issue(email string) (*session.Session, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.next.Issue(email)
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	h := &harness{
		db:       newFakeDB(),
		mail:     &fakeMail{},
		msg:      &fakeMessaging{},
		cooldown: &fakeCooldown{held: make(map[string]string)},
		window:   &fakeWindow{limit: 10, hits: make(map[string]int64)},
		now:      time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC),
	}
	clk := clock.Func(func() time.Time { return h.now })

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	h.sessions, err = session.NewManager(session.Config{
		Secret: []byte(strings.Repeat("s", 64)),
		Issuer: "trimly",
		TTL:    time.Hour,
		Clock:  clk,
		UUID:   uid.NewUUID(),
	})
	require.NoError(t, err)

	gm := goroutine.NewManager(16)
	t.Cleanup(func() { _ = gm.Wait() })

	dep := Dependency{
		RepoDB:        h.db,
		RepoMessaging: h.msg,
		RepoMail:      h.mail,
		Cooldown:      h.cooldown,
		Window:        h.window,
		Sessions:      h.sessions,
		Validator:     v,
		CodeHash:      hash.NewSHA256(),
		KeyHash:       hash.NewHMACSHA256("throttle-secret"),
		UID:           &seqNumber{},
		UUID:          uid.NewUUID(),
		Clock:         clk,
		Instrument:    instrument.NewNoop(),
		Goroutine:     gm,
		Settings:      Settings{CodeTTL: 5 * time.Minute, MaxAttempts: entity.MaxAttempts},
	}
	for _, opt := range opts {
		opt(&dep)
	}

	h.uc = New(dep)
	return h
}
