package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fixify/internal/config"
	"fixify/internal/services"
)

// Session identifies a signed-in user for the lifetime of the daemon.
type Session struct {
	Token    string
	Email    string
	SignedIn time.Time
}

// Provider is the identity surface the daemon depends on. Swapping the stub
// for a real identity service means implementing this interface; callers
// never change.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	Current() *Session
}

// StubProvider accepts any non-empty credentials after a fixed delay. It
// exists so session handling, timing, and sign-in UX can be exercised before
// a real identity backend is wired in.
type StubProvider struct {
	delay time.Duration

	mu      sync.Mutex
	session *Session
}

// NewStubProvider builds the stub from configuration.
func NewStubProvider(cfg *config.Config) *StubProvider {
	delay := time.Duration(cfg.Auth.SignInDelayMillis) * time.Millisecond
	if delay < 0 {
		delay = 0
	}
	return &StubProvider{delay: delay}
}

// SignIn validates credential shape, waits the configured delay, and issues
// a session token. Context cancellation aborts the wait.
func (p *StubProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, services.Wrap(services.ErrValidation, "auth", "sign-in", "a valid email is required", nil)
	}
	if strings.TrimSpace(password) == "" {
		return nil, services.Wrap(services.ErrValidation, "auth", "sign-in", "a password is required", nil)
	}

	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, services.Wrap(services.ErrTimeout, "auth", "sign-in", "sign-in aborted", ctx.Err())
		case <-timer.C:
		}
	}

	session := &Session{
		Token:    uuid.NewString(),
		Email:    email,
		SignedIn: time.Now().UTC(),
	}

	p.mu.Lock()
	p.session = session
	p.mu.Unlock()
	return session, nil
}

// SignOut clears the current session. Signing out twice is not an error.
func (p *StubProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.session = nil
	p.mu.Unlock()
	return nil
}

// Current returns the active session, or nil when signed out.
func (p *StubProvider) Current() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}
