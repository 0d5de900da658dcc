package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fixify/internal/auth"
	"fixify/internal/config"
	"fixify/internal/services"
)

func newProvider(delayMillis int) *auth.StubProvider {
	cfg := config.Default()
	cfg.Auth.SignInDelayMillis = delayMillis
	return auth.NewStubProvider(&cfg)
}

func TestSignInIssuesSession(t *testing.T) {
	provider := newProvider(0)

	session, err := provider.SignIn(context.Background(), "tenant@example.com", "hunter2")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if session.Token == "" {
		t.Fatal("session token is empty")
	}
	if session.Email != "tenant@example.com" {
		t.Fatalf("session email = %q", session.Email)
	}
	if current := provider.Current(); current == nil || current.Token != session.Token {
		t.Fatal("Current does not reflect active session")
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	provider := newProvider(0)

	if _, err := provider.SignIn(context.Background(), "", "pw"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty email, got %v", err)
	}
	if _, err := provider.SignIn(context.Background(), "not-an-email", "pw"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for malformed email, got %v", err)
	}
	if _, err := provider.SignIn(context.Background(), "a@b.c", "  "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for blank password, got %v", err)
	}
	if provider.Current() != nil {
		t.Fatal("failed sign-in should not create a session")
	}
}

func TestSignInHonorsContextCancel(t *testing.T) {
	provider := newProvider(5000)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := provider.SignIn(ctx, "tenant@example.com", "pw")
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestSignOutClearsSession(t *testing.T) {
	provider := newProvider(0)
	if _, err := provider.SignIn(context.Background(), "tenant@example.com", "pw"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := provider.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if provider.Current() != nil {
		t.Fatal("session survived sign-out")
	}
	if err := provider.SignOut(context.Background()); err != nil {
		t.Fatalf("second SignOut should be a no-op, got %v", err)
	}
}
