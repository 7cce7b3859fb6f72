package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/domain"
	"github.com/golang-jwt/jwt/v4"
)

func newTestAuthService(t *testing.T, env *testEnv) AuthService {
	t.Helper()
	svc, err := NewAuthService(context.Background(), env.userRepo, "test-secret", time.Hour, config.OIDCConfig{})
	if err != nil {
		t.Fatalf("Failed to create auth service: %v", err)
	}
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	auth := newTestAuthService(t, env)
	ctx := context.Background()

	user, err := auth.Register(ctx, "Test User", "login@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Failed to register: %v", err)
	}
	if user.PasswordHash != "" {
		t.Error("expected the password hash to be stripped from the response")
	}
	if user.PreferredWeightUnit != domain.WeightUnitLbs {
		t.Errorf("expected default weight unit lbs, got %q", user.PreferredWeightUnit)
	}

	token, loggedIn, err := auth.Login(ctx, "login@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Failed to log in: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("expected login to return the registered user")
	}

	// The token must carry the user id and be signed with the service secret.
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("expected a valid token, got %v", err)
	}
	if claims["uid"] != user.ID.String() {
		t.Errorf("expected uid claim %s, got %v", user.ID, claims["uid"])
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	auth := newTestAuthService(t, env)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "Test User", "bad-creds@example.com", "correct-password"); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	if _, _, err := auth.Login(ctx, "bad-creds@example.com", "wrong-password"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("expected authentication failure for a wrong password, got %v", err)
	}
	if _, _, err := auth.Login(ctx, "nobody@example.com", "whatever"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("expected authentication failure for an unknown email, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	auth := newTestAuthService(t, env)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "First", "taken@example.com", "password1"); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}
	if _, err := auth.Register(ctx, "Second", "taken@example.com", "password2"); !errors.Is(err, ErrUserAlreadyExists) {
		t.Errorf("expected a duplicate email to be rejected, got %v", err)
	}
}

func TestLoginWithOIDCDisabled(t *testing.T) {
	env := newTestEnv(t)
	auth := newTestAuthService(t, env)

	if _, _, err := auth.LoginWithOIDC(context.Background(), "some-code"); !errors.Is(err, ErrOIDCDisabled) {
		t.Errorf("expected OIDC login to be disabled, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	auth := newTestAuthService(t, env)
	ctx := context.Background()

	user, err := auth.Register(ctx, "Old Name", "profile@example.com", "password")
	if err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	unit := domain.WeightUnitKg
	updated, err := auth.UpdateProfile(ctx, user.ID, strPtr("New Name"), &unit)
	if err != nil {
		t.Fatalf("Failed to update profile: %v", err)
	}
	if updated.DisplayName != "New Name" || updated.PreferredWeightUnit != domain.WeightUnitKg {
		t.Errorf("expected updated profile, got %q/%q", updated.DisplayName, updated.PreferredWeightUnit)
	}

	var fieldErr *domain.FieldError
	if _, err := auth.UpdateProfile(ctx, user.ID, nil, nil); !errors.As(err, &fieldErr) {
		t.Errorf("expected an empty update to be rejected, got %v", err)
	}
	bad := domain.WeightUnitBodyweight
	if _, err := auth.UpdateProfile(ctx, user.ID, nil, &bad); !errors.As(err, &fieldErr) || fieldErr.Field != "preferredWeightUnit" {
		t.Errorf("expected bodyweight to be rejected as a profile default, got %v", err)
	}
	if _, err := auth.UpdateProfile(ctx, user.ID, strPtr(""), nil); !errors.As(err, &fieldErr) || fieldErr.Field != "displayName" {
		t.Errorf("expected a blank display name to be rejected, got %v", err)
	}
}
