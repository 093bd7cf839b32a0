package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"studenthub-server-go/internal/models"
	"studenthub-server-go/internal/platform/errors"
	ptesting "studenthub-server-go/internal/platform/testing"
)

type fakeCredentialStore struct {
	users          map[string]*models.User
	roles          map[uint]*models.Role
	lastLoginErr   error
	lastLoginCalls int
	lookupErr      error
}

func (f *fakeCredentialStore) FindActiveUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	user, ok := f.users[email]
	if !ok || !user.IsActive {
		return nil, nil
	}
	return user, nil
}

func (f *fakeCredentialStore) FindRoleByID(ctx context.Context, id uint) (*models.Role, error) {
	return f.roles[id], nil
}

func (f *fakeCredentialStore) UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error {
	f.lastLoginCalls++
	return f.lastLoginErr
}

func newLoginFixture(t *testing.T) (*Service, *fakeCredentialStore) {
	t.Helper()

	hasher := NewPasswordHasher(4)
	digest, err := hasher.Hash("correct-password")
	ptesting.AssertNoError(t, err)

	store := &fakeCredentialStore{
		users: map[string]*models.User{
			"alice@example.com": {
				ID:           7,
				Username:     "alice",
				Email:        "alice@example.com",
				PasswordHash: digest,
				RoleID:       2,
				IsActive:     true,
			},
		},
		roles: map[uint]*models.Role{
			2: {ID: 2, Name: models.RoleUser},
		},
	}

	codec := NewTokenCodec(StaticSecret("service-test-secret"))
	return NewService(store, hasher, codec, 24*time.Hour, ptesting.SetupTestLogger(t)), store
}

func TestServiceTTL(t *testing.T) {
	service, _ := newLoginFixture(t)
	ptesting.AssertEqual(t, service.TTL(), 24*time.Hour)

	defaulted := NewService(nil, nil, nil, 0, nil)
	ptesting.AssertEqual(t, defaulted.TTL(), 24*time.Hour)
}

func TestAuthenticateSuccess(t *testing.T) {
	service, store := newLoginFixture(t)

	session, err := service.Authenticate(context.Background(), "alice@example.com", "correct-password")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if session.User.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", session.User)
	}
	if session.Role != models.RoleUser {
		t.Fatalf("unexpected role: %q", session.Role)
	}
	if session.AccessToken == "" {
		t.Fatalf("expected a signed token")
	}
	if store.lastLoginCalls != 1 {
		t.Fatalf("expected one last-login update, got %d", store.lastLoginCalls)
	}
	if session.User.LastLogin == nil {
		t.Fatalf("expected last login to be reflected on the session user")
	}

	codec := NewTokenCodec(StaticSecret("service-test-secret"))
	claims, err := codec.Verify(session.AccessToken)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.Subject != "7" {
		t.Fatalf("expected decimal string subject, got %q", claims.Subject)
	}
	if claims.Role != models.RoleUser {
		t.Fatalf("unexpected role claim: %q", claims.Role)
	}
	if claims.ID == "" {
		t.Fatalf("expected a jti claim")
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < 23*time.Hour || remaining > 25*time.Hour {
		t.Fatalf("expected roughly 24h of validity, got %s", remaining)
	}
}

func TestAuthenticateUniformFailures(t *testing.T) {
	service, store := newLoginFixture(t)
	ctx := context.Background()

	inactive := *store.users["alice@example.com"]
	inactive.Email = "bob@example.com"
	inactive.IsActive = false
	store.users["bob@example.com"] = &inactive

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "correct-password"},
		{"wrong password", "alice@example.com", "wrong-password"},
		{"inactive account", "bob@example.com", "correct-password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			session, err := service.Authenticate(ctx, tc.email, tc.password)
			if session != nil {
				t.Fatalf("expected no session")
			}
			if err != ErrInvalidCredentials {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}

	if store.lastLoginCalls != 0 {
		t.Fatalf("failed logins must not touch last-login, got %d calls", store.lastLoginCalls)
	}
}

func TestAuthenticateStorageFailure(t *testing.T) {
	service, store := newLoginFixture(t)
	store.lookupErr = fmt.Errorf("connection refused")

	_, err := service.Authenticate(context.Background(), "alice@example.com", "correct-password")
	if err == nil {
		t.Fatalf("expected error")
	}
	if err == ErrInvalidCredentials {
		t.Fatalf("storage faults must not masquerade as credential failures")
	}
	if !errors.IsKind(err, errors.KindStorage) {
		t.Fatalf("expected storage kind, got %v", err)
	}
}

func TestAuthenticateMissingSecret(t *testing.T) {
	service, _ := newLoginFixture(t)
	service.codec = NewTokenCodec(StaticSecret(""))

	_, err := service.Authenticate(context.Background(), "alice@example.com", "correct-password")
	if err != ErrMissingSecret {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestAuthenticateLastLoginFailureIsNotFatal(t *testing.T) {
	service, store := newLoginFixture(t)
	store.lastLoginErr = fmt.Errorf("disk full")

	session, err := service.Authenticate(context.Background(), "alice@example.com", "correct-password")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if session.AccessToken == "" {
		t.Fatalf("expected a token despite the last-login failure")
	}
	if session.User.LastLogin != nil {
		t.Fatalf("failed update must not fabricate a last-login timestamp")
	}
}
