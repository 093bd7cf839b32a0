package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"studenthub-server-go/internal/models"
	"studenthub-server-go/internal/platform/errors"
	"studenthub-server-go/internal/platform/logging"
)

// CredentialStore is the persistence collaborator the login flow depends on.
// FindActiveUserByEmail returns (nil, nil) when no active account matches.
type CredentialStore interface {
	FindActiveUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindRoleByID(ctx context.Context, id uint) (*models.Role, error)
	UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error
}

// Session is the outcome of a successful login.
type Session struct {
	User        *models.User
	AccessToken string
	Role        string
}

// ErrInvalidCredentials is the uniform login failure. Unknown email, wrong
// password and inactive account are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New(errors.KindAuth, "login", "invalid email or password")

// Well-formed digest compared against when no account matches, so the flow
// costs one bcrypt comparison on every path.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Service orchestrates credential verification and token issuance.
type Service struct {
	store  CredentialStore
	hasher *PasswordHasher
	codec  *TokenCodec
	ttl    time.Duration
	logger *logging.Logger
}

func NewService(
	store CredentialStore,
	hasher *PasswordHasher,
	codec *TokenCodec,
	ttl time.Duration,
	logger *logging.Logger,
) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		store:  store,
		hasher: hasher,
		codec:  codec,
		ttl:    ttl,
		logger: logger,
	}
}

// TTL reports the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Authenticate runs the login flow: active-account lookup, password check,
// role resolution, token issuance and a best-effort last-login update.
// Credential failures of any shade return ErrInvalidCredentials; collaborator
// failures propagate as storage errors.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.store.FindActiveUserByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "login.find_user", "user lookup failed", err)
	}

	if user == nil {
		// burn a comparison so the absent-account path costs the same
		s.hasher.Verify(password, dummyDigest)
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	role, err := s.store.FindRoleByID(ctx, user.RoleID)
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "login.find_role", "role lookup failed", err)
	}
	if role == nil {
		return nil, errors.New(errors.KindStorage, "login.find_role", "user references unknown role")
	}

	now := time.Now()
	token, err := s.codec.Issue(Claims{
		Role: role.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	})
	if err != nil {
		return nil, err
	}

	// A valid login already exists once the token is signed; the last-login
	// write must not be able to take it back.
	if err := s.store.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.WarnTag("AUTH", "last-login update failed for user %d: %v", user.ID, err)
	} else {
		user.LastLogin = &now
	}

	return &Session{
		User:        user,
		AccessToken: token,
		Role:        role.Name,
	}, nil
}
