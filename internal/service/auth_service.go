package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/joyas-pwa/joyas-api/internal/apperr"
	"github.com/joyas-pwa/joyas-api/internal/model"
	"github.com/joyas-pwa/joyas-api/internal/repository"
	"github.com/joyas-pwa/joyas-api/internal/utils"
)

// ErrInvalidCredentials is the only failure Authenticate and Login report.
// It never says whether the username or the password was wrong.
var ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "incorrect username or password")

// ErrUnauthorized is the only failure ValidateToken reports.
var ErrUnauthorized = apperr.New(apperr.KindUnauthorized, "could not validate credentials")

// bcrypt ignores input past 72 bytes; longer passwords are refused so two
// different passwords can never share a hash.
const maxPasswordBytes = 72

const maxUsernameLen = 100

// dummyPassword is hashed once so unknown usernames cost one bcrypt compare.
const dummyPassword = "joyas-timing-equaliser"

// AuthService verifies credentials and issues and validates session tokens.
type AuthService struct {
	users     UserStore
	hasher    PasswordHasher
	tokens    TokenCodec
	log       *zap.Logger
	dummyHash string
}

// NewAuthService wires the auth service.  It hashes a throwaway password up
// front, so construction costs one bcrypt hash.
func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenCodec, log *zap.Logger) (*AuthService, error) {
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		log:       log.Named("auth"),
		dummyHash: dummy,
	}, nil
}

// LoginResult is a successful login.
type LoginResult struct {
	User  model.User
	Token utils.AccessToken
}

// Authenticate checks a username and password.  Unknown users, blank stored
// hashes, wrong passwords and storage failures all yield
// ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("user lookup failed during login", zap.Error(err))
		}
		s.hasher.Verify(s.dummyHash, password)
		return model.User{}, ErrInvalidCredentials
	}
	if strings.TrimSpace(u.PasswordHash) == "" {
		s.log.Warn("user has no usable password hash", zap.Uint64("user_id", u.ID))
		return model.User{}, ErrInvalidCredentials
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// IssueToken signs a token for username.  A non-positive ttl uses the
// configured default.
func (s *AuthService) IssueToken(username string, ttl time.Duration) (utils.AccessToken, error) {
	tok, err := s.tokens.Issue(username, ttl)
	if err != nil {
		return utils.AccessToken{}, apperr.Internal(err, "could not issue token")
	}
	return tok, nil
}

// Login authenticates and issues a default-lifetime token.
func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return LoginResult{}, err
	}
	tok, err := s.IssueToken(u.Username, 0)
	if err != nil {
		return LoginResult{}, err
	}
	s.log.Info("login", zap.Uint64("user_id", u.ID))
	return LoginResult{User: u, Token: tok}, nil
}

// ValidateToken verifies raw and resolves its subject to a live user.  Every
// failure is ErrUnauthorized.
func (s *AuthService) ValidateToken(ctx context.Context, raw string) (model.User, error) {
	sub, err := s.tokens.Parse(raw)
	if err != nil {
		s.log.Debug("token rejected", zap.Error(err))
		return model.User{}, ErrUnauthorized
	}
	u, err := s.users.GetByUsername(ctx, sub)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("user lookup failed during token validation", zap.Error(err))
		}
		return model.User{}, ErrUnauthorized
	}
	return u, nil
}

// Register creates a user.  The username is trimmed; a taken username is a
// validation failure and leaves nothing behind.  No token is issued.
func (s *AuthService) Register(ctx context.Context, username, password string) (model.User, error) {
	username = strings.TrimSpace(username)
	fields := map[string]string{}
	switch {
	case username == "":
		fields["username"] = "must not be empty"
	case utf8.RuneCountInString(username) > maxUsernameLen:
		fields["username"] = "must be at most 100 characters"
	}
	switch {
	case strings.TrimSpace(password) == "":
		fields["password"] = "must not be empty"
	case len(password) > maxPasswordBytes:
		fields["password"] = "must be at most 72 bytes"
	}
	if len(fields) > 0 {
		return model.User{}, apperr.Validation("invalid registration", fields)
	}

	_, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return model.User{}, usernameTaken()
	case !errors.Is(err, repository.ErrNotFound):
		return model.User{}, apperr.Internal(err, "could not check username")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return model.User{}, apperr.Internal(err, "could not hash password")
	}
	u, err := s.users.Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return model.User{}, usernameTaken()
		}
		return model.User{}, apperr.Internal(err, "could not create user")
	}
	s.log.Info("user registered", zap.Uint64("user_id", u.ID))
	return u, nil
}

func usernameTaken() error {
	return apperr.Validation("username already registered", map[string]string{"username": "already registered"})
}
