package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/docvault/internal/events"
	"github.com/Skotchmaster/docvault/internal/hash"
	"github.com/Skotchmaster/docvault/internal/logging"
	"github.com/Skotchmaster/docvault/internal/models"
	"github.com/Skotchmaster/docvault/internal/repo"
	"github.com/Skotchmaster/docvault/internal/tokens"
)

// AuthService owns the credential and session lifecycle: registration, token
// issuance, refresh and revocation. The access token is only as trustworthy as
// its signature; the refresh token is additionally backed by a session record,
// so deleting the record revokes it before the signature expires.
type AuthService struct {
	Repo       *repo.GormRepo
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Producer   *events.Producer
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *AuthService) Register(ctx context.Context, firstName, lastName, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if _, err := s.Repo.GetUserByEmail(ctx, email); err == nil {
		return nil, Conflict("email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("register_failed", "error", err)
		return nil, Internal(err)
	}

	// Hashing happens here, before the store call; the repo persists exactly
	// what it is given.
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash the password", "error", err)
		return nil, Internal(err)
	}

	user := models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if repo.IsDuplicate(err) {
			return nil, Conflict("email already exists")
		}
		l.Error("register_failed", "error", err)
		return nil, Internal(err)
	}

	if err := s.Producer.PublishEvent(ctx, events.TopicUserEvents, user.ID.String(), map[string]any{
		"type":  "user_registered",
		"email": user.Email,
	}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	l.Info("user_registered", "user_id", user.ID)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("email not found")
		}
		l.Error("login_failed", "error", err)
		return nil, Internal(err)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "password mismatch", "user_id", user.ID)
		return nil, Unauthorized("invalid credentials")
	}

	now := time.Now()
	accessExp := now.Add(s.AccessTTL)
	accessToken, err := tokens.Sign(user.ID.String(), accessExp, s.Secret)
	if err != nil {
		l.Error("login_failed", "error", err)
		return nil, Internal(err)
	}

	refreshExp := now.Add(s.RefreshTTL)
	refreshToken, err := tokens.Sign(user.ID.String(), refreshExp, s.Secret)
	if err != nil {
		l.Error("login_failed", "error", err)
		return nil, Internal(err)
	}

	session := models.Session{
		UserID:    user.ID,
		TokenHash: tokens.Sha256Hex(refreshToken),
		IssuedAt:  now,
		ExpiresAt: refreshExp,
	}
	if err := s.Repo.CreateSession(ctx, &session); err != nil {
		l.Error("login_failed", "error", err)
		return nil, Internal(err)
	}

	if err := s.Producer.PublishEvent(ctx, events.TopicUserEvents, user.ID.String(), map[string]any{
		"type":  "user_logged_in",
		"email": user.Email,
	}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	l.Info("login_successful", "user_id", user.ID)
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

// Refresh mints a new access token for a refresh token that is both validly
// signed and still backed by a live session. The refresh token itself is not
// rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.Parse(refreshToken, s.Secret)
	if err != nil {
		return "", time.Time{}, Unauthorized("invalid or expired refresh token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", time.Time{}, Unauthorized("invalid or expired refresh token")
	}

	if _, err := s.Repo.FindValidSession(ctx, userID, time.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", time.Time{}, Unauthorized("session expired or revoked")
		}
		l.Error("refresh_failed", "error", err)
		return "", time.Time{}, Internal(err)
	}

	accessExp := time.Now().Add(s.AccessTTL)
	accessToken, err := tokens.Sign(userID.String(), accessExp, s.Secret)
	if err != nil {
		l.Error("refresh_failed", "error", err)
		return "", time.Time{}, Internal(err)
	}

	return accessToken, accessExp, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if err := s.Repo.DeleteSessionByTokenHash(ctx, tokens.Sha256Hex(refreshToken)); err != nil {
		l.Error("logout_failed", "error", err)
		return Internal(err)
	}
	return nil
}

// Verify is pure claim verification; it never consults the session store.
func (s *AuthService) Verify(tokenStr string) (uuid.UUID, error) {
	claims, err := tokens.Parse(tokenStr, s.Secret)
	if err != nil {
		return uuid.Nil, Unauthorized("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, Unauthorized("invalid or expired token")
	}
	return userID, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("user not found")
		}
		return nil, Internal(err)
	}
	return user, nil
}
