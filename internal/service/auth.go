package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avdeyev/storefront/internal/apperr"
	"github.com/avdeyev/storefront/internal/events"
	"github.com/avdeyev/storefront/internal/hash"
	"github.com/avdeyev/storefront/internal/logging"
	"github.com/avdeyev/storefront/internal/models"
	"github.com/avdeyev/storefront/internal/repo"
)

const minPasswordLen = 6

type AuthService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
	Secret   []byte
	TokenTTL time.Duration
}

// SessionClaims is the payload of a session token: user id and email plus
// the registered expiry.
type SessionClaims struct {
	UserID uint   `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (s *AuthService) SignSessionToken(user *models.User) (string, time.Time, error) {
	exp := time.Now().Add(s.TokenTTL)
	claims := SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func validateRegistration(req RegisterInput) map[string]string {
	details := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		details["name"] = "name is required"
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		details["email"] = "email is required"
	} else if !strings.Contains(email, "@") {
		details["email"] = "email is invalid"
	}
	if len(req.Password) < minPasswordLen {
		details["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLen)
	}
	return details
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (s *AuthService) Register(ctx context.Context, req RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if details := validateRegistration(req); len(details) > 0 {
		return nil, apperr.Validation("Validation failed", details)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, apperr.Internal("")
	}

	user := models.User{
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: pwHash,
		Name:         strings.TrimSpace(req.Name),
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			l.Warn("register_error", "status", 409, "reason", "email already registered")
			return nil, apperr.Conflict("Email already registered")
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, apperr.Internal("")
	}

	s.publish(ctx, events.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	})

	return &user, nil
}

// Login validates credentials and issues a session token, persisting it
// for revocation checks. Unknown email and wrong password produce the
// same failure.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, time.Time, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.ValidateCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "reason", "invalid email or password")
			return nil, "", time.Time{}, apperr.Auth("Invalid credentials")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, "", time.Time{}, apperr.Internal("")
	}

	token, exp, err := s.SignSessionToken(user)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, "", time.Time{}, apperr.Internal("")
	}

	if err := s.Repo.SaveToken(ctx, user.ID, token, exp); err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot persist token", "error", err)
		return nil, "", time.Time{}, apperr.Internal("")
	}

	s.publish(ctx, events.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":    "user_logged_in",
		"user_id": user.ID,
		"email":   user.Email,
	})

	return user, token, exp, nil
}

// ResolveSession turns a cookie-borne token into a user. Every failure
// mode collapses to the same AUTH_ERROR so the response never reveals
// whether the token was forged, expired or revoked; the reason is logged.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.session")
	denied := apperr.Auth("Invalid or expired session")

	claims, err := s.verifyToken(token)
	if err != nil {
		l.Warn("session_rejected", "reason", "token verification failed", "error", err)
		return nil, denied
	}

	revoked, err := s.Repo.IsTokenRevoked(ctx, token)
	if err != nil {
		l.Error("session_rejected", "reason", "revocation lookup failed", "error", err)
		return nil, denied
	}
	if revoked {
		l.Warn("session_rejected", "reason", "token revoked", "user_id", claims.UserID)
		return nil, denied
	}

	user, err := s.Repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		l.Warn("session_rejected", "reason", "user lookup failed", "user_id", claims.UserID, "error", err)
		return nil, denied
	}
	return user, nil
}

func (s *AuthService) verifyToken(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return s.Secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Logout revokes the token server-side. Ending an already-ended session
// is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.Repo.RevokeToken(ctx, token); err != nil {
		logging.FromContext(ctx).Error("logout_error", "error", err)
		return apperr.Internal("")
	}
	return nil
}

// SweepExpiredTokens purges token rows past their expiry.
func (s *AuthService) SweepExpiredTokens(ctx context.Context) {
	l := logging.FromContext(ctx).With("svc", "auth.sweep")
	n, err := s.Repo.DeleteExpiredTokens(ctx)
	if err != nil {
		l.Error("token_sweep_error", "error", err)
		return
	}
	if n > 0 {
		l.Info("token_sweep", "deleted", n)
	}
}

func (s *AuthService) publish(ctx context.Context, topic, key string, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_error", "topic", topic, "error", err)
	}
}
