package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"hotel-backoffice/config"
	"hotel-backoffice/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the JWT body issued at login. Subject carries the user id.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// AuthService registers guests, checks credentials with lockout, and issues HS256 tokens.
type AuthService struct {
	DB    *gorm.DB
	users *UserService
	cfg   config.AuthConfig
	deps
}

func NewAuthService(db *gorm.DB, cfg config.AuthConfig, opts ...Option) *AuthService {
	return &AuthService{DB: db, users: NewUserService(db, opts...), cfg: cfg, deps: newDeps(opts)}
}

// Register creates a guest account. The role is always guest regardless of input.
func (s *AuthService) Register(ctx context.Context, in CreateUserInput) (*models.User, error) {
	in.Role = models.RoleGuest
	return s.users.Create(ctx, in)
}

// Login verifies credentials. Repeated failures lock the account for cfg.LockDuration.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, Validationf("email and password are required")
	}
	db := s.DB.WithContext(ctx)
	now := s.now().UTC()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if IsKind(err, KindNotFound) {
			return nil, Unauthenticatedf("invalid credentials")
		}
		return nil, err
	}
	if user.IsLocked(now) {
		return nil, Forbiddenf("account is locked")
	}
	if !user.IsActive {
		return nil, Forbiddenf("account is disabled")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		attempts := user.LoginAttempts + 1
		updates := map[string]interface{}{"login_attempts": attempts}
		if attempts >= s.cfg.MaxLoginAttempts {
			updates["lock_until"] = now.Add(s.cfg.LockDuration)
			updates["login_attempts"] = 0
			s.log.Warn().Uint("user_id", user.ID).Int("attempts", attempts).Msg("account locked after failed logins")
		}
		if err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("record failed login: %w", err)
		}
		return nil, Unauthenticatedf("invalid credentials")
	}

	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"login_attempts": 0,
		"lock_until":     nil,
		"last_login":     now,
	}).Error; err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	user.LoginAttempts = 0
	user.LockUntil = nil
	user.LastLogin = &now

	token, expiresAt, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("user logged in")
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) IssueToken(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.TokenTTL)
	claims := &Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseToken validates signature, algorithm and expiry.
func (s *AuthService) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}
