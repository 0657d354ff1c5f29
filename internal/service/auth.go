package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tuanvumaihuynh/productstack/internal/apperr"
	"github.com/tuanvumaihuynh/productstack/internal/config"
	"github.com/tuanvumaihuynh/productstack/internal/model"
	"github.com/tuanvumaihuynh/productstack/internal/repository"
)

type SignupParams struct {
	Name     string
	Email    string
	Password string
}

type LoginParams struct {
	Email    string
	Password string
}

// AuthResult is a signed token together with the user it was issued for.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      model.User
}

// Claims is the payload of an issued token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID returns the subject of the token as a user id.
func (c Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type AuthService interface {
	Signup(ctx context.Context, params SignupParams) (AuthResult, error)
	Login(ctx context.Context, params LoginParams) (AuthResult, error)
	// VerifyToken checks signature and expiry and returns the claims.
	VerifyToken(token string) (Claims, error)
}

type authService struct {
	logger   *slog.Logger
	cfg      config.Auth
	storeCfg config.Store
	userRepo repository.UserRepository
	now      func() time.Time
}

func NewAuthService(
	logger *slog.Logger,
	cfg config.Auth,
	storeCfg config.Store,
	userRepo repository.UserRepository,
) AuthService {
	return &authService{
		logger:   logger.With(slog.String("service", "auth")),
		cfg:      cfg,
		storeCfg: storeCfg,
		userRepo: userRepo,
		now:      time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, params SignupParams) (AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.cfg.BcryptCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	user, err := s.userRepo.CreateUser(ctx, model.User{
		ID:           id,
		Name:         strings.TrimSpace(params.Name),
		Email:        params.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return AuthResult{}, translateStoreErr(err, "create user")
	}

	s.logger.InfoContext(ctx, "user signed up", slog.String("user_id", user.ID.String()))

	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, params LoginParams) (AuthResult, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	user, err := s.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResult{}, apperr.UserNotFoundErr.WrapParent(err)
		}
		return AuthResult{}, translateStoreErr(err, "get user by email")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(params.Password)); err != nil {
		return AuthResult{}, apperr.InvalidCredentialsErr.WrapParent(err)
	}

	return s.issue(user)
}

func (s *authService) VerifyToken(token string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) {
			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Claims{}, apperr.InvalidTokenErr.WrapParent(err)
	}
	if !parsed.Valid {
		return Claims{}, apperr.InvalidTokenErr
	}
	if _, err := claims.UserID(); err != nil {
		return Claims{}, apperr.InvalidTokenErr.WrapParent(err)
	}

	return claims, nil
}

func (s *authService) issue(user model.User) (AuthResult, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.TokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return AuthResult{}, fmt.Errorf("sign token: %w", err)
	}

	return AuthResult{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeCfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.storeCfg.Timeout)
}
