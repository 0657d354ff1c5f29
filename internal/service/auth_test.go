package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tuanvumaihuynh/productstack/internal/apperr"
	"github.com/tuanvumaihuynh/productstack/internal/config"
	"github.com/tuanvumaihuynh/productstack/internal/model"
	"github.com/tuanvumaihuynh/productstack/internal/repository"
)

const testJWTSecret = "test-secret"

func newTestAuthService(users *MockUserRepository) *authService {
	return NewAuthService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		config.Auth{JWTSecret: testJWTSecret, TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost},
		config.Store{Timeout: time.Second},
		users,
	).(*authService)
}

func TestAuthService_Signup(t *testing.T) {
	t.Run("Should hash the password and issue a token", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u model.User) bool {
			return u.Email == "ann@example.com" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
		})).Return(nil, nil)
		svc := newTestAuthService(users)

		res, err := svc.Signup(context.Background(), SignupParams{Name: " Ann ", Email: "ann@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "Ann", res.User.Name)

		claims, err := svc.VerifyToken(res.Token)
		require.NoError(t, err)
		id, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, id)
		assert.Equal(t, "ann@example.com", claims.Email)
	})

	t.Run("Should report an existing email", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("CreateUser", mock.Anything, mock.Anything).Return(nil, repository.ErrDuplicateEmail)

		_, err := newTestAuthService(users).Signup(context.Background(), SignupParams{Email: "a@b.c", Password: "secret1"})
		assert.ErrorIs(t, err, apperr.UserAlreadyExistsErr)
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	user := model.User{ID: uuid.Must(uuid.NewV7()), Name: "Ann", Email: "ann@example.com", PasswordHash: string(hash)}

	users := new(MockUserRepository)
	users.On("GetUserByEmail", mock.Anything, "ann@example.com").Return(user, nil)
	users.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, repository.ErrNotFound)
	svc := newTestAuthService(users)

	t.Run("Should issue a token for valid credentials", func(t *testing.T) {
		res, err := svc.Login(context.Background(), LoginParams{Email: "ann@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, user.ID, res.User.ID)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("Should reject a wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginParams{Email: "ann@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, apperr.InvalidCredentialsErr)
	})

	t.Run("Should report an unknown user", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginParams{Email: "nobody@example.com", Password: "x"})
		assert.ErrorIs(t, err, apperr.UserNotFoundErr)
	})
}

func TestAuthService_VerifyToken(t *testing.T) {
	svc := newTestAuthService(new(MockUserRepository))
	user := model.User{ID: uuid.Must(uuid.NewV7()), Email: "ann@example.com"}

	t.Run("Should reject garbage", func(t *testing.T) {
		_, err := svc.VerifyToken("not-a-token")
		assert.ErrorIs(t, err, apperr.InvalidTokenErr)
	})

	t.Run("Should reject a token signed with another secret", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID.String()},
		})
		signed, err := token.SignedString([]byte("other"))
		require.NoError(t, err)

		_, err = svc.VerifyToken(signed)
		assert.ErrorIs(t, err, apperr.InvalidTokenErr)
	})

	t.Run("Should reject an expired token", func(t *testing.T) {
		res, err := svc.issue(user)
		require.NoError(t, err)

		svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { svc.now = time.Now }()

		_, err = svc.VerifyToken(res.Token)
		assert.ErrorIs(t, err, apperr.InvalidTokenErr)
	})
}
