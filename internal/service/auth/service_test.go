package auth

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passthroughTx) WithinSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	user.UserRepository
	users map[string]user.User
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

type storedToken struct {
	userID  string
	revoked bool
}

type fakeJWTRepo struct {
	tokens map[string]*storedToken
}

func (f *fakeJWTRepo) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	f.tokens[token] = &storedToken{userID: userID}
	return nil
}

func (f *fakeJWTRepo) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	t, ok := f.tokens[token]
	if !ok {
		return "", true, nil
	}
	return t.userID, t.revoked, nil
}

func (f *fakeJWTRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	if t, ok := f.tokens[token]; ok {
		t.revoked = true
	}
	return nil
}

func (f *fakeJWTRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	for _, t := range f.tokens {
		if t.userID == userID {
			t.revoked = true
		}
	}
	return nil
}

func newTestAuthService(t *testing.T, status user.Status) (auth.AuthService, *fakeJWTRepo) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	hashedStr := string(hashed)

	users := &fakeUserRepo{users: map[string]user.User{
		"u-1": {
			ID:           "u-1",
			Name:         "Asha",
			Email:        "asha@example.com",
			PasswordHash: &hashedStr,
			Role:         user.RoleEmployee,
			Designation:  user.DesignationLA,
			Status:       status,
		},
	}}
	tokens := &fakeJWTRepo{tokens: map[string]*storedToken{}}
	jwtService := jwt.NewJWTService("test-secret-key-for-jwt", time.Hour, 24*time.Hour)

	return NewAuthService(passthroughTx{}, users, jwtService, tokens), tokens
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, tokens := newTestAuthService(t, user.StatusActive)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "asha@example.com",
		Password: "password123",
	}, auth.SessionTrackingRequest{UserAgent: "test", IPAddress: "127.0.0.1"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "u-1", resp.User.ID)
	assert.Nil(t, resp.User.AllocatedSalary)
	assert.Contains(t, tokens.tokens, resp.RefreshToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t, user.StatusActive)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong-password",
	}, auth.SessionTrackingRequest{})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t, user.StatusActive)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	}, auth.SessionTrackingRequest{})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_Blocked(t *testing.T) {
	svc, _ := newTestAuthService(t, user.StatusBlocked)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "asha@example.com",
		Password: "password123",
	}, auth.SessionTrackingRequest{})

	assert.ErrorIs(t, err, user.ErrUserBlocked)
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	svc, _ := newTestAuthService(t, user.StatusActive)
	ctx := context.Background()

	login, err := svc.Login(ctx, auth.LoginRequest{Email: "asha@example.com", Password: "password123"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	require.NoError(t, svc.Logout(ctx, login.RefreshToken))

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, _ := newTestAuthService(t, user.StatusActive)
	ctx := context.Background()

	login, err := svc.Login(ctx, auth.LoginRequest{Email: "asha@example.com", Password: "password123"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
