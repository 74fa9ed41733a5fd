package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kidsread/kidsread-api/internal/models"
	appErrors "github.com/kidsread/kidsread-api/pkg/errors"
)

type mockAuthRepo struct {
	users   map[int64]*models.User
	byEmail map[string]*models.User
	tokens  map[string]*models.RefreshToken
	revoked []string
}

func newMockAuthRepo(users ...*models.User) *mockAuthRepo {
	repo := &mockAuthRepo{
		users:   make(map[int64]*models.User),
		byEmail: make(map[string]*models.User),
		tokens:  make(map[string]*models.RefreshToken),
	}
	for _, u := range users {
		repo.users[u.ID] = u
		repo.byEmail[u.Email] = u
	}
	return repo
}

func (r *mockAuthRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (r *mockAuthRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (r *mockAuthRepo) UpdateLastLogin(_ context.Context, id int64, ts time.Time) error {
	if u, ok := r.users[id]; ok {
		u.LastLogin = &ts
	}
	return nil
}

func (r *mockAuthRepo) UpdatePassword(_ context.Context, id int64, hash string, _ time.Time) error {
	if u, ok := r.users[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (r *mockAuthRepo) RevokeUserRefreshTokens(_ context.Context, userID int64) error {
	for _, t := range r.tokens {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}

func (r *mockAuthRepo) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	r.tokens[token.Token] = token
	return nil
}

func (r *mockAuthRepo) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := r.tokens[token]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (r *mockAuthRepo) RevokeRefreshToken(_ context.Context, id string, _ time.Time) error {
	r.revoked = append(r.revoked, id)
	for _, t := range r.tokens {
		if t.ID == id {
			t.Revoked = true
		}
	}
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "kidsread-api",
	}
}

func testParentUser(t *testing.T) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           7,
		Email:        "parent@example.com",
		PasswordHash: string(hash),
		FullName:     "Dana Lim",
		Role:         models.RoleParent,
		Active:       true,
	}
}

func TestAuthServiceLogin(t *testing.T) {
	repo := newMockAuthRepo(testParentUser(t))
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "parent@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(7), resp.User.ID)
	assert.Equal(t, models.RoleParent, resp.User.Role)
	assert.NotNil(t, repo.users[7].LastLogin)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "kidsread-api", claims.Issuer)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(newMockAuthRepo(testParentUser(t)), nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "parent@example.com",
		Password: "nope",
	})
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
	assert.Equal(t, "invalid email or password", appErrors.FromError(err).Message)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(newMockAuthRepo(), nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ghost@example.com",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, "invalid email or password", appErrors.FromError(err).Message)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	user := testParentUser(t)
	user.Active = false
	svc := NewAuthService(newMockAuthRepo(user), nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "parent@example.com",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	repo := newMockAuthRepo(testParentUser(t))
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "parent@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)

	// the revoked token must not be usable again
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

func TestAuthServiceLogout(t *testing.T) {
	repo := newMockAuthRepo(testParentUser(t))
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "parent@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	err = svc.Logout(context.Background(), login.RefreshToken, 99)
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken, 7))
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)
}

func TestAuthServiceChangePassword(t *testing.T) {
	repo := newMockAuthRepo(testParentUser(t))
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "parent@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), 7, models.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "brandnew",
	})
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	require.NoError(t, svc.ChangePassword(context.Background(), 7, models.ChangePasswordRequest{
		OldPassword: "secret123",
		NewPassword: "brandnew",
	}))
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)

	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "parent@example.com",
		Password: "brandnew",
	})
	require.NoError(t, err)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	svc := NewAuthService(newMockAuthRepo(testParentUser(t)), nil, nil, testAuthConfig())

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)

	other := NewAuthService(newMockAuthRepo(testParentUser(t)), nil, nil, AuthConfig{
		AccessTokenSecret: "different-secret",
		AccessTokenExpiry: time.Minute,
	})
	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "parent@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = other.ValidateToken(login.AccessToken)
	require.Error(t, err)
}
