package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/grdlib/feedback-api/internal/middleware"
	"github.com/grdlib/feedback-api/internal/models"
	"github.com/grdlib/feedback-api/internal/service"
)

type authRepoMock struct {
	usersByEmail  map[string]*models.User
	usersByID     map[string]*models.User
	refreshTokens map[string]*models.RefreshToken
	revoked       []string
}

func (m *authRepoMock) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *authRepoMock) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *authRepoMock) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (m *authRepoMock) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	return nil
}

func (m *authRepoMock) RevokeUserRefreshTokens(ctx context.Context, userID string) error { return nil }

func (m *authRepoMock) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if m.refreshTokens == nil {
		m.refreshTokens = map[string]*models.RefreshToken{}
	}
	m.refreshTokens[token.Token] = token
	return nil
}

func (m *authRepoMock) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if stored, ok := m.refreshTokens[token]; ok {
		return stored, nil
	}
	return nil, sql.ErrNoRows
}

func (m *authRepoMock) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	m.revoked = append(m.revoked, id)
	return nil
}

func (m *authRepoMock) CreateAuditLog(ctx context.Context, log *models.AuditLog) error { return nil }

func newAuthHandler(t *testing.T, repo *authRepoMock) *AuthHandler {
	t.Helper()
	return NewAuthHandler(service.NewAuthService(repo, nil, nil, service.AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "feedback-api",
	}))
}

func adminUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "admin-1",
		Email:        "librarian@psgtech.ac.in",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Active:       true,
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	admin := adminUser(t, "s3cretpw")
	repo := &authRepoMock{usersByEmail: map[string]*models.User{admin.Email: admin}}
	handler := newAuthHandler(t, repo)

	body := []byte(`{"email":"librarian@psgtech.ac.in","password":"s3cretpw"}`)
	c, w := newTestContext(t, http.MethodPost, "/auth/login", body)

	handler.Login(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.RefreshToken)
	assert.Equal(t, admin.ID, envelope.Data.User.ID)
}

func TestAuthHandlerLoginWrongPassword(t *testing.T) {
	admin := adminUser(t, "s3cretpw")
	repo := &authRepoMock{usersByEmail: map[string]*models.User{admin.Email: admin}}
	handler := newAuthHandler(t, repo)

	body := []byte(`{"email":"librarian@psgtech.ac.in","password":"wrongpw"}`)
	c, w := newTestContext(t, http.MethodPost, "/auth/login", body)

	handler.Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerLoginNonAdmin(t *testing.T) {
	student := adminUser(t, "s3cretpw")
	student.Role = models.RoleUser
	repo := &authRepoMock{usersByEmail: map[string]*models.User{student.Email: student}}
	handler := newAuthHandler(t, repo)

	body := []byte(`{"email":"librarian@psgtech.ac.in","password":"s3cretpw"}`)
	c, w := newTestContext(t, http.MethodPost, "/auth/login", body)

	handler.Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerRefreshExpired(t *testing.T) {
	repo := &authRepoMock{refreshTokens: map[string]*models.RefreshToken{
		"stale": {ID: "rt1", UserID: "admin-1", Token: "stale", ExpiresAt: time.Now().UTC().Add(-time.Hour)},
	}}
	handler := newAuthHandler(t, repo)

	body := []byte(`{"refresh_token":"stale"}`)
	c, w := newTestContext(t, http.MethodPost, "/auth/refresh", body)

	handler.Refresh(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerLogout(t *testing.T) {
	repo := &authRepoMock{refreshTokens: map[string]*models.RefreshToken{
		"live": {ID: "rt1", UserID: "admin-1", Token: "live", ExpiresAt: time.Now().UTC().Add(time.Hour)},
	}}
	handler := newAuthHandler(t, repo)

	body := []byte(`{"refresh_token":"live"}`)
	c, w := newTestContext(t, http.MethodPost, "/auth/logout", body)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	handler.Logout(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"rt1"}, repo.revoked)
}

func TestAuthHandlerLogoutWithoutClaims(t *testing.T) {
	handler := newAuthHandler(t, &authRepoMock{})

	c, w := newTestContext(t, http.MethodPost, "/auth/logout", []byte(`{"refresh_token":"live"}`))
	handler.Logout(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerMe(t *testing.T) {
	handler := newAuthHandler(t, &authRepoMock{})

	c, w := newTestContext(t, http.MethodGet, "/auth/me", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{
		UserID: "u1",
		Email:  "21pt01@psgtech.ac.in",
		RollNo: "21PT01",
		Role:   models.RoleUser,
	})

	handler.Me(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.UserInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "21PT01", envelope.Data.RollNo)
}

func TestAuthHandlerMeWithoutClaims(t *testing.T) {
	handler := newAuthHandler(t, &authRepoMock{})

	c, w := newTestContext(t, http.MethodGet, "/auth/me", nil)
	handler.Me(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
