package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/questlog/questlog-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	env *testEnv
}

func (s *AuthHandlerTestSuite) SetupTest() {
	s.env = newTestEnv(s.T())
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) TestSignup() {
	w := s.env.request(s.T(), http.MethodPost, "/auth/signup", "", gin.H{
		"name":     "Ayla",
		"email":    "ayla@example.com",
		"password": "hunter2hunter2",
	})

	require.Equal(s.T(), http.StatusCreated, w.Code)
	body := decodeBody(s.T(), w)
	assert.Equal(s.T(), "User created successfully", body["message"])

	user, ok := body["user"].(map[string]any)
	require.True(s.T(), ok)
	assert.Equal(s.T(), "ayla@example.com", user["email"])
	assert.NotContains(s.T(), user, "password_hash")
}

func (s *AuthHandlerTestSuite) TestSignupMissingName() {
	w := s.env.request(s.T(), http.MethodPost, "/auth/signup", "", gin.H{
		"email":    "ayla@example.com",
		"password": "hunter2hunter2",
	})

	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Equal(s.T(), "MISSING_FIELD", decodeBody(s.T(), w)["code"])
}

func (s *AuthHandlerTestSuite) TestSignupWeakPassword() {
	w := s.env.request(s.T(), http.MethodPost, "/auth/signup", "", gin.H{
		"name":     "Ayla",
		"email":    "ayla@example.com",
		"password": "short",
	})

	require.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AuthHandlerTestSuite) TestSignupDuplicateEmail() {
	s.env.signup(s.T(), "Ayla", "ayla@example.com", "hunter2hunter2")

	w := s.env.request(s.T(), http.MethodPost, "/auth/signup", "", gin.H{
		"name":     "Other Ayla",
		"email":    "ayla@example.com",
		"password": "hunter2hunter2",
	})

	require.Equal(s.T(), http.StatusConflict, w.Code)
	assert.Equal(s.T(), "CONFLICT", decodeBody(s.T(), w)["code"])
}

func (s *AuthHandlerTestSuite) TestSignin() {
	s.env.signup(s.T(), "Ayla", "ayla@example.com", "hunter2hunter2")

	w := s.env.request(s.T(), http.MethodPost, "/auth/signin", "", gin.H{
		"email":    "ayla@example.com",
		"password": "hunter2hunter2",
	})

	require.Equal(s.T(), http.StatusOK, w.Code)
	body := decodeBody(s.T(), w)
	assert.Equal(s.T(), "login successful", body["message"])
	assert.NotEmpty(s.T(), body["access_token"])
	assert.NotEmpty(s.T(), body["refresh_token"])

	user, ok := body["user"].(map[string]any)
	require.True(s.T(), ok)
	assert.NotEmpty(s.T(), user["last_login"])
}

func (s *AuthHandlerTestSuite) TestSigninUnknownUser() {
	w := s.env.request(s.T(), http.MethodPost, "/auth/signin", "", gin.H{
		"email":    "nobody@example.com",
		"password": "hunter2hunter2",
	})

	require.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *AuthHandlerTestSuite) TestSigninWrongPassword() {
	s.env.signup(s.T(), "Ayla", "ayla@example.com", "hunter2hunter2")

	w := s.env.request(s.T(), http.MethodPost, "/auth/signin", "", gin.H{
		"email":    "ayla@example.com",
		"password": "not-the-password",
	})

	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Equal(s.T(), "INVALID_CREDENTIALS", decodeBody(s.T(), w)["code"])
}

func (s *AuthHandlerTestSuite) TestSigninMissingPassword() {
	w := s.env.request(s.T(), http.MethodPost, "/auth/signin", "", gin.H{
		"email": "ayla@example.com",
	})

	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Equal(s.T(), "MISSING_FIELD", decodeBody(s.T(), w)["code"])
}

func (s *AuthHandlerTestSuite) TestRefresh() {
	s.env.signup(s.T(), "Ayla", "ayla@example.com", "hunter2hunter2")
	_, refreshToken := s.env.signin(s.T(), "ayla@example.com", "hunter2hunter2")

	w := s.env.request(s.T(), http.MethodPost, "/auth/refresh", "", gin.H{
		"refresh_token": refreshToken,
	})

	require.Equal(s.T(), http.StatusOK, w.Code)
	body := decodeBody(s.T(), w)
	assert.Equal(s.T(), "New token assigned", body["message"])
	assert.NotEmpty(s.T(), body["access_token"])
}

func (s *AuthHandlerTestSuite) TestRefreshMissingToken() {
	w := s.env.request(s.T(), http.MethodPost, "/auth/refresh", "", gin.H{})

	require.Equal(s.T(), http.StatusBadRequest, w.Code)
	assert.Equal(s.T(), "MISSING_FIELD", decodeBody(s.T(), w)["code"])
}

func (s *AuthHandlerTestSuite) TestRefreshUnknownToken() {
	w := s.env.request(s.T(), http.MethodPost, "/auth/refresh", "", gin.H{
		"refresh_token": "never-issued",
	})

	require.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *AuthHandlerTestSuite) TestRefreshExpiredToken() {
	s.env.signup(s.T(), "Ayla", "ayla@example.com", "hunter2hunter2")
	_, refreshToken := s.env.signin(s.T(), "ayla@example.com", "hunter2hunter2")

	err := s.env.db.Model(&models.RefreshToken{}).
		Where("token = ?", refreshToken).
		Update("expires_at", time.Now().Add(-time.Hour)).Error
	require.NoError(s.T(), err)

	w := s.env.request(s.T(), http.MethodPost, "/auth/refresh", "", gin.H{
		"refresh_token": refreshToken,
	})

	require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(s.T(), "TOKEN_EXPIRED", decodeBody(s.T(), w)["code"])
}
