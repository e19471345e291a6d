package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fauzanhakim/ratebase/internal/config"
	"github.com/fauzanhakim/ratebase/internal/entity"
	"github.com/fauzanhakim/ratebase/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	srv  *Server
	db   *gorm.DB
	mail *capturingSender
}

// capturingSender keeps the last body sent to each address so tests can
// exchange the code a user would actually receive.
type capturingSender struct {
	bodies map[string]string
}

func (s *capturingSender) Send(to, subject, body string) error {
	s.bodies[to] = body
	return nil
}

func (s *capturingSender) codeFor(t *testing.T, to string) string {
	t.Helper()
	const marker = "Your confirmation code: "
	body, ok := s.bodies[to]
	require.True(t, ok, "no mail sent to %s", to)
	idx := strings.Index(body, marker)
	require.NotEqual(t, -1, idx, "mail body carries no confirmation code")
	return body[idx+len(marker):]
}

func setupEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	cfg := &config.Config{
		Port:           "0",
		SecretKey:      "test-secret",
		TokenTTL:       time.Hour,
		RateLimitWrite: time.Second,
	}

	mail := &capturingSender{bodies: make(map[string]string)}
	return &env{
		srv:  New(cfg, db, nil, mail),
		db:   db,
		mail: mail,
	}
}

func (e *env) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, req)
	return rec
}

// signupAndLogin walks the passwordless flow with the code captured from
// the sent mail and returns a bearer token.
func (e *env) signupAndLogin(t *testing.T, username string) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/api/auth/token", "", gin.H{
		"username":          username,
		"confirmation_code": e.mail.codeFor(t, username+"@example.com"),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

func (e *env) promote(t *testing.T, username, role string) {
	t.Helper()
	require.NoError(t, e.db.Model(&entity.User{}).Where("username = ?", username).Update("role", role).Error)
}

func TestSignupTokenProfileFlow(t *testing.T) {
	e := setupEnv(t)

	bearer := e.signupAndLogin(t, "reader")

	rec := e.do(t, http.MethodGet, "/api/users/me", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "reader", me["username"])
	assert.Equal(t, "user", me["role"])

	// Self-service PATCH updates the profile but never the role.
	rec = e.do(t, http.MethodPatch, "/api/users/me", bearer, gin.H{
		"first_name": "Jane",
		"role":       "admin",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "Jane", me["first_name"])
	assert.Equal(t, "user", me["role"])
}

func TestTokenEndpointErrors(t *testing.T) {
	e := setupEnv(t)

	rec := e.do(t, http.MethodPost, "/api/auth/token", "", gin.H{
		"username":          "ghost",
		"confirmation_code": "whatever",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	e.signupAndLogin(t, "reader")
	rec = e.do(t, http.MethodPost, "/api/auth/token", "", gin.H{
		"username":          "reader",
		"confirmation_code": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "confirmation_code")
}

func TestMeRequiresAuth(t *testing.T) {
	e := setupEnv(t)

	rec := e.do(t, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/users/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCatalogPermissions(t *testing.T) {
	e := setupEnv(t)

	// Anonymous reads are open.
	rec := e.do(t, http.MethodGet, "/api/categories", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Anonymous writes are 401, plain-user writes 403.
	payload := gin.H{"name": "Films", "slug": "films"}
	rec = e.do(t, http.MethodPost, "/api/categories", "", payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	userToken := e.signupAndLogin(t, "reader")
	rec = e.do(t, http.MethodPost, "/api/categories", userToken, payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := e.signupAndLogin(t, "boss")
	e.promote(t, "boss", entity.RoleAdmin)

	rec = e.do(t, http.MethodPost, "/api/categories", adminToken, payload)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodDelete, "/api/categories/films", adminToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUserManagementIsAdminOnly(t *testing.T) {
	e := setupEnv(t)

	userToken := e.signupAndLogin(t, "reader")
	rec := e.do(t, http.MethodGet, "/api/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := e.signupAndLogin(t, "boss")
	e.promote(t, "boss", entity.RoleAdmin)

	rec = e.do(t, http.MethodGet, "/api/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPatch, "/api/users/reader", adminToken, gin.H{"role": "moderator"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The promotion applies on the user's very next request.
	rec = e.do(t, http.MethodGet, "/api/users/me", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "moderator", me["role"])
}

func TestReviewFlowOverHTTP(t *testing.T) {
	e := setupEnv(t)

	adminToken := e.signupAndLogin(t, "boss")
	e.promote(t, "boss", entity.RoleAdmin)

	rec := e.do(t, http.MethodPost, "/api/titles", adminToken, gin.H{"name": "Solaris", "year": 1961})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var title map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &title))
	titleID := title["id"].(string)

	userToken := e.signupAndLogin(t, "reader")
	rec = e.do(t, http.MethodPost, "/api/titles/"+titleID+"/reviews", userToken, gin.H{"text": "slow but deep", "score": 8})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var review map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &review))
	reviewID := review["id"].(string)

	// Second review by the same author conflicts.
	rec = e.do(t, http.MethodPost, "/api/titles/"+titleID+"/reviews", userToken, gin.H{"text": "again", "score": 2})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// The rating surfaces on the title.
	rec = e.do(t, http.MethodGet, "/api/titles/"+titleID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &title))
	assert.EqualValues(t, 8, title["rating"])

	// Anonymous readers see the review; commenting needs a login.
	rec = e.do(t, http.MethodGet, "/api/titles/"+titleID+"/reviews/"+reviewID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/titles/"+titleID+"/reviews/"+reviewID+"/comments", "", gin.H{"text": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	commenterToken := e.signupAndLogin(t, "commenter")
	rec = e.do(t, http.MethodPost, "/api/titles/"+titleID+"/reviews/"+reviewID+"/comments", commenterToken, gin.H{"text": "agreed"})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestSignupConflicts(t *testing.T) {
	e := setupEnv(t)

	rec := e.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"username": "reader", "email": "reader@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Identical pair is an idempotent re-send.
	rec = e.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"username": "reader", "email": "reader@example.com"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"username": "other", "email": "reader@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"username": "me", "email": "me@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
