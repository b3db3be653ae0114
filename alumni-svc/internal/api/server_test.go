package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/domain"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/dto"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/repository"
	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/testutil"
)

type inbox struct {
	mu   sync.Mutex
	sent []dto.Notification
}

func (i *inbox) Send(_ context.Context, n dto.Notification) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.sent = append(i.sent, n)
	return nil
}

func (i *inbox) lastCode(t *testing.T) string {
	t.Helper()
	i.mu.Lock()
	defer i.mu.Unlock()
	for j := len(i.sent) - 1; j >= 0; j-- {
		if i.sent[j].Kind == dto.KindOTP {
			return i.sent[j].Code
		}
	}
	t.Fatal("no code was sent")
	return ""
}

type testServer struct {
	app   *fiber.App
	db    *gorm.DB
	auth  helper.Auth
	inbox *inbox
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewDB(t)
	auth := helper.SetupAuth("test-secret", time.Hour)
	box := &inbox{}

	app := NewApp(Deps{
		DB:           db,
		Auth:         auth,
		Notifier:     box,
		OTPTTL:       10 * time.Minute,
		AllowOrigins: "*",
		Logger:       zap.NewNop(),
	})
	return &testServer{app: app, db: db, auth: auth, inbox: box}
}

func (s *testServer) tokenFor(t *testing.T, a *domain.Alumni) string {
	t.Helper()
	token, err := s.auth.GenerateToken(a.ID, a.Email, a.Role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	header := ""
	if token != "" {
		header = "Bearer " + token
	}
	return s.doWithHeader(t, method, path, header, body)
}

// doWithHeader sends authorization verbatim.
func (s *testServer) doWithHeader(t *testing.T, method, path, authorization string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func registrationBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"email":       email,
		"otpType":     "EMAIL",
		"firstName":   "Asha",
		"lastName":    "Patil",
		"joiningYear": "2014",
		"passingYear": 2018,
		"department":  "Physics",
		"college":     "KES College",
		"course":      "B.Sc",
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestRegistrationAndLoginOverHTTP(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/api/auth/send-otp", "", registrationBody("Asha@X.com"))
	require.Equal(t, http.StatusOK, status, body)
	alumniID := body["alumniId"]
	require.NotNil(t, alumniID)

	reg := registrationBody("asha@x.com")
	reg["alumniId"] = alumniID
	reg["otp"] = s.inbox.lastCode(t)
	reg["city"] = "Mumbai"
	status, body = s.do(t, http.MethodPost, "/api/auth/register", "", reg)
	require.Equal(t, http.StatusCreated, status, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	claims, err := s.auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "asha@x.com", claims.Email)
	assert.Equal(t, string(domain.RoleBaseMember), claims.Role)

	status, body = s.do(t, http.MethodGet, "/api/profile/me", token, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Mumbai", body["city"])

	// registering the same email again is a conflict
	status, body = s.do(t, http.MethodPost, "/api/auth/send-otp", "", registrationBody("asha@x.com"))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", body["code"])

	status, body = s.do(t, http.MethodPost, "/api/auth/send-login-otp", "", map[string]string{"email": "asha@x.com"})
	require.Equal(t, http.StatusOK, status, body)

	status, body = s.do(t, http.MethodPost, "/api/auth/verify-login-otp", "", map[string]interface{}{
		"alumniId": body["alumniId"],
		"otp":      s.inbox.lastCode(t),
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.NotEmpty(t, body["token"])
}

func TestWrongCodeOverHTTP(t *testing.T) {
	s := newTestServer(t)

	_, body := s.do(t, http.MethodPost, "/api/auth/send-otp", "", registrationBody("b@x.com"))
	wrong := "000000"
	if s.inbox.lastCode(t) == wrong {
		wrong = "111111"
	}

	reg := registrationBody("b@x.com")
	reg["alumniId"] = body["alumniId"]
	reg["otp"] = wrong
	status, body := s.do(t, http.MethodPost, "/api/auth/register", "", reg)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_code", body["code"])
	assert.NotEmpty(t, body["message"])
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/api/profile/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthenticated", body["code"])

	status, _ = s.do(t, http.MethodGet, "/api/profile/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	other := helper.SetupAuth("another-secret", time.Hour)
	forged, err := other.GenerateToken(1, "x@x.com", domain.RoleSuperModerator)
	require.NoError(t, err)
	status, _ = s.do(t, http.MethodGet, "/api/admin/stats", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthMiddleware_RequiresBearerScheme(t *testing.T) {
	s := newTestServer(t)
	member := testutil.SeedAlumni(t, s.db, "member@x.com", domain.RoleBaseMember)
	token := s.tokenFor(t, member)

	status, _ := s.doWithHeader(t, http.MethodGet, "/api/profile/me", "Bearer "+token, nil)
	require.Equal(t, http.StatusOK, status)

	for _, header := range []string{token, "bearer " + token, "Bearer" + token, "Token " + token} {
		status, body := s.doWithHeader(t, http.MethodGet, "/api/profile/me", header, nil)
		assert.Equal(t, http.StatusUnauthorized, status, "header %q", header)
		assert.Equal(t, "invalid token", body["message"], "header %q", header)
	}

	status, body := s.doWithHeader(t, http.MethodGet, "/api/profile/me", "Bearer ", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "authentication required", body["message"])
}

func TestRequireRoles_UsesCurrentRole(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	roles := repository.NewRoleRepository(s.db)

	mod := testutil.SeedAlumni(t, s.db, "mod@x.com", domain.RoleModerator)
	token := s.tokenFor(t, mod)
	article := map[string]string{"title": "Reunion", "content": "Saturday"}

	status, _ := s.do(t, http.MethodPost, "/api/news", token, article)
	require.Equal(t, http.StatusCreated, status)

	// downgrade applies on the very next request with the same token
	require.NoError(t, roles.SetRole(ctx, mod.ID, domain.RoleBaseMember))
	status, body := s.do(t, http.MethodPost, "/api/news", token, article)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "unauthorized", body["code"])

	// and so does an upgrade
	member := testutil.SeedAlumni(t, s.db, "member@x.com", domain.RoleBaseMember)
	memberToken := s.tokenFor(t, member)
	status, _ = s.do(t, http.MethodGet, "/api/admin/stats", memberToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	require.NoError(t, roles.SetRole(ctx, member.ID, domain.RoleModerator))
	status, _ = s.do(t, http.MethodGet, "/api/admin/stats", memberToken, nil)
	assert.Equal(t, http.StatusOK, status)

	// a deleted account keeps a structurally valid token but is refused
	require.NoError(t, repository.NewAlumniRepository(s.db).DeleteAlumni(ctx, member.ID))
	status, _ = s.do(t, http.MethodGet, "/api/news", memberToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestSuperModeratorRoutes(t *testing.T) {
	s := newTestServer(t)
	super := testutil.SeedAlumni(t, s.db, "super@x.com", domain.RoleSuperModerator)
	mod := testutil.SeedAlumni(t, s.db, "mod@x.com", domain.RoleModerator)
	member := testutil.SeedAlumni(t, s.db, "member@x.com", domain.RoleBaseMember)

	status, _ := s.do(t, http.MethodPut, "/api/superadmin/alumni/"+itoa(member.ID)+"/role", s.tokenFor(t, mod), map[string]string{"role": "MODERATOR"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body := s.do(t, http.MethodPut, "/api/superadmin/alumni/"+itoa(member.ID)+"/role", s.tokenFor(t, super), map[string]string{"role": "MODERATOR"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "MODERATOR", body["role"])

	status, _ = s.do(t, http.MethodDelete, "/api/superadmin/alumni/"+itoa(member.ID), s.tokenFor(t, super), nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = s.do(t, http.MethodDelete, "/api/superadmin/alumni/abc", s.tokenFor(t, super), nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMaintenanceGate(t *testing.T) {
	s := newTestServer(t)
	super := testutil.SeedAlumni(t, s.db, "super@x.com", domain.RoleSuperModerator)
	mod := testutil.SeedAlumni(t, s.db, "mod@x.com", domain.RoleModerator)
	member := testutil.SeedAlumni(t, s.db, "member@x.com", domain.RoleBaseMember)

	status, body := s.do(t, http.MethodPost, "/api/superadmin/maintenance", s.tokenFor(t, super), map[string]interface{}{
		"isEnabled": true,
		"message":   "Back at 6pm",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["isEnabled"])

	status, body = s.do(t, http.MethodGet, "/api/news", s.tokenFor(t, member), nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Back at 6pm", body["message"])

	status, _ = s.do(t, http.MethodGet, "/api/news", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, _ = s.do(t, http.MethodGet, "/api/news", s.tokenFor(t, mod), nil)
	assert.Equal(t, http.StatusOK, status)

	// staff still need the Bearer scheme to get through
	status, _ = s.doWithHeader(t, http.MethodGet, "/api/news", s.tokenFor(t, mod), nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	// exempt paths
	status, body = s.do(t, http.MethodGet, "/api/maintenance/status", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["isEnabled"])
	assert.Equal(t, "Back at 6pm", body["message"])

	status, _ = s.do(t, http.MethodPost, "/api/auth/send-login-otp", "", map[string]string{"email": "member@x.com"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPost, "/api/superadmin/maintenance", s.tokenFor(t, super), map[string]interface{}{"isEnabled": false})
	require.Equal(t, http.StatusOK, status)
	status, _ = s.do(t, http.MethodGet, "/api/news", s.tokenFor(t, member), nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestMaintenanceGate_DefaultMessage(t *testing.T) {
	s := newTestServer(t)
	super := testutil.SeedAlumni(t, s.db, "super@x.com", domain.RoleSuperModerator)

	_, err := repository.NewMaintenanceRepository(s.db).Set(context.Background(), true, "", super.ID, time.Now())
	require.NoError(t, err)

	status, body := s.do(t, http.MethodGet, "/api/profile/me", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, body["message"], "maintenance")
}

func TestInvalidBody(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/api/auth/send-otp", "", map[string]interface{}{
		"email":       "c@x.com",
		"firstName":   "C",
		"joiningYear": "twenty",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", body["code"])
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
