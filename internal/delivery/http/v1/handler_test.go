package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-goal-tracker/internal/models"
	"github.com/adanyl0v/go-goal-tracker/internal/repository/memory"
	"github.com/adanyl0v/go-goal-tracker/internal/services"
)

const (
	alice = "0190a3a6-0000-7000-8000-000000000001"
	bob   = "0190a3a6-0000-7000-8000-000000000002"

	aliceToken = "session-alice"
	bobToken   = "session-bob"

	// httptest.NewRequest uses this remote address.
	testClientIP = "192.0.2.1"
)

// stubAuthService treats "session-*" tokens as valid access
// tokens whose subject is the token itself.
type stubAuthService struct {
	services.AuthService

	loginResult *services.LoginResult
	loginErr    error

	refreshErr error

	loggedOut []string
}

func (s *stubAuthService) ParseJWTToken(token string) (*jwt.RegisteredClaims, error) {
	switch {
	case token == "expired":
		return nil, fmt.Errorf("token is expired: %w", jwt.ErrTokenExpired)
	case strings.HasPrefix(token, "session-"):
		return &jwt.RegisteredClaims{Subject: token}, nil
	default:
		return nil, errors.New("failed to parse token")
	}
}

func (s *stubAuthService) Login(_ context.Context, _ services.LoginParams) (*services.LoginResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) Refresh(_ context.Context, _ services.RefreshParams) (*services.LoginResult, error) {
	return s.loginResult, s.refreshErr
}

func (s *stubAuthService) Logout(_ context.Context, userID string) error {
	if userID == "" {
		return services.ErrUnauthenticated
	}
	s.loggedOut = append(s.loggedOut, userID)
	return nil
}

type stubSessionService struct {
	sessions map[string]*models.Session
}

func (s *stubSessionService) GetSessionByID(_ context.Context, sessionID string) (*models.Session, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, services.ErrSessionNotFound
	}
	return session, nil
}

type testServer struct {
	router *gin.Engine
	auth   *stubAuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithLogger(t, zerolog.Nop())
}

func newTestServerWithLogger(t *testing.T, logger zerolog.Logger) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fp, err := fingerprint(testClientIP, "")
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	sessions := &stubSessionService{sessions: map[string]*models.Session{
		aliceToken: {ID: aliceToken, UserID: alice, Fingerprint: fp},
		bobToken:   {ID: bobToken, UserID: bob, Fingerprint: fp},
		"session-elsewhere": {
			ID:          "session-elsewhere",
			UserID:      alice,
			Fingerprint: `{"client_ip":"203.0.113.9","user_agent":"other"}`,
		},
	}}

	store := memory.NewStore()
	auth := &stubAuthService{}
	h := New(
		logger,
		auth,
		sessions,
		services.NewCategoryService(logger, store),
		services.NewGoalService(logger, store),
		services.NewTaskService(logger, store, store, store),
	)

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), h)
	return &testServer{router: router, auth: auth}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	req := newJSONRequest(t, method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(req)
}

func (s *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// newJSONRequest encodes body as JSON unless it is nil or a raw string.
func newJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func createdID(t *testing.T, rec *httptest.ResponseRecorder) int64 {
	t.Helper()
	expectStatus(t, rec, http.StatusCreated)
	id, ok := decodeObject(t, rec)["id"].(float64)
	if !ok {
		t.Fatalf("response has no numeric id: %s", rec.Body.String())
	}
	return int64(id)
}
