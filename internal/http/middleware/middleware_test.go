package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/platform/ctxutil"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
)

const testSecret = "test-secret"

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func sign(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

type fakeUsers struct {
	services.UserService
	roles []types.Role
}

func (f *fakeUsers) Me(ctx context.Context) (*services.UserView, error) {
	id := ctxutil.UserID(ctx)
	if id == uuid.Nil {
		return nil, services.ErrUnauthorized
	}
	return &services.UserView{Profile: types.Profile{ID: id}, Role: types.PrimaryRole(f.roles), Roles: f.roles}, nil
}

func newEngine(am *AuthMiddleware, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{am.RequireAuth()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.UserID(c.Request.Context()).String())
	})
	r.GET("/x", handlers...)
	return r
}

func TestRequireAuth(t *testing.T) {
	am := NewAuthMiddleware(testLogger(t), testSecret, "hosted-auth", &fakeUsers{})
	r := newEngine(am)
	user := uuid.New()

	valid := sign(t, testSecret, Claims{
		Email: "a@b.c",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.String(),
			Issuer:    "hosted-auth",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
		{"wrong secret", "Bearer " + sign(t, "other", Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: user.String(), Issuer: "hosted-auth"}}), http.StatusUnauthorized},
		{"wrong issuer", "Bearer " + sign(t, testSecret, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: user.String(), Issuer: "x"}}), http.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, testSecret, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: user.String(), Issuer: "hosted-auth", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}}), http.StatusUnauthorized},
		{"bad subject", "Bearer " + sign(t, testSecret, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "nope", Issuer: "hosted-auth"}}), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.status {
			t.Fatalf("%s: want=%d got=%d body=%s", tc.name, tc.status, w.Code, w.Body.String())
		}
		if tc.status == http.StatusOK && w.Body.String() != user.String() {
			t.Fatalf("%s: user id not attached, got %s", tc.name, w.Body.String())
		}
	}
}

func TestRequireAuthRejectsEverythingWithoutSecret(t *testing.T) {
	am := NewAuthMiddleware(testLogger(t), "", "", &fakeUsers{})
	forged := sign(t, "", Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   uuid.New().String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	if rd, err := am.Verify(forged); err == nil {
		t.Fatalf("Verify: want error got rd=%+v", rd)
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	w := httptest.NewRecorder()
	newEngine(am).ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: want=%d got=%d", http.StatusUnauthorized, w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	user := uuid.New()
	token := sign(t, testSecret, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: user.String()}})

	for _, tc := range []struct {
		roles  []types.Role
		status int
	}{
		{[]types.Role{types.RoleStudent}, http.StatusForbidden},
		{[]types.Role{types.RoleProfessor, types.RoleAdmin}, http.StatusOK},
	} {
		am := NewAuthMiddleware(testLogger(t), testSecret, "", &fakeUsers{roles: tc.roles})
		r := newEngine(am, am.RequireRole(types.RoleAdmin))
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.status {
			t.Fatalf("roles %v: want=%d got=%d", tc.roles, tc.status, w.Code)
		}
	}
}

func TestAttachTraceContextKeepsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) {
		td := ctxutil.GetTraceData(c.Request.Context())
		c.String(http.StatusOK, td.RequestID)
	})
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "req-1" || w.Header().Get(headerRequestID) != "req-1" {
		t.Fatalf("request id: want=req-1 got=%s", w.Body.String())
	}
	if w.Header().Get(headerTraceID) == "" {
		t.Fatalf("trace id header missing")
	}
}

func TestCORSDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow origin: want=http://localhost:5173 got=%q", got)
	}
}
