package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	httpH "github.com/yungbote/classroom-backend/internal/http/handlers"
	httpMW "github.com/yungbote/classroom-backend/internal/http/middleware"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

func TestRouterGuardsAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	t.Cleanup(log.Sync)

	r := NewRouter(RouterConfig{
		Log:            log,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, "secret", "", nil),
		HealthHandler:  httpH.NewHealthHandler(nil),
		TrailHandler:   httpH.NewTrailHandler(log, nil, nil),
	})

	cases := []struct {
		path string
		want int
	}{
		{"/healthcheck", http.StatusOK},
		{"/api/trails", http.StatusUnauthorized},
		{"/nope", http.StatusNotFound},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if w.Code != tc.want {
			t.Fatalf("%s: want=%d got=%d", tc.path, tc.want, w.Code)
		}
	}
}
