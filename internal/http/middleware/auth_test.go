package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/http/middleware"
	"github.com/fypms/backend/internal/pkg/ctxutil"
	"github.com/fypms/backend/internal/pkg/logger"
)

func roleRouter(t *testing.T, callerRole string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	am := middleware.NewAuthMiddleware(log, nil)

	r := gin.New()
	if callerRole != "" {
		r.Use(func(c *gin.Context) {
			ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
				UserID: uuid.New(),
				Role:   callerRole,
			})
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
	r.Use(am.RequireRole(types.RoleCommitteeMember))
	r.GET("/gated", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestRequireRole(t *testing.T) {
	for _, tc := range []struct {
		name       string
		callerRole string
		want       int
	}{
		{"matching role passes", types.RoleCommitteeMember, http.StatusNoContent},
		{"other role forbidden", types.RoleStudent, http.StatusForbidden},
		{"missing identity forbidden", "", http.StatusForbidden},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/gated", nil)
			roleRouter(t, tc.callerRole).ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}
