package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unidrl/campus-connect/internal/pkg/jwthelper"
)

const signingKey = "middleware-test-key"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	auth := NewAuthenticator(signingKey)
	r.GET("/me", auth.VerifyJWT(), func(ctx *gin.Context) {
		claims, ok := ClaimsFromContext(ctx)
		if !ok {
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.String(http.StatusOK, claims.Email())
	})
	r.GET("/admin", auth.VerifyJWT(), RequireRole("admin"), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	return r
}

func token(t *testing.T, params jwthelper.TokenParams) string {
	t.Helper()

	if params.TTL == 0 {
		params.TTL = time.Hour
	}
	s, _, err := jwthelper.GenerateToken([]byte(signingKey), params)
	require.NoError(t, err)

	return s
}

func TestVerifyJWT(t *testing.T) {
	student := token(t, jwthelper.TokenParams{Email: "a@vnuk.edu.vn", Role: "student", MSSV: "20230592"})
	bound := token(t, jwthelper.TokenParams{Email: "a@vnuk.edu.vn", Role: "student", UserAgent: "scanner/1.0"})
	expired := token(t, jwthelper.TokenParams{Email: "a@vnuk.edu.vn", Role: "student", TTL: -time.Minute})

	otherKey, _, err := jwthelper.GenerateToken([]byte("another-key"), jwthelper.TokenParams{
		Email: "a@vnuk.edu.vn",
		TTL:   time.Hour,
	})
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		header     string
		userAgent  string
		wantStatus int
	}{
		{name: "bearer header", path: "/me", header: "Bearer " + student, wantStatus: http.StatusOK},
		{name: "query token", path: "/me?token=" + student, wantStatus: http.StatusOK},
		{name: "missing", path: "/me", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", path: "/me", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "expired", path: "/me", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "other signing key", path: "/me", header: "Bearer " + otherKey, wantStatus: http.StatusUnauthorized},
		{name: "same user agent", path: "/me", header: "Bearer " + bound, userAgent: "scanner/1.0", wantStatus: http.StatusOK},
		{name: "different user agent", path: "/me", header: "Bearer " + bound, userAgent: "curl/8.0", wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			req.Header.Set("User-Agent", tt.userAgent)

			rec := httptest.NewRecorder()
			newRouter().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "a@vnuk.edu.vn", rec.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		role       string
		wantStatus int
	}{
		{role: "admin", wantStatus: http.StatusOK},
		{role: "student", wantStatus: http.StatusForbidden},
		{role: "", wantStatus: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token(t, jwthelper.TokenParams{Email: "x@vnuk.edu.vn", Role: tt.role}))

			rec := httptest.NewRecorder()
			newRouter().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
