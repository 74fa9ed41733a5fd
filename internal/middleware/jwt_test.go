package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kidsread/kidsread-api/internal/models"
	"github.com/kidsread/kidsread-api/internal/service"
)

const testTokenSecret = "middleware-secret"

func newTestAuthService() *service.AuthService {
	return service.NewAuthService(nil, nil, nil, service.AuthConfig{
		AccessTokenSecret:  testTokenSecret,
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "kidsread-api",
	})
}

func signTestToken(t *testing.T, userID int64, role models.UserRole) string {
	t.Helper()
	claims := models.JWTClaims{
		UserID: userID,
		Role:   role,
		Email:  "parent@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testTokenSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func claimsEchoRouter(mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/", mw, func(c *gin.Context) {
		if _, ok := c.Get(ContextUserKey); ok {
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestJWTRejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := claimsEchoRouter(JWT(newTestAuthService()))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestJWTAcceptsValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := claimsEchoRouter(JWT(newTestAuthService()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 7, models.RoleParent))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected claims in context, got status %d", recorder.Code)
	}
}

func TestOptionalJWTAllowsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := claimsEchoRouter(OptionalJWT(newTestAuthService()))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("anonymous request should pass without claims, got %d", recorder.Code)
	}
}

func TestOptionalJWTAttachesClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := claimsEchoRouter(OptionalJWT(newTestAuthService()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 7, models.RoleParent))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected claims in context, got status %d", recorder.Code)
	}
}

func TestOptionalJWTIgnoresGarbageToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := claimsEchoRouter(OptionalJWT(newTestAuthService()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("invalid token should not block or attach claims, got %d", recorder.Code)
	}
}
