package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signToken(t *testing.T, role string) string {
	t.Helper()
	claims := JWTClaims{
		UserID: "u1",
		Name:   "Test User",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func roleRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", JWTAuth(testSecret), RequireRole(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString("user_id")})
	})
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/guarded", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	r := roleRouter("WAREHOUSE INCHARGE")
	w := doGet(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthRejectsBadToken(t *testing.T) {
	r := roleRouter("WAREHOUSE INCHARGE")
	w := doGet(r, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleAllowsMatch(t *testing.T) {
	r := roleRouter("WAREHOUSE INCHARGE")
	w := doGet(r, signToken(t, "WAREHOUSE INCHARGE"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleAdminBypass(t *testing.T) {
	r := roleRouter("WAREHOUSE INCHARGE")
	w := doGet(r, signToken(t, "ADMIN"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleForbidsOthers(t *testing.T) {
	r := roleRouter("WAREHOUSE INCHARGE")
	w := doGet(r, signToken(t, "SALES"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
