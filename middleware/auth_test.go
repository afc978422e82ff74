package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/cbam_end/models"
	"github.com/BerniceZTT/cbam_end/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("middleware-test")
}

func tokenFor(t *testing.T, role models.UserRole) string {
	t.Helper()
	token, err := utils.GenerateToken(models.User{ID: "u-" + string(role), Username: string(role), Role: role})
	require.NoError(t, err)
	return token
}

func newAuthRouter() *gin.Engine {
	router := gin.New()
	router.GET("/protected",
		AuthMiddleware(),
		PermissionMiddleware("suppliers", "delete"),
		func(c *gin.Context) {
			user, _ := utils.GetUser(c)
			c.JSON(http.StatusOK, gin.H{"username": user.Username})
		})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	router := newAuthRouter()

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"missing header", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"invalid token", "Bearer nonsense", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"insufficient role", "Bearer " + tokenFor(t, models.UserRoleVIEWER), http.StatusForbidden, "INSUFFICIENT_PERMISSION"},
		{"allowed role", "Bearer " + tokenFor(t, models.UserRoleCOMPLIANCE_MANAGER), http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantCode != "" {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tt.wantCode, body["code"])
			} else {
				assert.Equal(t, "COMPLIANCE_MANAGER", body["username"])
			}
		})
	}
}

func TestPermissionMiddlewareWithoutAuth(t *testing.T) {
	router := gin.New()
	router.GET("/open", PermissionMiddleware("dashboard", "read"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
