package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func adminContext(role string, withRole bool) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	if withRole {
		c.Set("role", role)
	}
	return c, w
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	c, w := adminContext("admin", true)

	RequireAdmin(c)

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdminRejectsUser(t *testing.T) {
	c, w := adminContext("user", true)

	RequireAdmin(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminRejectsMissingRole(t *testing.T) {
	c, w := adminContext("", false)

	RequireAdmin(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}
