package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(BodyLimit(64))
	r.POST("/items", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusCreated)
	})

	t.Run("under limit accepted", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"sku":"A-1"}`))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("over limit rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := `{"notes":"` + strings.Repeat("x", 200) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
	})

	t.Run("chunked body capped at read", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := `{"notes":"` + strings.Repeat("y", 200) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body))
		req.ContentLength = -1
		r.ServeHTTP(w, req)
		assert.NotEqual(t, http.StatusCreated, w.Code)
	})
}
