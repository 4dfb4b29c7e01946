package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createProductPayload struct {
	SKU       string `json:"sku" binding:"required,sku"`
	Name      string `json:"name" binding:"required,min=2,max=120"`
	UnitPrice string `json:"unit_price" binding:"required,numeric"`
}

func validationTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	r := gin.New()
	r.POST("/products", func(c *gin.Context) {
		var req createProductPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"sku": req.SKU})
	})
	return r
}

func TestHandleValidationError_MissingFields(t *testing.T) {
	r := validationTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	// Field names come from JSON tags, not Go struct fields.
	assert.Contains(t, body, `"sku"`)
	assert.Contains(t, body, `"name"`)
	assert.Contains(t, body, "required")
	assert.Contains(t, body, "This field is required")
}

func TestHandleValidationError_SKUFormat(t *testing.T) {
	r := validationTestRouter()

	w := httptest.NewRecorder()
	payload := `{"sku":"lowercase sku!","name":"Espresso Beans","unit_price":"12.50"}`
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid SKU format")
}

func TestHandleValidationError_ValidPayload(t *testing.T) {
	r := validationTestRouter()

	w := httptest.NewRecorder()
	payload := `{"sku":"COF-ESP-250","name":"Espresso Beans","unit_price":"12.50"}`
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHandleValidationError_RequestIDEchoed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	r := gin.New()
	r.POST("/products", func(c *gin.Context) {
		c.Set(RequestIDKey, "req-123")
		var req createProductPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "req-123")
}

func TestValidationMessages_Bounds(t *testing.T) {
	r := validationTestRouter()

	w := httptest.NewRecorder()
	payload := `{"sku":"COF-ESP-250","name":"X","unit_price":"12.50"}`
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Must be at least 2 characters")
}
