package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/retailpos/backend/internal/application/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
)

type productFixture struct {
	router   *gin.Engine
	repo     *memProductRepo
	tenant   *identity.Tenant
	tenantID uuid.UUID
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	tenant, err := identity.NewTenant("SHOP1", "Corner Shop")
	require.NoError(t, err)

	repo := newMemProductRepo()
	service := catalogapp.NewProductService(repo, &memTenantRepo{tenant: tenant})
	h := NewProductHandler(service, nil)

	router := newTestRouter(tenant.ID, uuid.New(), "manager1", identity.StaffRoleManager)
	router.POST("/products", h.Create)
	router.GET("/products", h.List)
	router.GET("/products/:id", h.Get)
	router.GET("/products/sku/:sku", h.GetBySKU)
	router.PUT("/products/:id/prices", h.SetPrices)
	router.POST("/products/:id/disable", h.Disable)
	router.DELETE("/products/:id", h.Delete)
	router.GET("/products/export", h.Export)

	return &productFixture{router: router, repo: repo, tenant: tenant, tenantID: tenant.ID}
}

func (f *productFixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestProductHandlerCreate(t *testing.T) {
	f := newProductFixture(t)

	w := f.do(http.MethodPost, "/products", gin.H{
		"sku":  "COLA-330",
		"name": "Cola 330ml",
		"unit": "pcs",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID  uuid.UUID `json:"id"`
			SKU string    `json:"sku"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "COLA-330", resp.Data.SKU)
	assert.NotEqual(t, uuid.Nil, resp.Data.ID)
}

func TestProductHandlerCreateInvalidBody(t *testing.T) {
	f := newProductFixture(t)

	w := f.do(http.MethodPost, "/products", gin.H{"name": "No SKU"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestProductHandlerCreateDuplicateSKU(t *testing.T) {
	f := newProductFixture(t)

	first := f.do(http.MethodPost, "/products", gin.H{"sku": "COLA-330", "name": "Cola", "unit": "pcs"})
	require.Equal(t, http.StatusCreated, first.Code)

	second := f.do(http.MethodPost, "/products", gin.H{"sku": "COLA-330", "name": "Cola again", "unit": "pcs"})
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "ERR_ALREADY_EXISTS")
}

func TestProductHandlerGetNotFound(t *testing.T) {
	f := newProductFixture(t)

	w := f.do(http.MethodGet, "/products/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
}

func TestProductHandlerGetInvalidID(t *testing.T) {
	f := newProductFixture(t)

	w := f.do(http.MethodGet, "/products/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandlerGetBySKU(t *testing.T) {
	f := newProductFixture(t)

	created := f.do(http.MethodPost, "/products", gin.H{"sku": "RICE-5KG", "name": "Rice 5kg", "unit": "bag"})
	require.Equal(t, http.StatusCreated, created.Code)

	w := f.do(http.MethodGet, "/products/sku/RICE-5KG", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rice 5kg")
}

func TestProductHandlerSetPrices(t *testing.T) {
	f := newProductFixture(t)

	created := f.do(http.MethodPost, "/products", gin.H{"sku": "RICE-5KG", "name": "Rice 5kg", "unit": "bag"})
	require.Equal(t, http.StatusCreated, created.Code)

	var createResp struct {
		Data struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &createResp))

	w := f.do(http.MethodPut, fmt.Sprintf("/products/%s/prices", createResp.Data.ID), gin.H{
		"cost_price": "20",
		"sell_price": "28",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "28")
}

func TestProductHandlerList(t *testing.T) {
	f := newProductFixture(t)

	for i := 0; i < 3; i++ {
		w := f.do(http.MethodPost, "/products", gin.H{
			"sku":  fmt.Sprintf("SKU-%d", i),
			"name": fmt.Sprintf("Product %d", i),
			"unit": "pcs",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := f.do(http.MethodGet, "/products?page=1&page_size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Total int64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Data.Total)
}

func TestProductHandlerDelete(t *testing.T) {
	f := newProductFixture(t)

	created := f.do(http.MethodPost, "/products", gin.H{"sku": "COLA-330", "name": "Cola", "unit": "pcs"})
	var createResp struct {
		Data struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &createResp))

	w := f.do(http.MethodDelete, "/products/"+createResp.Data.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	again := f.do(http.MethodGet, "/products/"+createResp.Data.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, again.Code)
}

func TestProductHandlerExportUnavailable(t *testing.T) {
	f := newProductFixture(t)

	w := f.do(http.MethodGet, "/products/export", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandlerRequiresTenantContext(t *testing.T) {
	tenant, err := identity.NewTenant("SHOP1", "Corner Shop")
	require.NoError(t, err)
	service := catalogapp.NewProductService(newMemProductRepo(), &memTenantRepo{tenant: tenant})
	h := NewProductHandler(service, nil)

	router := gin.New()
	router.GET("/products", h.List)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
