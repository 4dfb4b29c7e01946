package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	salesapp "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/inventory"
)

type saleFixture struct {
	router   *gin.Engine
	invRepo  *memInventoryRepo
	tenantID uuid.UUID
	branchID uuid.UUID
	cola     *catalog.Product
}

func newSaleFixture(t *testing.T, initialStock int64) *saleFixture {
	t.Helper()
	tenantID := uuid.New()
	branchID := uuid.New()
	cashierID := uuid.New()

	cola, err := catalog.NewProduct(tenantID, "COLA-330", "Cola 330ml", "pcs")
	require.NoError(t, err)
	require.NoError(t, cola.SetPrices(decimal.NewFromInt(8), decimal.NewFromInt(12)))

	productRepo := newMemProductRepo()
	productRepo.add(cola)

	item, err := inventory.NewInventoryItem(tenantID, branchID, cola.ID, cola.SKU, cola.Name)
	require.NoError(t, err)
	require.NoError(t, item.IncreaseStock(decimal.NewFromInt(initialStock)))
	invRepo := newMemInventoryRepo()
	invRepo.add(item)

	saleRepo := newMemSaleRepo()
	auditRepo := newMemAuditRepo()

	checkoutService := salesapp.NewCheckoutService(
		saleRepo, productRepo, salesapp.NewNoOpTransactionScope(saleRepo, invRepo, auditRepo))

	h := NewSaleHandler(checkoutService, nil, saleRepo, &memTenantRepo{}, newMemBranchRepo())

	router := newTestRouter(tenantID, cashierID, "cashier1", identity.StaffRoleCashier)
	router.POST("/sales/checkout", h.Checkout)
	router.POST("/sales/:id/void", h.Void)
	router.GET("/sales/:id", h.Get)
	router.GET("/sales/receipt/:receiptNumber", h.GetByReceiptNumber)
	router.GET("/sales", h.List)

	return &saleFixture{
		router:   router,
		invRepo:  invRepo,
		tenantID: tenantID,
		branchID: branchID,
		cola:     cola,
	}
}

func (f *saleFixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *saleFixture) checkout(quantity int64) *httptest.ResponseRecorder {
	return f.do(http.MethodPost, "/sales/checkout", gin.H{
		"branch_id":      f.branchID,
		"payment_method": "CASH",
		"lines": []gin.H{
			{"product_id": f.cola.ID, "quantity": quantity},
		},
	})
}

func TestSaleHandlerCheckout(t *testing.T) {
	f := newSaleFixture(t, 10)

	w := f.checkout(3)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			ReceiptNumber string          `json:"receipt_number"`
			TotalAmount   decimal.Decimal `json:"total_amount"`
			Status        string          `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.ReceiptNumber)
	assert.Equal(t, "COMPLETED", resp.Data.Status)
	assert.True(t, resp.Data.TotalAmount.Equal(decimal.NewFromInt(36)), "3 x 12.00")

	assert.True(t, f.invRepo.stockOf(f.branchID, f.cola.ID).Equal(decimal.NewFromInt(7)),
		"checkout decrements branch stock")
}

func TestSaleHandlerCheckoutInsufficientStock(t *testing.T) {
	f := newSaleFixture(t, 2)

	w := f.checkout(5)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_INSUFFICIENT_STOCK")

	assert.True(t, f.invRepo.stockOf(f.branchID, f.cola.ID).Equal(decimal.NewFromInt(2)),
		"a failed checkout leaves stock untouched")
}

func TestSaleHandlerCheckoutInvalidBody(t *testing.T) {
	f := newSaleFixture(t, 10)

	w := f.do(http.MethodPost, "/sales/checkout", gin.H{"payment_method": "CASH"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaleHandlerVoid(t *testing.T) {
	f := newSaleFixture(t, 10)

	created := f.checkout(4)
	require.Equal(t, http.StatusCreated, created.Code)

	var createResp struct {
		Data struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &createResp))

	w := f.do(http.MethodPost, "/sales/"+createResp.Data.ID.String()+"/void", gin.H{
		"reason": "customer returned the purchase",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "VOIDED")

	// Voiding does not restock; a manual adjustment corrects stock.
	assert.True(t, f.invRepo.stockOf(f.branchID, f.cola.ID).Equal(decimal.NewFromInt(6)))
}

func TestSaleHandlerVoidRequiresReason(t *testing.T) {
	f := newSaleFixture(t, 10)

	created := f.checkout(1)
	var createResp struct {
		Data struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &createResp))

	w := f.do(http.MethodPost, "/sales/"+createResp.Data.ID.String()+"/void", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaleHandlerGetByReceiptNumber(t *testing.T) {
	f := newSaleFixture(t, 10)

	created := f.checkout(1)
	var createResp struct {
		Data struct {
			ReceiptNumber string `json:"receipt_number"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &createResp))

	w := f.do(http.MethodGet, "/sales/receipt/"+createResp.Data.ReceiptNumber, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), createResp.Data.ReceiptNumber)
}

func TestSaleHandlerGetNotFound(t *testing.T) {
	f := newSaleFixture(t, 10)

	w := f.do(http.MethodGet, "/sales/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaleHandlerList(t *testing.T) {
	f := newSaleFixture(t, 10)

	for i := 0; i < 2; i++ {
		w := f.checkout(1)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := f.do(http.MethodGet, "/sales?page=1&page_size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Meta.Total)
}
