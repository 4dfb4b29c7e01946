package printing

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/procurement"
	"github.com/retailpos/backend/internal/domain/sales"
)

//go:embed templates/*.html
var templateFS embed.FS

var documentTemplates = template.Must(
	template.New("documents").Funcs(template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}).ParseFS(templateFS, "templates/*.html"),
)

// Document is a rendered printable document
type Document struct {
	Data        []byte
	ContentType string
	Filename    string
}

// DocumentService renders sale receipts and GRN documents.
// When no PDF renderer is configured it falls back to returning the
// HTML itself, which keeps the endpoints usable without a Chrome instance.
type DocumentService struct {
	renderer PDFRenderer
	logger   *zap.Logger
}

// NewDocumentService creates a document service. renderer may be nil.
func NewDocumentService(renderer PDFRenderer, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{renderer: renderer, logger: logger}
}

type receiptLineData struct {
	ProductName string
	Quantity    string
	UnitPrice   string
	LineTotal   string
}

type receiptData struct {
	TenantName     string
	BranchName     string
	BranchAddress  string
	BranchPhone    string
	ReceiptNumber  string
	SoldAt         time.Time
	CashierName    string
	PaymentMethod  string
	Voided         bool
	Lines          []receiptLineData
	Subtotal       string
	HasDiscount    bool
	DiscountAmount string
	TotalAmount    string
}

// ReceiptContext carries the tenant and branch details printed on a receipt
type ReceiptContext struct {
	TenantName    string
	BranchName    string
	BranchAddress string
	BranchPhone   string
}

// RenderReceipt renders a sale receipt on 80mm thermal paper
func (s *DocumentService) RenderReceipt(ctx context.Context, sale *sales.Sale, rc ReceiptContext) (*Document, error) {
	data := receiptData{
		TenantName:     rc.TenantName,
		BranchName:     rc.BranchName,
		BranchAddress:  rc.BranchAddress,
		BranchPhone:    rc.BranchPhone,
		ReceiptNumber:  sale.ReceiptNumber,
		SoldAt:         sale.SoldAt,
		CashierName:    sale.CashierName,
		PaymentMethod:  string(sale.PaymentMethod),
		Voided:         sale.Status == sales.SaleStatusVoided,
		Subtotal:       sale.Subtotal.StringFixed(2),
		HasDiscount:    sale.DiscountAmount.GreaterThan(decimal.Zero),
		DiscountAmount: sale.DiscountAmount.StringFixed(2),
		TotalAmount:    sale.TotalAmount.StringFixed(2),
	}
	for _, line := range sale.Lines {
		data.Lines = append(data.Lines, receiptLineData{
			ProductName: line.ProductName,
			Quantity:    line.Quantity.String(),
			UnitPrice:   line.UnitPrice.StringFixed(2),
			LineTotal:   line.LineTotal.StringFixed(2),
		})
	}

	html, err := executeTemplate("receipt.html", data)
	if err != nil {
		return nil, err
	}

	return s.finish(ctx, html, &RenderRequest{
		HTML:        html,
		PaperSize:   PaperSizeReceipt80MM,
		Orientation: OrientationPortrait,
		Margins:     ReceiptMargins(),
		Title:       sale.ReceiptNumber,
	}, sale.ReceiptNumber)
}

type grnItemData struct {
	ProductSKU       string
	ProductName      string
	OrderedQuantity  string
	ReceivedQuantity string
	Short            bool
}

type grnData struct {
	TenantName          string
	GRNNumber           string
	PurchaseOrderNumber string
	SupplierName        string
	BranchName          string
	ReceivedDate        time.Time
	Status              string
	ConfirmedAt         *time.Time
	Items               []grnItemData
	Notes               string
}

// RenderGRNDocument renders a goods received note as an A4 document
func (s *DocumentService) RenderGRNDocument(ctx context.Context, grn *procurement.GoodsReceivedNote, tenantName, branchName string) (*Document, error) {
	data := grnData{
		TenantName:          tenantName,
		GRNNumber:           grn.GRNNumber,
		PurchaseOrderNumber: grn.PurchaseOrderNumber,
		SupplierName:        grn.SupplierName,
		BranchName:          branchName,
		ReceivedDate:        grn.ReceivedDate,
		Status:              string(grn.Status),
		ConfirmedAt:         grn.ConfirmedAt,
		Notes:               grn.Notes,
	}
	for _, item := range grn.Items {
		data.Items = append(data.Items, grnItemData{
			ProductSKU:       item.ProductSKU,
			ProductName:      item.ProductName,
			OrderedQuantity:  item.OrderedQuantity.String(),
			ReceivedQuantity: item.ReceivedQuantity.String(),
			Short:            item.ReceivedQuantity.LessThan(item.OrderedQuantity),
		})
	}

	html, err := executeTemplate("grn.html", data)
	if err != nil {
		return nil, err
	}

	return s.finish(ctx, html, &RenderRequest{
		HTML:        html,
		PaperSize:   PaperSizeA4,
		Orientation: OrientationPortrait,
		Margins:     DocumentMargins(),
		Title:       grn.GRNNumber,
	}, grn.GRNNumber)
}

func executeTemplate(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := documentTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "template execution failed", err)
	}
	return buf.String(), nil
}

func (s *DocumentService) finish(ctx context.Context, html string, req *RenderRequest, docNumber string) (*Document, error) {
	if s.renderer == nil {
		return &Document{
			Data:        []byte(html),
			ContentType: "text/html; charset=utf-8",
			Filename:    docNumber + ".html",
		}, nil
	}

	result, err := s.renderer.Render(ctx, req)
	if err != nil {
		s.logger.Error("document rendering failed",
			zap.String("document", docNumber),
			zap.Error(err))
		return nil, err
	}

	return &Document{
		Data:        result.PDFData,
		ContentType: "application/pdf",
		Filename:    docNumber + ".pdf",
	}, nil
}
