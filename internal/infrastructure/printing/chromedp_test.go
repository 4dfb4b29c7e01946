package printing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintActionA4Portrait(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	params := r.printAction(&RenderRequest{
		HTML:        "<html>test</html>",
		PaperSize:   PaperSizeA4,
		Orientation: OrientationPortrait,
		Margins:     DocumentMargins(),
	})

	// A4 is 210mm x 297mm
	assert.InDelta(t, mmToInches(210), params.PaperWidth, 0.01)
	assert.InDelta(t, mmToInches(297), params.PaperHeight, 0.01)
	assert.False(t, params.Landscape)
	assert.True(t, params.PrintBackground)
}

func TestPrintActionA4Landscape(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	params := r.printAction(&RenderRequest{
		HTML:        "<html>test</html>",
		PaperSize:   PaperSizeA4,
		Orientation: OrientationLandscape,
		Margins:     DocumentMargins(),
	})

	assert.True(t, params.Landscape)
}

func TestPrintActionReceiptUsesTallPage(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	params := r.printAction(&RenderRequest{
		HTML:        "<html>test</html>",
		PaperSize:   PaperSizeReceipt80MM,
		Orientation: OrientationPortrait,
		Margins:     ReceiptMargins(),
	})

	assert.InDelta(t, mmToInches(80), params.PaperWidth, 0.01)
	// Receipt paper is continuous: the page height must be much taller
	// than the nominal size so content never paginates.
	assert.Greater(t, params.PaperHeight, mmToInches(1000))
}

func TestCompleteHTMLWrapsFragments(t *testing.T) {
	html := completeHTML(&RenderRequest{
		HTML:  "<p>hello</p>",
		Title: "RCP-20260829-0001",
	})

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<title>RCP-20260829-0001</title>")
	assert.Contains(t, html, "<p>hello</p>")
}

func TestCompleteHTMLKeepsFullDocuments(t *testing.T) {
	full := "<!DOCTYPE html><html><body>done</body></html>"
	assert.Equal(t, full, completeHTML(&RenderRequest{HTML: full}))
}

func TestValidateRequest(t *testing.T) {
	assert.Error(t, validateRequest(nil))
	assert.Error(t, validateRequest(&RenderRequest{HTML: "   "}))
	assert.Error(t, validateRequest(&RenderRequest{HTML: "<p>x</p>", PaperSize: PaperSize("B9")}))
	assert.NoError(t, validateRequest(&RenderRequest{HTML: "<p>x</p>", PaperSize: PaperSizeA4}))
}

func TestEstimatePageCount(t *testing.T) {
	tests := []struct {
		name     string
		pdf      string
		expected int
	}{
		{
			name:     "two pages",
			pdf:      "/Type /Pages /Type /Page /Type /Page",
			expected: 2,
		},
		{
			name:     "garbage data falls back to one",
			pdf:      "not a pdf",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, estimatePageCount([]byte(tt.pdf)))
		})
	}
}
