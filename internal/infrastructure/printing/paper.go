package printing

// PaperSize identifies the output paper dimensions for a rendered document.
type PaperSize string

const (
	PaperSizeA4          PaperSize = "A4"           // 210mm x 297mm, GRN and report documents
	PaperSizeReceipt58MM PaperSize = "RECEIPT_58MM" // 58mm thermal receipt
	PaperSizeReceipt80MM PaperSize = "RECEIPT_80MM" // 80mm thermal receipt
)

// IsValid checks if the PaperSize is a supported value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA4, PaperSizeReceipt58MM, PaperSizeReceipt80MM:
		return true
	}
	return false
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the paper width and height in millimeters.
// Receipt sizes report a nominal height; actual receipts are continuous.
func (p PaperSize) Dimensions() (width, height int) {
	switch p {
	case PaperSizeA4:
		return 210, 297
	case PaperSizeReceipt58MM:
		return 58, 297
	case PaperSizeReceipt80MM:
		return 80, 297
	default:
		return 210, 297
	}
}

// IsReceipt reports whether the paper is continuous thermal receipt stock
func (p PaperSize) IsReceipt() bool {
	return p == PaperSizeReceipt58MM || p == PaperSizeReceipt80MM
}

// Orientation represents the page orientation
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// IsValid checks if the Orientation is a supported value
func (o Orientation) IsValid() bool {
	return o == OrientationPortrait || o == OrientationLandscape
}

// Margins represents the page margins in millimeters
type Margins struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// DocumentMargins returns the default margins for A4 documents
func DocumentMargins() Margins {
	return Margins{Top: 15, Right: 15, Bottom: 15, Left: 15}
}

// ReceiptMargins returns minimal margins for thermal receipt paper
func ReceiptMargins() Margins {
	return Margins{Top: 3, Right: 3, Bottom: 3, Left: 3}
}
