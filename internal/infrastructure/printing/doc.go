// Package printing renders sale receipts and goods received note
// documents as PDF via headless Chrome (chromedp).
//
// The package contains:
// - PDFRenderer interface and the ChromedpRenderer implementation
// - embedded HTML templates for receipts (80mm thermal) and GRNs (A4)
// - DocumentService, which fills the templates and drives the renderer
//
// DocumentService accepts a nil renderer, in which case it returns the
// filled HTML instead of a PDF. Deployments without a Chrome binary
// still serve printable documents that way.
package printing
