// Package receipt renders printable receipt documents for thermal printers.
// Output is a standalone HTML page in a monospace layout sized to the paper
// width, printed from the browser.
package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"ms-dinein/internal/models"
	"ms-dinein/internal/order/billing"
)

// PaperWidth is a supported thermal paper size.
type PaperWidth string

const (
	Paper80mm  PaperWidth = "80mm"
	Paper57mm  PaperWidth = "57mm"
	Paper3inch PaperWidth = "3.125in"
)

// ParsePaperWidth maps a query value to a supported width, defaulting to 80mm.
func ParsePaperWidth(s string) PaperWidth {
	switch PaperWidth(s) {
	case Paper57mm:
		return Paper57mm
	case Paper3inch:
		return Paper3inch
	default:
		return Paper80mm
	}
}

type Document struct {
	Org       models.Organization
	Receipt   billing.Receipt
	Paper     PaperWidth
	PrintedAt time.Time
}

var funcs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}

var receiptTmpl = template.Must(template.New("receipt").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Receipt - Table {{.Receipt.TableID}}</title>
<style>
  body { font-family: monospace; font-size: 12px; margin: 0; width: {{.Paper}}; }
  .doc { padding: 8px; }
  .center { text-align: center; }
  .rule { border-top: 1px dashed #000; margin: 6px 0; }
  table { width: 100%; border-collapse: collapse; }
  td { padding: 1px 0; vertical-align: top; }
  .num { text-align: right; white-space: nowrap; }
  .total td { font-weight: bold; }
  @media print { body { width: auto; } }
</style>
</head>
<body>
<div class="doc">
  {{if .Org.ReceiptHeader}}<div class="center">{{.Org.ReceiptHeader}}</div>{{else}}<div class="center">{{.Org.Name}}</div>{{end}}
  <div class="rule"></div>
  <div>Table: {{.Receipt.TableID}}</div>
  {{if .Receipt.Name}}<div>Name: {{.Receipt.Name}}</div>{{end}}
  <div>{{.PrintedAt.Format "2006-01-02 15:04"}}</div>
  <div class="rule"></div>
  <table>
    {{range .Receipt.Lines}}
    <tr>
      <td>{{.Quantity}}x {{.ItemName}}</td>
      <td class="num">{{money .LineTotal}}</td>
    </tr>
    {{end}}
  </table>
  <div class="rule"></div>
  <table>
    <tr><td>Subtotal</td><td class="num">{{money .Receipt.Subtotal}}</td></tr>
    {{if gt .Receipt.Discount 0.0}}<tr><td>Discount</td><td class="num">-{{money .Receipt.Discount}}</td></tr>{{end}}
    <tr class="total"><td>Total</td><td class="num">{{money .Receipt.Total}}</td></tr>
  </table>
  <div class="rule"></div>
  {{if .Org.ReceiptFooter}}<div class="center">{{.Org.ReceiptFooter}}</div>{{end}}
</div>
<script>window.print();</script>
</body>
</html>
`))

// Render builds the printable receipt page.
func Render(doc Document) ([]byte, error) {
	if doc.Paper == "" {
		doc.Paper = Paper80mm
	}
	if doc.PrintedAt.IsZero() {
		doc.PrintedAt = time.Now()
	}

	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
