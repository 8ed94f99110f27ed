// Package template renders the printable QR card of a table.
package template

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"

	"ms-dinein/internal/models"
)

type CardData struct {
	OrgName   string
	Table     models.Table
	TableURL  string
	QRDataURI template.URL
}

var cardTmpl = template.Must(template.New("qr-card").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.OrgName}} - Table {{.Table.TableID}}</title>
<style>
  body { font-family: sans-serif; text-align: center; margin: 0; padding: 24px; }
  .card { display: inline-block; border: 2px solid #000; border-radius: 12px; padding: 24px 32px; }
  .org { font-size: 20px; font-weight: bold; margin-bottom: 4px; }
  .table { font-size: 28px; font-weight: bold; margin: 12px 0; }
  .label { font-size: 14px; color: #555; }
  .hint { font-size: 13px; margin-top: 12px; }
  img { width: 256px; height: 256px; }
  @media print { body { padding: 0; } .card { border: none; } }
</style>
</head>
<body>
<div class="card">
  <div class="org">{{.OrgName}}</div>
  <div class="table">Table {{.Table.TableID}}</div>
  {{if .Table.Label}}<div class="label">{{.Table.Label}}</div>{{end}}
  <img src="{{.QRDataURI}}" alt="QR code for table {{.Table.TableID}}">
  <div class="hint">Scan to view the menu and order</div>
</div>
<script>window.print();</script>
</body>
</html>
`))

// RenderCard builds the printable QR card for one table. The QR PNG is
// embedded as a data URI so the page prints standalone.
func RenderCard(orgName string, table models.Table, tableURL string, qrPNG []byte) ([]byte, error) {
	data := CardData{
		OrgName:   orgName,
		Table:     table,
		TableURL:  tableURL,
		QRDataURI: template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG)),
	}

	var buf bytes.Buffer
	if err := cardTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render QR card: %w", err)
	}
	return buf.Bytes(), nil
}
