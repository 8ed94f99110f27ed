package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-dinein/internal/models"
	"ms-dinein/internal/order/billing"
)

func TestParsePaperWidth(t *testing.T) {
	assert.Equal(t, Paper80mm, ParsePaperWidth(""))
	assert.Equal(t, Paper80mm, ParsePaperWidth("a4"))
	assert.Equal(t, Paper57mm, ParsePaperWidth("57mm"))
	assert.Equal(t, Paper3inch, ParsePaperWidth("3.125in"))
}

func TestRenderReceipt(t *testing.T) {
	doc := Document{
		Org: models.Organization{
			Name:          "Skylight Village",
			ReceiptHeader: "Skylight Village Cafe",
			ReceiptFooter: "Thank you, come again",
		},
		Receipt: billing.Receipt{
			TableID: "T1",
			Name:    "Alice",
			Lines: []billing.ReceiptLine{
				{ItemName: "Pad Thai", Quantity: 2, UnitPrice: 5, LineTotal: 10},
				{ItemName: "Tea", Quantity: 1, UnitPrice: 2.5, LineTotal: 2.5},
			},
			Subtotal: 12.5,
			Discount: 2.5,
			Total:    10,
		},
		Paper:     Paper57mm,
		PrintedAt: time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC),
	}

	out, err := Render(doc)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "Skylight Village Cafe")
	assert.Contains(t, html, "Thank you, come again")
	assert.Contains(t, html, "Table: T1")
	assert.Contains(t, html, "Name: Alice")
	assert.Contains(t, html, "2x Pad Thai")
	assert.Contains(t, html, "12.50")
	assert.Contains(t, html, "-2.50")
	assert.Contains(t, html, "10.00")
	assert.Contains(t, html, "width: 57mm")
	assert.Contains(t, html, "2026-03-01 18:30")
}

func TestRenderOmitsZeroDiscount(t *testing.T) {
	doc := Document{
		Org:     models.Organization{Name: "Skylight"},
		Receipt: billing.Receipt{TableID: "T2", Subtotal: 5, Total: 5},
	}

	out, err := Render(doc)
	require.NoError(t, err)

	assert.False(t, strings.Contains(string(out), "Discount"))
	assert.Contains(t, string(out), "Skylight")
}
