// Package billing holds the pure view-model math of the order boards and
// receipts: subtotals, discounts, grouping and per-item aggregation. Prices are
// looked up live from the current menu, not frozen at order time, so historical
// totals drift when menu prices change.
package billing

import (
	"sort"
	"strings"

	"ms-dinein/internal/models"
)

type MenuIndex map[int64]models.MenuItem

func BuildMenuIndex(items []models.MenuItem) MenuIndex {
	idx := make(MenuIndex, len(items))
	for _, mi := range items {
		idx[mi.ID] = mi
	}
	return idx
}

// Subtotal sums current menu price x quantity over the order's items. Items
// whose menu entry no longer exists contribute nothing.
func Subtotal(order models.Order, idx MenuIndex) float64 {
	var sum float64
	for _, it := range order.Items {
		if mi, ok := idx[it.MenuItemID]; ok {
			sum += mi.Price * float64(it.Quantity)
		}
	}
	return sum
}

// Discount resolves the order's discount against a subtotal. Percent wins over
// flat amount; the result is capped at the subtotal.
func Discount(order models.Order, subtotal float64) float64 {
	var discount float64
	if order.DiscPct > 0 {
		discount = subtotal * order.DiscPct / 100
	} else if order.DiscAmt > 0 {
		discount = order.DiscAmt
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount
}

// Total is subtotal minus discount, floored at zero.
func Total(subtotal, discount float64) float64 {
	total := subtotal - discount
	if total < 0 {
		return 0
	}
	return total
}

type ReceiptLine struct {
	ItemName  string  `json:"item_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

type Receipt struct {
	TableID  string        `json:"table_id"`
	Name     string        `json:"name,omitempty"`
	Lines    []ReceiptLine `json:"lines"`
	Subtotal float64       `json:"subtotal"`
	Discount float64       `json:"discount"`
	Total    float64       `json:"total"`
}

// BuildReceipt aggregates the served orders of a table (optionally one customer
// name) into merged per-item lines sorted by item name, with discounts
// accumulated across the covered orders.
func BuildReceipt(orders []models.Order, idx MenuIndex, tableID, name string) Receipt {
	type agg struct {
		itemName  string
		quantity  int
		unitPrice float64
	}
	byItem := make(map[int64]*agg)
	var totalDiscount float64

	for _, o := range orders {
		if o.TableID != tableID || o.Status != models.StatusServed {
			continue
		}
		if name != "" && o.CustomerName() != name {
			continue
		}
		for _, it := range o.Items {
			itemName := "Unknown"
			var unitPrice float64
			if mi, ok := idx[it.MenuItemID]; ok {
				itemName = mi.Name
				unitPrice = mi.Price
			}
			if _, ok := byItem[it.MenuItemID]; !ok {
				byItem[it.MenuItemID] = &agg{itemName: itemName, unitPrice: unitPrice}
			}
			byItem[it.MenuItemID].quantity += it.Quantity
		}
		subtotal := Subtotal(o, idx)
		totalDiscount += Discount(o, subtotal)
	}

	lines := make([]ReceiptLine, 0, len(byItem))
	var subtotal float64
	for _, a := range byItem {
		lineTotal := a.unitPrice * float64(a.quantity)
		subtotal += lineTotal
		lines = append(lines, ReceiptLine{
			ItemName:  a.itemName,
			Quantity:  a.quantity,
			UnitPrice: a.unitPrice,
			LineTotal: lineTotal,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ItemName < lines[j].ItemName })

	return Receipt{
		TableID:  tableID,
		Name:     name,
		Lines:    lines,
		Subtotal: subtotal,
		Discount: totalDiscount,
		Total:    Total(subtotal, totalDiscount),
	}
}

// ServedNames lists the distinct customer names among a table's served orders,
// sorted, with blank names normalized to "Unknown".
func ServedNames(orders []models.Order, tableID string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, o := range orders {
		if o.TableID != tableID || o.Status != models.StatusServed {
			continue
		}
		name := o.CustomerName()
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// EligibleForPayment selects the served orders of a table covered by a name
// selection. all overrides the name set.
func EligibleForPayment(orders []models.Order, tableID string, names []string, all bool) []models.Order {
	selected := make(map[string]bool, len(names))
	for _, n := range names {
		selected[n] = true
	}

	var eligible []models.Order
	for _, o := range orders {
		if o.TableID != tableID || o.Status != models.StatusServed {
			continue
		}
		if all || selected[o.CustomerName()] {
			eligible = append(eligible, o)
		}
	}
	return eligible
}

// GroupByStatusTableName nests orders for the kitchen board:
// status -> table -> customer name.
func GroupByStatusTableName(orders []models.Order) map[string]map[string]map[string][]models.Order {
	grouped := make(map[string]map[string]map[string][]models.Order, len(models.OrderStatuses))
	for _, s := range models.OrderStatuses {
		grouped[s] = make(map[string]map[string][]models.Order)
	}
	for _, o := range orders {
		byTable, ok := grouped[o.Status]
		if !ok {
			continue
		}
		if byTable[o.TableID] == nil {
			byTable[o.TableID] = make(map[string][]models.Order)
		}
		name := o.CustomerName()
		byTable[o.TableID][name] = append(byTable[o.TableID][name], o)
	}
	return grouped
}

// FilterOrders narrows a board by a search query matching table, customer name
// or any ordered item's menu name. Empty queries pass everything through.
func FilterOrders(orders []models.Order, query string, idx MenuIndex) []models.Order {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return orders
	}

	var filtered []models.Order
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.TableID), q) ||
			strings.Contains(strings.ToLower(o.Name), q) {
			filtered = append(filtered, o)
			continue
		}
		for _, it := range o.Items {
			if mi, ok := idx[it.MenuItemID]; ok && strings.Contains(strings.ToLower(mi.Name), q) {
				filtered = append(filtered, o)
				break
			}
		}
	}
	return filtered
}
