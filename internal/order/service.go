package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ms-dinein/internal/logger"
	"ms-dinein/internal/models"
	"ms-dinein/internal/order/billing"
	"ms-dinein/internal/utils"
)

// ErrInvalid marks request validation failures so handlers can answer 400
// instead of 500.
var ErrInvalid = errors.New("invalid request")

type DBLayer interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, orgID string, id int64) (*models.Order, error)
	ListOrdersSince(ctx context.Context, orgID string, since time.Time) ([]models.Order, error)
	UpdateOrder(ctx context.Context, order models.Order) error
	UpdateStatus(ctx context.Context, orgID string, id int64, status string) error
	MarkPaid(ctx context.Context, orgID string, ids []int64) error
	ServedOrdersByTable(ctx context.Context, orgID, tableID string) ([]models.Order, error)
	CreatePayment(ctx context.Context, payment *models.Payment) error
}

type KafkaPublisher interface {
	PublishOrderCreated(order models.Order) error
	PublishOrderUpdated(order models.Order) error
}

// MenuSource supplies the current menu for item validation and live pricing.
type MenuSource interface {
	ListMenu(ctx context.Context, orgID string) ([]models.MenuItem, error)
}

// Notifier raises a staff notification for a new order. Best effort.
type Notifier interface {
	NotifyNewOrder(ctx context.Context, order models.Order) error
}

type OrderService struct {
	DB       DBLayer
	Kafka    KafkaPublisher
	Menu     MenuSource
	Notifier Notifier
	Logger   *logger.Logger
}

func NewOrderService(db DBLayer, kafka KafkaPublisher, menu MenuSource, notifier Notifier, log *logger.Logger) *OrderService {
	return &OrderService{DB: db, Kafka: kafka, Menu: menu, Notifier: notifier, Logger: log}
}

// ListWindow bounds the board query: only orders from the last 24 hours show.
const ListWindow = 24 * time.Hour

func (s *OrderService) validateItems(ctx context.Context, orgID string, items []models.OrderItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: order has no items", ErrInvalid)
	}
	menu, err := s.Menu.ListMenu(ctx, orgID)
	if err != nil {
		return fmt.Errorf("failed to load menu: %w", err)
	}
	idx := billing.BuildMenuIndex(menu)
	for _, it := range items {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item %d has non-positive quantity", ErrInvalid, it.MenuItemID)
		}
		if _, ok := idx[it.MenuItemID]; !ok {
			return fmt.Errorf("%w: unknown menu item %d", ErrInvalid, it.MenuItemID)
		}
	}
	return nil
}

// PlaceOrder creates a pending order for a table. Used by both the customer
// table page and the staff create-order dialog.
func (s *OrderService) PlaceOrder(ctx context.Context, orgID string, req models.PlaceOrderRequest) (*models.Order, error) {
	if req.TableID == "" {
		return nil, fmt.Errorf("%w: table_id is required", ErrInvalid)
	}
	if err := s.validateItems(ctx, orgID, req.Items); err != nil {
		return nil, err
	}

	order := &models.Order{
		OrganizationID: orgID,
		TableID:        req.TableID,
		Name:           req.Name,
		Items:          req.Items,
		Status:         models.StatusPending,
		Comment:        req.Comment,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.DB.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	s.Logger.LogOrder("CREATE", order.ID, fmt.Sprintf("table %s", order.TableID))

	if err := s.Kafka.PublishOrderCreated(*order); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Publish error (order created): %v", err))
	}
	if err := s.Notifier.NotifyNewOrder(ctx, *order); err != nil {
		s.Logger.Warn("NOTIFY", fmt.Sprintf("Failed to raise new-order notification: %v", err))
	}

	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orgID string, id int64) (*models.Order, error) {
	return s.DB.GetOrderByID(ctx, orgID, id)
}

// ListOrders returns the last day of orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, orgID string) ([]models.Order, error) {
	return s.DB.ListOrdersSince(ctx, orgID, time.Now().UTC().Add(-ListWindow))
}

// UpdateStatus transitions one order and broadcasts the change.
func (s *OrderService) UpdateStatus(ctx context.Context, orgID string, id int64, status string) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}
	order, err := s.DB.GetOrderByID(ctx, orgID, id)
	if err != nil {
		return nil, fmt.Errorf("order %d not found: %w", id, err)
	}

	if err := s.DB.UpdateStatus(ctx, orgID, id, status); err != nil {
		return nil, err
	}
	order.Status = status
	s.Logger.LogOrder("STATUS", id, status)

	if err := s.Kafka.PublishOrderUpdated(*order); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Publish error (order updated): %v", err))
	}
	return order, nil
}

// EditOrder rewrites an order's items, name, comment and discount. A positive
// discount percent always clears the flat amount, so the two are never both
// positive after a save.
func (s *OrderService) EditOrder(ctx context.Context, orgID string, id int64, req models.UpdateOrderRequest) (*models.Order, error) {
	order, err := s.DB.GetOrderByID(ctx, orgID, id)
	if err != nil {
		return nil, fmt.Errorf("order %d not found: %w", id, err)
	}
	if err := s.validateItems(ctx, orgID, req.Items); err != nil {
		return nil, err
	}
	if req.DiscAmt < 0 || req.DiscPct < 0 {
		return nil, fmt.Errorf("%w: discount cannot be negative", ErrInvalid)
	}

	order.Name = req.Name
	order.Comment = req.Comment
	order.Items = req.Items
	if req.DiscPct > 0 {
		order.DiscPct = req.DiscPct
		order.DiscAmt = 0
	} else {
		order.DiscPct = 0
		order.DiscAmt = req.DiscAmt
	}

	if err := s.DB.UpdateOrder(ctx, *order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	s.Logger.LogOrder("EDIT", id, "order rewritten")

	if err := s.Kafka.PublishOrderUpdated(*order); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Publish error (order updated): %v", err))
	}
	return order, nil
}

// CancelOrder marks an order canceled. Rows are kept for the day's board.
func (s *OrderService) CancelOrder(ctx context.Context, orgID string, id int64) (*models.Order, error) {
	return s.UpdateStatus(ctx, orgID, id, models.StatusCanceled)
}

// MarkPaid settles the served orders of a table for a selection of customer
// names: a best-effort payment record first, then the status flip. The two
// writes are not transactional; a failure between them leaves the payment row
// without paid orders, which the operator resolves manually.
func (s *OrderService) MarkPaid(ctx context.Context, orgID string, req models.PayRequest) (*models.PayResponse, error) {
	if req.TableID == "" {
		return nil, fmt.Errorf("%w: table_id is required", ErrInvalid)
	}

	served, err := s.DB.ServedOrdersByTable(ctx, orgID, req.TableID)
	if err != nil {
		return nil, err
	}
	eligible := billing.EligibleForPayment(served, req.TableID, req.Names, req.All)
	if len(eligible) == 0 {
		return &models.PayResponse{PaidOrderIDs: []int64{}}, nil
	}

	menu, err := s.Menu.ListMenu(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}
	idx := billing.BuildMenuIndex(menu)

	var amount float64
	ids := make([]int64, len(eligible))
	for i, o := range eligible {
		subtotal := billing.Subtotal(o, idx)
		amount += billing.Total(subtotal, billing.Discount(o, subtotal))
		ids[i] = o.ID
	}

	payment := &models.Payment{
		ID:             utils.GeneratePaymentID(),
		OrganizationID: orgID,
		TableID:        req.TableID,
		Names:          req.Names,
		Amount:         amount,
		Method:         req.Method,
		Cashier:        req.Cashier,
		CreatedAt:      time.Now().UTC(),
	}
	paymentID := payment.ID
	if err := s.DB.CreatePayment(ctx, payment); err != nil {
		s.Logger.Warn("PAYMENT", fmt.Sprintf("Failed to record payment for table %s: %v", req.TableID, err))
		paymentID = ""
	}

	if err := s.DB.MarkPaid(ctx, orgID, ids); err != nil {
		return nil, fmt.Errorf("failed to mark orders paid: %w", err)
	}

	for i := range eligible {
		eligible[i].Status = models.StatusPaid
		if err := s.Kafka.PublishOrderUpdated(eligible[i]); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Publish error (order updated): %v", err))
		}
	}
	s.Logger.Info("PAYMENT", fmt.Sprintf("Table %s: %d orders marked paid (%.2f)", req.TableID, len(ids), amount))

	return &models.PayResponse{PaidOrderIDs: ids, Amount: amount, PaymentID: paymentID}, nil
}

// ReceiptNames lists the customer names with served orders at a table.
func (s *OrderService) ReceiptNames(ctx context.Context, orgID, tableID string) ([]string, error) {
	served, err := s.DB.ServedOrdersByTable(ctx, orgID, tableID)
	if err != nil {
		return nil, err
	}
	names := billing.ServedNames(served, tableID)
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// BuildReceipt aggregates a table's (or one customer's) served orders.
func (s *OrderService) BuildReceipt(ctx context.Context, orgID, tableID, name string) (*billing.Receipt, error) {
	served, err := s.DB.ServedOrdersByTable(ctx, orgID, tableID)
	if err != nil {
		return nil, err
	}
	menu, err := s.Menu.ListMenu(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}
	receipt := billing.BuildReceipt(served, billing.BuildMenuIndex(menu), tableID, name)
	return &receipt, nil
}
