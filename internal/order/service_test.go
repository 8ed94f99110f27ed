package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ms-dinein/internal/logger"
	"ms-dinein/internal/models"
	"ms-dinein/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock implementations
type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) CreateOrder(ctx context.Context, o *models.Order) error {
	args := m.Called(o)
	o.ID = 42
	return args.Error(0)
}

func (m *MockDBLayer) GetOrderByID(ctx context.Context, orgID string, id int64) (*models.Order, error) {
	args := m.Called(orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockDBLayer) ListOrdersSince(ctx context.Context, orgID string, since time.Time) ([]models.Order, error) {
	args := m.Called(orgID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockDBLayer) UpdateOrder(ctx context.Context, o models.Order) error {
	args := m.Called(o)
	return args.Error(0)
}

func (m *MockDBLayer) UpdateStatus(ctx context.Context, orgID string, id int64, status string) error {
	args := m.Called(orgID, id, status)
	return args.Error(0)
}

func (m *MockDBLayer) MarkPaid(ctx context.Context, orgID string, ids []int64) error {
	args := m.Called(orgID, ids)
	return args.Error(0)
}

func (m *MockDBLayer) ServedOrdersByTable(ctx context.Context, orgID, tableID string) ([]models.Order, error) {
	args := m.Called(orgID, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockDBLayer) CreatePayment(ctx context.Context, p *models.Payment) error {
	args := m.Called(p)
	return args.Error(0)
}

type MockKafka struct {
	mock.Mock
}

func (m *MockKafka) PublishOrderCreated(o models.Order) error {
	args := m.Called(o)
	return args.Error(0)
}

func (m *MockKafka) PublishOrderUpdated(o models.Order) error {
	args := m.Called(o)
	return args.Error(0)
}

type MockMenu struct {
	mock.Mock
}

func (m *MockMenu) ListMenu(ctx context.Context, orgID string) ([]models.MenuItem, error) {
	args := m.Called(orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MenuItem), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyNewOrder(ctx context.Context, o models.Order) error {
	args := m.Called(o)
	return args.Error(0)
}

const testOrg = "org-1"

func newService(db *MockDBLayer, kafka *MockKafka, menu *MockMenu, notifier *MockNotifier) *order.OrderService {
	return order.NewOrderService(db, kafka, menu, notifier, logger.NewLogger())
}

func testMenu() []models.MenuItem {
	return []models.MenuItem{
		{ID: 1, Name: "Margherita", Price: 5.00, Category: "Pizza", IsAvailable: true},
		{ID: 2, Name: "Lemonade", Price: 3.50, Category: "Drinks", IsAvailable: true},
	}
}

func TestPlaceOrder(t *testing.T) {
	db := new(MockDBLayer)
	kafka := new(MockKafka)
	menu := new(MockMenu)
	notifier := new(MockNotifier)
	svc := newService(db, kafka, menu, notifier)

	menu.On("ListMenu", testOrg).Return(testMenu(), nil)
	db.On("CreateOrder", mock.AnythingOfType("*models.Order")).Return(nil)
	kafka.On("PublishOrderCreated", mock.AnythingOfType("models.Order")).Return(nil)
	notifier.On("NotifyNewOrder", mock.AnythingOfType("models.Order")).Return(nil)

	created, err := svc.PlaceOrder(context.Background(), testOrg, models.PlaceOrderRequest{
		TableID: "12",
		Items:   []models.OrderItem{{MenuItemID: 1, Quantity: 2}},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, models.StatusPending, created.Status)
	db.AssertExpectations(t)
	kafka.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestPlaceOrderRejectsEmptyItems(t *testing.T) {
	svc := newService(new(MockDBLayer), new(MockKafka), new(MockMenu), new(MockNotifier))

	_, err := svc.PlaceOrder(context.Background(), testOrg, models.PlaceOrderRequest{TableID: "12"})
	assert.Error(t, err)
}

func TestPlaceOrderRejectsUnknownItem(t *testing.T) {
	db := new(MockDBLayer)
	menu := new(MockMenu)
	svc := newService(db, new(MockKafka), menu, new(MockNotifier))

	menu.On("ListMenu", testOrg).Return(testMenu(), nil)

	_, err := svc.PlaceOrder(context.Background(), testOrg, models.PlaceOrderRequest{
		TableID: "12",
		Items:   []models.OrderItem{{MenuItemID: 99, Quantity: 1}},
	})
	assert.Error(t, err)
	db.AssertNotCalled(t, "CreateOrder", mock.Anything)
}

func TestUpdateStatus(t *testing.T) {
	db := new(MockDBLayer)
	kafka := new(MockKafka)
	svc := newService(db, kafka, new(MockMenu), new(MockNotifier))

	existing := &models.Order{ID: 7, OrganizationID: testOrg, TableID: "3", Status: models.StatusPending}
	db.On("GetOrderByID", testOrg, int64(7)).Return(existing, nil)
	db.On("UpdateStatus", testOrg, int64(7), models.StatusPreparing).Return(nil)
	kafka.On("PublishOrderUpdated", mock.AnythingOfType("models.Order")).Return(nil)

	updated, err := svc.UpdateStatus(context.Background(), testOrg, 7, models.StatusPreparing)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, updated.Status)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := newService(new(MockDBLayer), new(MockKafka), new(MockMenu), new(MockNotifier))

	_, err := svc.UpdateStatus(context.Background(), testOrg, 7, "burnt")
	assert.Error(t, err)
}

func TestEditOrderPercentClearsAmount(t *testing.T) {
	db := new(MockDBLayer)
	kafka := new(MockKafka)
	menu := new(MockMenu)
	svc := newService(db, kafka, menu, new(MockNotifier))

	existing := &models.Order{ID: 7, OrganizationID: testOrg, TableID: "3", Status: models.StatusPending, DiscAmt: 4.00}
	menu.On("ListMenu", testOrg).Return(testMenu(), nil)
	db.On("GetOrderByID", testOrg, int64(7)).Return(existing, nil)
	db.On("UpdateOrder", mock.MatchedBy(func(o models.Order) bool {
		return o.DiscPct == 25 && o.DiscAmt == 0
	})).Return(nil)
	kafka.On("PublishOrderUpdated", mock.AnythingOfType("models.Order")).Return(nil)

	updated, err := svc.EditOrder(context.Background(), testOrg, 7, models.UpdateOrderRequest{
		Items:   []models.OrderItem{{MenuItemID: 1, Quantity: 1}},
		DiscPct: 25,
		DiscAmt: 4.00,
	})

	assert.NoError(t, err)
	assert.False(t, updated.DiscAmt > 0 && updated.DiscPct > 0)
	db.AssertExpectations(t)
}

func TestEditOrderAmountClearsPercent(t *testing.T) {
	db := new(MockDBLayer)
	kafka := new(MockKafka)
	menu := new(MockMenu)
	svc := newService(db, kafka, menu, new(MockNotifier))

	existing := &models.Order{ID: 7, OrganizationID: testOrg, TableID: "3", Status: models.StatusPending, DiscPct: 10}
	menu.On("ListMenu", testOrg).Return(testMenu(), nil)
	db.On("GetOrderByID", testOrg, int64(7)).Return(existing, nil)
	db.On("UpdateOrder", mock.MatchedBy(func(o models.Order) bool {
		return o.DiscPct == 0 && o.DiscAmt == 3.00
	})).Return(nil)
	kafka.On("PublishOrderUpdated", mock.AnythingOfType("models.Order")).Return(nil)

	updated, err := svc.EditOrder(context.Background(), testOrg, 7, models.UpdateOrderRequest{
		Items:   []models.OrderItem{{MenuItemID: 1, Quantity: 1}},
		DiscAmt: 3.00,
	})

	assert.NoError(t, err)
	assert.False(t, updated.DiscAmt > 0 && updated.DiscPct > 0)
}

func TestMarkPaidScopesToTableAndNames(t *testing.T) {
	db := new(MockDBLayer)
	kafka := new(MockKafka)
	menu := new(MockMenu)
	svc := newService(db, kafka, menu, new(MockNotifier))

	served := []models.Order{
		{ID: 1, OrganizationID: testOrg, TableID: "12", Name: "Alice", Status: models.StatusServed,
			Items: []models.OrderItem{{MenuItemID: 1, Quantity: 2}}},
		{ID: 2, OrganizationID: testOrg, TableID: "12", Name: "Bob", Status: models.StatusServed,
			Items: []models.OrderItem{{MenuItemID: 2, Quantity: 1}}},
	}
	db.On("ServedOrdersByTable", testOrg, "12").Return(served, nil)
	menu.On("ListMenu", testOrg).Return(testMenu(), nil)
	db.On("CreatePayment", mock.AnythingOfType("*models.Payment")).Return(nil)
	db.On("MarkPaid", testOrg, []int64{1}).Return(nil)
	kafka.On("PublishOrderUpdated", mock.AnythingOfType("models.Order")).Return(nil)

	resp, err := svc.MarkPaid(context.Background(), testOrg, models.PayRequest{
		TableID: "12",
		Names:   []string{"Alice"},
	})

	assert.NoError(t, err)
	assert.Equal(t, []int64{1}, resp.PaidOrderIDs)
	assert.InDelta(t, 10.00, resp.Amount, 1e-9)
	db.AssertExpectations(t)
}

func TestMarkPaidNoEligibleOrders(t *testing.T) {
	db := new(MockDBLayer)
	svc := newService(db, new(MockKafka), new(MockMenu), new(MockNotifier))

	db.On("ServedOrdersByTable", testOrg, "12").Return([]models.Order{}, nil)

	resp, err := svc.MarkPaid(context.Background(), testOrg, models.PayRequest{TableID: "12", All: true})
	assert.NoError(t, err)
	assert.Empty(t, resp.PaidOrderIDs)
	db.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
}

func TestMarkPaidContinuesWhenPaymentRecordFails(t *testing.T) {
	db := new(MockDBLayer)
	kafka := new(MockKafka)
	menu := new(MockMenu)
	svc := newService(db, kafka, menu, new(MockNotifier))

	served := []models.Order{
		{ID: 1, OrganizationID: testOrg, TableID: "12", Name: "Alice", Status: models.StatusServed,
			Items: []models.OrderItem{{MenuItemID: 1, Quantity: 1}}},
	}
	db.On("ServedOrdersByTable", testOrg, "12").Return(served, nil)
	menu.On("ListMenu", testOrg).Return(testMenu(), nil)
	db.On("CreatePayment", mock.AnythingOfType("*models.Payment")).Return(errors.New("constraint violation"))
	db.On("MarkPaid", testOrg, []int64{1}).Return(nil)
	kafka.On("PublishOrderUpdated", mock.AnythingOfType("models.Order")).Return(nil)

	resp, err := svc.MarkPaid(context.Background(), testOrg, models.PayRequest{TableID: "12", All: true})

	assert.NoError(t, err)
	assert.Equal(t, []int64{1}, resp.PaidOrderIDs)
	assert.Empty(t, resp.PaymentID)
}
