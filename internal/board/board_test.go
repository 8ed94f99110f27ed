package board

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ms-dinein/internal/logger"
	"ms-dinein/internal/models"
)

type stubFetcher struct {
	orders []models.Order
	err    error
	calls  int
}

func (f *stubFetcher) ListOrders(ctx context.Context, orgID string) ([]models.Order, error) {
	f.calls++
	return f.orders, f.err
}

func makeOrder(id int64, status string, created time.Time) models.Order {
	return models.Order{
		ID:             id,
		OrganizationID: "org-1",
		TableID:        "T1",
		Status:         status,
		CreatedAt:      created,
	}
}

func TestApplyInsertPrependsNewestFirst(t *testing.T) {
	b := New(&stubFetcher{}, logger.NewLogger())
	now := time.Now()

	b.ApplyInsert(makeOrder(1, models.StatusPending, now))
	b.ApplyInsert(makeOrder(2, models.StatusPending, now))

	views := b.Snapshot("org-1", now)
	assert.Len(t, views, 2)
	assert.Equal(t, int64(2), views[0].ID)
	assert.Equal(t, int64(1), views[1].ID)
}

func TestApplyInsertDuplicateReplacesInPlace(t *testing.T) {
	b := New(&stubFetcher{}, logger.NewLogger())
	now := time.Now()

	b.ApplyInsert(makeOrder(1, models.StatusPending, now))
	b.ApplyInsert(makeOrder(2, models.StatusPending, now))

	dup := makeOrder(1, models.StatusPending, now)
	dup.Comment = "no onions"
	b.ApplyInsert(dup)

	views := b.Snapshot("org-1", now)
	assert.Len(t, views, 2)
	assert.Equal(t, int64(2), views[0].ID)
	assert.Equal(t, "no onions", views[1].Comment)
}

func TestApplyUpdateUnseenOrderPrepends(t *testing.T) {
	b := New(&stubFetcher{}, logger.NewLogger())
	now := time.Now()

	b.ApplyUpdate(makeOrder(7, models.StatusPreparing, now))

	views := b.Snapshot("org-1", now)
	assert.Len(t, views, 1)
	assert.Equal(t, int64(7), views[0].ID)
	assert.False(t, views[0].IsNew)
}

func TestNewMarkerLifecycle(t *testing.T) {
	b := New(&stubFetcher{}, logger.NewLogger())
	now := time.Now()

	b.ApplyInsert(makeOrder(1, models.StatusPending, now))
	assert.True(t, b.IsNew("org-1", 1, now))

	// Same-status update keeps the marker.
	refreshed := makeOrder(1, models.StatusPending, now)
	b.ApplyUpdate(refreshed)
	assert.True(t, b.IsNew("org-1", 1, now))

	// Status change clears it even before the TTL.
	moved := makeOrder(1, models.StatusPreparing, now)
	b.ApplyUpdate(moved)
	assert.False(t, b.IsNew("org-1", 1, now))
}

func TestNewMarkerExpiresAfterTTL(t *testing.T) {
	b := New(&stubFetcher{}, logger.NewLogger())
	created := time.Now()

	b.ApplyInsert(makeOrder(1, models.StatusPending, created))

	beforeExpiry := created.Add(NewMarkerTTL - time.Second)
	assert.True(t, b.IsNew("org-1", 1, beforeExpiry))

	afterExpiry := created.Add(NewMarkerTTL + time.Second)
	assert.False(t, b.IsNew("org-1", 1, afterExpiry))
}

func TestSweepPrunesExpiredMarkers(t *testing.T) {
	b := New(&stubFetcher{}, logger.NewLogger())
	created := time.Now()

	b.ApplyInsert(makeOrder(1, models.StatusPending, created))
	b.ApplyInsert(makeOrder(2, models.StatusPending, created.Add(5*time.Minute)))

	b.Sweep(created.Add(NewMarkerTTL + time.Second))

	assert.False(t, b.IsNew("org-1", 1, created.Add(NewMarkerTTL+time.Second)))
	assert.True(t, b.IsNew("org-1", 2, created.Add(NewMarkerTTL+time.Second)))
}

func TestSweepEvictsOrdersOutsideWindow(t *testing.T) {
	b := New(&stubFetcher{}, logger.NewLogger())
	b.SetConnected(true)
	now := time.Now()

	stale := makeOrder(1, models.StatusPaid, now.Add(-48*time.Hour))
	fresh := makeOrder(2, models.StatusPending, now)
	b.ApplyInsert(stale)
	b.ApplyInsert(fresh)

	b.Sweep(now)

	views := b.Snapshot("org-1", now)
	assert.Len(t, views, 1)
	assert.Equal(t, int64(2), views[0].ID)
	assert.False(t, b.IsNew("org-1", 1, now))
}

func TestReplaceKeepsMarkers(t *testing.T) {
	b := New(&stubFetcher{}, logger.NewLogger())
	now := time.Now()

	b.ApplyInsert(makeOrder(1, models.StatusPending, now))
	b.Replace("org-1", []models.Order{makeOrder(1, models.StatusPending, now)})

	assert.True(t, b.IsNew("org-1", 1, now))
}

func TestPrimeFetchesOnlyUntrackedOrgs(t *testing.T) {
	f := &stubFetcher{orders: []models.Order{makeOrder(1, models.StatusServed, time.Now())}}
	b := New(f, logger.NewLogger())

	assert.NoError(t, b.Prime(context.Background(), "org-1"))
	assert.NoError(t, b.Prime(context.Background(), "org-1"))

	assert.Equal(t, 1, f.calls)
	assert.Len(t, b.Snapshot("org-1", time.Now()), 1)
}

func TestSnapshotIsolatesOrganizations(t *testing.T) {
	b := New(&stubFetcher{}, logger.NewLogger())
	now := time.Now()

	o := makeOrder(1, models.StatusPending, now)
	b.ApplyInsert(o)

	other := o
	other.OrganizationID = "org-2"
	other.ID = 9
	b.ApplyInsert(other)

	assert.Len(t, b.Snapshot("org-1", now), 1)
	assert.Len(t, b.Snapshot("org-2", now), 1)
	assert.Empty(t, b.Snapshot("org-3", now))
}

func TestSetConnectedTogglesFlag(t *testing.T) {
	b := New(&stubFetcher{}, logger.NewLogger())
	assert.False(t, b.Connected())
	b.SetConnected(true)
	assert.True(t, b.Connected())
	b.SetConnected(false)
	assert.False(t, b.Connected())
}
