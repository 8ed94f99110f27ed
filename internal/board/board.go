// Package board keeps an in-memory mirror of the recent orders of every
// organization, reconciled from the order change feed. Duplicate or
// out-of-order events are tolerated by idempotent replace-by-id; when the feed
// is down the board falls back to polling the database.
package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ms-dinein/internal/logger"
	"ms-dinein/internal/models"
	"ms-dinein/internal/order"
)

const (
	// NewMarkerTTL is how long an order is flagged "new" after creation.
	NewMarkerTTL = 10 * time.Minute
	// SweepInterval drives marker expiry.
	SweepInterval = time.Minute
	// PollInterval drives the full refetch while the change feed is down.
	PollInterval = 5 * time.Second
)

// Fetcher re-fetches the full recent order set for one organization.
type Fetcher interface {
	ListOrders(ctx context.Context, orgID string) ([]models.Order, error)
}

type marker struct {
	expiresAt     time.Time
	initialStatus string
}

// OrderView is a board row: the order plus its "new" flag.
type OrderView struct {
	models.Order
	IsNew bool `json:"is_new"`
}

type Board struct {
	mu        sync.Mutex
	orders    map[string][]models.Order // per org, newest first
	markers   map[string]map[int64]marker
	connected bool

	Fetcher Fetcher
	Logger  *logger.Logger
}

func New(fetcher Fetcher, log *logger.Logger) *Board {
	return &Board{
		orders:  make(map[string][]models.Order),
		markers: make(map[string]map[int64]marker),
		Fetcher: fetcher,
		Logger:  log,
	}
}

// ApplyInsert merges a new order: prepend if absent, replace in place if the id
// was already seen, and record a "new" marker tied to the original status.
func (b *Board) ApplyInsert(o models.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.upsertLocked(o)

	if b.markers[o.OrganizationID] == nil {
		b.markers[o.OrganizationID] = make(map[int64]marker)
	}
	b.markers[o.OrganizationID][o.ID] = marker{
		expiresAt:     o.CreatedAt.Add(NewMarkerTTL),
		initialStatus: o.Status,
	}
}

// ApplyUpdate replaces the matching order in place (prepend if unseen) and
// clears the "new" marker once the status moved off its recorded original.
func (b *Board) ApplyUpdate(o models.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.upsertLocked(o)

	if m, ok := b.markers[o.OrganizationID][o.ID]; ok && m.initialStatus != o.Status {
		delete(b.markers[o.OrganizationID], o.ID)
	}
}

func (b *Board) upsertLocked(o models.Order) {
	list := b.orders[o.OrganizationID]
	for i := range list {
		if list[i].ID == o.ID {
			list[i] = o
			return
		}
	}
	b.orders[o.OrganizationID] = append([]models.Order{o}, list...)
}

// Sweep prunes expired "new" markers and evicts orders that have aged out of
// the board window, keeping the mirror aligned with ListOrders.
func (b *Board) Sweep(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff := now.Add(-order.ListWindow)
	for orgID, orders := range b.orders {
		kept := orders[:0]
		for _, o := range orders {
			if o.CreatedAt.After(cutoff) {
				kept = append(kept, o)
			} else {
				delete(b.markers[orgID], o.ID)
			}
		}
		b.orders[orgID] = kept
	}

	for orgID, byOrder := range b.markers {
		for id, m := range byOrder {
			if !m.expiresAt.After(now) {
				delete(byOrder, id)
			}
		}
		if len(byOrder) == 0 {
			delete(b.markers, orgID)
		}
	}
}

// IsNew reports whether an order still carries an unexpired marker and sits in
// its original status.
func (b *Board) IsNew(orgID string, orderID int64, now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.markers[orgID][orderID]
	if !ok {
		return false
	}
	if !now.Before(m.expiresAt) {
		return false
	}
	for _, o := range b.orders[orgID] {
		if o.ID == orderID {
			return o.Status == m.initialStatus
		}
	}
	return false
}

// Snapshot copies an organization's board rows with their "new" flags.
func (b *Board) Snapshot(orgID string, now time.Time) []OrderView {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.orders[orgID]
	views := make([]OrderView, len(list))
	for i, o := range list {
		isNew := false
		if m, ok := b.markers[orgID][o.ID]; ok {
			isNew = now.Before(m.expiresAt) && o.Status == m.initialStatus
		}
		views[i] = OrderView{Order: o, IsNew: isNew}
	}
	return views
}

// Replace swaps an organization's order list wholesale, keeping markers.
// Used by the polling fallback and by priming.
func (b *Board) Replace(orgID string, orders []models.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders[orgID] = orders
}

// Prime loads an organization's board from the database if it is not yet
// tracked. Called on the first board request of an organization.
func (b *Board) Prime(ctx context.Context, orgID string) error {
	b.mu.Lock()
	_, tracked := b.orders[orgID]
	b.mu.Unlock()
	if tracked {
		return nil
	}

	orders, err := b.Fetcher.ListOrders(ctx, orgID)
	if err != nil {
		return err
	}
	b.Replace(orgID, orders)
	return nil
}

// SetConnected flips the change-feed health flag. While false, Run polls.
func (b *Board) SetConnected(connected bool) {
	b.mu.Lock()
	was := b.connected
	b.connected = connected
	b.mu.Unlock()

	if was != connected {
		if connected {
			b.Logger.Info("BOARD", "Change feed connected, polling fallback stopped")
		} else {
			b.Logger.Warn("BOARD", "Change feed down, falling back to polling")
		}
	}
}

func (b *Board) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

func (b *Board) trackedOrgs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	orgs := make([]string, 0, len(b.orders))
	for orgID := range b.orders {
		orgs = append(orgs, orgID)
	}
	return orgs
}

// Run drives the marker sweep and the polling fallback until ctx ends.
func (b *Board) Run(ctx context.Context) {
	sweep := time.NewTicker(SweepInterval)
	defer sweep.Stop()
	poll := time.NewTicker(PollInterval)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-sweep.C:
			b.Sweep(now)
		case <-poll.C:
			if b.Connected() {
				continue
			}
			for _, orgID := range b.trackedOrgs() {
				orders, err := b.Fetcher.ListOrders(ctx, orgID)
				if err != nil {
					b.Logger.Error("BOARD", fmt.Sprintf("Poll refetch failed for org %s: %v", orgID, err))
					continue
				}
				b.Replace(orgID, orders)
			}
		}
	}
}
