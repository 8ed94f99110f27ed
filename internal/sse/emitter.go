package sse

import (
	"context"
	"sync"

	"ms-dinein/internal/models"
)

// Emitter fans order and notification events out to connected staff clients,
// keyed by organization. Subscriptions are removed when the subscriber's
// context ends, so a handler's request context is the subscription lifetime.
type Emitter struct {
	orderClients   map[string][]chan models.OrderEvent
	orderClientMux sync.RWMutex
	notifClients   map[string][]chan models.NotificationEvent
	notifClientMux sync.RWMutex
}

func NewEmitter() *Emitter {
	return &Emitter{
		orderClients: make(map[string][]chan models.OrderEvent),
		notifClients: make(map[string][]chan models.NotificationEvent),
	}
}

// SubscribeOrders adds a client to an organization's order change feed.
func (e *Emitter) SubscribeOrders(ctx context.Context, orgID string) chan models.OrderEvent {
	clientChan := make(chan models.OrderEvent, 10)

	e.orderClientMux.Lock()
	e.orderClients[orgID] = append(e.orderClients[orgID], clientChan)
	e.orderClientMux.Unlock()

	go func() {
		<-ctx.Done()
		e.removeOrderClient(orgID, clientChan)
	}()

	return clientChan
}

// SubscribeNotifications adds a client to an organization's notification feed.
func (e *Emitter) SubscribeNotifications(ctx context.Context, orgID string) chan models.NotificationEvent {
	clientChan := make(chan models.NotificationEvent, 10)

	e.notifClientMux.Lock()
	e.notifClients[orgID] = append(e.notifClients[orgID], clientChan)
	e.notifClientMux.Unlock()

	go func() {
		<-ctx.Done()
		e.removeNotifClient(orgID, clientChan)
	}()

	return clientChan
}

// EmitOrder broadcasts an order event to the organization's subscribers.
func (e *Emitter) EmitOrder(event models.OrderEvent) {
	e.orderClientMux.RLock()
	clients := e.orderClients[event.Order.OrganizationID]
	e.orderClientMux.RUnlock()

	for _, clientChan := range clients {
		// Non-blocking send: a slow client drops events instead of stalling the feed
		select {
		case clientChan <- event:
		default:
		}
	}
}

// EmitNotification broadcasts a notification to the organization's subscribers.
func (e *Emitter) EmitNotification(event models.NotificationEvent) {
	e.notifClientMux.RLock()
	clients := e.notifClients[event.Notification.OrganizationID]
	e.notifClientMux.RUnlock()

	for _, clientChan := range clients {
		select {
		case clientChan <- event:
		default:
		}
	}
}

func (e *Emitter) removeOrderClient(orgID string, clientChan chan models.OrderEvent) {
	e.orderClientMux.Lock()
	defer e.orderClientMux.Unlock()

	clients := e.orderClients[orgID]
	for i, ch := range clients {
		if ch == clientChan {
			e.orderClients[orgID] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}
	if len(e.orderClients[orgID]) == 0 {
		delete(e.orderClients, orgID)
	}
}

func (e *Emitter) removeNotifClient(orgID string, clientChan chan models.NotificationEvent) {
	e.notifClientMux.Lock()
	defer e.notifClientMux.Unlock()

	clients := e.notifClients[orgID]
	for i, ch := range clients {
		if ch == clientChan {
			e.notifClients[orgID] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}
	if len(e.notifClients[orgID]) == 0 {
		delete(e.notifClients, orgID)
	}
}
