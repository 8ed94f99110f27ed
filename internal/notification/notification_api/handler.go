package notification_api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-dinein/internal/logger"
	"ms-dinein/internal/notification"
	"ms-dinein/internal/sse"
	"ms-dinein/internal/tenant"
	"ms-dinein/internal/utils"
)

type Handler struct {
	NotificationService *notification.NotificationService
	Emitter             *sse.Emitter
	Logger              *logger.Logger
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	notifications, err := h.NotificationService.List(r.Context(), orgID, limit)
	if err != nil {
		http.Error(w, "Could not list notifications: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Notifications", notifications))
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "notificationID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid notification id", http.StatusBadRequest)
		return
	}

	if err := h.NotificationService.MarkRead(r.Context(), orgID, id); err != nil {
		http.Error(w, "Could not mark notification read: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Notification marked read", nil))
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())

	if err := h.NotificationService.MarkAllRead(r.Context(), orgID); err != nil {
		http.Error(w, "Could not mark notifications read: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("All notifications marked read", nil))
}

// HandleNotificationStream streams notification events for the organization.
func (h *Handler) HandleNotificationStream(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())
	if orgID == "" {
		http.Error(w, "Organization could not be resolved", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	ctx := r.Context()
	eventChan := h.Emitter.SubscribeNotifications(ctx, orgID)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"organizationID\":\"%s\"}\n\n", orgID)
	w.(http.Flusher).Flush()

	h.Logger.Info("SSE", fmt.Sprintf("Client connected to notification stream for organization: %s", orgID))

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return
			}

			jsonData, err := json.Marshal(event)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize notification event: %v", err))
				continue
			}

			fmt.Fprintf(w, "event: notification\ndata: %s\n\n", jsonData)
			w.(http.Flusher).Flush()

		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("Client disconnected from notification stream for: %s", orgID))
			return
		}
	}
}
