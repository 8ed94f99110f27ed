package order_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ms-dinein/internal/logger"
	"ms-dinein/internal/sse"
	"ms-dinein/internal/tenant"
)

// SSEHandler streams live order changes to staff dashboards.
type SSEHandler struct {
	Logger  *logger.Logger
	Emitter *sse.Emitter
}

func NewSSEHandler(log *logger.Logger, emitter *sse.Emitter) *SSEHandler {
	return &SSEHandler{Logger: log, Emitter: emitter}
}

// HandleOrderStream streams order insert/update events for the resolved
// organization until the client disconnects.
func (h *SSEHandler) HandleOrderStream(w http.ResponseWriter, r *http.Request) {
	orgID := tenant.OrgID(r.Context())
	if orgID == "" {
		http.Error(w, "Organization could not be resolved", http.StatusBadRequest)
		return
	}

	setupSSEHeaders(w)

	ctx := r.Context()
	eventChan := h.Emitter.SubscribeOrders(ctx, orgID)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"organizationID\":\"%s\"}\n\n", orgID)
	w.(http.Flusher).Flush()

	h.Logger.Info("SSE", fmt.Sprintf("Client connected to order stream for organization: %s", orgID))

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				h.Logger.Debug("SSE", fmt.Sprintf("Order channel closed for organization: %s", orgID))
				return
			}

			jsonData, err := json.Marshal(event)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize order event: %v", err))
				continue
			}

			fmt.Fprintf(w, "event: order\ndata: %s\n\n", jsonData)
			w.(http.Flusher).Flush()

		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("Client disconnected from order stream for: %s", orgID))
			return
		}
	}
}

func setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}
