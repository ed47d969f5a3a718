package handler

import (
	"net/http"
	"time"

	"github.com/Dev-Redad/cosmo-v1/internal/engine"
)

// NotificationHandler is the ingress for forwarded payment notifications.
type NotificationHandler struct {
	settler *engine.Settler
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(settler *engine.Settler) *NotificationHandler {
	return &NotificationHandler{settler: settler}
}

// notificationRequest is the JSON request body for POST /notifications.
// Timestamp is the source app's message time, RFC 3339; it defaults to
// now when omitted.
type notificationRequest struct {
	Text      string  `json:"text"`
	Timestamp *string `json:"timestamp"`
}

// HandleNotification handles POST /notifications. The response is always
// 202: settlement outcomes are per-event and never surfaced to the
// unauthenticated notification source.
func (h *NotificationHandler) HandleNotification(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Text == "" {
		WriteError(w, http.StatusBadRequest, "validation_error", "text is required")
		return
	}

	ts := time.Now().UTC()
	if req.Timestamp != nil {
		parsed, err := time.Parse(time.RFC3339, *req.Timestamp)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "timestamp must be a valid RFC 3339 timestamp")
			return
		}
		ts = parsed.UTC()
	}

	h.settler.HandleNotification(r.Context(), req.Text, ts)

	WriteJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
