package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"blood-donor-service/internal/service"
	"blood-donor-service/pkg/response"

	"github.com/sirupsen/logrus"
)

const defaultHeartbeat = 25 * time.Second

// EventHandler streams the caller's events as Server-Sent Events
type EventHandler struct {
	eventBus  service.EventBus
	log       *logrus.Logger
	heartbeat time.Duration
}

func NewEventHandler(eventBus service.EventBus, log *logrus.Logger) *EventHandler {
	return &EventHandler{
		eventBus:  eventBus,
		log:       log,
		heartbeat: defaultHeartbeat,
	}
}

func (h *EventHandler) Stream(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	ctx := r.Context()
	feed, cancel, err := h.eventBus.Subscribe(ctx, subject.ID)
	if err != nil {
		h.log.Warnf("Failed to subscribe %s to events: %+v", subject.ID, err)
		response.ServiceUnavailable(w, "Event feed is temporarily unavailable", RetryAfter)
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case event, open := <-feed:
			if !open {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				h.log.Warnf("Failed to encode %s event: %+v", event.Type, err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
