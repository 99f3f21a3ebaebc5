package handler

import (
	"net/http"
	"strconv"

	"blood-donor-service/internal/usecase"
	"blood-donor-service/pkg/response"
)

type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
}

func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{
		notificationUsecase: notificationUsecase,
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	unreadOnly := false
	if raw := r.URL.Query().Get("unread"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid unread filter", nil)
			return
		}
		unreadOnly = parsed
	}

	notifications, err := h.notificationUsecase.ListNotifications(r.Context(), subject, unreadOnly)
	if err != nil {
		writeError(w, err, "Failed to get notifications")
		return
	}

	response.Success(w, http.StatusOK, "Notifications retrieved successfully", notifications)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	notificationID, ok := pathUUID(w, r, "id", "notification")
	if !ok {
		return
	}

	notification, err := h.notificationUsecase.MarkRead(r.Context(), subject, notificationID)
	if err != nil {
		writeError(w, err, "Failed to mark notification as read")
		return
	}

	response.Success(w, http.StatusOK, "Notification marked as read", notification)
}

// Acknowledge records that the hospital has taken the donor up
func (h *NotificationHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	notificationID, ok := pathUUID(w, r, "id", "notification")
	if !ok {
		return
	}

	notification, err := h.notificationUsecase.AcknowledgeDonor(r.Context(), subject, notificationID)
	if err != nil {
		writeError(w, err, "Failed to acknowledge donor")
		return
	}

	response.Success(w, http.StatusOK, "Donor acknowledged", notification)
}
