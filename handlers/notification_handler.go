package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/knightsclub/chessclub/middleware"
	"github.com/knightsclub/chessclub/services"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(ns services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: ns}
}

// List godoc
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Param limit query int false "Max items (default 50)"
// @Param unread query bool false "Only unread"
// @Success 200 {object} services.NotificationList
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit <= 0 {
			badRequestResponse(w, r, errors.New("invalid limit query parameter"))
			return
		}
	}
	unreadOnly := false
	if raw := query.Get("unread"); raw != "" {
		if unreadOnly, err = strconv.ParseBool(raw); err != nil {
			badRequestResponse(w, r, errors.New("invalid unread query parameter"))
			return
		}
	}

	list, err := h.notificationService.ListForUser(r.Context(), userID, limit, unreadOnly)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, list, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type markReadRequest struct {
	IDs []int `json:"ids"`
}

// MarkRead godoc
// @Summary Mark notifications as read
// @Description Marks the listed notifications, or all of them when ids is empty.
// @Tags notifications
// @Accept json
// @Produce json
// @Param body body markReadRequest true "Notification ids"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /notifications/mark-read [post]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input markReadRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updated, err := h.notificationService.MarkRead(r.Context(), userID, input.IDs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "notifications marked as read", "updated": updated}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Clear godoc
// @Summary Delete all of the caller's notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /notifications/clear [delete]
func (h *NotificationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	deleted, err := h.notificationService.Clear(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "all notifications cleared", "deleted": deleted}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
