package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dmreiland/bookrank/internal/store"
	domain "github.com/dmreiland/bookrank/pkg/types"
)

// NotificationsHandler serves a user's notification feed.
type NotificationsHandler struct {
	store store.Store
}

// NewNotificationsHandler creates a new NotificationsHandler.
func NewNotificationsHandler(s store.Store) *NotificationsHandler {
	return &NotificationsHandler{store: s}
}

// ListNotificationsInput is the input for listing notifications. The feed
// is always ordered by creation time, newest first by default.
type ListNotificationsInput struct {
	UserID    string `query:"user_id"   doc:"Notification recipient"                 format:"uuid" required:"true"`
	Direction string `query:"direction" doc:"Sort direction (default DESC)"         enum:"ASC,DESC,"`
	Cursor    string `query:"cursor"    doc:"Opaque resume token from a prior page"`
	After     int64  `query:"after"     doc:"Only notifications created after this Unix millisecond timestamp" minimum:"0"`
	Limit     int    `query:"limit"     doc:"Page size (default 20)"                 minimum:"1" maximum:"100"`
}

// ListNotificationsOutput is the response for listing notifications.
type ListNotificationsOutput struct {
	Body struct {
		Notifications []domain.Notification `json:"notifications"`
		NextCursor    string                `json:"next_cursor,omitempty"`
		Size          int                   `json:"size"`
		HasNext       bool                  `json:"has_next"`
	}
}

// ListNotifications returns one page of a user's notifications.
func (h *NotificationsHandler) ListNotifications(
	ctx context.Context,
	input *ListNotificationsInput,
) (*ListNotificationsOutput, error) {
	dir, cur, after, err := pageParams("created_at", input.Direction, input.Cursor, input.After)
	if err != nil {
		return nil, err
	}

	page, err := h.store.ListNotifications(ctx, &store.NotificationQuery{
		UserID:    input.UserID,
		Direction: dir,
		Cursor:    cur,
		After:     after,
		Limit:     input.Limit,
	})
	if err != nil {
		if isRequestError(err) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		return nil, huma.Error500InternalServerError("notification query failed: " + err.Error())
	}

	resp := &ListNotificationsOutput{}
	resp.Body.Notifications = page.Items
	if resp.Body.Notifications == nil {
		resp.Body.Notifications = []domain.Notification{}
	}
	resp.Body.NextCursor = page.NextCursor
	resp.Body.Size = len(resp.Body.Notifications)
	resp.Body.HasNext = page.HasNext
	return resp, nil
}

// RegisterNotificationRoutes registers notification endpoints with the Huma API.
func RegisterNotificationRoutes(api huma.API, h *NotificationsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-notifications",
		Method:      http.MethodGet,
		Path:        "/api/v1/notifications",
		Summary:     "List notifications",
		Description: "Returns one page of a user's notifications, newest first.",
		Tags:        []string{"notifications"},
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.ListNotifications)
}
