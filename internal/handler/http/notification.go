package http

import (
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
)

// NotificationHandler sends e-mail broadcasts to employees
type NotificationHandler interface {
	Send(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	notifService notification.NotificationService
}

func NewNotificationHandler(notifService notification.NotificationService) NotificationHandler {
	return &notificationHandlerImpl{notifService: notifService}
}

// Send handles POST /notifications
func (h *notificationHandlerImpl) Send(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req notification.SendNotificationRequest
	if !decodeJSON(w, r, "SendNotification", &req) {
		return
	}

	result, err := h.notifService.Send(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}
