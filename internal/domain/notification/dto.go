package notification

import "github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"

type SendNotificationRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
	// RecipientIDs empty with All=true targets every active user.
	RecipientIDs []string `json:"recipient_ids"`
	All          bool     `json:"all"`
}

func (r *SendNotificationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Subject) {
		errs.Add("subject", "subject is required")
	} else if len(r.Subject) > 200 {
		errs.Add("subject", "subject must not exceed 200 characters")
	}
	if validator.IsEmpty(r.Message) {
		errs.Add("message", "message is required")
	}
	if !r.All && len(r.RecipientIDs) == 0 {
		errs.Add("recipient_ids", "select at least one recipient or set all")
	}

	return errs.Err()
}

type SendNotificationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
}
