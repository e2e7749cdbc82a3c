package dto

import "time"

// UpdateUserRequest campos modificables del perfil.
type UpdateUserRequest struct {
	Name                   string `json:"name" validate:"required,max=200"`
	AllowSharingData       bool   `json:"allow_sharing_data"`
	AllowPushNotifications bool   `json:"allow_push_notifications"`
	AllowPushEmails        bool   `json:"allow_push_emails"`
	AllowPushSms           bool   `json:"allow_push_sms"`
}

// UserResponse salida de un usuario.
type UserResponse struct {
	ID                     string    `json:"id"`
	PhoneNumber            string    `json:"phone_number"`
	Name                   string    `json:"name"`
	Role                   string    `json:"role"`
	AllowSharingData       bool      `json:"allow_sharing_data"`
	AllowPushNotifications bool      `json:"allow_push_notifications"`
	AllowPushEmails        bool      `json:"allow_push_emails"`
	AllowPushSms           bool      `json:"allow_push_sms"`
	CreatedAt              time.Time `json:"created_at"`
}
