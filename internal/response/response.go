package response

import (
	"time"

	"github.com/nirajkr26/linkly/internal/models"
)

// Envelope is the common API response shape.
type Envelope struct {
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
}

func Success(message string, data any) Envelope {
	return Envelope{IsSuccess: true, Message: message, Data: data}
}

func Error(message string) Envelope {
	return Envelope{IsSuccess: false, Message: message}
}

type UserResponse struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
	Provider string `json:"provider"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:       user.ID.String(),
		Name:     user.Name,
		Email:    user.Email,
		Avatar:   user.Avatar,
		Provider: user.Provider,
	}
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type CreateLinkResponse struct {
	ShortURL string `json:"shortUrl"`
	QRCode   string `json:"qrCode,omitempty"`
}

type LinkResponse struct {
	ID                  string     `json:"id"`
	FullURL             string     `json:"full_url"`
	ShortURL            string     `json:"short_url"`
	Clicks              int64      `json:"clicks"`
	QRGenerated         bool       `json:"qrGenerated"`
	QRCode              string     `json:"qrCode,omitempty"`
	ExpiresAt           *time.Time `json:"expiresAt"`
	ActiveFrom          time.Time  `json:"activeFrom"`
	IsExpired           bool       `json:"isExpired"`
	IsPasswordProtected bool       `json:"isLinkPassword"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func NewLinkResponse(link *models.Link) LinkResponse {
	return LinkResponse{
		ID:                  link.ID.String(),
		FullURL:             link.FullURL,
		ShortURL:            link.ShortURL,
		Clicks:              link.Clicks,
		QRGenerated:         link.QRGenerated,
		QRCode:              link.QRCode,
		ExpiresAt:           link.ExpiresAt,
		ActiveFrom:          link.ActiveFrom,
		IsExpired:           link.IsExpired,
		IsPasswordProtected: link.IsLinkPassword,
		CreatedAt:           link.CreatedAt,
		UpdatedAt:           link.UpdatedAt,
	}
}
