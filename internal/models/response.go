package models

import (
	"time"

	"stature-backend/internal/catalog"
)

type HealthResponse struct {
	Status string `json:"status"`
}

type StylesResponse struct {
	Styles []catalog.HeadshotStyle `json:"styles"`
}

type SuggestStyleResponse struct {
	Style catalog.HeadshotStyle `json:"style"`
}

type GenerateResponse struct {
	Images []string `json:"images"`
}

type CreateOrderResponse struct {
	Message   string `json:"message"`
	OrderID   string `json:"orderId"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName,omitempty"`
	Role        string    `json:"role"`
	Credits     int       `json:"credits"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Credits:     u.Credits,
		CreatedAt:   u.CreatedAt,
	}
}

type OrderResponse struct {
	ID        string    `json:"id"`
	UID       string    `json:"uid"`
	Package   string    `json:"package"`
	Amount    float64   `json:"amount"`
	Credits   int       `json:"credits"`
	Status    string    `json:"status"`
	PaymentID string    `json:"paymentId"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewOrderResponse(o *Order) OrderResponse {
	return OrderResponse{
		ID:        o.ID.String(),
		UID:       o.UID,
		Package:   o.Package,
		Amount:    o.Amount(),
		Credits:   o.Credits,
		Status:    o.Status,
		PaymentID: o.PaymentID,
		CreatedAt: o.CreatedAt,
	}
}

type GalleryResponse struct {
	Files []GalleryFile `json:"files"`
}

type GalleryFile struct {
	Path      string `json:"path"`
	URL       string `json:"url"`
	StyleName string `json:"styleName,omitempty"`
	Size      int64  `json:"size,omitempty"`
}
