package models

type CreateOrderRequest struct {
	PackageType    string          `json:"packageType" binding:"required" example:"STARTER"`
	PaymentDetails *PaymentDetails `json:"paymentDetails" binding:"required"`
}

// PaymentDetails carries the payment capture reference. OrderID is the
// provider's capture id, not one of our order ids.
type PaymentDetails struct {
	OrderID string `json:"orderID" binding:"required" example:"5O190127TN364715T"`
}

type SetAdminRequest struct {
	UID string `json:"uid" binding:"required"`
}

type CancelOrderRequest struct {
	OrderID string `json:"orderId" binding:"required,uuid"`
}

type SuggestStyleRequest struct {
	Profession string `json:"profession" binding:"required" example:"software engineer"`
}

type SaveGalleryRequest struct {
	Images []GalleryImage `json:"images" binding:"required,min=1,dive"`
}

type GalleryImage struct {
	ID        string `json:"id" binding:"required"`
	Src       string `json:"src" binding:"required"`
	StyleName string `json:"styleName"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
