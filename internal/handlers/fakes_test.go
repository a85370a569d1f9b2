package handlers_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"stature-backend/internal/catalog"
	"stature-backend/internal/generation"
	"stature-backend/internal/models"
	"stature-backend/internal/services"
)

type stubGenerator struct {
	last   services.GenerateInput
	images []string
	err    error
}

func (s *stubGenerator) Generate(_ context.Context, in services.GenerateInput) ([]string, error) {
	s.last = in
	return s.images, s.err
}

func (s *stubGenerator) SuggestStyle(_ context.Context, profession string) (catalog.HeadshotStyle, error) {
	if s.err != nil {
		return catalog.HeadshotStyle{}, s.err
	}
	style, _ := catalog.Lookup("creative")
	return style, nil
}

type stubOrders struct {
	created   []services.CreateOrderInput
	result    *services.CreateOrderResult
	err       error
	orders    []models.Order
	cancelErr error
}

func (s *stubOrders) CreateOrder(_ context.Context, in services.CreateOrderInput) (*services.CreateOrderResult, error) {
	s.created = append(s.created, in)
	return s.result, s.err
}

func (s *stubOrders) ListOrders(context.Context) ([]models.Order, error) {
	return s.orders, nil
}

func (s *stubOrders) ListUserOrders(_ context.Context, uid string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.UID == uid {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubOrders) CancelOrder(_ context.Context, orderID string) (*models.Order, error) {
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return &models.Order{ID: uuid.MustParse(orderID), Status: models.OrderStatusCancelled}, nil
}

type stubUsers struct {
	promoted []string
	err      error
}

func (s *stubUsers) EnsureUser(_ context.Context, uid, email string) (*models.User, error) {
	return &models.User{UID: uid, Email: email, Role: models.RoleUser, Credits: 20, CreatedAt: time.Now()}, nil
}

func (s *stubUsers) Promote(_ context.Context, uid string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.promoted = append(s.promoted, uid)
	return &models.User{UID: uid, Role: models.RoleAdmin}, nil
}

func (s *stubUsers) ListUsers(context.Context) ([]models.User, error) {
	return []models.User{{UID: "u1", Role: models.RoleAdmin}, {UID: "u2", Role: models.RoleUser}}, nil
}

type stubGallery struct {
	saved []generation.GeneratedImage
	err   error
}

func (s *stubGallery) SaveFavorites(_ context.Context, uid string, images []generation.GeneratedImage) ([]models.GalleryFile, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.saved = images
	files := make([]models.GalleryFile, len(images))
	for i, img := range images {
		files[i] = models.GalleryFile{Path: "users/" + uid + "/headshots/" + img.ID + ".png"}
	}
	return files, nil
}

func (s *stubGallery) List(context.Context, string) ([]models.GalleryFile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.GalleryFile{}, nil
}
