package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"stature-backend/internal/generation"
	"stature-backend/internal/logger"
	"stature-backend/internal/services"
	"stature-backend/internal/storage"
)

func TestGallery_SaveAndList(t *testing.T) {
	store := newMemObjectStore()
	svc := services.NewGalleryService(store, logger.Nop())
	ctx := context.Background()

	files, err := svc.SaveFavorites(ctx, "u1", []generation.GeneratedImage{
		{ID: "corporate-0-17", Src: "data:image/png;base64,aW1n", StyleName: "Corporate"},
		{ID: "x/../y", Src: "data:image/jpeg;base64,aW1n", StyleName: ""},
	})
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "users/u1/headshots/corporate/corporate-0-17.png", files[0].Path)
	assert.Equal(t, "users/u1/headshots/general/x-y.jpg", files[1].Path)
	assert.Equal(t, "image/jpeg", store.types[files[1].Path])
	assert.Equal(t, []byte("img"), store.objects[files[0].Path])

	listed, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "corporate", listed[0].StyleName)
	assert.Equal(t, "general", listed[1].StyleName)

	other, err := svc.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestGallery_RejectsBadImages(t *testing.T) {
	svc := services.NewGalleryService(newMemObjectStore(), logger.Nop())
	ctx := context.Background()

	for _, src := range []string{
		"https://example.com/a.png",
		"data:text/plain;base64,aGk=",
		"data:image/png,notbase64",
		"data:image/png;base64,!!!",
	} {
		_, err := svc.SaveFavorites(ctx, "u1", []generation.GeneratedImage{{ID: "a", Src: src}})
		assert.ErrorIs(t, err, services.ErrValidation, src)
	}

	_, err := svc.SaveFavorites(ctx, "u1", nil)
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestGallery_Disabled(t *testing.T) {
	svc := services.NewGalleryService(storage.Disabled(), logger.Nop())
	ctx := context.Background()

	_, err := svc.SaveFavorites(ctx, "u1", []generation.GeneratedImage{{ID: "a", Src: "data:image/png;base64,aW1n"}})
	assert.ErrorIs(t, err, services.ErrStorageDisabled)

	_, err = svc.List(ctx, "u1")
	assert.ErrorIs(t, err, services.ErrStorageDisabled)
}
