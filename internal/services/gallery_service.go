package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"stature-backend/internal/generation"
	"stature-backend/internal/models"
	"stature-backend/internal/storage"
)

const maxGallerySave = 100

// GalleryService stores favorited headshots under the owner's prefix:
// users/{uid}/headshots/{style-slug}/{image-id}.{ext}
type GalleryService struct {
	store  storage.ObjectStore
	logger zerolog.Logger
}

func NewGalleryService(store storage.ObjectStore, logger zerolog.Logger) *GalleryService {
	if store == nil {
		store = storage.Disabled()
	}
	return &GalleryService{
		store:  store,
		logger: logger.With().Str("service", "GalleryService").Logger(),
	}
}

func galleryPrefix(uid string) string {
	return fmt.Sprintf("users/%s/headshots/", uid)
}

func (s *GalleryService) SaveFavorites(ctx context.Context, uid string, images []generation.GeneratedImage) ([]models.GalleryFile, error) {
	if uid == "" {
		return nil, invalid("uid is required")
	}
	if len(images) == 0 {
		return nil, invalid("at least one image is required")
	}
	if len(images) > maxGallerySave {
		return nil, invalid("at most %d images can be saved at once", maxGallerySave)
	}

	type decoded struct {
		key         string
		contentType string
		data        []byte
		styleName   string
	}
	blobs := make([]decoded, 0, len(images))
	for _, img := range images {
		contentType, data, err := generation.DecodeDataURL(img.Src)
		if err != nil {
			return nil, invalid("image %s: %s", img.ID, err.Error())
		}
		key := galleryPrefix(uid) + path.Join(generation.Slug(img.StyleName, "general"), generation.Slug(img.ID, "image")+generation.ExtensionFor(contentType))
		blobs = append(blobs, decoded{key: key, contentType: contentType, data: data, styleName: img.StyleName})
	}

	files := make([]models.GalleryFile, 0, len(blobs))
	for _, b := range blobs {
		obj, err := s.store.Put(ctx, b.key, b.data, b.contentType)
		if err != nil {
			if errors.Is(err, storage.ErrDisabled) {
				return nil, ErrStorageDisabled
			}
			s.logger.Error().Err(err).Str("user_id", uid).Str("key", b.key).Msg("Failed to store headshot")
			return nil, err
		}
		files = append(files, models.GalleryFile{Path: obj.Key, URL: obj.URL, StyleName: b.styleName, Size: obj.Size})
	}

	s.logger.Info().Str("user_id", uid).Int("count", len(files)).Msg("headshots saved to gallery")
	return files, nil
}

func (s *GalleryService) List(ctx context.Context, uid string) ([]models.GalleryFile, error) {
	if uid == "" {
		return nil, invalid("uid is required")
	}

	prefix := galleryPrefix(uid)
	objects, err := s.store.List(ctx, prefix)
	if err != nil {
		if errors.Is(err, storage.ErrDisabled) {
			return nil, ErrStorageDisabled
		}
		return nil, err
	}

	files := make([]models.GalleryFile, 0, len(objects))
	for _, obj := range objects {
		style := ""
		if rest := strings.TrimPrefix(obj.Key, prefix); strings.Contains(rest, "/") {
			style = rest[:strings.Index(rest, "/")]
		}
		files = append(files, models.GalleryFile{Path: obj.Key, URL: obj.URL, StyleName: style, Size: obj.Size})
	}
	return files, nil
}
