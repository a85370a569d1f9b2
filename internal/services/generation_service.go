package services

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"stature-backend/internal/catalog"
	"stature-backend/internal/generation"
	"stature-backend/internal/imagen"
)

// ImageProvider is the image and text model backing generation.
type ImageProvider interface {
	GenerateImage(ctx context.Context, prompt string, images []imagen.Image) (string, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
	RetryWithBackoff(ctx context.Context, fn func() error, maxRetries int) error
}

type GenerationLimits struct {
	MaxImages   int
	MaxUploads  int
	Concurrency int
	// UnitAttempts is how many times a single image is tried before it is
	// counted as failed.
	UnitAttempts int
}

type GenerateInput struct {
	Images          []imagen.Image
	Style           string `validate:"required"`
	Profession      string `validate:"max=200"`
	ImageCount      int    `validate:"gte=1"`
	RemovePiercings bool
}

// GenerationService fans a request out into one provider call per image.
// It keeps no state between requests.
type GenerationService struct {
	provider ImageProvider
	limits   GenerationLimits
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewGenerationService(provider ImageProvider, limits GenerationLimits, logger zerolog.Logger) *GenerationService {
	if limits.UnitAttempts < 1 {
		limits.UnitAttempts = 1
	}
	return &GenerationService{
		provider: provider,
		limits:   limits,
		validate: newValidator(),
		logger:   logger.With().Str("service", "GenerationService").Logger(),
	}
}

// Generate returns the images that succeeded, in unit order. Individual
// failures are logged and skipped; ErrGenerationFailed means none succeeded.
func (s *GenerationService) Generate(ctx context.Context, in GenerateInput) ([]string, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	if len(in.Images) == 0 {
		return nil, invalid("at least one image is required")
	}
	if s.limits.MaxUploads > 0 && len(in.Images) > s.limits.MaxUploads {
		return nil, invalid("at most %d images may be uploaded", s.limits.MaxUploads)
	}
	if s.limits.MaxImages > 0 && in.ImageCount > s.limits.MaxImages {
		return nil, invalid("imageCount must be between 1 and %d", s.limits.MaxImages)
	}
	for i, img := range in.Images {
		if !generation.IsAllowedImageType(img.MimeType) {
			return nil, invalid("image %d: only PNG and JPEG images are supported", i+1)
		}
	}

	stylePrompt := in.Style
	if style, ok := catalog.Lookup(in.Style); ok {
		stylePrompt = style.Prompt
	}
	prompt := imagen.HeadshotPrompt(stylePrompt, in.Profession, in.RemovePiercings)

	results := make([]string, in.ImageCount)
	var g errgroup.Group
	if s.limits.Concurrency > 0 {
		g.SetLimit(s.limits.Concurrency)
	}

	for i := 0; i < in.ImageCount; i++ {
		g.Go(func() error {
			var src string
			err := s.provider.RetryWithBackoff(ctx, func() error {
				var err error
				src, err = s.provider.GenerateImage(ctx, prompt, in.Images)
				return err
			}, s.limits.UnitAttempts)
			if err != nil {
				s.logger.Warn().Err(err).Int("unit", i).Str("style", in.Style).Msg("headshot generation unit failed")
				return nil
			}
			results[i] = src
			return nil
		})
	}
	_ = g.Wait()

	images := make([]string, 0, len(results))
	for _, src := range results {
		if src != "" {
			images = append(images, src)
		}
	}

	if len(images) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(ErrGenerationFailed, err)
		}
		return nil, ErrGenerationFailed
	}

	s.logger.Info().
		Int("requested", in.ImageCount).
		Int("generated", len(images)).
		Str("style", in.Style).
		Msg("headshots generated")
	return images, nil
}

// SuggestStyle asks the text model which catalog style suits a profession.
// Answers that name no catalog style fall back to the default style.
func (s *GenerationService) SuggestStyle(ctx context.Context, profession string) (catalog.HeadshotStyle, error) {
	profession = strings.TrimSpace(profession)
	if profession == "" {
		return catalog.HeadshotStyle{}, invalid("profession is required")
	}

	answer, err := s.provider.GenerateText(ctx, imagen.SuggestStylePrompt(profession, catalog.IDs()))
	if err != nil {
		return catalog.HeadshotStyle{}, err
	}

	if style, ok := matchStyle(answer); ok {
		return style, nil
	}

	s.logger.Info().Str("answer", answer).Msg("style suggestion did not name a known style, using default")
	style, _ := catalog.Lookup(catalog.DefaultStyleID)
	return style, nil
}

func matchStyle(answer string) (catalog.HeadshotStyle, bool) {
	cleaned := strings.Trim(strings.ToLower(strings.TrimSpace(answer)), ".\"'`* \n")
	if style, ok := catalog.Lookup(cleaned); ok {
		return style, true
	}
	for _, word := range strings.FieldsFunc(cleaned, func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	}) {
		if style, ok := catalog.Lookup(word); ok {
			return style, true
		}
	}
	return catalog.HeadshotStyle{}, false
}
