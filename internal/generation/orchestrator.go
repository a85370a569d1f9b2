package generation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"stature-backend/internal/catalog"
)

// Generator produces count headshots of the subject in one style.
type Generator interface {
	GenerateHeadshots(ctx context.Context, images []UploadFile, style catalog.HeadshotStyle, count int, removePiercings bool) ([]string, error)
}

// ProgressFunc receives a human readable status line before each style is generated.
type ProgressFunc func(message string)

type GeneratedImage struct {
	ID         string `json:"id"`
	Src        string `json:"src"`
	IsFavorite bool   `json:"isFavorite"`
	StyleName  string `json:"styleName,omitempty"`
}

// Run is one multi-style generation request.
type Run struct {
	Images          []UploadFile
	Styles          []catalog.HeadshotStyle
	Total           int
	RemovePiercings bool
}

// GenerationError reports a run abandoned because a style failed.
type GenerationError struct {
	Style string
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Style == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("generating '%s' headshots: %s", e.Style, e.Err.Error())
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Orchestrator runs a selection through a Generator one style at a time.
type Orchestrator struct {
	gen      Generator
	progress ProgressFunc
	logger   zerolog.Logger
	now      func() time.Time

	mu      sync.Mutex
	last    *Run
	lastErr error
}

func NewOrchestrator(gen Generator, progress ProgressFunc, logger zerolog.Logger) *Orchestrator {
	if progress == nil {
		progress = func(string) {}
	}
	return &Orchestrator{
		gen:      gen,
		progress: progress,
		logger:   logger.With().Str("component", "orchestrator").Logger(),
		now:      time.Now,
	}
}

// Run generates the split count for every style in order. Any failure
// abandons the run and no partial gallery is returned.
func (o *Orchestrator) Run(ctx context.Context, run Run) (Gallery, error) {
	o.mu.Lock()
	stored := run
	o.last = &stored
	o.lastErr = nil
	o.mu.Unlock()

	gallery, err := o.run(ctx, run)

	o.mu.Lock()
	o.lastErr = err
	o.mu.Unlock()
	return gallery, err
}

// Retry re-runs the last selection from scratch.
func (o *Orchestrator) Retry(ctx context.Context) (Gallery, error) {
	o.mu.Lock()
	last := o.last
	o.mu.Unlock()

	if last == nil {
		return Gallery{}, fmt.Errorf("nothing to retry")
	}
	return o.Run(ctx, *last)
}

// Err returns the error of the most recent run.
func (o *Orchestrator) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

func (o *Orchestrator) run(ctx context.Context, run Run) (Gallery, error) {
	if len(run.Images) == 0 {
		return Gallery{}, &GenerationError{Err: fmt.Errorf("no source images")}
	}
	counts, err := Split(run.Total, len(run.Styles))
	if err != nil {
		return Gallery{}, &GenerationError{Err: err}
	}

	var images []GeneratedImage
	for i, style := range run.Styles {
		if err := ctx.Err(); err != nil {
			return Gallery{}, &GenerationError{Style: style.Name, Err: err}
		}

		count := counts[i]
		if len(run.Styles) > 1 {
			o.progress(fmt.Sprintf("(%d/%d) Generating %d images for '%s' style...", i+1, len(run.Styles), count, style.Name))
		} else {
			o.progress(fmt.Sprintf("Generating %d images for '%s' style...", count, style.Name))
		}

		srcs, err := o.gen.GenerateHeadshots(ctx, run.Images, style, count, run.RemovePiercings)
		if err != nil {
			o.logger.Error().Err(err).Str("style", style.ID).Msg("style generation failed, abandoning run")
			return Gallery{}, &GenerationError{Style: style.Name, Err: err}
		}

		stamp := o.now().UnixNano()
		for j, src := range srcs {
			images = append(images, GeneratedImage{
				ID:        fmt.Sprintf("%s-%d-%d", style.ID, j, stamp),
				Src:       src,
				StyleName: style.Name,
			})
		}
	}

	return Gallery{Images: images}, nil
}
