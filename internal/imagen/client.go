package imagen

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com"
	DefaultImageModel = "gemini-2.5-flash-image"
	DefaultTextModel  = "gemini-2.5-flash"
)

// ErrNoImage is returned when the model answered without inline image data.
var ErrNoImage = errors.New("model returned no image")

// Client wraps the Gemini API client with the models and retry waits used
// for headshot generation.
type Client struct {
	genai      *genai.Client
	imageModel string
	textModel  string
	backoffs   []time.Duration
	httpClient *http.Client
}

type Option func(*Client)

func WithModels(imageModel, textModel string) Option {
	return func(c *Client) {
		if imageModel != "" {
			c.imageModel = imageModel
		}
		if textModel != "" {
			c.textModel = textModel
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBackoffs replaces the waits used between RetryWithBackoff attempts.
func WithBackoffs(backoffs ...time.Duration) Option {
	return func(c *Client) {
		c.backoffs = backoffs
	}
}

// Image is an inline source photo sent along with a prompt.
type Image struct {
	MimeType string
	Data     []byte
}

func NewClient(ctx context.Context, baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		imageModel: DefaultImageModel,
		textModel:  DefaultTextModel,
		backoffs:   []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
		httpClient: &http.Client{
			Timeout: 180 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL + "/",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	c.genai = client

	return c, nil
}

// GenerateImage asks the image model for a single picture and returns it as a data URL.
func (c *Client) GenerateImage(ctx context.Context, prompt string, images []Image) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	for _, img := range images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MimeType))
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.imageModel,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	)
	if err != nil {
		return "", fmt.Errorf("generateContent failed: %w", err)
	}

	_, dataURLs := extractParts(resp)
	if len(dataURLs) == 0 {
		return "", ErrNoImage
	}
	return dataURLs[0], nil
}

// GenerateText runs a plain text prompt against the text model.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.genai.Models.GenerateContent(ctx, c.textModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generateContent failed: %w", err)
	}

	text, _ := extractParts(resp)
	return strings.TrimSpace(text), nil
}

// RetryWithBackoff calls fn until it succeeds or maxRetries attempts are used,
// waiting between attempts. A cancelled context stops the loop early.
func (c *Client) RetryWithBackoff(ctx context.Context, fn func() error, maxRetries int) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if i == maxRetries-1 || i >= len(c.backoffs) {
			continue
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		case <-time.After(c.backoffs[i]):
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

func extractParts(resp *genai.GenerateContentResponse) (string, []string) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var text strings.Builder
	var images []string
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil {
			continue
		}
		if p.Text != "" && !p.Thought {
			text.WriteString(p.Text)
		}
		if p.InlineData != nil && len(p.InlineData.Data) > 0 {
			mime := p.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			images = append(images, fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(p.InlineData.Data)))
		}
	}
	return text.String(), images
}
