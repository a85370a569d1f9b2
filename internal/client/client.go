// Package client is a Go client for the headshot API, used by the CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"stature-backend/internal/catalog"
	"stature-backend/internal/generation"
	"stature-backend/internal/models"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New builds a client for the API at baseURL, authenticating with token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Styles(ctx context.Context) ([]catalog.HeadshotStyle, error) {
	var out models.StylesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/styles", nil, &out, KindUnknown); err != nil {
		return nil, err
	}
	return out.Styles, nil
}

func (c *Client) Me(ctx context.Context) (*models.UserResponse, error) {
	var out models.UserResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/me", nil, &out, KindUnknown); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SuggestStyle(ctx context.Context, profession string) (catalog.HeadshotStyle, error) {
	var out models.SuggestStyleResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/suggest-style", models.SuggestStyleRequest{Profession: profession}, &out, KindGeneration)
	if err != nil {
		return catalog.HeadshotStyle{}, err
	}
	return out.Style, nil
}

// CreateOrder records a captured payment for a package.
func (c *Client) CreateOrder(ctx context.Context, packageType, paymentID string) (*models.CreateOrderResponse, error) {
	req := models.CreateOrderRequest{
		PackageType:    packageType,
		PaymentDetails: &models.PaymentDetails{OrderID: paymentID},
	}
	var out models.CreateOrderResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/createOrder", req, &out, KindPayment); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateHeadshots uploads the photos and asks for count headshots in style.
// The style is sent by display name.
func (c *Client) GenerateHeadshots(ctx context.Context, images []generation.UploadFile, style catalog.HeadshotStyle, profession string, count int, removePiercings bool) ([]string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := map[string]string{
		"style":           style.Name,
		"profession":      profession,
		"imageCount":      strconv.Itoa(count),
		"removePiercings": strconv.FormatBool(removePiercings),
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}

	for _, img := range images {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename=%q`, img.Filename))
		h.Set("Content-Type", img.MimeType)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("failed to create form part: %w", err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", img.Filename, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/generate-headshots", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out models.GenerateResponse
	if err := c.do(req, &out, KindGeneration); err != nil {
		return nil, err
	}
	return out.Images, nil
}

// Generator adapts the client to generation.Generator with a fixed profession.
func (c *Client) Generator(profession string) generation.Generator {
	return generatorFunc(func(ctx context.Context, images []generation.UploadFile, style catalog.HeadshotStyle, count int, removePiercings bool) ([]string, error) {
		return c.GenerateHeadshots(ctx, images, style, profession, count, removePiercings)
	})
}

type generatorFunc func(ctx context.Context, images []generation.UploadFile, style catalog.HeadshotStyle, count int, removePiercings bool) ([]string, error)

func (f generatorFunc) GenerateHeadshots(ctx context.Context, images []generation.UploadFile, style catalog.HeadshotStyle, count int, removePiercings bool) ([]string, error) {
	return f(ctx, images, style, count, removePiercings)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}, kind Kind) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out, kind)
}

func (c *Client) do(req *http.Request, out interface{}, kind Kind) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, body, kind)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, body []byte, kind Kind) *APIError {
	var payload struct {
		Error     string `json:"error"`
		Message   string `json:"message"`
		Code      string `json:"code"`
		ErrorCode string `json:"error_code"`
	}
	_ = json.Unmarshal(body, &payload)

	apiErr := &APIError{
		Status:  status,
		Message: payload.Error,
		Code:    payload.ErrorCode,
		Kind:    classify(status, kind),
	}
	if apiErr.Message == "" {
		apiErr.Message = payload.Message
	}
	if apiErr.Code == "" {
		apiErr.Code = payload.Code
	}
	return apiErr
}
