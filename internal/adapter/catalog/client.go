package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/dsmirnov/coursegate/internal/domain/model"
)

// ErrCourseNotFound indicates the catalog doesn't know the course.
var ErrCourseNotFound = errors.New("course not found in catalog")

// Client exposes operations to query the course catalog.
type Client interface {
	Fetch(ctx context.Context, courseID string) (*model.Course, error)
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// response mirrors JSON payload from the catalog service.
type response struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PriceCents   int64  `json:"price_cents"`
	ValidityDays *int   `json:"validity_days,omitempty"`
	Active       bool   `json:"active"`
}

// NewHTTPClient creates HTTP catalog client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("catalog url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Fetch queries the catalog for one course.
func (c *HTTPClient) Fetch(ctx context.Context, courseID string) (*model.Course, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/courses/", courseID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var data response
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, err
		}
		return &model.Course{
			ID:           data.ID,
			Name:         data.Name,
			PriceCents:   data.PriceCents,
			ValidityDays: data.ValidityDays,
			Active:       data.Active,
		}, nil
	case http.StatusNotFound, http.StatusNoContent:
		return nil, ErrCourseNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("catalog request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("catalog error: %s", resp.Status)
	}
}
