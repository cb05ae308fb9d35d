package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/moviereview-backend/internal/genres"
	"github.com/angelmondragon/moviereview-backend/internal/movies"
)

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 4 << 10
	imageField     = "image"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Client talks to the movie review HTTP API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// New builds a client for baseURL, for example http://localhost:3000.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must include scheme and host", baseURL)
	}

	client := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

type uploadResponse struct {
	FilePath string `json:"filePath"`
}

// UploadImage posts data as the multipart "image" field and returns the stored path.
func (c *Client) UploadImage(ctx context.Context, fileName string, data []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(imageField, fileName)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	var out uploadResponse
	if err := c.do(ctx, http.MethodPost, "/upload", mw.FormDataContentType(), &body, &out); err != nil {
		return "", err
	}
	if out.FilePath == "" {
		return "", fmt.Errorf("upload response missing filePath")
	}
	return out.FilePath, nil
}

// CreateMovie posts a new movie and returns the stored row.
func (c *Client) CreateMovie(ctx context.Context, req movies.CreateMovieRequest) (movies.MovieDTO, error) {
	var out movies.CreateMovieResponse
	if err := c.doJSON(ctx, http.MethodPost, "/movies", req, &out); err != nil {
		return movies.MovieDTO{}, err
	}
	return out.Movie, nil
}

// CreateGenre finds or creates a genre by name.
func (c *Client) CreateGenre(ctx context.Context, name string) (genres.GenreDTO, error) {
	var out genres.GenreDTO
	if err := c.doJSON(ctx, http.MethodPost, "/genres", genres.CreateGenreRequest{Genre: name}, &out); err != nil {
		return genres.GenreDTO{}, err
	}
	if out.GenreID == 0 {
		return genres.GenreDTO{}, fmt.Errorf("genre response missing genre_id")
	}
	return out, nil
}

func (c *Client) ListGenres(ctx context.Context) ([]genres.GenreDTO, error) {
	var out []genres.GenreDTO
	if err := c.do(ctx, http.MethodGet, "/genres", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, dst any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s body: %w", path, err)
	}
	return c.do(ctx, method, path, "application/json", bytes.NewReader(raw), dst)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, dst any) error {
	endpoint := c.baseURL.JoinPath(path).String()
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}
	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
