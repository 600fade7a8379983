package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/shared"
)

// DefaultBaseURL is where `songsheet serve` listens by default.
const DefaultBaseURL = "http://127.0.0.1:3000"

// SaveResult is the body returned by song create and update.
type SaveResult struct {
	ID       int64            `json:"id"`
	Warnings []models.Warning `json:"warnings,omitempty"`
}

// FavoriteResult is the body returned by a favorite toggle.
type FavoriteResult struct {
	ID       int64 `json:"id"`
	Favorite bool  `json:"favorite"`
}

// ErrorBody is the JSON error envelope of the HTTP API.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// APIError is a non-2xx response from the HTTP API.
type APIError struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Kind, e.Message)
}

// Unwrap maps the status to the matching sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return shared.ErrNotFound
	case http.StatusBadRequest:
		return shared.ErrInvalidInput
	default:
		return nil
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// APIClient implements [SongService] against a running songsheet HTTP API.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a client for the API at baseURL.
func NewAPIClient(baseURL string, client *http.Client) *APIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIClient{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIClient) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.send(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIClient) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.send(ctx, http.MethodPost, path, data)
}

// Put performs a PUT request with the given JSON data and returns the raw response.
func (a *APIClient) Put(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.send(ctx, http.MethodPut, path, data)
}

func (a *APIClient) send(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	fullURL := a.baseURL + path

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}, nil
}

// call sends a request with an optional JSON payload and decodes a 2xx body into dest.
func (a *APIClient) call(ctx context.Context, method, path string, payload, dest any) error {
	var data []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		data = encoded
	}

	resp, err := a.send(ctx, method, path, data)
	if err != nil {
		return err
	}

	if !resp.OK() {
		return decodeError(resp)
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *APIResponse) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body ErrorBody
	if err := json.Unmarshal(resp.Body, &body); err == nil && body.Error != "" {
		apiErr.Kind = body.Error
		apiErr.Message = body.Message
	}
	return apiErr
}

// submitError converts an API failure on a write into a [models.SubmitError].
func submitError(err error) error {
	apiErr, ok := err.(*APIError)
	if !ok {
		return models.NewUnknownError(err)
	}

	switch models.ErrorKind(apiErr.Kind) {
	case models.ErrorKindValidation:
		return models.NewValidationError(apiErr.Message)
	case models.ErrorKindDatabase:
		return models.NewDatabaseError(apiErr.Message, apiErr)
	default:
		if apiErr.StatusCode == http.StatusNotFound {
			return models.NewDatabaseError(apiErr.Message, apiErr)
		}
		return models.NewUnknownError(apiErr)
	}
}

func (a *APIClient) ListArtists(ctx context.Context) ([]*models.Artist, error) {
	var artists []*models.Artist
	err := a.call(ctx, http.MethodGet, "/api/artists", nil, &artists)
	return artists, err
}

func (a *APIClient) ListSongs(ctx context.Context) ([]*models.Partition, error) {
	var songs []*models.Partition
	err := a.call(ctx, http.MethodGet, "/api/songs", nil, &songs)
	return songs, err
}

// SearchSongs lists songs whose title or artist matches term.
func (a *APIClient) SearchSongs(ctx context.Context, term string) ([]*models.Partition, error) {
	var songs []*models.Partition
	err := a.call(ctx, http.MethodGet, "/api/songs?q="+url.QueryEscape(term), nil, &songs)
	return songs, err
}

func (a *APIClient) ListArtistSongs(ctx context.Context, artistID int64) ([]*models.Partition, error) {
	var songs []*models.Partition
	err := a.call(ctx, http.MethodGet, fmt.Sprintf("/api/artists/%d/songs", artistID), nil, &songs)
	return songs, err
}

func (a *APIClient) SongDetails(ctx context.Context, id int64) (*models.SongDetails, error) {
	var details models.SongDetails
	if err := a.call(ctx, http.MethodGet, fmt.Sprintf("/api/songs/%d", id), nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (a *APIClient) CreateSong(ctx context.Context, s models.Submission) (int64, error) {
	var result SaveResult
	if err := a.call(ctx, http.MethodPost, "/api/songs", s, &result); err != nil {
		return 0, submitError(err)
	}
	return result.ID, nil
}

func (a *APIClient) UpdateSong(ctx context.Context, id int64, s models.Submission) error {
	if err := a.call(ctx, http.MethodPut, fmt.Sprintf("/api/songs/%d", id), s, nil); err != nil {
		return submitError(err)
	}
	return nil
}

func (a *APIClient) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	var result FavoriteResult
	err := a.call(ctx, http.MethodPost, fmt.Sprintf("/api/songs/%d/favorite", id), nil, &result)
	return result.Favorite, err
}

func (a *APIClient) RecentSongs(ctx context.Context, limit int) ([]*models.Partition, error) {
	var songs []*models.Partition
	err := a.call(ctx, http.MethodGet, "/api/songs/recent?limit="+strconv.Itoa(limit), nil, &songs)
	return songs, err
}

func (a *APIClient) PopularSongs(ctx context.Context, limit int) ([]*models.Partition, error) {
	var songs []*models.Partition
	err := a.call(ctx, http.MethodGet, "/api/songs/popular?limit="+strconv.Itoa(limit), nil, &songs)
	return songs, err
}

func (a *APIClient) RandomArtist(ctx context.Context) (*models.Artist, error) {
	var artist models.Artist
	if err := a.call(ctx, http.MethodGet, "/api/artists/random", nil, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

var (
	_ SongService = (*Library)(nil)
	_ SongService = (*APIClient)(nil)
)
