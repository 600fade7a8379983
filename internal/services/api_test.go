package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/shared"
	tu "github.com/desertthunder/songsheet/internal/testing"
)

func TestAPIClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			c := NewAPIClient("http://example.com", customClient)

			if c.baseURL != "http://example.com" {
				t.Errorf("expected baseURL 'http://example.com', got %s", c.baseURL)
			}
			if c.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Defaults", func(t *testing.T) {
			c := NewAPIClient("", nil)

			if c.baseURL != DefaultBaseURL {
				t.Errorf("expected default baseURL %s, got %s", DefaultBaseURL, c.baseURL)
			}
			if c.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Response Headers Are Preserved", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Request-ID", "abc")
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			}))
			defer server.Close()

			resp, err := NewAPIClient(server.URL, nil).Get(context.Background(), "/healthz")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !resp.OK() || string(resp.Body) != "ok" {
				t.Errorf("unexpected response %d %q", resp.StatusCode, resp.Body)
			}
			if resp.Headers.Get("X-Request-ID") != "abc" {
				t.Errorf("expected header preserved, got %q", resp.Headers.Get("X-Request-ID"))
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			_, err := NewAPIClient("http://example.com", nil).Get(context.Background(), "/test\x00invalid")
			if err == nil || !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed"))}

			_, err := NewAPIClient("http://example.com", client).Get(context.Background(), "/test")
			if err == nil || !strings.Contains(err.Error(), "request failed") {
				t.Errorf("expected 'request failed' error, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			_, err := NewAPIClient("http://example.com", client).Get(context.Background(), "/test")
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected 'failed to read response' error, got %v", err)
			}
		})

		t.Run("With Canceled Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := NewAPIClient(server.URL, nil).Get(ctx, "/test"); err == nil {
				t.Error("expected error for canceled context")
			}
		})
	})

	t.Run("SongService", func(t *testing.T) {
		t.Run("Lists", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				switch r.URL.Path {
				case "/api/artists":
					json.NewEncoder(w).Encode([]models.Artist{{ID: 1, Name: "Barbara"}})
				case "/api/songs/recent":
					if r.URL.Query().Get("limit") != "3" {
						t.Errorf("expected limit=3, got %s", r.URL.RawQuery)
					}
					json.NewEncoder(w).Encode([]models.Partition{{ID: 5, Title: "Nantes"}})
				case "/api/songs":
					if q := r.URL.Query().Get("q"); q != "" && q != "l'aigle noir" {
						t.Errorf("unexpected query %q", q)
					}
					json.NewEncoder(w).Encode([]models.Partition{{ID: 6, Title: "L'aigle noir"}})
				default:
					w.WriteHeader(http.StatusNotFound)
				}
			}))
			defer server.Close()

			c := NewAPIClient(server.URL, nil)
			ctx := context.Background()

			artists, err := c.ListArtists(ctx)
			if err != nil || len(artists) != 1 || artists[0].Name != "Barbara" {
				t.Errorf("ListArtists() = %v, %v", artists, err)
			}

			recent, err := c.RecentSongs(ctx, 3)
			if err != nil || len(recent) != 1 || recent[0].ID != 5 {
				t.Errorf("RecentSongs() = %v, %v", recent, err)
			}

			found, err := c.SearchSongs(ctx, "l'aigle noir")
			if err != nil || len(found) != 1 {
				t.Errorf("SearchSongs() = %v, %v", found, err)
			}
		})

		t.Run("Not Found Maps To Sentinel", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ErrorBody{Error: "NOT_FOUND", Message: "song not found"})
			}))
			defer server.Close()

			_, err := NewAPIClient(server.URL, nil).SongDetails(context.Background(), 9)
			if !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.Message != "song not found" {
				t.Errorf("expected APIError with message, got %v", err)
			}
		})

		t.Run("Create Sends Submission", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/api/songs" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("expected JSON content type, got %s", r.Header.Get("Content-Type"))
				}

				body, _ := io.ReadAll(r.Body)
				var s models.Submission
				if err := json.Unmarshal(body, &s); err != nil {
					t.Errorf("failed to unmarshal request body: %v", err)
				}
				if s.Title != "Nantes" {
					t.Errorf("expected title Nantes, got %q", s.Title)
				}

				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(SaveResult{ID: 42})
			}))
			defer server.Close()

			id, err := NewAPIClient(server.URL, nil).CreateSong(context.Background(), models.Submission{Artist: "Barbara", Title: "Nantes"})
			if err != nil || id != 42 {
				t.Errorf("CreateSong() = %d, %v", id, err)
			}
		})

		t.Run("Write Errors Become SubmitErrors", func(t *testing.T) {
			tc := []struct {
				name   string
				status int
				body   ErrorBody
				want   models.ErrorKind
			}{
				{"validation", http.StatusBadRequest, ErrorBody{Error: "VALIDATION_ERROR", Message: "missing"}, models.ErrorKindValidation},
				{"database", http.StatusInternalServerError, ErrorBody{Error: "DATABASE_ERROR", Message: "db"}, models.ErrorKindDatabase},
				{"not found", http.StatusNotFound, ErrorBody{Error: "NOT_FOUND", Message: "gone"}, models.ErrorKindDatabase},
				{"other", http.StatusBadGateway, ErrorBody{}, models.ErrorKindUnknown},
			}

			for _, tt := range tc {
				t.Run(tt.name, func(t *testing.T) {
					server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
						w.WriteHeader(tt.status)
						json.NewEncoder(w).Encode(tt.body)
					}))
					defer server.Close()

					err := NewAPIClient(server.URL, nil).UpdateSong(context.Background(), 1, models.Submission{})
					if got := models.KindOf(err); got != tt.want {
						t.Errorf("KindOf() = %s, want %s (err %v)", got, tt.want, err)
					}
				})
			}
		})

		t.Run("Toggle Favorite", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/songs/3/favorite" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				json.NewEncoder(w).Encode(FavoriteResult{ID: 3, Favorite: true})
			}))
			defer server.Close()

			on, err := NewAPIClient(server.URL, nil).ToggleFavorite(context.Background(), 3)
			if err != nil || !on {
				t.Errorf("ToggleFavorite() = %v, %v", on, err)
			}
		})
	})
}
