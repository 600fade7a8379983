// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/shared"
)

// MockSongService is an in-memory test double for services.SongService.
//
// A non-nil Err is returned by every method. Submissions are validated like the real service.
type MockSongService struct {
	mu        sync.Mutex
	Artists   []*models.Artist
	Songs     []*models.Partition
	Details   map[int64]*models.SongDetails
	Favorites map[int64]bool
	Created   []models.Submission
	Updated   map[int64]models.Submission
	Viewed    []int64
	Err       error
}

// NewMockSongService creates a mock seeded with artists and songs. Every song gets an empty detail entry.
func NewMockSongService(artists []*models.Artist, songs []*models.Partition) *MockSongService {
	m := &MockSongService{
		Artists:   artists,
		Songs:     songs,
		Details:   make(map[int64]*models.SongDetails),
		Favorites: make(map[int64]bool),
		Updated:   make(map[int64]models.Submission),
	}
	for _, s := range songs {
		m.Details[s.ID] = &models.SongDetails{Partition: *s, Chords: []models.ChordEntry{}}
	}
	return m
}

func (m *MockSongService) ListArtists(ctx context.Context) ([]*models.Artist, error) {
	return m.Artists, m.Err
}

func (m *MockSongService) ListSongs(ctx context.Context) ([]*models.Partition, error) {
	return m.Songs, m.Err
}

func (m *MockSongService) ListArtistSongs(ctx context.Context, artistID int64) ([]*models.Partition, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	found := false
	for _, a := range m.Artists {
		found = found || a.ID == artistID
	}
	if !found {
		return nil, shared.ErrArtistNotFound
	}

	songs := []*models.Partition{}
	for _, s := range m.Songs {
		if s.ArtistID == artistID {
			songs = append(songs, s)
		}
	}
	return songs, nil
}

func (m *MockSongService) SongDetails(ctx context.Context, id int64) (*models.SongDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	d, ok := m.Details[id]
	if !ok {
		return nil, shared.ErrSongNotFound
	}
	m.Viewed = append(m.Viewed, id)
	details := *d
	details.IsFavorite = m.Favorites[id]
	return &details, nil
}

func (m *MockSongService) CreateSong(ctx context.Context, s models.Submission) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return 0, models.NewDatabaseError("mock failure", m.Err)
	}
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return 0, err
	}
	m.Created = append(m.Created, s)
	return int64(len(m.Created)), nil
}

func (m *MockSongService) UpdateSong(ctx context.Context, id int64, s models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return models.NewDatabaseError("mock failure", m.Err)
	}
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return err
	}
	if _, ok := m.Details[id]; !ok {
		return models.NewDatabaseError("failed to load song", shared.ErrSongNotFound)
	}
	m.Updated[id] = s
	return nil
}

func (m *MockSongService) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return false, m.Err
	}
	if _, ok := m.Details[id]; !ok {
		return false, shared.ErrSongNotFound
	}
	m.Favorites[id] = !m.Favorites[id]
	return m.Favorites[id], nil
}

func (m *MockSongService) RecentSongs(ctx context.Context, limit int) ([]*models.Partition, error) {
	return m.limited(limit)
}

func (m *MockSongService) PopularSongs(ctx context.Context, limit int) ([]*models.Partition, error) {
	return m.limited(limit)
}

func (m *MockSongService) RandomArtist(ctx context.Context) (*models.Artist, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Artists) == 0 {
		return nil, shared.ErrNoArtists
	}
	return m.Artists[0], nil
}

func (m *MockSongService) limited(limit int) ([]*models.Partition, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit > 0 && len(m.Songs) > limit {
		return m.Songs[:limit], nil
	}
	return m.Songs, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
