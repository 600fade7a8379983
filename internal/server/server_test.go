package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/songsheet/internal/chords"
	"github.com/desertthunder/songsheet/internal/lyrics"
	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/services"
	"github.com/desertthunder/songsheet/internal/shared"
	tu "github.com/desertthunder/songsheet/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *shared.Config {
	cfg := shared.DefaultConfig()
	cfg.Server.RateLimit = 1000
	cfg.Server.Burst = 1000
	return cfg
}

func newMock() *tu.MockSongService {
	artists := []*models.Artist{{ID: 1, Name: "Barbara"}, {ID: 2, Name: "Jacques Brel"}}
	songs := []*models.Partition{
		{ID: 1, ArtistID: 1, ArtistName: "Barbara", Title: "Nantes", Tempo: "90 BPM",
			Lyrics: "Capo 2\n[Intro]\nC | G | Am\nF | C\n[Verse 1]\nIl pleut sur Nantes"},
		{ID: 2, ArtistID: 2, ArtistName: "Jacques Brel", Title: "Amsterdam", Tempo: "lent"},
	}
	return tu.NewMockSongService(artists, songs)
}

func newTestServer(t *testing.T, svc services.SongService) http.Handler {
	t.Helper()
	var logs bytes.Buffer
	return New(testConfig(), svc, shared.NewLogger(&logs)).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, newMock())
	rec := do(t, h, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

func TestArtistRoutes(t *testing.T) {
	h := newTestServer(t, newMock())

	t.Run("list", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/artists", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]models.Artist](t, rec), 2)
	})

	t.Run("random", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/artists/random", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Barbara", decode[models.Artist](t, rec).Name)
	})

	t.Run("random with no artists", func(t *testing.T) {
		rec := do(t, newTestServer(t, tu.NewMockSongService(nil, nil)), http.MethodGet, "/api/artists/random", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("songs", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/artists/2/songs", "")
		require.Equal(t, http.StatusOK, rec.Code)
		songs := decode[[]models.Partition](t, rec)
		require.Len(t, songs, 1)
		assert.Equal(t, "Amsterdam", songs[0].Title)
	})

	t.Run("unknown artist", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/artists/9/songs", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, kindNotFound, decode[services.ErrorBody](t, rec).Error)
	})

	t.Run("bad id", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/artists/abc/songs", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSongReads(t *testing.T) {
	mock := newMock()
	h := newTestServer(t, mock)

	t.Run("list all", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/songs", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]models.Partition](t, rec), 2)
	})

	t.Run("search", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/songs?q=brel", "")
		require.Equal(t, http.StatusOK, rec.Code)
		songs := decode[[]models.Partition](t, rec)
		require.Len(t, songs, 1)
		assert.Equal(t, int64(2), songs[0].ID)
	})

	t.Run("search without match", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/songs?q=zzz", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})

	t.Run("recent with limit", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/songs/recent?limit=1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]models.Partition](t, rec), 1)
	})

	t.Run("popular bad limit", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/songs/popular?limit=lots", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("details", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/songs/1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		details := decode[models.SongDetails](t, rec)
		assert.Equal(t, "Nantes", details.Title)
		assert.Contains(t, mock.Viewed, int64(1))
	})

	t.Run("details not found", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/songs/99", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("service failure", func(t *testing.T) {
		failing := newMock()
		failing.Err = errors.New("disk on fire")
		rec := do(t, newTestServer(t, failing), http.MethodGet, "/api/songs", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, string(models.ErrorKindUnknown), decode[services.ErrorBody](t, rec).Error)
	})

	t.Run("tiers exhausted", func(t *testing.T) {
		failing := newMock()
		failing.Err = shared.ErrUnavailable
		rec := do(t, newTestServer(t, failing), http.MethodGet, "/api/songs/recent", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestSongSections(t *testing.T) {
	h := newTestServer(t, newMock())

	t.Run("json", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/songs/1/sections", "")
		require.Equal(t, http.StatusOK, rec.Code)
		segments := decode[[]lyrics.Segment](t, rec)
		require.Len(t, segments, 3)
		assert.Equal(t, lyrics.KindText, segments[0].Kind)
		assert.Equal(t, lyrics.KindInstrumental, segments[1].Kind)
		assert.Len(t, segments[1].Rows, 2)
		assert.Equal(t, "Verse 1", segments[2].SectionKey)
	})

	t.Run("text", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/songs/1/sections?format=text", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
		assert.Contains(t, rec.Body.String(), "[Couplet 1]")
	})

	t.Run("html", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/songs/1/sections?format=html", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/songs/1/sections?format=pdf", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSongScroll(t *testing.T) {
	h := newTestServer(t, newMock())

	tc := []struct {
		name       string
		path       string
		bpm        int
		multiplier float64
		offset     float64
	}{
		{name: "90 BPM", path: "/api/songs/1/scroll", bpm: 90, multiplier: 1, offset: 1.5},
		{name: "doubled", path: "/api/songs/1/scroll?multiplier=2", bpm: 90, multiplier: 2, offset: 3},
		{name: "clamped", path: "/api/songs/1/scroll?multiplier=50", bpm: 90, multiplier: 5, offset: 7.5},
		{name: "unparseable tempo", path: "/api/songs/2/scroll", bpm: 60, multiplier: 1, offset: 1},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, rec.Code)
			plan := decode[ScrollPlan](t, rec)
			assert.Equal(t, tt.bpm, plan.BPM)
			assert.Equal(t, tt.multiplier, plan.Multiplier)
			assert.InDelta(t, tt.offset, plan.Offset, 1e-9)
			assert.Equal(t, 16, plan.IntervalMS)
		})
	}

	t.Run("bad multiplier", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/songs/1/scroll?multiplier=fast", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSongWrites(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		mock := newMock()
		h := newTestServer(t, mock)

		body := `{"artist":"Barbara","title":"Göttingen","tempo":"100","chords":[{"chord":"Hm","fingering":"x24432"}],
			"youtube_link":"https://example.com/v"}`
		rec := do(t, h, http.MethodPost, "/api/songs", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		result := decode[services.SaveResult](t, rec)
		assert.Equal(t, int64(1), result.ID)
		assert.Len(t, result.Warnings, 2, "bad chord name and bad link are warnings")
		require.Len(t, mock.Created, 1)
		assert.Equal(t, "100 BPM", mock.Created[0].Tempo)
	})

	t.Run("create validation error", func(t *testing.T) {
		rec := do(t, newTestServer(t, newMock()), http.MethodPost, "/api/songs", `{"artist":"Barbara"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode[services.ErrorBody](t, rec)
		assert.Equal(t, string(models.ErrorKindValidation), body.Error)
		assert.Contains(t, body.Message, "title")
	})

	t.Run("create malformed body", func(t *testing.T) {
		rec := do(t, newTestServer(t, newMock()), http.MethodPost, "/api/songs", `{"artist":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create database error", func(t *testing.T) {
		mock := newMock()
		mock.Err = errors.New("locked")
		rec := do(t, newTestServer(t, mock), http.MethodPost, "/api/songs", `{"artist":"A","title":"T"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, string(models.ErrorKindDatabase), decode[services.ErrorBody](t, rec).Error)
	})

	t.Run("update", func(t *testing.T) {
		mock := newMock()
		rec := do(t, newTestServer(t, mock), http.MethodPut, "/api/songs/2", `{"artist":"Brel","title":"Amsterdam"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Brel", mock.Updated[2].Artist)
	})

	t.Run("update unknown song", func(t *testing.T) {
		rec := do(t, newTestServer(t, newMock()), http.MethodPut, "/api/songs/77", `{"artist":"Brel","title":"X"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("favorite round trip", func(t *testing.T) {
		h := newTestServer(t, newMock())

		first := decode[services.FavoriteResult](t, do(t, h, http.MethodPost, "/api/songs/1/favorite", ""))
		second := decode[services.FavoriteResult](t, do(t, h, http.MethodPost, "/api/songs/1/favorite", ""))
		assert.True(t, first.Favorite)
		assert.False(t, second.Favorite)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := do(t, newTestServer(t, newMock()), http.MethodDelete, "/api/songs/1", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestChordRoutes(t *testing.T) {
	h := newTestServer(t, newMock())

	t.Run("lookup", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/chords/lookup?name=Cmaj7", "")
		require.Equal(t, http.StatusOK, rec.Code)
		result := decode[ChordLookup](t, rec)
		assert.Equal(t, "x32000", result.Fingering)
		assert.True(t, result.Valid)
		assert.NotEmpty(t, result.Diagram)
	})

	t.Run("unknown chord", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/chords/lookup?name=Q9", "")
		require.Equal(t, http.StatusOK, rec.Code)
		result := decode[ChordLookup](t, rec)
		assert.Empty(t, result.Fingering)
		assert.False(t, result.Valid)
	})

	t.Run("missing name", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/chords/lookup", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("suggestions", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/chords/suggestions?in_use=C,%20Am", "")
		require.Equal(t, http.StatusOK, rec.Code)
		s := decode[chords.Suggestions](t, rec)
		require.Len(t, s.Groups, 12)

		disabled := map[string]bool{}
		for _, g := range s.Groups {
			for _, c := range g.Chords {
				if c.Disabled {
					disabled[c.Chord] = true
				}
			}
		}
		assert.Equal(t, map[string]bool{"C": true, "Am": true}, disabled)
	})
}

func TestLyricsRoute(t *testing.T) {
	h := newTestServer(t, newMock())

	rec := do(t, h, http.MethodPost, "/api/lyrics/segments", `{"lyrics":"one\ntwo"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	segments := decode[[]lyrics.Segment](t, rec)
	require.Len(t, segments, 2)
	assert.Equal(t, "two", segments[1].Line)

	rec = do(t, h, http.MethodPost, "/api/lyrics/segments", `{"lyrics":""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestMiddleware(t *testing.T) {
	t.Run("request id is echoed", func(t *testing.T) {
		h := newTestServer(t, newMock())
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(RequestIDHeader, "req-1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))
	})

	t.Run("cors preflight", func(t *testing.T) {
		h := newTestServer(t, newMock())
		rec := do(t, h, http.MethodOptions, "/api/songs/1", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("writes are rate limited", func(t *testing.T) {
		cfg := testConfig()
		cfg.Server.RateLimit = 0.001
		cfg.Server.Burst = 1
		h := New(cfg, newMock(), shared.NewLogger(&bytes.Buffer{})).Handler()

		assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/songs/1/favorite", "").Code)
		assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodPost, "/api/songs/1/favorite", "").Code)
		assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/songs/1", "").Code, "reads are not limited")
	})

	t.Run("panic recovery", func(t *testing.T) {
		var logs bytes.Buffer
		router := NewBasicRouter()
		router.Use(Recover(shared.NewLogger(&logs)))
		router.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, logs.String(), "handler panic")
	})

	t.Run("middleware order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("first"), mark("second"))
		router.Handle("get", "/x", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, []string{"first", "second"}, order)
	})
}

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	require.NoError(t, err)
	require.NoError(t, shared.RunMigrations(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestServeWithLibrary(t *testing.T) {
	var logs bytes.Buffer
	logger := shared.NewLogger(&logs)
	lib := services.NewLibrary(setupTestDB(t), nil, logger)
	srv := New(testConfig(), lib, logger)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	client := services.NewAPIClient("http://"+ln.Addr().String(), nil)

	id, err := client.CreateSong(context.Background(), models.Submission{
		Artist: "Barbara", Title: "Nantes", Lyrics: "[Chorus]\nIl pleut",
		Chords: []models.ChordEntry{{Chord: "Am", Fingering: "x02210"}},
	})
	require.NoError(t, err)

	details, err := client.SongDetails(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Barbara", details.ArtistName)
	require.Len(t, details.Chords, 1)

	on, err := client.ToggleFavorite(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, on)

	_, err = client.CreateSong(context.Background(), models.Submission{Artist: "Barbara"})
	assert.Equal(t, models.ErrorKindValidation, models.KindOf(err))

	_, err = client.SongDetails(context.Background(), 999)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	home, err := services.LoadHome(context.Background(), client, 5)
	require.NoError(t, err)
	assert.Len(t, home.Recent, 1)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
	assert.Contains(t, logs.String(), "request")
}
