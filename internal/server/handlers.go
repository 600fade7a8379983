package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/songsheet/internal/chords"
	"github.com/desertthunder/songsheet/internal/lyrics"
	"github.com/desertthunder/songsheet/internal/models"
	"github.com/desertthunder/songsheet/internal/scroll"
	"github.com/desertthunder/songsheet/internal/services"
	"github.com/desertthunder/songsheet/internal/shared"
	"github.com/desertthunder/songsheet/internal/store"
)

// NewHealthHandler serves the liveness probe.
func NewHealthHandler() Handler {
	rt := newRoutes()
	rt.handle("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return rt
}

// SongHandler serves artists, songs, form options and scroll pacing.
type SongHandler struct {
	*routes
	svc    services.SongService
	scroll shared.ScrollConfig
}

// NewSongHandler creates a SongHandler backed by svc.
func NewSongHandler(svc services.SongService, scrollCfg shared.ScrollConfig) *SongHandler {
	h := &SongHandler{routes: newRoutes(), svc: svc, scroll: scrollCfg}

	h.handle("GET /api/options", h.options)
	h.handle("GET /api/artists", h.listArtists)
	h.handle("GET /api/artists/random", h.randomArtist)
	h.handle("GET /api/artists/{id}/songs", h.artistSongs)
	h.handle("GET /api/songs", h.listSongs)
	h.handle("GET /api/songs/recent", h.recentSongs)
	h.handle("GET /api/songs/popular", h.popularSongs)
	h.handle("GET /api/songs/{id}", h.songDetails)
	h.handle("GET /api/songs/{id}/sections", h.songSections)
	h.handle("GET /api/songs/{id}/scroll", h.songScroll)
	h.handle("POST /api/songs", h.createSong)
	h.handle("PUT /api/songs/{id}", h.updateSong)
	h.handle("POST /api/songs/{id}/favorite", h.toggleFavorite)

	return h
}

func (h *SongHandler) options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.Options())
}

func (h *SongHandler) listArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := h.svc.ListArtists(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(artists))
}

func (h *SongHandler) randomArtist(w http.ResponseWriter, r *http.Request) {
	artist, err := h.svc.RandomArtist(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (h *SongHandler) artistSongs(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	songs, err := h.svc.ListArtistSongs(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(songs))
}

// listSongs returns every song, or with ?q= only songs whose title or artist matches.
func (h *SongHandler) listSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.svc.ListSongs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		writeJSON(w, http.StatusOK, nonNil(songs))
		return
	}

	artists, err := h.svc.ListArtists(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	matched := []*models.Partition{}
	for _, g := range store.Sidebar(artists, songs, term) {
		matched = append(matched, g.Songs...)
	}
	writeJSON(w, http.StatusOK, matched)
}

func (h *SongHandler) recentSongs(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.svc.RecentSongs)
}

func (h *SongHandler) popularSongs(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.svc.PopularSongs)
}

func (h *SongHandler) list(w http.ResponseWriter, r *http.Request, read func(ctx context.Context, limit int) ([]*models.Partition, error)) {
	limit, err := queryInt(r, "limit", services.DefaultListLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	songs, err := read(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(songs))
}

func (h *SongHandler) details(w http.ResponseWriter, r *http.Request) (*models.SongDetails, bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	details, err := h.svc.SongDetails(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return details, true
}

func (h *SongHandler) songDetails(w http.ResponseWriter, r *http.Request) {
	if details, ok := h.details(w, r); ok {
		writeJSON(w, http.StatusOK, details)
	}
}

// songSections returns the parsed lyrics as JSON segments, or rendered with ?format=text|markdown|html.
func (h *SongHandler) songSections(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	var renderer lyrics.Renderer
	if format != "json" {
		var err error
		if renderer, err = lyrics.NewRenderer(format); err != nil {
			writeError(w, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err))
			return
		}
	}

	details, ok := h.details(w, r)
	if !ok {
		return
	}

	segments := lyrics.Parse(details.Lyrics)
	if renderer == nil {
		writeJSON(w, http.StatusOK, nonNil(segments))
		return
	}

	out, err := lyrics.RenderString(renderer, segments)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

var contentTypes = map[string]string{
	lyrics.FormatText:     "text/plain; charset=utf-8",
	lyrics.FormatMarkdown: "text/markdown; charset=utf-8",
	lyrics.FormatHTML:     "text/html; charset=utf-8",
}

// ScrollPlan tells a client how to auto-scroll a song.
type ScrollPlan struct {
	SongID     int64   `json:"song_id"`
	Tempo      string  `json:"tempo"`
	BPM        int     `json:"bpm"`
	Multiplier float64 `json:"multiplier"`
	Offset     float64 `json:"offset"`
	IntervalMS int     `json:"interval_ms"`
	Tolerance  float64 `json:"tolerance"`
}

func (h *SongHandler) songScroll(w http.ResponseWriter, r *http.Request) {
	multiplier := 1.0
	if raw := r.URL.Query().Get("multiplier"); raw != "" {
		m, err := parseFloat(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		multiplier = m
	}

	details, ok := h.details(w, r)
	if !ok {
		return
	}

	pacer := scroll.New(details.Tempo)
	pacer.SetMultiplier(multiplier)

	writeJSON(w, http.StatusOK, ScrollPlan{
		SongID:     details.ID,
		Tempo:      details.Tempo,
		BPM:        pacer.BPM(),
		Multiplier: pacer.Multiplier(),
		Offset:     pacer.Offset(),
		IntervalMS: h.scroll.IntervalMS,
		Tolerance:  h.scroll.Tolerance,
	})
}

func (h *SongHandler) createSong(w http.ResponseWriter, r *http.Request) {
	var s models.Submission
	if err := decodeJSON(w, r, &s); err != nil {
		writeError(w, err)
		return
	}

	id, err := h.svc.CreateSong(r.Context(), s)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, services.SaveResult{ID: id, Warnings: s.Normalize().Warnings()})
}

func (h *SongHandler) updateSong(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var s models.Submission
	if err := decodeJSON(w, r, &s); err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.UpdateSong(r.Context(), id, s); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services.SaveResult{ID: id, Warnings: s.Normalize().Warnings()})
}

func (h *SongHandler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	favorite, err := h.svc.ToggleFavorite(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services.FavoriteResult{ID: id, Favorite: favorite})
}

// NewChordHandler serves the fingering catalog.
func NewChordHandler() Handler {
	rt := newRoutes()

	rt.handle("GET /api/chords/suggestions", func(w http.ResponseWriter, r *http.Request) {
		var inUse []string
		for _, c := range strings.Split(r.URL.Query().Get("in_use"), ",") {
			if c = strings.TrimSpace(c); c != "" {
				inUse = append(inUse, c)
			}
		}
		writeJSON(w, http.StatusOK, chords.Suggest(inUse))
	})

	rt.handle("GET /api/chords/lookup", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if name == "" {
			writeError(w, shared.ErrMissingArgument)
			return
		}

		result := ChordLookup{Chord: name, Fingering: chords.Lookup(name), Valid: models.ValidChordName(name)}
		if result.Fingering != "" {
			if diagram, err := chords.Diagram(result.Fingering); err == nil {
				result.Diagram = diagram
			}
		}
		writeJSON(w, http.StatusOK, result)
	})

	return rt
}

// ChordLookup is the body of a chord lookup. Unknown chords have an empty fingering.
type ChordLookup struct {
	Chord     string `json:"chord"`
	Fingering string `json:"fingering"`
	Valid     bool   `json:"valid"`
	Diagram   string `json:"diagram,omitempty"`
}

// LyricsRequest is the body of a segment preview.
type LyricsRequest struct {
	Lyrics string `json:"lyrics"`
}

// NewLyricsHandler parses lyrics without storing them, for editor previews.
func NewLyricsHandler() Handler {
	rt := newRoutes()

	rt.handle("POST /api/lyrics/segments", func(w http.ResponseWriter, r *http.Request) {
		var req LyricsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(lyrics.Parse(req.Lyrics)))
	})

	return rt
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
