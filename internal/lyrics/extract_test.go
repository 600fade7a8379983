package lyrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const page = `<html><body>
<h1>La mauvaise réputation</h1>
<pre class="chords">[Verse 1]<br>Am         E<br>Au village, sans prétention   <br><br><br><br>[Chorus]<br>refrain</pre>
</body></html>`

func TestExtractHTML(t *testing.T) {
	t.Run("pre block", func(t *testing.T) {
		got, err := ExtractHTML(strings.NewReader(page), "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "[Verse 1]\nAm         E\nAu village, sans prétention\n\n[Chorus]\nrefrain"
		if got != want {
			t.Errorf("unexpected text:\n%q\nwant:\n%q", got, want)
		}

		segments := Parse(got)
		if len(segments) != 2 || segments[1].SectionKey != "Chorus" {
			t.Errorf("extracted text should parse into two sections, got %+v", segments)
		}
	})

	t.Run("custom selector", func(t *testing.T) {
		got, err := ExtractHTML(strings.NewReader(page), "h1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "La mauvaise réputation" {
			t.Errorf("unexpected text %q", got)
		}
	})

	t.Run("no match", func(t *testing.T) {
		_, err := ExtractHTML(strings.NewReader(page), "article")
		if !errors.Is(err, ErrNoLyrics) {
			t.Errorf("expected ErrNoLyrics, got %v", err)
		}
	})
}

func TestFetchHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	got, err := FetchHTML(context.Background(), srv.Client(), srv.URL+"/song", "pre")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "[Verse 1]") {
		t.Errorf("unexpected text %q", got)
	}

	if _, err := FetchHTML(context.Background(), srv.Client(), srv.URL+"/missing", "pre"); err == nil {
		t.Error("expected error for 404")
	}
}
