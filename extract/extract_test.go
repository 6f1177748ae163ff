package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/avrilemay/braille-newsletter/retry"
)

const para1 = "Le gouvernement a présenté mardi un plan d'investissement dans les technologies d'accessibilité, destiné aux personnes aveugles et malvoyantes."
const para2 = "Les associations saluent une avancée importante, tout en rappelant que la transcription en braille des documents publics reste encore trop rare."

func articlePage() string {
	return fmt.Sprintf(`<!doctype html><html><head><title>Accessibilité</title></head><body>
<nav><ul><li><a href="/">Menu principal</a></li></ul></nav>
<article><h1>Un plan pour l'accessibilité</h1>
<p>%s</p>
<p>%s</p>
<p>%s %s</p>
</article>
<footer>Mentions légales</footer>
</body></html>`, para1, para2, para1, para2)
}

func newTestExtractor() *HTTPExtractor {
	e := NewHTTPExtractor()
	e.Retry = retry.Config{MaxAttempts: 3, Delay: time.Millisecond}
	return e
}

func TestExtractArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, articlePage())
	}))
	defer srv.Close()

	text, err := newTestExtractor().Extract(context.Background(), srv.URL+"/article.html")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if !strings.Contains(text, para1) || !strings.Contains(text, para2) {
		t.Fatalf("paragraphs missing from %q", text)
	}
	if strings.Contains(text, "<p>") || strings.Contains(text, "Menu principal") {
		t.Fatalf("markup or navigation leaked: %q", text)
	}
}

func TestExtractGenericContent(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(articlePage()))
	if err != nil {
		t.Fatal(err)
	}
	want := para1 + "\n\n" + para2 + "\n\n" + para1 + " " + para2
	if got := extractGenericContent(doc); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExtractFallsBackToSelectors(t *testing.T) {
	e := newTestExtractor()
	e.MinChars = 1 << 20
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articlePage())
	}))
	defer srv.Close()

	text, err := e.Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if !strings.Contains(text, para1+"\n\n"+para2) {
		t.Fatalf("unexpected fallback text %q", text)
	}
}

func TestExtractRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, articlePage())
	}))
	defer srv.Close()

	if _, err := newTestExtractor().Extract(context.Background(), srv.URL); err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestExtractNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := newTestExtractor().Extract(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404")
	}
	if calls.Load() != 1 {
		t.Fatalf("404 should not be retried, got %d calls", calls.Load())
	}
}

func TestExtractEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body></body></html>`)
	}))
	defer srv.Close()

	_, err := newTestExtractor().Extract(context.Background(), srv.URL)
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

func TestExtractInvalidURL(t *testing.T) {
	if _, err := newTestExtractor().Extract(context.Background(), "not a url"); err == nil {
		t.Fatal("expected error")
	}
}

func TestClean(t *testing.T) {
	in := "  Premier\t paragraphe \r\n\r\n\r\n\n Second  paragraphe  \n"
	want := "Premier paragraphe\n\nSecond paragraphe"
	if got := Clean(in); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
