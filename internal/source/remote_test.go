package source

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestGalleryServer(t *testing.T) *httptest.Server {
	t.Helper()

	var fixture bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	if err := png.Encode(&fixture, img); err != nil {
		t.Fatalf("encoding fixture image: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/image.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(fixture.Bytes())
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><img id="screenshot-image" src="/image.png"></body></html>`)
	})
	return httptest.NewServer(mux)
}

func TestNewRemoteSourceFetchesInitialImage(t *testing.T) {
	srv := newTestGalleryServer(t)
	defer srv.Close()

	src, err := NewRemoteSource(
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithWorkerPool(1, 2, 2),
		WithTakeTimeout(2*time.Second),
	)
	if err != nil {
		t.Fatalf("NewRemoteSource: %v", err)
	}
	defer src.Shutdown()

	if src.CurrentID() == "" {
		t.Error("expected a non-empty CurrentID after construction")
	}
	if src.CurrentContent() == nil {
		t.Error("expected non-nil CurrentContent after construction")
	}
}

func TestRemoteSourceNextAdvances(t *testing.T) {
	srv := newTestGalleryServer(t)
	defer srv.Close()

	src, err := NewRemoteSource(
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithWorkerPool(2, 2, 4),
		WithTakeTimeout(2*time.Second),
	)
	if err != nil {
		t.Fatalf("NewRemoteSource: %v", err)
	}
	defer src.Shutdown()

	first := src.CurrentID()
	if err := src.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if src.CurrentID() == first {
		t.Error("expected Next to advance to a different id")
	}
}

func TestRemoteSourceConstructionFailsWhenGalleryUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewRemoteSource(
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithTakeTimeout(200*time.Millisecond),
	)
	if err == nil {
		t.Error("expected NewRemoteSource to fail when no image is ever available before the take-timeout")
	}
}
